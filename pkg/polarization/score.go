package polarization

import (
	"fmt"

	"github.com/dd0wney/cluso-polarity/pkg/graph"
	"github.com/dd0wney/cluso-polarity/pkg/partition"
)

// Reasons reported for undefined scores.
const (
	ReasonNoBoundary      = "no boundary nodes"
	ReasonZeroDenominator = "boundary node without boundary or interior edges"
)

// Result is the polarization of one community pair. Value is meaningful
// only when Defined is true; otherwise Reason says why.
type Result struct {
	Value   float64
	Defined bool
	Reason  string

	BoundaryNodes int
	InteriorNodes int
	ExcludedNodes int
	BoundaryEdges int
	InteriorEdges int
}

// Score averages d_i/(d_b+d_i) − 0.5 over the boundary nodes of c, where
// d_b and d_i count the boundary and interior edges incident to a node.
// Defined scores lie in [−0.5, 0.5].
func Score(c *Classification, edges *EdgeSets) Result {
	r := Result{
		BoundaryNodes: c.BoundaryCount(),
		InteriorNodes: c.InteriorCount(),
		ExcludedNodes: len(c.Excluded),
		BoundaryEdges: len(edges.Boundary),
		InteriorEdges: len(edges.Interior),
	}

	boundary := c.BoundaryNodes()
	if len(boundary) == 0 {
		r.Reason = ReasonNoBoundary
		return r
	}

	db, di := edges.incidence()
	sum := 0.0
	for _, v := range boundary {
		total := db[v] + di[v]
		if total == 0 {
			r.Reason = fmt.Sprintf("%s: %q", ReasonZeroDenominator, v)
			return r
		}
		sum += float64(di[v])/float64(total) - 0.5
	}

	r.Value = sum / float64(len(boundary))
	r.Defined = true
	return r
}

// ScorePair extracts the subgraph of pair from g and scores it.
func ScorePair(g *graph.Graph, p partition.Strategy, pair partition.Pair, policy AmbiguityPolicy) (Result, error) {
	h, restricted := partition.PairSubgraph(g, p, pair)

	c, err := ClassifyNodes(h, restricted, pair, policy)
	if err != nil {
		return Result{}, err
	}
	return Score(c, ClassifyEdges(h, c)), nil
}
