package algorithms

import (
	"fmt"

	"github.com/dd0wney/cluso-polarity/pkg/graph"
	"github.com/dd0wney/cluso-polarity/pkg/partition"
)

// Modularity computes weighted modularity
//
//	Q = Σ_c [ inc(c)/L − (deg(c)/(2L))² ]
//
// where L is the total edge weight, deg(c) the summed degree of c's nodes
// (self-loops twice) and inc(c) the weight of edges inside c. Communities
// are summed in order of first appearance in the graph's node order, so
// the result is reproducible bit for bit.
func Modularity(g *graph.Graph, p partition.Strategy) (float64, error) {
	if g.Directed() {
		return 0, ErrInvalidGraphKind
	}

	links := g.Size()
	if links == 0 {
		return 0, fmt.Errorf("%w: modularity of a graph with zero total edge weight", ErrUndefinedMetric)
	}

	order := make([]int, 0)
	inc := make(map[int]float64)
	deg := make(map[int]float64)

	for _, node := range g.Nodes() {
		c, ok := p.CommunityOf(node)
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrNodeUnassigned, node)
		}
		if _, seen := deg[c]; !seen {
			order = append(order, c)
		}
		deg[c] += g.Degree(node)

		for _, nb := range g.Neighbors(node) {
			nc, ok := p.CommunityOf(nb)
			if !ok {
				return 0, fmt.Errorf("%w: %q", ErrNodeUnassigned, nb)
			}
			if nc != c {
				continue
			}
			w, _ := g.Weight(node, nb)
			if nb == node {
				inc[c] += w
			} else {
				// Each non-loop edge is visited from both endpoints
				inc[c] += w / 2
			}
		}
	}

	q := 0.0
	for _, c := range order {
		d := deg[c] / (2 * links)
		q += inc[c]/links - d*d
	}
	return q, nil
}

// PairModularity computes the modularity of the subgraph induced by the
// two communities of pair, with the partition restricted to that subgraph.
func PairModularity(g *graph.Graph, p partition.Strategy, pair partition.Pair) (float64, error) {
	if g.Directed() {
		return 0, ErrInvalidGraphKind
	}
	h, restricted := partition.PairSubgraph(g, p, pair)
	return Modularity(h, restricted)
}
