package polarization

import "github.com/dd0wney/cluso-polarity/pkg/graph"

// EdgeSets holds the classified edges of a community pair in graph edge
// order.
type EdgeSets struct {
	// Boundary edges join Boundary(A) to Boundary(B).
	Boundary []graph.Edge
	// Interior edges join Boundary(X) to Interior(X) within one community.
	Interior []graph.Edge
}

// ClassifyEdges sorts the edges of h into boundary and interior classes.
// Edges touching excluded nodes and edges between two nodes of the same
// role belong to neither.
func ClassifyEdges(h *graph.Graph, c *Classification) *EdgeSets {
	sets := &EdgeSets{
		Boundary: make([]graph.Edge, 0),
		Interior: make([]graph.Edge, 0),
	}

	for _, e := range h.Edges() {
		ru, okU := c.roles[e.From]
		rv, okV := c.roles[e.To]
		if !okU || !okV {
			continue
		}
		sameSide := c.side(e.From) == c.side(e.To)

		switch {
		case ru == Boundary && rv == Boundary && !sameSide:
			sets.Boundary = append(sets.Boundary, e)
		case sameSide && ((ru == Boundary && rv == Interior) || (ru == Interior && rv == Boundary)):
			sets.Interior = append(sets.Interior, e)
		}
	}

	return sets
}

// incidence counts the edges of each set incident to every node. A
// self-loop would count once, but neither set can hold one.
func (s *EdgeSets) incidence() (boundary, interior map[string]int) {
	boundary = make(map[string]int)
	interior = make(map[string]int)
	for _, e := range s.Boundary {
		boundary[e.From]++
		boundary[e.To]++
	}
	for _, e := range s.Interior {
		interior[e.From]++
		interior[e.To]++
	}
	return boundary, interior
}
