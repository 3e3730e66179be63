package polarization

import (
	"fmt"

	"github.com/dd0wney/cluso-polarity/pkg/algorithms"
	"github.com/dd0wney/cluso-polarity/pkg/graph"
	"github.com/dd0wney/cluso-polarity/pkg/partition"
)

// ClassifyNodes assigns every node of h, the subgraph induced by the two
// communities of pair, a Role:
//
//   - a node with no neighbor in the other community is Interior;
//   - a node with such a neighbor and at least one same-community neighbor
//     that has no outside neighbor is Boundary;
//   - any other node is Excluded, or Boundary under BoundaryAmbiguous.
//
// The result depends only on h, p and the policy.
func ClassifyNodes(h *graph.Graph, p partition.Strategy, pair partition.Pair, policy AmbiguityPolicy) (*Classification, error) {
	if h.Directed() {
		return nil, algorithms.ErrInvalidGraphKind
	}

	nodes := h.Nodes()
	community := make(map[string]int, len(nodes))
	for _, v := range nodes {
		c, ok := p.CommunityOf(v)
		if !ok || !pair.Contains(c) {
			return nil, fmt.Errorf("%w: node %q in pair %s", ErrNodeOutsidePair, v, pair)
		}
		community[v] = c
	}

	// Condition 1 for every node up front so Condition 2 is order independent
	touchesOther := make(map[string]bool, len(nodes))
	for _, v := range nodes {
		for _, u := range h.Neighbors(v) {
			if community[u] != community[v] {
				touchesOther[v] = true
				break
			}
		}
	}

	c := &Classification{
		Pair:      pair,
		Policy:    policy,
		Excluded:  make([]string, 0),
		roles:     make(map[string]Role, len(nodes)),
		community: community,
	}
	for i := range c.Boundary {
		c.Boundary[i] = make([]string, 0)
		c.Interior[i] = make([]string, 0)
	}

	for _, v := range nodes {
		side := c.side(v)

		if !touchesOther[v] {
			c.roles[v] = Interior
			c.Interior[side] = append(c.Interior[side], v)
			continue
		}

		if hasInteriorAlly(h, v, community, touchesOther) || policy == BoundaryAmbiguous {
			c.roles[v] = Boundary
			c.Boundary[side] = append(c.Boundary[side], v)
			continue
		}

		c.roles[v] = Excluded
		c.Excluded = append(c.Excluded, v)
	}

	return c, nil
}

// hasInteriorAlly reports whether v has a same-community neighbor without
// any neighbor outside that community.
func hasInteriorAlly(h *graph.Graph, v string, community map[string]int, touchesOther map[string]bool) bool {
	for _, u := range h.Neighbors(v) {
		if u == v || community[u] != community[v] {
			continue
		}
		if !touchesOther[u] {
			return true
		}
	}
	return false
}
