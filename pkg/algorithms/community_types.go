package algorithms

import (
	"github.com/dd0wney/cluso-polarity/pkg/graph"
)

// Community represents a detected community
type Community struct {
	ID      int      `json:"id"`
	Nodes   []string `json:"nodes"`
	Size    int      `json:"size"`
	Density float64  `json:"density"` // Edge density within community
}

// CommunityDetectionResult contains detected communities
type CommunityDetectionResult struct {
	Communities   []*Community
	Modularity    float64        // Quality measure of the partitioning
	NodeCommunity map[string]int // Node ID -> Community ID
}

// CommunityOf implements partition.Strategy.
func (r *CommunityDetectionResult) CommunityOf(node string) (int, bool) {
	c, ok := r.NodeCommunity[node]
	return c, ok
}

// CommunityCount implements partition.Strategy.
func (r *CommunityDetectionResult) CommunityCount() int {
	return len(r.Communities)
}

// renumberByNodeOrder relabels communities 0..k-1 in order of the first
// node of each community.
func renumberByNodeOrder(nodes []string, labels map[string]int) map[string]int {
	ids := make(map[int]int)
	out := make(map[string]int, len(nodes))
	for _, n := range nodes {
		l := labels[n]
		id, ok := ids[l]
		if !ok {
			id = len(ids)
			ids[l] = id
		}
		out[n] = id
	}
	return out
}

// newDetectionResult groups nodes by their (0..k-1) community, fills in
// densities and computes the modularity when it is defined.
func newDetectionResult(g *graph.Graph, nodes []string, nodeCommunity map[string]int) (*CommunityDetectionResult, error) {
	communities := make([]*Community, 0)
	for _, n := range nodes {
		c := nodeCommunity[n]
		for len(communities) <= c {
			communities = append(communities, &Community{ID: len(communities), Nodes: make([]string, 0)})
		}
		communities[c].Nodes = append(communities[c].Nodes, n)
	}

	internal := make([]int, len(communities))
	for _, e := range g.Edges() {
		if e.IsSelfLoop() {
			continue
		}
		if cu, cv := nodeCommunity[e.From], nodeCommunity[e.To]; cu == cv {
			internal[cu]++
		}
	}

	for _, c := range communities {
		c.Size = len(c.Nodes)
		if c.Size > 1 {
			c.Density = float64(internal[c.ID]) / float64(c.Size*(c.Size-1)/2)
		}
	}

	result := &CommunityDetectionResult{
		Communities:   communities,
		NodeCommunity: nodeCommunity,
	}

	// Modularity is left at zero for edgeless graphs
	if q, err := Modularity(g, result); err == nil {
		result.Modularity = q
	}
	return result, nil
}
