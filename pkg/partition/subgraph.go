package partition

import "github.com/dd0wney/cluso-polarity/pkg/graph"

// Subgraph returns the subgraph of g induced by the nodes whose community is
// one of ids, together with the partition restricted to those nodes.
// Neither g nor p is modified.
func Subgraph(g *graph.Graph, p Strategy, ids ...int) (*graph.Graph, *Partition) {
	want := make(map[int]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	keep := func(node string) bool {
		c, ok := p.CommunityOf(node)
		return ok && want[c]
	}

	h := g.Induced(keep)

	mapping := make(map[string]int, h.NodeCount())
	for _, node := range h.Nodes() {
		c, _ := p.CommunityOf(node)
		mapping[node] = c
	}
	// Every node of h passed keep, so the restricted partition is total.
	restricted, _ := New(h.Nodes(), mapping)
	return h, restricted
}

// PairSubgraph is Subgraph for the two communities of pair.
func PairSubgraph(g *graph.Graph, p Strategy, pair Pair) (*graph.Graph, *Partition) {
	return Subgraph(g, p, pair.A, pair.B)
}
