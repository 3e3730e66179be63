package algorithms

import (
	"container/list"
	"context"

	"github.com/dd0wney/cluso-polarity/pkg/graph"
)

// ConnectedComponents finds all connected components in the graph. Each
// component becomes a community, numbered in order of its first node.
func ConnectedComponents(ctx context.Context, g *graph.Graph) (*CommunityDetectionResult, error) {
	nodes := g.Nodes()

	// Directed graphs are treated as weakly connected
	reverse := make(map[string][]string)
	if g.Directed() {
		for _, e := range g.Edges() {
			reverse[e.To] = append(reverse[e.To], e.From)
		}
	}

	visited := make(map[string]bool, len(nodes))
	nodeCommunity := make(map[string]int, len(nodes))
	communityID := 0

	// BFS to find each component
	for _, start := range nodes {
		if visited[start] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		queue := list.New()
		queue.PushBack(start)
		visited[start] = true

		for queue.Len() > 0 {
			nodeID, ok := queue.Remove(queue.Front()).(string)
			if !ok {
				continue
			}
			nodeCommunity[nodeID] = communityID

			for _, nb := range append(g.Neighbors(nodeID), reverse[nodeID]...) {
				if !visited[nb] {
					visited[nb] = true
					queue.PushBack(nb)
				}
			}
		}

		communityID++
	}

	return newDetectionResult(g, nodes, nodeCommunity)
}
