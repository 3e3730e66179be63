package algorithms

import (
	"context"

	"github.com/dd0wney/cluso-polarity/pkg/graph"
)

// LabelPropagation performs label propagation for community detection.
// Nodes are visited in graph order and label ties go to the label seen
// first among the node's neighbors, so runs are reproducible.
// Fast, scalable algorithm for large graphs
func LabelPropagation(ctx context.Context, g *graph.Graph, maxIterations int) (*CommunityDetectionResult, error) {
	nodes := g.Nodes()

	// Initialize: each node in its own community
	labels := make(map[string]int, len(nodes))
	for i, nodeID := range nodes {
		labels[nodeID] = i
	}

	// Incoming neighbors for directed graphs
	incoming := make(map[string][]string)
	if g.Directed() {
		for _, e := range g.Edges() {
			if !e.IsSelfLoop() {
				incoming[e.To] = append(incoming[e.To], e.From)
			}
		}
	}

	// Iterate until convergence or max iterations
	for iter := 0; iter < maxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		changed := false

		for _, nodeID := range nodes {
			// Count weighted neighbor labels in first-seen order
			order := make([]int, 0)
			labelWeight := make(map[int]float64)

			count := func(neighbor string, w float64) {
				if neighbor == nodeID {
					return
				}
				l := labels[neighbor]
				if _, ok := labelWeight[l]; !ok {
					order = append(order, l)
				}
				labelWeight[l] += w
			}
			for _, nb := range g.Neighbors(nodeID) {
				w, _ := g.Weight(nodeID, nb)
				count(nb, w)
			}
			for _, nb := range incoming[nodeID] {
				w, _ := g.Weight(nb, nodeID)
				count(nb, w)
			}

			// Find most frequent label; keep the current one on ties
			maxLabel := labels[nodeID]
			maxWeight := labelWeight[maxLabel]
			for _, label := range order {
				if labelWeight[label] > maxWeight {
					maxWeight = labelWeight[label]
					maxLabel = label
				}
			}

			// Update label if changed
			if maxLabel != labels[nodeID] {
				labels[nodeID] = maxLabel
				changed = true
			}
		}

		if !changed {
			break // Converged
		}
	}

	return newDetectionResult(g, nodes, renumberByNodeOrder(nodes, labels))
}
