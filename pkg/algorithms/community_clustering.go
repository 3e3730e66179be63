package algorithms

import (
	"github.com/dd0wney/cluso-polarity/pkg/graph"
)

// ClusteringCoefficient computes local clustering coefficient for all nodes
// Measures how close a node's neighbors are to being a complete graph.
// Self-loops are ignored.
func ClusteringCoefficient(g *graph.Graph) (map[string]float64, error) {
	if g.Directed() {
		return nil, ErrInvalidGraphKind
	}

	coefficients := make(map[string]float64, g.NodeCount())

	for _, nodeID := range g.Nodes() {
		neighbors := make([]string, 0)
		for _, nb := range g.Neighbors(nodeID) {
			if nb != nodeID {
				neighbors = append(neighbors, nb)
			}
		}

		if len(neighbors) < 2 {
			coefficients[nodeID] = 0.0
			continue
		}

		// Count triangles among neighbor pairs
		triangles := 0
		for i := 0; i < len(neighbors); i++ {
			for j := i + 1; j < len(neighbors); j++ {
				if g.HasEdge(neighbors[i], neighbors[j]) {
					triangles++
				}
			}
		}

		// Clustering coefficient = actual triangles / possible triangles
		k := len(neighbors)
		possibleTriangles := k * (k - 1) / 2
		coefficients[nodeID] = float64(triangles) / float64(possibleTriangles)
	}

	return coefficients, nil
}

// AverageClusteringCoefficient computes the average clustering coefficient
func AverageClusteringCoefficient(g *graph.Graph) (float64, error) {
	coefficients, err := ClusteringCoefficient(g)
	if err != nil {
		return 0.0, err
	}

	if len(coefficients) == 0 {
		return 0.0, nil
	}

	// Sum in node order
	sum := 0.0
	for _, id := range g.Nodes() {
		sum += coefficients[id]
	}

	return sum / float64(len(coefficients)), nil
}
