// Package visualization lays out partitioned graphs and renders them as
// SVG or JSON, coloured by community.
package visualization

import (
	"github.com/dd0wney/cluso-polarity/pkg/graph"
)

// Layout algorithm names.
const (
	AlgorithmForce        = "force"
	AlgorithmCircular     = "circular"
	AlgorithmCommunity    = "community"
	AlgorithmHierarchical = "hierarchical"
)

// Position represents a 2D coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayoutConfig configures layout parameters
type LayoutConfig struct {
	Width      float64 // Canvas width
	Height     float64 // Canvas height
	Iterations int     // Number of iterations for iterative algorithms
	Padding    float64 // Padding from edges
	Seed       int64   // Seed for initial positions
}

// Layout computes node positions for a graph.
type Layout interface {
	ComputeLayout(g *graph.Graph, nodes []string) (map[string]Position, error)
}

// Visualization represents a graph visualization with layout
type Visualization struct {
	Nodes     []NodeView
	Edges     []graph.Edge
	Positions map[string]Position
	Width     float64
	Height    float64
}

// NodeView is a node with its community and, when a pair was classified,
// its role.
type NodeView struct {
	ID        string
	Community int
	Role      string
}
