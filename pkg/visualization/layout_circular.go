package visualization

import (
	"math"

	"github.com/dd0wney/cluso-polarity/pkg/graph"
	"github.com/dd0wney/cluso-polarity/pkg/partition"
)

// CircularLayout arranges nodes in a circle
type CircularLayout struct {
	config *LayoutConfig
}

// NewCircularLayout creates a new circular layout
func NewCircularLayout(config *LayoutConfig) *CircularLayout {
	applyDefaults(config)
	return &CircularLayout{config: config}
}

// ComputeLayout arranges nodes in a circle in the given order
func (cl *CircularLayout) ComputeLayout(_ *graph.Graph, nodes []string) (map[string]Position, error) {
	positions := make(map[string]Position, len(nodes))
	if len(nodes) == 0 {
		return positions, nil
	}

	center := Position{X: cl.config.Width / 2, Y: cl.config.Height / 2}
	radius := math.Min(center.X, center.Y) - cl.config.Padding

	for i, pos := range ring(center, radius, len(nodes)) {
		positions[nodes[i]] = pos
	}
	return positions, nil
}

// CommunityLayout places each community on its own small circle, with the
// community centres spread on a large circle.
type CommunityLayout struct {
	config    *LayoutConfig
	partition partition.Strategy
}

// NewCommunityLayout creates a layout grouped by the communities of p.
func NewCommunityLayout(config *LayoutConfig, p partition.Strategy) *CommunityLayout {
	applyDefaults(config)
	return &CommunityLayout{config: config, partition: p}
}

// ComputeLayout groups nodes by community. Nodes without a community
// share one extra group.
func (cl *CommunityLayout) ComputeLayout(_ *graph.Graph, nodes []string) (map[string]Position, error) {
	positions := make(map[string]Position, len(nodes))
	if len(nodes) == 0 {
		return positions, nil
	}

	const unassigned = -1
	var order []int
	groups := make(map[int][]string)
	for _, n := range nodes {
		c, ok := cl.partition.CommunityOf(n)
		if !ok {
			c = unassigned
		}
		if _, seen := groups[c]; !seen {
			order = append(order, c)
		}
		groups[c] = append(groups[c], n)
	}

	center := Position{X: cl.config.Width / 2, Y: cl.config.Height / 2}
	outer := math.Min(center.X, center.Y) - cl.config.Padding
	inner := outer / 2
	if len(order) > 1 {
		// Neighbouring groups must not overlap
		inner = math.Min(inner, outer*math.Sin(math.Pi/float64(len(order))))
		outer -= inner
	}

	centres := ring(center, outer, len(order))
	for i, c := range order {
		members := groups[c]
		for j, pos := range ring(centres[i], inner*0.8, len(members)) {
			positions[members[j]] = pos
		}
	}
	return positions, nil
}
