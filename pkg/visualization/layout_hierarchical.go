package visualization

import (
	"github.com/dd0wney/cluso-polarity/pkg/graph"
)

// HierarchicalLayout arranges nodes in breadth-first levels
type HierarchicalLayout struct {
	config *LayoutConfig
	roots  []string
}

// NewHierarchicalLayout creates a new hierarchical layout. Levels grow from
// roots; with no roots the first node of every component is used.
func NewHierarchicalLayout(config *LayoutConfig, roots ...string) *HierarchicalLayout {
	applyDefaults(config)
	return &HierarchicalLayout{config: config, roots: roots}
}

// ComputeLayout places BFS level i on row i
func (hl *HierarchicalLayout) ComputeLayout(g *graph.Graph, nodes []string) (map[string]Position, error) {
	positions := make(map[string]Position, len(nodes))
	if len(nodes) == 0 {
		return positions, nil
	}

	include := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		include[n] = true
	}

	levels := make([][]string, 0)
	visited := make(map[string]bool, len(nodes))
	bfs := func(start []string) {
		current := make([]string, 0, len(start))
		for _, r := range start {
			if include[r] && !visited[r] {
				visited[r] = true
				current = append(current, r)
			}
		}
		for depth := 0; len(current) > 0; depth++ {
			if depth == len(levels) {
				levels = append(levels, nil)
			}
			levels[depth] = append(levels[depth], current...)

			next := make([]string, 0)
			for _, n := range current {
				for _, nb := range g.Neighbors(n) {
					if include[nb] && !visited[nb] {
						visited[nb] = true
						next = append(next, nb)
					}
				}
			}
			current = next
		}
	}

	if len(hl.roots) > 0 {
		bfs(hl.roots)
	}
	for _, n := range nodes {
		if !visited[n] {
			if len(hl.roots) > 0 {
				// Unreachable from the roots: bottom row
				if len(levels) == 0 {
					levels = append(levels, nil)
				}
				visited[n] = true
				levels[len(levels)-1] = append(levels[len(levels)-1], n)
				continue
			}
			bfs([]string{n})
		}
	}

	levelHeight := (hl.config.Height - 2*hl.config.Padding) / float64(len(levels))
	levelWidth := hl.config.Width - 2*hl.config.Padding

	for levelIdx, level := range levels {
		y := hl.config.Padding + float64(levelIdx)*levelHeight + levelHeight/2
		spacing := levelWidth / float64(len(level)+1)
		for nodeIdx, id := range level {
			positions[id] = Position{X: hl.config.Padding + spacing*float64(nodeIdx+1), Y: y}
		}
	}

	return positions, nil
}
