package visualization

import (
	"math"
	"math/rand"

	"github.com/dd0wney/cluso-polarity/pkg/graph"
)

// ForceDirectedLayout implements Fruchterman-Reingold style layout
type ForceDirectedLayout struct {
	config *LayoutConfig
}

// NewForceDirectedLayout creates a new force-directed layout
func NewForceDirectedLayout(config *LayoutConfig) *ForceDirectedLayout {
	if config.Iterations == 0 {
		config.Iterations = 50
	}
	applyDefaults(config)
	return &ForceDirectedLayout{config: config}
}

// ComputeLayout computes positions using force-directed algorithm. The
// result depends only on the graph, the node order and the seed.
func (fdl *ForceDirectedLayout) ComputeLayout(g *graph.Graph, nodes []string) (map[string]Position, error) {
	if len(nodes) == 0 {
		return make(map[string]Position), nil
	}

	if len(nodes) == 1 {
		return map[string]Position{
			nodes[0]: {X: fdl.config.Width / 2, Y: fdl.config.Height / 2},
		}, nil
	}

	cfg := fdl.config
	rng := rand.New(rand.NewSource(cfg.Seed))
	index := make(map[string]int, len(nodes))
	pos := make([]Position, len(nodes))
	for i, id := range nodes {
		index[id] = i
		pos[i] = Position{
			X: rng.Float64()*(cfg.Width-2*cfg.Padding) + cfg.Padding,
			Y: rng.Float64()*(cfg.Height-2*cfg.Padding) + cfg.Padding,
		}
	}

	// Undirected adjacency restricted to the laid out nodes
	adj := make([][]int, len(nodes))
	for i, id := range nodes {
		for _, nb := range g.Neighbors(id) {
			if j, ok := index[nb]; ok && j != i {
				adj[i] = append(adj[i], j)
			}
		}
	}

	k := math.Sqrt((cfg.Width * cfg.Height) / float64(len(nodes))) // Optimal distance
	temperature := cfg.Width / 10.0
	forces := make([]Position, len(nodes))

	for iter := 0; iter < cfg.Iterations; iter++ {
		for i := range forces {
			forces[i] = Position{}
		}

		// Repulsion between all nodes
		for i := range pos {
			for j := i + 1; j < len(pos); j++ {
				dx := pos[i].X - pos[j].X
				dy := pos[i].Y - pos[j].Y
				dist := math.Max(math.Sqrt(dx*dx+dy*dy), 0.01)

				force := (k * k) / dist
				fx := (dx / dist) * force
				fy := (dy / dist) * force
				forces[i].X += fx
				forces[i].Y += fy
				forces[j].X -= fx
				forces[j].Y -= fy
			}
		}

		// Attraction along edges
		for i, nbs := range adj {
			for _, j := range nbs {
				dx := pos[i].X - pos[j].X
				dy := pos[i].Y - pos[j].Y
				dist := math.Sqrt(dx*dx + dy*dy)
				if dist < 0.01 {
					continue
				}

				force := (dist * dist) / k
				forces[i].X -= (dx / dist) * force
				forces[i].Y -= (dy / dist) * force
			}
		}

		cool := 1.0 - float64(iter)/float64(cfg.Iterations)
		for i, f := range forces {
			force := math.Sqrt(f.X*f.X + f.Y*f.Y)
			if force > 0 {
				step := math.Min(force, temperature) * cool
				pos[i].X += (f.X / force) * step
				pos[i].Y += (f.Y / force) * step
			}
		}

		temperature *= 0.95
	}

	positions := make(map[string]Position, len(nodes))
	for i, id := range nodes {
		positions[id] = pos[i]
	}
	return normalizePositions(positions, cfg.Width, cfg.Height, cfg.Padding), nil
}
