package visualization

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-polarity/pkg/graph"
	"github.com/dd0wney/cluso-polarity/pkg/partition"
	"github.com/dd0wney/cluso-polarity/pkg/polarization"
)

// ErrUnknownAlgorithm is returned by NewLayout for unknown names.
var ErrUnknownAlgorithm = errors.New("visualization: unknown layout algorithm")

// NewLayout returns the layout named algorithm. The community layout
// groups nodes by p.
func NewLayout(algorithm string, config *LayoutConfig, p partition.Strategy) (Layout, error) {
	switch algorithm {
	case AlgorithmForce, "":
		return NewForceDirectedLayout(config), nil
	case AlgorithmCircular:
		return NewCircularLayout(config), nil
	case AlgorithmCommunity:
		if p == nil {
			return nil, fmt.Errorf("visualization: %s layout needs a partition", algorithm)
		}
		return NewCommunityLayout(config, p), nil
	case AlgorithmHierarchical:
		return NewHierarchicalLayout(config), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownAlgorithm, algorithm)
	}
}

// Build lays out every node of g. When c is non-nil the nodes carry their
// role for that pair.
func Build(g *graph.Graph, p partition.Strategy, c *polarization.Classification, layout Layout, config LayoutConfig) (*Visualization, error) {
	nodes := g.Nodes()
	positions, err := layout.ComputeLayout(g, nodes)
	if err != nil {
		return nil, err
	}

	v := &Visualization{
		Nodes:     make([]NodeView, len(nodes)),
		Edges:     g.Edges(),
		Positions: positions,
		Width:     config.Width,
		Height:    config.Height,
	}
	for i, id := range nodes {
		view := NodeView{ID: id, Community: -1}
		if p != nil {
			if comm, ok := p.CommunityOf(id); ok {
				view.Community = comm
			}
		}
		if c != nil {
			if role, ok := c.Role(id); ok {
				view.Role = role.String()
			}
		}
		v.Nodes[i] = view
	}
	return v, nil
}

// ExportJSON exports the visualization to JSON
func (v *Visualization) ExportJSON() ([]byte, error) {
	type NodeViz struct {
		ID        string  `json:"id"`
		Community int     `json:"community"`
		Role      string  `json:"role,omitempty"`
		X         float64 `json:"x"`
		Y         float64 `json:"y"`
	}

	type EdgeViz struct {
		From   string  `json:"from"`
		To     string  `json:"to"`
		Weight float64 `json:"weight"`
	}

	type VizData struct {
		Width  float64   `json:"width"`
		Height float64   `json:"height"`
		Nodes  []NodeViz `json:"nodes"`
		Edges  []EdgeViz `json:"edges"`
	}

	data := VizData{
		Width:  v.Width,
		Height: v.Height,
		Nodes:  make([]NodeViz, 0, len(v.Nodes)),
		Edges:  make([]EdgeViz, 0, len(v.Edges)),
	}

	for _, node := range v.Nodes {
		pos := v.Positions[node.ID]
		data.Nodes = append(data.Nodes, NodeViz{
			ID:        node.ID,
			Community: node.Community,
			Role:      node.Role,
			X:         pos.X,
			Y:         pos.Y,
		})
	}

	for _, edge := range v.Edges {
		data.Edges = append(data.Edges, EdgeViz{
			From:   edge.From,
			To:     edge.To,
			Weight: edge.Weight,
		})
	}

	return json.Marshal(data)
}
