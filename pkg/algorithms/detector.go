package algorithms

import (
	"context"
	"fmt"

	"github.com/dd0wney/cluso-polarity/pkg/graph"
	"github.com/dd0wney/cluso-polarity/pkg/partition"
)

// Detection method names accepted by NewDetector.
const (
	MethodLouvain          = "louvain"
	MethodLabelPropagation = "label_propagation"
	MethodComponents       = "components"
)

// DefaultMaxIterations bounds label propagation when no limit is given.
const DefaultMaxIterations = 100

// DetectorOptions selects and tunes a community detection method.
type DetectorOptions struct {
	Method        string
	Seed          int64
	Resolution    float64
	MaxLevels     int
	MaxIterations int
}

// LouvainDetector adapts Louvain to partition.Detector.
type LouvainDetector struct {
	Options LouvainOptions
}

// Detect implements partition.Detector.
func (d LouvainDetector) Detect(ctx context.Context, g *graph.Graph) (map[string]int, error) {
	result, err := Louvain(ctx, g, d.Options)
	if err != nil {
		return nil, err
	}
	return result.NodeCommunity, nil
}

// LabelPropagationDetector adapts LabelPropagation to partition.Detector.
type LabelPropagationDetector struct {
	MaxIterations int
}

// Detect implements partition.Detector.
func (d LabelPropagationDetector) Detect(ctx context.Context, g *graph.Graph) (map[string]int, error) {
	iterations := d.MaxIterations
	if iterations <= 0 {
		iterations = DefaultMaxIterations
	}
	result, err := LabelPropagation(ctx, g, iterations)
	if err != nil {
		return nil, err
	}
	return result.NodeCommunity, nil
}

// ComponentsDetector treats every connected component as a community.
type ComponentsDetector struct{}

// Detect implements partition.Detector.
func (ComponentsDetector) Detect(ctx context.Context, g *graph.Graph) (map[string]int, error) {
	result, err := ConnectedComponents(ctx, g)
	if err != nil {
		return nil, err
	}
	return result.NodeCommunity, nil
}

// NewDetector returns the detector named by opts.Method. An empty method
// selects Louvain.
func NewDetector(opts DetectorOptions) (partition.Detector, error) {
	switch opts.Method {
	case "", MethodLouvain:
		lo := DefaultLouvainOptions()
		lo.Seed = opts.Seed
		if opts.Resolution != 0 {
			lo.Resolution = opts.Resolution
		}
		lo.MaxLevels = opts.MaxLevels
		return LouvainDetector{Options: lo}, nil
	case MethodLabelPropagation:
		return LabelPropagationDetector{MaxIterations: opts.MaxIterations}, nil
	case MethodComponents:
		return ComponentsDetector{}, nil
	default:
		return nil, fmt.Errorf("algorithms: unknown detection method %q", opts.Method)
	}
}
