package engine

import (
	"strconv"

	"github.com/dd0wney/cluso-polarity/pkg/partition"
)

// Metric names used in logs, metrics and reports.
const (
	MetricPolarization = "polarization"
	MetricModularity   = "modularity"
)

// Score is a metric value that may be undefined for degenerate input.
type Score struct {
	Value   float64 `json:"value" yaml:"value"`
	Defined bool    `json:"defined" yaml:"defined"`
	Reason  string  `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Defined returns a defined score.
func Defined(v float64) Score {
	return Score{Value: v, Defined: true}
}

// Undefined returns an undefined score with the reason.
func Undefined(reason string) Score {
	return Score{Reason: reason}
}

// String formats the value with four decimals, or "undefined".
func (s Score) String() string {
	if !s.Defined {
		return "undefined"
	}
	return strconv.FormatFloat(s.Value, 'f', 4, 64)
}

// PairScore is the score of one community pair plus classification
// diagnostics. The node and edge counts are only filled for polarization.
type PairScore struct {
	Pair          partition.Pair `json:"pair" yaml:"pair"`
	Score         Score          `json:"score" yaml:"score"`
	BoundaryNodes int            `json:"boundary_nodes" yaml:"boundary_nodes"`
	InteriorNodes int            `json:"interior_nodes,omitempty" yaml:"interior_nodes,omitempty"`
	ExcludedNodes int            `json:"excluded_nodes,omitempty" yaml:"excluded_nodes,omitempty"`
	BoundaryEdges int            `json:"boundary_edges,omitempty" yaml:"boundary_edges,omitempty"`
	InteriorEdges int            `json:"interior_edges,omitempty" yaml:"interior_edges,omitempty"`
}
