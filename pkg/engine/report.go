package engine

import (
	"time"

	"github.com/dd0wney/cluso-polarity/pkg/partition"
)

// Report is the result of a full scoring run. Pair scores follow the
// order of Pairs.
type Report struct {
	RunID       string        `json:"run_id" yaml:"run_id"`
	StartedAt   time.Time     `json:"started_at" yaml:"started_at"`
	Duration    time.Duration `json:"duration_ns" yaml:"duration"`
	Nodes       int           `json:"nodes" yaml:"nodes"`
	Edges       int           `json:"edges" yaml:"edges"`
	Communities []int         `json:"communities" yaml:"communities"`
	Policy      string        `json:"ambiguity_policy" yaml:"ambiguity_policy"`

	Polarization    []PairScore `json:"polarization" yaml:"polarization"`
	Modularity      []PairScore `json:"pair_modularity" yaml:"pair_modularity"`
	GraphModularity Score       `json:"graph_modularity" yaml:"graph_modularity"`

	// Assignment lists the community of node "i" at index i.
	Assignment partition.CommunityList `json:"assignment" yaml:"assignment"`
}

// Pairs returns the pairs of the report in scoring order.
func (r *Report) Pairs() []partition.Pair {
	out := make([]partition.Pair, len(r.Polarization))
	for i, ps := range r.Polarization {
		out[i] = ps.Pair
	}
	return out
}

// Lookup returns the polarization and modularity entries of pair, in
// either orientation.
func (r *Report) Lookup(a, b int) (polarization, modularity *PairScore, ok bool) {
	for i := range r.Polarization {
		p := r.Polarization[i].Pair
		if (p.A == a && p.B == b) || (p.A == b && p.B == a) {
			polarization = &r.Polarization[i]
			if i < len(r.Modularity) {
				modularity = &r.Modularity[i]
			}
			return polarization, modularity, true
		}
	}
	return nil, nil, false
}

// Summary aggregates the defined polarization scores.
type Summary struct {
	Pairs     int     `json:"pairs" yaml:"pairs"`
	Defined   int     `json:"defined" yaml:"defined"`
	Undefined int     `json:"undefined" yaml:"undefined"`
	Mean      float64 `json:"mean" yaml:"mean"`
	Min       float64 `json:"min" yaml:"min"`
	Max       float64 `json:"max" yaml:"max"`
}

// Summarize computes a Summary over the report's polarization scores.
func (r *Report) Summarize() Summary {
	s := Summary{Pairs: len(r.Polarization)}
	sum := 0.0
	for _, ps := range r.Polarization {
		if !ps.Score.Defined {
			s.Undefined++
			continue
		}
		v := ps.Score.Value
		if s.Defined == 0 || v < s.Min {
			s.Min = v
		}
		if s.Defined == 0 || v > s.Max {
			s.Max = v
		}
		s.Defined++
		sum += v
	}
	if s.Defined > 0 {
		s.Mean = sum / float64(s.Defined)
	}
	return s
}
