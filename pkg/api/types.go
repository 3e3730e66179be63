package api

import (
	"github.com/dd0wney/cluso-polarity/pkg/engine"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// PairResponse is the score card of one community pair
type PairResponse struct {
	A            int              `json:"a"`
	B            int              `json:"b"`
	Polarization engine.PairScore `json:"polarization"`
	Modularity   engine.PairScore `json:"modularity"`
}

// RunResponse describes a finished scoring run
type RunResponse struct {
	RunID    string         `json:"run_id"`
	Duration string         `json:"duration"`
	Summary  engine.Summary `json:"summary"`
}
