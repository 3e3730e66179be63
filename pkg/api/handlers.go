package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-polarity/pkg/logging"
	"github.com/dd0wney/cluso-polarity/pkg/report"
	"github.com/dd0wney/cluso-polarity/pkg/validation"
)

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("encoding JSON response failed", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

func (s *Server) respondNoReport(w http.ResponseWriter) {
	w.Header().Set("Retry-After", "5")
	s.respondError(w, http.StatusServiceUnavailable, "No report computed yet")
}

var contentTypes = map[string]string{
	report.FormatJSON:        "application/json",
	report.FormatYAML:        "application/yaml",
	report.FormatTable:       "text/plain; charset=utf-8",
	report.FormatCommunities: "text/plain; charset=utf-8",
}

// handleReport writes the report in the format of the "format" query
// parameter, JSON by default.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rep := s.Report()
	if rep == nil {
		s.respondNoReport(w)
		return
	}

	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = report.FormatJSON
	}

	// Render first so a format error can still produce a clean response
	var buf bytes.Buffer
	if err := report.Write(&buf, rep, format); err != nil {
		if errors.Is(err, report.ErrUnknownFormat) {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("rendering report failed", logging.Error(err))
		s.respondError(w, http.StatusInternalServerError, "rendering report failed")
		return
	}

	if ct, ok := contentTypes[format]; ok {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	rep := s.Report()
	if rep == nil {
		s.respondNoReport(w)
		return
	}
	s.respondJSON(w, http.StatusOK, rep.Summarize())
}

// handlePair looks up a pair in either orientation
func (s *Server) handlePair(w http.ResponseWriter, r *http.Request) {
	a, errA := strconv.Atoi(r.PathValue("a"))
	b, errB := strconv.Atoi(r.PathValue("b"))
	if errA != nil || errB != nil {
		s.respondError(w, http.StatusBadRequest, "community IDs must be integers")
		return
	}
	if err := validation.ValidatePair(a, b); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	rep := s.Report()
	if rep == nil {
		s.respondNoReport(w)
		return
	}

	pol, mod, ok := rep.Lookup(a, b)
	if !ok {
		s.respondError(w, http.StatusNotFound, "pair not found")
		return
	}

	resp := PairResponse{A: pol.Pair.A, B: pol.Pair.B, Polarization: *pol}
	if mod != nil {
		resp.Modularity = *mod
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// handleRun recomputes the report synchronously
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	rep, err := s.Refresh(r.Context())
	switch {
	case errors.Is(err, ErrRunInProgress):
		s.respondError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		s.respondError(w, http.StatusInternalServerError, "scoring run failed")
		return
	}

	s.respondJSON(w, http.StatusCreated, RunResponse{
		RunID:    rep.RunID,
		Duration: rep.Duration.String(),
		Summary:  rep.Summarize(),
	})
}
