package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dd0wney/cluso-polarity/pkg/api/middleware"
	"github.com/dd0wney/cluso-polarity/pkg/config"
	"github.com/dd0wney/cluso-polarity/pkg/engine"
	"github.com/dd0wney/cluso-polarity/pkg/graphql"
	"github.com/dd0wney/cluso-polarity/pkg/health"
	"github.com/dd0wney/cluso-polarity/pkg/logging"
)

var (
	// ErrNoRunner is returned by NewServer without a Runner
	ErrNoRunner = errors.New("api: runner is required")

	// ErrRunInProgress is returned by Refresh while another run is active
	ErrRunInProgress = errors.New("api: a scoring run is already in progress")
)

// NewServer creates a server around runner. No report is available until
// the first successful Refresh.
func NewServer(runner Runner, cfg config.ServerConfig, opts ...Option) (*Server, error) {
	if runner == nil {
		return nil, ErrNoRunner
	}

	s := &Server{
		runner:       runner,
		config:       cfg,
		logger:       logging.NewNopLogger(),
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logging.Component("api"))
	if s.limits == nil {
		s.limits = graphql.DefaultLimitConfig()
	}

	schema, err := graphql.NewSchema(s, s.limits)
	if err != nil {
		return nil, fmt.Errorf("api: graphql schema: %w", err)
	}

	s.health = health.NewHealthChecker()
	s.health.RegisterReadinessCheck("report", health.ReportCheck(s.lastFinished, s.maxAge))
	s.health.RegisterReadinessCheck("last_run", health.RunCheck(s.LastError))
	s.health.RegisterLivenessCheck("server", health.SimpleCheck("server"))
	s.health.RegisterLivenessCheck("memory", health.MemoryCheck(0))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.health.HTTPHandler())
	mux.HandleFunc("GET /health/ready", s.health.ReadinessHandler())
	mux.HandleFunc("GET /health/live", s.health.LivenessHandler())
	mux.Handle("/graphql", graphql.NewGraphQLHandler(schema, s.limits.MaxDepth))
	mux.HandleFunc("GET /api/v1/report", s.handleReport)
	mux.HandleFunc("GET /api/v1/summary", s.handleSummary)
	mux.HandleFunc("GET /api/v1/pairs/{a}/{b}", s.handlePair)
	mux.HandleFunc("POST /api/v1/runs", s.handleRun)

	chain := []func(http.Handler) http.Handler{
		middleware.PanicRecovery(s.logger),
		middleware.RequestID(),
		middleware.Logging(s.logger),
	}
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
		chain = append(chain, middleware.Metrics(s.metrics))
	}
	chain = append(chain,
		middleware.SecurityHeaders(),
		middleware.BodySizeLimit(s.maxBodyBytes),
	)
	s.handler = middleware.Chain(mux, chain...)

	return s, nil
}

// Handler returns the HTTP handler of the server
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Report returns the latest successful report, or nil before the first run.
func (s *Server) Report() *engine.Report {
	return s.report.Load()
}

// LastError returns the error of the most recent run, nil if it succeeded.
func (s *Server) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Server) lastFinished() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.finishedAt, !s.finishedAt.IsZero()
}

// Refresh runs the runner and publishes its report. A failed run keeps the
// previous report. Only one run executes at a time; a concurrent call
// returns ErrRunInProgress.
func (s *Server) Refresh(ctx context.Context) (*engine.Report, error) {
	if !s.running.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.running.Unlock()

	start := time.Now()
	r, err := s.runner(ctx)
	if err == nil && r == nil {
		err = errors.New("api: runner returned no report")
	}

	s.mu.Lock()
	s.lastErr = err
	if err == nil {
		s.finishedAt = time.Now()
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("scoring run failed", logging.Error(err), logging.Latency(time.Since(start)))
		return nil, err
	}

	s.report.Store(r)
	s.logger.Info("report published",
		logging.RunID(r.RunID),
		logging.Count(len(r.Polarization)),
		logging.Latency(time.Since(start)))
	return r, nil
}

// HTTPServer returns an http.Server for the configured address and
// timeouts.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.handler,
		ReadTimeout:       s.config.ReadTimeout,
		ReadHeaderTimeout: s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}
