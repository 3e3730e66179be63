package api

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dd0wney/cluso-polarity/pkg/config"
	"github.com/dd0wney/cluso-polarity/pkg/engine"
	"github.com/dd0wney/cluso-polarity/pkg/graphql"
	"github.com/dd0wney/cluso-polarity/pkg/health"
	"github.com/dd0wney/cluso-polarity/pkg/logging"
	"github.com/dd0wney/cluso-polarity/pkg/metrics"
)

// DefaultMaxBodyBytes caps request bodies, mostly GraphQL queries
const DefaultMaxBodyBytes = 1 << 20

// Runner computes a fresh report. The server calls it at startup and on
// every rerun request.
type Runner func(ctx context.Context) (*engine.Report, error)

// Server serves the latest scoring report over HTTP
type Server struct {
	runner  Runner
	report  atomic.Pointer[engine.Report]
	running sync.Mutex // held for the duration of a run

	mu         sync.RWMutex
	finishedAt time.Time
	lastErr    error

	config       config.ServerConfig
	logger       logging.Logger
	metrics      *metrics.Registry
	health       *health.HealthChecker
	limits       *graphql.LimitConfig
	maxAge       time.Duration
	maxBodyBytes int64

	handler http.Handler
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the server logger
func WithLogger(logger logging.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics exposes registry on /metrics and records HTTP metrics in it
func WithMetrics(registry *metrics.Registry) Option {
	return func(s *Server) {
		s.metrics = registry
	}
}

// WithGraphQLLimits overrides the pagination and depth limits of /graphql
func WithGraphQLLimits(limits *graphql.LimitConfig) Option {
	return func(s *Server) {
		s.limits = limits
	}
}

// WithMaxReportAge degrades readiness once the report is older than d
func WithMaxReportAge(d time.Duration) Option {
	return func(s *Server) {
		s.maxAge = d
	}
}

// WithMaxBodyBytes sets the request body limit
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}
