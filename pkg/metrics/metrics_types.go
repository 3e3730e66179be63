package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values for scored pairs
const (
	OutcomeDefined   = "defined"
	OutcomeUndefined = "undefined"
	OutcomeError     = "error"
)

// Registry holds all metrics for the application
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestsInFlight  prometheus.Gauge
	HTTPResponseSizeBytes *prometheus.HistogramVec

	// Scoring Metrics
	PairsScoredTotal  *prometheus.CounterVec
	PairScoreDuration *prometheus.HistogramVec
	PairBoundaryNodes prometheus.Histogram
	PairScoreValue    *prometheus.HistogramVec
	RunsTotal         *prometheus.CounterVec
	RunDuration       prometheus.Histogram
	GraphModularity   prometheus.Gauge
	DetectionDuration *prometheus.HistogramVec

	// Graph Metrics
	GraphNodes       prometheus.Gauge
	GraphEdges       prometheus.Gauge
	GraphCommunities prometheus.Gauge

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

	registry  *prometheus.Registry
	startTime time.Time
	mu        sync.RWMutex
}
