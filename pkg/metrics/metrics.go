package metrics

import (
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry:  reg,
		startTime: time.Now(),
	}

	// Initialize all metrics
	r.initHTTPMetrics()
	r.initScoringMetrics()
	r.initGraphMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format. System
// gauges are refreshed on every scrape.
func (r *Registry) Handler() http.Handler {
	inner := promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.UpdateSystemMetrics()
		inner.ServeHTTP(w, req)
	})
}

// WriteTextfile writes the current metrics to path for the node exporter
// textfile collector. Batch commands use it instead of a scrape endpoint.
func (r *Registry) WriteTextfile(path string) error {
	r.UpdateSystemMetrics()
	return prometheus.WriteToTextfile(path, r.registry)
}

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordResponseSize records the size of an HTTP response body
func (r *Registry) RecordResponseSize(method, path string, size float64) {
	r.HTTPResponseSizeBytes.WithLabelValues(method, path).Observe(size)
}

// IncHTTPRequestsInFlight marks the start of a request
func (r *Registry) IncHTTPRequestsInFlight() {
	r.HTTPRequestsInFlight.Inc()
}

// DecHTTPRequestsInFlight marks the end of a request
func (r *Registry) DecHTTPRequestsInFlight() {
	r.HTTPRequestsInFlight.Dec()
}

// RecordPairScore records one per-pair score. value is ignored unless the
// outcome is OutcomeDefined.
func (r *Registry) RecordPairScore(metric, outcome string, value float64, boundaryNodes int, duration time.Duration) {
	r.PairsScoredTotal.WithLabelValues(metric, outcome).Inc()
	r.PairScoreDuration.WithLabelValues(metric).Observe(duration.Seconds())
	if metric == "polarization" {
		r.PairBoundaryNodes.Observe(float64(boundaryNodes))
	}
	if outcome == OutcomeDefined {
		r.PairScoreValue.WithLabelValues(metric).Observe(value)
	}
}

// RecordRun records a completed scoring run
func (r *Registry) RecordRun(status string, duration time.Duration) {
	r.RunsTotal.WithLabelValues(status).Inc()
	r.RunDuration.Observe(duration.Seconds())
}

// RecordDetection records a community detection run
func (r *Registry) RecordDetection(method string, duration time.Duration) {
	r.DetectionDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// SetGraphStats updates the gauges describing the loaded graph
func (r *Registry) SetGraphStats(nodes, edges, communities int) {
	r.GraphNodes.Set(float64(nodes))
	r.GraphEdges.Set(float64(edges))
	r.GraphCommunities.Set(float64(communities))
}

// SetModularity records the whole-graph modularity of the latest run
func (r *Registry) SetModularity(q float64) {
	r.GraphModularity.Set(q)
}

// UpdateSystemMetrics refreshes runtime gauges
func (r *Registry) UpdateSystemMetrics() {
	r.mu.Lock()
	defer r.mu.Unlock()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	r.UptimeSeconds.Set(time.Since(r.startTime).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(m.Alloc))
	r.MemorySysBytes.Set(float64(m.Sys))
}
