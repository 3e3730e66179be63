package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var metric dto.Metric
	if err := g.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Gauge.GetValue()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	// Verify all metrics are initialized
	if r.HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal not initialized")
	}
	if r.PairsScoredTotal == nil {
		t.Error("PairsScoredTotal not initialized")
	}
	if r.GraphNodes == nil {
		t.Error("GraphNodes not initialized")
	}
	if r.UptimeSeconds == nil {
		t.Error("UptimeSeconds not initialized")
	}
	if r.registry == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	r := NewRegistry()

	r.RecordHTTPRequest("POST", "/graphql", "200", 100*time.Millisecond)
	r.RecordHTTPRequest("POST", "/graphql", "200", 20*time.Millisecond)
	r.RecordHTTPRequest("GET", "/health", "200", time.Millisecond)

	counter, err := r.HTTPRequestsTotal.GetMetricWithLabelValues("POST", "/graphql", "200")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	if v := counterValue(t, counter); v != 2 {
		t.Errorf("Counter value = %v, want 2", v)
	}
}

func TestRecordPairScore(t *testing.T) {
	r := NewRegistry()

	r.RecordPairScore("polarization", OutcomeDefined, 0.25, 4, time.Millisecond)
	r.RecordPairScore("polarization", OutcomeUndefined, 0, 0, time.Millisecond)
	r.RecordPairScore("modularity", OutcomeDefined, 0.1, 0, time.Millisecond)

	tests := []struct {
		metric, outcome string
		want            float64
	}{
		{"polarization", OutcomeDefined, 1},
		{"polarization", OutcomeUndefined, 1},
		{"modularity", OutcomeDefined, 1},
		{"modularity", OutcomeUndefined, 0},
	}
	for _, tt := range tests {
		c, err := r.PairsScoredTotal.GetMetricWithLabelValues(tt.metric, tt.outcome)
		if err != nil {
			t.Fatalf("Failed to get metric: %v", err)
		}
		if v := counterValue(t, c); v != tt.want {
			t.Errorf("%s/%s = %v, want %v", tt.metric, tt.outcome, v, tt.want)
		}
	}

	var metric dto.Metric
	if err := r.PairBoundaryNodes.Write(&metric); err != nil {
		t.Fatalf("Failed to write histogram: %v", err)
	}
	if metric.Histogram.GetSampleCount() != 2 {
		t.Errorf("Boundary histogram count = %d, want 2 (polarization only)", metric.Histogram.GetSampleCount())
	}
	if metric.Histogram.GetSampleSum() != 4 {
		t.Errorf("Boundary histogram sum = %v, want 4", metric.Histogram.GetSampleSum())
	}
}

func TestGaugeMetrics(t *testing.T) {
	r := NewRegistry()

	r.SetGraphStats(34, 78, 2)
	r.SetModularity(0.3715)

	if v := gaugeValue(t, r.GraphNodes); v != 34 {
		t.Errorf("GraphNodes = %v, want 34", v)
	}
	if v := gaugeValue(t, r.GraphEdges); v != 78 {
		t.Errorf("GraphEdges = %v, want 78", v)
	}
	if v := gaugeValue(t, r.GraphCommunities); v != 2 {
		t.Errorf("GraphCommunities = %v, want 2", v)
	}
	if v := gaugeValue(t, r.GraphModularity); v != 0.3715 {
		t.Errorf("GraphModularity = %v, want 0.3715", v)
	}
}

func TestRecordRun(t *testing.T) {
	r := NewRegistry()
	r.RecordRun("success", time.Second)
	r.RecordRun("error", time.Second)
	r.RecordDetection("louvain", 10*time.Millisecond)

	c, _ := r.RunsTotal.GetMetricWithLabelValues("success")
	if v := counterValue(t, c); v != 1 {
		t.Errorf("RunsTotal{success} = %v, want 1", v)
	}
}

func TestSystemMetrics(t *testing.T) {
	r := NewRegistry()
	r.UpdateSystemMetrics()

	if v := gaugeValue(t, r.GoRoutines); v <= 0 {
		t.Errorf("GoRoutines = %v, want > 0", v)
	}
	if v := gaugeValue(t, r.MemorySysBytes); v <= 0 {
		t.Errorf("MemorySysBytes = %v, want > 0", v)
	}
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.RecordPairScore("polarization", OutcomeDefined, 0, 2, time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, name := range []string{"polarity_pairs_scored_total", "polarity_goroutines"} {
		if !strings.Contains(body, name) {
			t.Errorf("Expected %s in scrape output", name)
		}
	}
}

func TestWriteTextfile(t *testing.T) {
	r := NewRegistry()
	r.SetGraphStats(4, 3, 2)

	path := filepath.Join(t.TempDir(), "polarity.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), "polarity_graph_nodes 4") {
		t.Errorf("Expected graph node gauge in textfile, got:\n%s", data)
	}
}

func TestGetPrometheusRegistry(t *testing.T) {
	r := NewRegistry()
	if r.GetPrometheusRegistry() == nil {
		t.Fatal("GetPrometheusRegistry() returned nil")
	}

	families, err := r.GetPrometheusRegistry().Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	if len(families) == 0 {
		t.Error("Expected gathered metric families")
	}
}
