package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initScoringMetrics() {
	r.PairsScoredTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "polarity_pairs_scored_total",
			Help: "Community pairs scored, by metric and outcome",
		},
		[]string{"metric", "outcome"},
	)

	r.PairScoreDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "polarity_pair_score_duration_seconds",
			Help:    "Time to score one community pair",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
		[]string{"metric"},
	)

	r.PairBoundaryNodes = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "polarity_pair_boundary_nodes",
			Help:    "Boundary nodes per scored community pair",
			Buckets: []float64{0, 1, 2, 5, 10, 50, 100, 500, 1000},
		},
	)

	r.PairScoreValue = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "polarity_pair_score_value",
			Help:    "Distribution of defined per-pair scores",
			Buckets: prometheus.LinearBuckets(-0.5, 0.1, 11),
		},
		[]string{"metric"},
	)

	r.RunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "polarity_runs_total",
			Help: "Scoring runs, by status",
		},
		[]string{"status"},
	)

	r.RunDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "polarity_run_duration_seconds",
			Help:    "Duration of a full scoring run",
			Buckets: prometheus.DefBuckets,
		},
	)

	r.GraphModularity = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "polarity_graph_modularity",
			Help: "Whole-graph modularity of the latest run",
		},
	)

	r.DetectionDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "polarity_detection_duration_seconds",
			Help:    "Community detection time, by method",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
}

func (r *Registry) initGraphMetrics() {
	r.GraphNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "polarity_graph_nodes",
			Help: "Nodes in the loaded graph",
		},
	)

	r.GraphEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "polarity_graph_edges",
			Help: "Edges in the loaded graph",
		},
	)

	r.GraphCommunities = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "polarity_graph_communities",
			Help: "Distinct communities in the partition",
		},
	)
}
