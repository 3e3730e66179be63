// Package engine scores every community pair of a partitioned graph for
// polarization and modularity.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-polarity/pkg/algorithms"
	"github.com/dd0wney/cluso-polarity/pkg/graph"
	"github.com/dd0wney/cluso-polarity/pkg/logging"
	"github.com/dd0wney/cluso-polarity/pkg/metrics"
	"github.com/dd0wney/cluso-polarity/pkg/parallel"
	"github.com/dd0wney/cluso-polarity/pkg/partition"
	"github.com/dd0wney/cluso-polarity/pkg/polarization"
)

// ErrNilInput is returned by New when the graph or assignment is missing.
var ErrNilInput = errors.New("engine: graph and assignment are required")

// Engine scores an immutable graph and partition. It is safe for
// concurrent use.
type Engine struct {
	graph      *graph.Graph
	assignment *partition.Assignment
	pairs      []partition.Pair

	logger  logging.Logger
	metrics *metrics.Registry
	workers int
	policy  polarization.AmbiguityPolicy
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards output.
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics records scores in r.
func WithMetrics(r *metrics.Registry) Option {
	return func(e *Engine) { e.metrics = r }
}

// WithWorkers sets how many pairs are scored concurrently. One reproduces
// the sequential order of work; results are ordered the same either way.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// WithAmbiguityPolicy sets how ambiguous nodes are classified.
func WithAmbiguityPolicy(p polarization.AmbiguityPolicy) Option {
	return func(e *Engine) { e.policy = p }
}

// New validates the inputs and enumerates the community pairs. Directed
// graphs and partitions that do not cover the graph are rejected.
func New(g *graph.Graph, a *partition.Assignment, opts ...Option) (*Engine, error) {
	if g == nil || a == nil || a.Partition == nil {
		return nil, ErrNilInput
	}
	if g.Directed() {
		return nil, fmt.Errorf("engine: %w", algorithms.ErrInvalidGraphKind)
	}
	if a.Partition.Len() != g.NodeCount() {
		return nil, fmt.Errorf("engine: %w: partition covers %d nodes, graph has %d",
			partition.ErrPartitionFormat, a.Partition.Len(), g.NodeCount())
	}
	for _, n := range g.Nodes() {
		if _, ok := a.Partition.CommunityOf(n); !ok {
			return nil, fmt.Errorf("engine: %w: node %q", algorithms.ErrNodeUnassigned, n)
		}
	}

	e := &Engine{
		graph:      g,
		assignment: a,
		pairs:      partition.Pairs(a.Communities),
		logger:     logging.NewNopLogger(),
		workers:    1,
		policy:     polarization.ExcludeAmbiguous,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers < 1 {
		e.workers = 1
	}
	e.logger = e.logger.With(logging.Component("engine"))
	return e, nil
}

// NewFromCommunityList builds an engine from a community file's contents.
func NewFromCommunityList(g *graph.Graph, list partition.CommunityList, opts ...Option) (*Engine, error) {
	a, err := partition.FromCommunityList(g, list)
	if err != nil {
		return nil, err
	}
	return New(g, a, opts...)
}

// NewFromDetection runs d over g and builds an engine from the result.
func NewFromDetection(ctx context.Context, g *graph.Graph, d partition.Detector, opts ...Option) (*Engine, error) {
	if g == nil {
		return nil, ErrNilInput
	}
	if g.Directed() {
		return nil, fmt.Errorf("engine: %w", algorithms.ErrInvalidGraphKind)
	}
	a, err := partition.FromDetection(ctx, g, d)
	if err != nil {
		return nil, err
	}
	return New(g, a, opts...)
}

// Graph returns the scored graph.
func (e *Engine) Graph() *graph.Graph { return e.graph }

// Assignment returns the partition being scored.
func (e *Engine) Assignment() *partition.Assignment { return e.assignment }

// Pairs returns the community pairs in scoring order.
func (e *Engine) Pairs() []partition.Pair {
	out := make([]partition.Pair, len(e.pairs))
	copy(out, e.pairs)
	return out
}

// Policy returns the ambiguity policy in use.
func (e *Engine) Policy() polarization.AmbiguityPolicy { return e.policy }

// Polarization scores every pair. Undefined pairs are reported, not
// returned as errors.
func (e *Engine) Polarization(ctx context.Context) ([]PairScore, error) {
	return e.scorePairs(ctx, MetricPolarization, e.polarizationOf)
}

// PairModularity computes the modularity of every pair's induced subgraph.
func (e *Engine) PairModularity(ctx context.Context) ([]PairScore, error) {
	return e.scorePairs(ctx, MetricModularity, e.modularityOf)
}

// Modularity computes the whole-graph modularity.
func (e *Engine) Modularity() (float64, error) {
	return algorithms.Modularity(e.graph, e.assignment.Partition)
}

func (e *Engine) polarizationOf(pair partition.Pair) (PairScore, error) {
	r, err := polarization.ScorePair(e.graph, e.assignment.Partition, pair, e.policy)
	if err != nil {
		return PairScore{}, err
	}

	ps := PairScore{
		Pair:          pair,
		BoundaryNodes: r.BoundaryNodes,
		InteriorNodes: r.InteriorNodes,
		ExcludedNodes: r.ExcludedNodes,
		BoundaryEdges: r.BoundaryEdges,
		InteriorEdges: r.InteriorEdges,
	}
	if r.Defined {
		ps.Score = Defined(r.Value)
	} else {
		ps.Score = Undefined(r.Reason)
	}
	return ps, nil
}

func (e *Engine) modularityOf(pair partition.Pair) (PairScore, error) {
	q, err := algorithms.PairModularity(e.graph, e.assignment.Partition, pair)
	switch {
	case err == nil:
		return PairScore{Pair: pair, Score: Defined(q)}, nil
	case errors.Is(err, algorithms.ErrUndefinedMetric):
		return PairScore{Pair: pair, Score: Undefined("no edges between or within the pair")}, nil
	default:
		return PairScore{}, err
	}
}

// scorePairs runs score for every pair on the worker pool. Each task
// writes only its own slot, so the output follows e.pairs.
func (e *Engine) scorePairs(ctx context.Context, metric string, score func(partition.Pair) (PairScore, error)) ([]PairScore, error) {
	out := make([]PairScore, len(e.pairs))
	log := e.logger.With(logging.Metric(metric))

	err := parallel.ForEach(ctx, e.workers, len(e.pairs), func(_ context.Context, i int) error {
		pair := e.pairs[i]
		start := time.Now()

		ps, err := score(pair)
		if err != nil {
			e.record(metric, metrics.OutcomeError, ps, time.Since(start))
			return fmt.Errorf("%s of pair %s: %w", metric, pair, err)
		}
		out[i] = ps

		if ps.Score.Defined {
			e.record(metric, metrics.OutcomeDefined, ps, time.Since(start))
			log.Debug("pair scored",
				logging.Pair(pair.A, pair.B),
				logging.Float64("score", ps.Score.Value),
				logging.BoundaryNodes(ps.BoundaryNodes))
		} else {
			e.record(metric, metrics.OutcomeUndefined, ps, time.Since(start))
			log.Warn("pair score undefined",
				logging.Pair(pair.A, pair.B),
				logging.String("reason", ps.Score.Reason),
				logging.BoundaryNodes(ps.BoundaryNodes))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Engine) record(metric, outcome string, ps PairScore, d time.Duration) {
	if e.metrics == nil {
		return
	}
	e.metrics.RecordPairScore(metric, outcome, ps.Score.Value, ps.BoundaryNodes, d)
}

// Run computes per-pair polarization, per-pair modularity and whole-graph
// modularity. A whole-graph modularity that cannot be computed is recorded
// as an undefined score.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	runID := uuid.NewString()
	log := e.logger.With(logging.RunID(runID))
	timer := logging.StartTimer(log, "run finished",
		logging.Count(len(e.pairs)), logging.Workers(e.workers))

	report := &Report{
		RunID:       runID,
		StartedAt:   time.Now().UTC(),
		Nodes:       e.graph.NodeCount(),
		Edges:       e.graph.EdgeCount(),
		Communities: e.assignment.Communities.Distinct(),
		Policy:      e.policy.String(),
		Assignment:  append(partition.CommunityList(nil), e.assignment.Communities...),
	}
	if e.metrics != nil {
		e.metrics.SetGraphStats(report.Nodes, report.Edges, len(report.Communities))
	}

	fail := func(err error) (*Report, error) {
		timer.EndError(err)
		if e.metrics != nil {
			e.metrics.RecordRun("error", timer.Elapsed())
		}
		return nil, err
	}

	pol, err := e.Polarization(ctx)
	if err != nil {
		return fail(err)
	}
	report.Polarization = pol

	mod, err := e.PairModularity(ctx)
	if err != nil {
		return fail(err)
	}
	report.Modularity = mod

	q, err := e.Modularity()
	if err != nil {
		log.Warn("graph modularity undefined", logging.Error(err))
		report.GraphModularity = Undefined(err.Error())
	} else {
		report.GraphModularity = Defined(q)
		if e.metrics != nil {
			e.metrics.SetModularity(q)
		}
	}

	report.Duration = timer.Elapsed()
	timer.End(logging.Float64("graph_modularity", report.GraphModularity.Value))
	if e.metrics != nil {
		e.metrics.RecordRun("success", report.Duration)
	}
	return report, nil
}
