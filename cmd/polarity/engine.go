package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dd0wney/cluso-polarity/pkg/algorithms"
	"github.com/dd0wney/cluso-polarity/pkg/engine"
	"github.com/dd0wney/cluso-polarity/pkg/graph"
	"github.com/dd0wney/cluso-polarity/pkg/logging"
	"github.com/dd0wney/cluso-polarity/pkg/partition"
	"github.com/dd0wney/cluso-polarity/pkg/polarization"
)

func (a *app) loadGraph(ctx context.Context) (*graph.Graph, error) {
	if a.cfg.Input.Graph == "" {
		return nil, errNoGraph
	}
	g, err := a.opener.LoadGraph(ctx, a.cfg.Input.Graph, a.cfg.Input.Directed)
	if err != nil {
		return nil, err
	}
	a.logger.Info("graph loaded",
		logging.Path(a.cfg.Input.Graph),
		logging.Int("nodes", g.NodeCount()),
		logging.Int("edges", g.EdgeCount()))
	return g, nil
}

func (a *app) detector() (partition.Detector, error) {
	c := a.cfg.Clustering
	return algorithms.NewDetector(algorithms.DetectorOptions{
		Method:        c.Algorithm,
		Seed:          c.Seed,
		Resolution:    c.Resolution,
		MaxLevels:     c.MaxLevels,
		MaxIterations: c.MaxIterations,
	})
}

// detect runs the configured community detection over g
func (a *app) detect(ctx context.Context, g *graph.Graph) (*partition.Assignment, error) {
	d, err := a.detector()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	assignment, err := partition.FromDetection(ctx, g, d)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	a.metrics.RecordDetection(a.cfg.Clustering.Algorithm, elapsed)
	a.logger.Info("communities detected",
		logging.String("method", a.cfg.Clustering.Algorithm),
		logging.Count(assignment.Partition.CommunityCount()),
		logging.Latency(elapsed))
	return assignment, nil
}

// newEngine loads the inputs and builds an engine. Without a community
// file the communities are detected.
func (a *app) newEngine(ctx context.Context) (*engine.Engine, error) {
	g, err := a.loadGraph(ctx)
	if err != nil {
		return nil, err
	}

	policy, err := polarization.ParseAmbiguityPolicy(a.cfg.Scoring.Ambiguous)
	if err != nil {
		return nil, err
	}
	opts := []engine.Option{
		engine.WithLogger(a.logger),
		engine.WithMetrics(a.metrics),
		engine.WithWorkers(a.cfg.Scoring.Workers),
		engine.WithAmbiguityPolicy(policy),
	}

	if a.cfg.Input.Communities != "" {
		list, err := a.opener.LoadCommunities(ctx, a.cfg.Input.Communities)
		if err != nil {
			return nil, err
		}
		return engine.NewFromCommunityList(g, list, opts...)
	}

	if g.Directed() {
		// Reject before spending time on detection
		return nil, fmt.Errorf("engine: %w", algorithms.ErrInvalidGraphKind)
	}
	assignment, err := a.detect(ctx, g)
	if err != nil {
		return nil, err
	}
	return engine.New(g, assignment, opts...)
}

// run builds a fresh engine and scores every pair. Servers and the
// browser call it again for reruns so changed inputs are picked up.
func (a *app) run(ctx context.Context) (*engine.Report, error) {
	e, err := a.newEngine(ctx)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx)
}
