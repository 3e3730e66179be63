package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-polarity/pkg/config"
	"github.com/dd0wney/cluso-polarity/pkg/logging"
	"github.com/dd0wney/cluso-polarity/pkg/metrics"
	"github.com/dd0wney/cluso-polarity/pkg/source"
)

// Version is set at build time with -ldflags "-X main.Version=..."
var Version = "dev"

// app carries the state shared by all commands
type app struct {
	configPath string
	flags      overrides

	cfg     *config.Config
	logger  logging.Logger
	metrics *metrics.Registry
	opener  *source.Opener
}

// overrides holds command-line values that win over the config file
type overrides struct {
	graph       string
	communities string
	directed    bool
	algorithm   string
	seed        int64
	workers     int
	ambiguous   string
	format      string
	output      string
	metricsFile string
	logLevel    string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "polarity",
		Short:         "Measure polarization between the communities of a graph",
		Version:       Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "YAML config file")
	pf.StringVarP(&a.flags.graph, "graph", "g", "", "edge list (path, file:// or s3:// URI; .sz and .snappy are decompressed)")
	pf.StringVar(&a.flags.communities, "communities", "", "community file with one ID per node; detect communities when empty")
	pf.BoolVar(&a.flags.directed, "directed", false, "read the edge list as a directed graph")
	pf.StringVar(&a.flags.algorithm, "algorithm", "", "community detection: louvain, label_propagation or components")
	pf.Int64Var(&a.flags.seed, "seed", 0, "seed for community detection")
	pf.IntVarP(&a.flags.workers, "workers", "w", 0, "pairs scored in parallel")
	pf.StringVar(&a.flags.ambiguous, "ambiguous", "", "ambiguous node policy: exclude or boundary")
	pf.StringVarP(&a.flags.format, "format", "o", "", "output format: "+strings.Join([]string{"table", "json", "yaml", "communities"}, ", "))
	pf.StringVar(&a.flags.output, "output", "", "write output to this path or s3:// URI instead of stdout")
	pf.StringVar(&a.flags.metricsFile, "metrics-textfile", "", "write Prometheus metrics to this file after the run")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(
		newScoreCmd(a),
		newModularityCmd(a),
		newCommunitiesCmd(a),
		newLayoutCmd(a),
		newServeCmd(a),
		newBrowseCmd(a),
		newConfigCmd(a),
	)

	root.SetErrPrefix("polarity:")
	return root
}

// init loads the configuration, applies flag overrides and builds the
// logger, metrics registry and input opener.
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	changed := cmd.Flags().Changed
	set := func(flag string, apply func()) {
		if changed(flag) {
			apply()
		}
	}
	set("graph", func() { cfg.Input.Graph = a.flags.graph })
	set("communities", func() { cfg.Input.Communities = a.flags.communities })
	set("directed", func() { cfg.Input.Directed = a.flags.directed })
	set("algorithm", func() { cfg.Clustering.Algorithm = a.flags.algorithm })
	set("seed", func() { cfg.Clustering.Seed = a.flags.seed })
	set("workers", func() { cfg.Scoring.Workers = a.flags.workers })
	set("ambiguous", func() { cfg.Scoring.Ambiguous = a.flags.ambiguous })
	set("format", func() { cfg.Output.Format = strings.ToLower(a.flags.format) })
	set("output", func() { cfg.Output.Path = a.flags.output })
	set("metrics-textfile", func() { cfg.Output.MetricsTextfile = a.flags.metricsFile })
	set("log-level", func() { cfg.Log.Level = a.flags.logLevel })

	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	level, err := logging.ParseLevelStrict(cfg.Log.Level)
	if err != nil {
		return err
	}
	a.logger = logging.NewLogger(cmd.ErrOrStderr(), level, logging.Format(cfg.Log.Format)).
		With(logging.Component("cli"))
	a.metrics = metrics.NewRegistry()

	var store source.ObjectStore
	if usesS3(cfg.Input.Graph, cfg.Input.Communities, cfg.Output.Path, cfg.Layout.Output) {
		s3, err := source.NewS3StoreFromOptions(cmd.Context(), source.S3Options{
			Region:          cfg.Source.Region,
			Endpoint:        cfg.Source.Endpoint,
			AccessKeyID:     cfg.Source.AccessKeyID,
			SecretAccessKey: cfg.Source.SecretAccessKey,
			UsePathStyle:    cfg.Source.UsePathStyle,
		})
		if err != nil {
			return err
		}
		store = s3
	}
	a.opener = source.NewOpener(store)

	a.logger.Debug("configuration loaded", logging.String("sources", strings.Join(cfg.LoadedFrom, ", ")))
	return nil
}

func usesS3(uris ...string) bool {
	for _, u := range uris {
		if strings.HasPrefix(u, "s3://") {
			return true
		}
	}
	return false
}

// errNoGraph is returned by commands that need an input graph
var errNoGraph = errors.New("no graph given; use --graph or input.graph in the config file")

// writeOutput sends data to the configured output path, or to stdout
func (a *app) writeOutput(ctx context.Context, cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := a.opener.Put(ctx, path, data); err != nil {
		return err
	}
	a.logger.Info("output written", logging.Path(path), logging.Int("bytes", len(data)))
	return nil
}

// flushMetrics writes the metrics textfile when one is configured
func (a *app) flushMetrics() error {
	path := a.cfg.Output.MetricsTextfile
	if path == "" {
		return nil
	}
	if err := a.metrics.WriteTextfile(path); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
