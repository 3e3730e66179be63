package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-polarity/pkg/algorithms"
	"github.com/dd0wney/cluso-polarity/pkg/api"
	"github.com/dd0wney/cluso-polarity/pkg/engine"
	"github.com/dd0wney/cluso-polarity/pkg/logging"
	"github.com/dd0wney/cluso-polarity/pkg/partition"
	"github.com/dd0wney/cluso-polarity/pkg/polarization"
	"github.com/dd0wney/cluso-polarity/pkg/report"
	"github.com/dd0wney/cluso-polarity/pkg/server"
	"github.com/dd0wney/cluso-polarity/pkg/tui"
	"github.com/dd0wney/cluso-polarity/pkg/validation"
	"github.com/dd0wney/cluso-polarity/pkg/visualization"
)

func newScoreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "score",
		Short: "Score polarization and modularity for every community pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := a.run(ctx)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := report.Write(&buf, r, a.cfg.Output.Format); err != nil {
				return err
			}
			if err := a.writeOutput(ctx, cmd, a.cfg.Output.Path, buf.Bytes()); err != nil {
				return err
			}
			return a.flushMetrics()
		},
	}
}

// modularityResult is the JSON shape of the modularity command
type modularityResult struct {
	Modularity engine.Score       `json:"modularity"`
	Pairs      []engine.PairScore `json:"pairs,omitempty"`
}

func newModularityCmd(a *app) *cobra.Command {
	var pairs bool

	cmd := &cobra.Command{
		Use:   "modularity",
		Short: "Compute the modularity of the partition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := a.newEngine(ctx)
			if err != nil {
				return err
			}

			var res modularityResult
			q, err := e.Modularity()
			switch {
			case errors.Is(err, algorithms.ErrUndefinedMetric):
				res.Modularity = engine.Undefined(err.Error())
			case err != nil:
				return err
			default:
				res.Modularity = engine.Defined(q)
			}
			if pairs {
				if res.Pairs, err = e.PairModularity(ctx); err != nil {
					return err
				}
			}

			var buf bytes.Buffer
			if a.cfg.Output.Format == report.FormatJSON {
				enc := json.NewEncoder(&buf)
				enc.SetIndent("", "  ")
				if err := enc.Encode(res); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(&buf, "modularity\t%s\n", formatScore(res.Modularity))
				for _, ps := range res.Pairs {
					fmt.Fprintf(&buf, "%s\t%s\n", ps.Pair, formatScore(ps.Score))
				}
			}
			if err := a.writeOutput(ctx, cmd, a.cfg.Output.Path, buf.Bytes()); err != nil {
				return err
			}
			return a.flushMetrics()
		},
	}
	cmd.Flags().BoolVar(&pairs, "pairs", false, "also print the modularity of every community pair")
	return cmd
}

func formatScore(s engine.Score) string {
	if !s.Defined {
		return "undefined (" + s.Reason + ")"
	}
	return strconv.FormatFloat(s.Value, 'f', 6, 64)
}

func newCommunitiesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "communities",
		Short: "Detect communities and write them as a community file",
		Long: "Detect communities with the configured algorithm and write one community ID\n" +
			"per line, line i holding the community of node i.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			g, err := a.loadGraph(ctx)
			if err != nil {
				return err
			}
			assignment, err := a.detect(ctx, g)
			if err != nil {
				return err
			}

			cuts := partition.ComputeCutMetrics(g, assignment.Partition)
			clustering, err := algorithms.AverageClusteringCoefficient(g)
			if err != nil {
				return err
			}
			a.logger.Info("partition quality",
				logging.Count(len(cuts.Communities)),
				logging.Int("cut_edges", cuts.CutEdges),
				logging.Float64("cut_ratio", cuts.CutRatio),
				logging.Float64("avg_clustering", clustering))
			for _, cs := range cuts.Communities {
				a.logger.Debug("community",
					logging.Community(cs.ID),
					logging.Int("size", cs.Size),
					logging.Int("internal_edges", cs.InternalEdges),
					logging.Int("cut_edges", cs.CutEdges),
					logging.Float64("density", cs.Density))
			}

			var buf bytes.Buffer
			if err := partition.WriteCommunityFile(&buf, assignment.Communities); err != nil {
				return err
			}
			return a.writeOutput(ctx, cmd, a.cfg.Output.Path, buf.Bytes())
		},
	}
}

// parsePair parses "a,b" into a community pair
func parsePair(s string) (partition.Pair, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return partition.Pair{}, fmt.Errorf("pair %q: want two community IDs separated by a comma", s)
	}
	x, errA := strconv.Atoi(strings.TrimSpace(parts[0]))
	y, errB := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errA != nil || errB != nil {
		return partition.Pair{}, fmt.Errorf("pair %q: community IDs must be integers", s)
	}
	if err := validation.ValidatePair(x, y); err != nil {
		return partition.Pair{}, err
	}
	return partition.Pair{A: x, B: y}, nil
}

func newLayoutCmd(a *app) *cobra.Command {
	var (
		algorithm string
		format    string
		pairFlag  string
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Render the graph coloured by community as SVG or JSON",
		Long: "Render the graph coloured by community. With --pair only the two communities\n" +
			"are drawn and boundary nodes are outlined.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := a.newEngine(ctx)
			if err != nil {
				return err
			}

			lc := a.cfg.Layout
			if cmd.Flags().Changed("layout") {
				lc.Algorithm = algorithm
			}
			config := visualization.LayoutConfig{
				Width:      lc.Width,
				Height:     lc.Height,
				Iterations: lc.Iterations,
				Padding:    lc.Padding,
				Seed:       a.cfg.Clustering.Seed,
			}

			g := e.Graph()
			var p partition.Strategy = e.Assignment().Partition
			var classification *polarization.Classification
			if pairFlag != "" {
				pair, err := parsePair(pairFlag)
				if err != nil {
					return err
				}
				h, restricted := partition.PairSubgraph(g, e.Assignment().Partition, pair)
				if h.NodeCount() == 0 {
					return fmt.Errorf("pair %s: no such communities", pair)
				}
				classification, err = polarization.ClassifyNodes(h, restricted, pair, e.Policy())
				if err != nil {
					return err
				}
				g, p = h, restricted
			}

			layout, err := visualization.NewLayout(lc.Algorithm, &config, p)
			if err != nil {
				return err
			}
			v, err := visualization.Build(g, p, classification, layout, config)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			switch strings.ToLower(format) {
			case "svg":
				err = v.WriteSVG(&buf)
			case "json":
				var data []byte
				data, err = v.ExportJSON()
				buf.Write(data)
			default:
				err = fmt.Errorf("unknown layout format %q; use svg or json", format)
			}
			if err != nil {
				return err
			}
			return a.writeOutput(ctx, cmd, lc.Output, buf.Bytes())
		},
	}
	cmd.Flags().StringVar(&algorithm, "layout", "", "layout algorithm: force, circular, community or hierarchical")
	cmd.Flags().StringVar(&format, "as", "svg", "svg or json")
	cmd.Flags().StringVar(&pairFlag, "pair", "", "draw only this community pair, as \"a,b\"")
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the report over HTTP with GraphQL, health and metrics endpoints",
		Long: "Score the inputs once, then serve the report. POST /api/v1/runs and SIGHUP\n" +
			"rerun the scoring against the current inputs.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			srv, err := api.NewServer(a.run, a.cfg.Server,
				api.WithLogger(a.logger),
				api.WithMetrics(a.metrics))
			if err != nil {
				return err
			}
			if _, err := srv.Refresh(ctx); err != nil {
				return err
			}

			gs := server.NewGracefulServer(srv.HTTPServer(), a.cfg.Server.ShutdownTimeout, a.logger)
			gs.SetReloadFunc(func(ctx context.Context) error {
				_, err := srv.Refresh(ctx)
				return err
			})
			return gs.ListenAndServe(ctx)
		},
	}
}

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the report in an interactive terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Log lines would corrupt the alternate screen
			a.logger = logging.NewNopLogger()

			ctx := cmd.Context()
			e, err := a.newEngine(ctx)
			if err != nil {
				return err
			}
			r, err := e.Run(ctx)
			if err != nil {
				return err
			}

			cuts := partition.ComputeCutMetrics(e.Graph(), e.Assignment().Partition)
			return tui.Run(tui.New(r, tui.WithCutMetrics(cuts), tui.WithRefresh(a.run)))
		},
	}
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# sources: %s\n", strings.Join(a.cfg.LoadedFrom, ", "))
			return a.cfg.Write(out)
		},
	}
}
