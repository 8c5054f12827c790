package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ceyewan/exprbench/bench"
	"github.com/ceyewan/exprbench/clog"
	"github.com/ceyewan/exprbench/metrics"
	"github.com/ceyewan/exprbench/timer"
)

type rootOptions struct {
	configDir string
	serve     bool
}

// 配置 key 到参数名
var runFlagKeys = map[string]string{
	"log.level":            "log-level",
	"bench.containers":     "containers",
	"bench.sizes":          "sizes",
	"bench.iterations":     "iterations",
	"bench.formulas":       "formulas",
	"bench.strategies":     "strategies",
	"bench.aggregation":    "aggregation",
	"bench.a":              "a",
	"bench.b":              "b",
	"bench.output_dir":     "output",
	"bench.charts":         "charts",
	"metrics.enabled":      "metrics",
	"metrics.port":         "metrics-port",
	"metrics.runtime":      "metrics-runtime",
	"metrics.path":         "metrics-path",
	"metrics.service_name": "service-name",
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	defaults := defaultAppConfig()

	root := &cobra.Command{
		Use:           "exprbench",
		Short:         "Benchmark linear-combination formulas across numeric containers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configDir, "config-dir", "", "directory containing exprbench.yaml (default . and ./config)")
	root.PersistentFlags().String("log-level", defaults.Log.Level, "log level: debug|info|warn|error")

	root.AddCommand(newRunCmd(opts, defaults), newShowCmd())
	return root
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print every formula evaluated on a 3-element vector for each container",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return bench.Showcase(cmd.OutOrStdout())
		},
	}
}

func newRunCmd(opts *rootOptions, defaults AppConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the benchmark and write per-container tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBench(cmd, opts)
		},
	}

	b, m := defaults.Bench, defaults.Metrics
	f := cmd.Flags()
	f.StringSlice("containers", b.Containers, "containers to compare: slice|dense|lazy")
	f.IntSlice("sizes", b.Sizes, "vector sizes")
	f.Int("iterations", b.Iterations, "repetitions per formula and size")
	f.StringSlice("formulas", b.Formulas, "formulas: axpy|abxpy|abxpy2|axbpy (empty for all)")
	f.StringSlice("strategies", b.Strategies, "evaluation strategies: container|auto (empty for both)")
	f.String("aggregation", string(b.Aggregation), "timer aggregation: cumulative|violin")
	f.Float64("a", b.A, "scalar a")
	f.Float64("b", b.B, "scalar b")
	f.StringP("output", "o", b.OutputDir, "output directory for tables and charts (empty to skip)")
	f.Bool("charts", b.Charts, "render PNG charts into the output directory")
	f.Bool("metrics", m.Enabled, "publish timer snapshots as Prometheus metrics")
	f.Int("metrics-port", m.Port, "port for the metrics endpoint")
	f.String("metrics-path", m.Path, "path for the metrics endpoint")
	f.Bool("metrics-runtime", m.Runtime, "also collect Go runtime metrics")
	f.String("service-name", m.ServiceName, "service.name resource attribute")
	f.BoolVar(&opts.serve, "serve", false, "serve metrics during the run and keep serving until interrupted")
	return cmd
}

func runBench(cmd *cobra.Command, opts *rootOptions) error {
	ctx := cmd.Context()

	app, loader, err := loadApp(ctx, opts.configDir, cmd.Flags(), runFlagKeys)
	if err != nil {
		return err
	}

	logger, err := clog.New(&app.Log)
	if err != nil {
		return err
	}
	defer logger.Flush()

	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()
	go watchLogLevel(watchCtx, loader, logger)

	if opts.serve && !app.Metrics.Enabled {
		logger.Warn("--serve has no effect without metrics enabled")
	}
	pub, err := metrics.New(&app.Metrics, metrics.WithLogger(logger))
	if err != nil {
		return err
	}
	defer func() {
		if err := pub.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown metrics", clog.Error(err))
		}
	}()

	serveErr := make(chan error, 1)
	if opts.serve && app.Metrics.Enabled {
		go func() { serveErr <- pub.Serve(ctx) }()
	}

	suite, err := bench.NewSuite(app.Bench, bench.WithLogger(logger), bench.WithPublisher(pub))
	if err != nil {
		return err
	}
	if !timer.Enabled {
		logger.Warn("built with notimer, results carry no timings")
	}

	results, err := suite.Run(ctx)
	if err != nil {
		return err
	}
	bench.LogSummary(logger, results)

	out := cmd.OutOrStdout()
	if dir := app.Bench.OutputDir; dir == "" {
		if err := bench.WriteTable(out, results); err != nil {
			return err
		}
	} else {
		paths, err := bench.WriteTables(dir, results)
		if err != nil {
			return err
		}
		if app.Bench.Charts {
			charts, err := bench.RenderCharts(dir, results, bench.DefaultChartConfig())
			if err != nil {
				return err
			}
			paths = append(paths, charts...)
		}
		for _, p := range paths {
			fmt.Fprintln(out, p)
		}
	}

	if opts.serve && app.Metrics.Enabled {
		logger.Info("benchmark finished, serving metrics until interrupted", clog.String("run_id", suite.RunID()))
		return <-serveErr
	}
	return nil
}
