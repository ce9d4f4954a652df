package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/headline-goat/goatchart/internal/aggregate"
	"github.com/headline-goat/goatchart/internal/config"
)

// options holds the global flags every subcommand shares.
type options struct {
	cfg         config.Config
	dataSource  string
	testName    string
	logLevel    string
	granularity string
	variations  []string
	view        []string
	log         *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{cfg: config.FromEnv()}

	rootCmd := &cobra.Command{
		Use:   "goatchart",
		Short: "goatchart - conversion-rate charts for A/B tests",
		Long: `goatchart loads daily visit and conversion counts for the variations of
an A/B test, aggregates them into conversion-rate series by day or by ISO
week, and lets you zoom and pan through the result.

Data can come from a JSON file, an http(s) URL or a SQLite database
(including a headline-goat database, with --test naming the test).

Running without a subcommand starts the interactive explorer.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: config.ParseLevel(opts.logLevel),
			}))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplore(cmd, opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.dataSource, "data", "d", opts.cfg.DataSource, "dataset source: JSON file, http(s) URL or SQLite database")
	flags.StringVar(&opts.testName, "test", opts.cfg.TestName, "headline-goat test name when --data is a headline-goat database")
	flags.StringVar(&opts.logLevel, "log-level", opts.cfg.LogLevel, "log level (debug, info, warn, error)")
	flags.StringVarP(&opts.granularity, "granularity", "g", string(aggregate.Day), "series granularity (day or week)")
	flags.StringSliceVar(&opts.variations, "variations", nil, "variation ids to include (default all)")
	flags.StringSliceVar(&opts.view, "view", nil, "viewport actions to apply in order (zoom-in, zoom-out, pan-left, pan-right, reset, toggle-pan)")

	rootCmd.AddCommand(
		newSeriesCmd(opts),
		newVariationsCmd(opts),
		newResultsCmd(opts),
		newExportCmd(opts),
		newChartCmd(opts),
		newServeCmd(opts),
		newExploreCmd(opts),
	)

	return rootCmd
}

func Execute() error {
	return newRootCmd().Execute()
}

// logger returns the configured logger, falling back to a quiet one for
// commands run without the root pre-run.
func (o *options) logger() *slog.Logger {
	if o.log != nil {
		return o.log
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}
