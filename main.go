// Package main provides a demo of the terminal progress indicators: a few
// simulated build steps rendered live, an optional MCP status server and an
// end-of-run summary.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"taskprogress/internal/config"
	"taskprogress/internal/progress"
)

var version = "dev"

// options holds the command line flags.
type options struct {
	configPath string
	logFile    string
	raw        bool
	autoClose  bool
	noMessages bool
	noFinished bool
	watch      bool
	summary    bool
	steps      int
	step       time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:     "taskprogress",
		Short:   "Render live progress for concurrent tasks",
		Version: version,
		Long: `taskprogress runs a simulated build and renders its tasks live:
spinners for work without a known size, percentages for work that has one.

When stdout is not a terminal the same events are printed as plain lines.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(opts, cmd.OutOrStdout())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to the config file (default: $XDG_CONFIG_HOME/taskprogress/config.yaml)")
	flags.StringVar(&opts.logFile, "log-file", "", "Append debug logs to this file")
	flags.BoolVar(&opts.raw, "raw", false, "Print one line per event instead of redrawing")
	flags.BoolVar(&opts.autoClose, "auto-close", false, "Stop rendering as soon as every task finished")
	flags.BoolVar(&opts.noMessages, "no-messages", false, "Hide intermediate task messages")
	flags.BoolVar(&opts.noFinished, "no-finished", false, "Hide finished tasks")
	flags.BoolVar(&opts.watch, "watch", false, "Reload the config file when it changes")
	flags.BoolVar(&opts.summary, "summary", false, "Print a summary table when done")
	flags.IntVar(&opts.steps, "steps", 100, "Number of steps in the simulated build")
	flags.DurationVar(&opts.step, "step", 100*time.Millisecond, "Duration of one simulated step")

	cmd.AddCommand(newMCPCmd(opts))
	return cmd
}

// env is what a command needs to run once flags and config are resolved.
type env struct {
	cfg     *config.Config
	cfgPath string
	ind     *progress.Indicators
	logger  *slog.Logger
	close   func()
}

// setUp loads the config, opens the log file and builds the indicators on
// out.
func setUp(opts *options, out io.Writer, forceRaw bool) (*env, error) {
	if opts.steps <= 0 || opts.step <= 0 {
		return nil, errors.New("--steps and --step must be positive")
	}
	e := &env{close: func() {}}

	e.logger = slog.New(slog.DiscardHandler)
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		e.logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
		e.close = func() { _ = f.Close() }
	}

	var err error
	if opts.configPath != "" {
		e.cfgPath = opts.configPath
		e.cfg, err = config.Load(opts.configPath)
	} else {
		e.cfg, e.cfgPath, err = config.LoadDefault()
	}
	if err != nil {
		e.close()
		return nil, err
	}
	if e.cfgPath == "" {
		e.cfgPath = config.DefaultPath()
	}

	if forceRaw {
		opts.raw = true
	}
	format := opts.apply(e.cfg.Format())
	popts := append(e.cfg.Options(), progress.WithWriter(out), progress.WithLogger(e.logger))
	e.ind = progress.New(format, popts...)
	e.logger.Debug("set up", "config", e.cfgPath, "raw", e.ind.Raw(), "run", e.ind.RunID())
	return e, nil
}

// apply lets flags override the configured format.
func (o *options) apply(f progress.Format) progress.Format {
	if o.raw {
		f.Output = progress.OutputRaw
	}
	if o.autoClose {
		f.AutoClose = true
	}
	if o.noMessages {
		f.ShowIntermediateMessages = false
	}
	if o.noFinished {
		f.ShowFinishedTasks = false
	}
	return f
}
