package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/termreel/core/encoder"
	"github.com/yourusername/termreel/core/executor"
	"github.com/yourusername/termreel/core/recorder"
	"github.com/yourusername/termreel/core/render"
	"github.com/yourusername/termreel/internal/logging"
	"github.com/yourusername/termreel/internal/tui"
	"github.com/yourusername/termreel/internal/version"
	"github.com/yourusername/termreel/pkg/utils"
)

// NewRecordCommand creates the record command. It does what the root
// command does, for commands whose name clashes with a subcommand.
func NewRecordCommand(cli *CLI, ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record [flags] [--] command [args...]",
		Short: "Record a command (same as the root command)",
		Long: `Record a command as an animated GIF.

Examples:
  termreel record -- config --help
  termreel record -o build.gif make`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.record(ctx, cmd, args)
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

// record runs one recording and reports what it produced.
func (cli *CLI) record(ctx context.Context, cmd *cobra.Command, args []string) error {
	cfg := cli.Config
	cfg.Command = strings.Join(args, " ")
	if err := cfg.Validate(); err != nil {
		return err
	}

	path, err := utils.ExpandPath(cfg.Output)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}

	cols, rows := utils.Viewport(cfg.Cols, cfg.Rows, os.Stdout)
	layout, err := cfg.Layout(cols, rows)
	if err != nil {
		return err
	}
	renderer, err := render.NewRenderer(layout)
	if err != nil {
		return fmt.Errorf("failed to prepare renderer: %w", err)
	}

	logger, err := cli.newLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer logger.Close()
	logger.Debug("starting", "version", version.GetInfo().String())

	capturer := executor.NewCapturer(executor.Options{
		Cols:    cols,
		Rows:    rows,
		Timeout: cfg.Timeout,
		Shell:   cfg.Shell,
		Logger:  logger,
	})

	opts := cfg.RecorderOptions(cols, rows)
	opts.Logger = logger

	var progress *tui.Progress
	if cli.showProgress(cmd.ErrOrStderr()) {
		progress = tui.StartProgress(cfg.Command, cmd.ErrOrStderr())
		opts.Observer = progress
	}

	rec, err := recorder.New(opts, renderer, encoder.NewGIF(path, logger), capturer)
	if err != nil {
		if progress != nil {
			progress.Finish(err)
		}
		return err
	}

	cli.Output.Debug(fmt.Sprintf("Recording %q at %dx%d (run %s)", cfg.Command, cols, rows, rec.RunID()))
	summary, err := rec.Record(ctx)
	if progress != nil {
		progress.Finish(err)
	}
	if err != nil {
		return err
	}

	if cli.quiet {
		return nil
	}
	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}
	cli.Output.ShowSummary(summary, path, size)
	return nil
}

// newLogger logs JSON to the configured file, or to w in verbose mode.
// Otherwise logging is off.
func (cli *CLI) newLogger(w io.Writer) (*logging.Logger, error) {
	switch {
	case cli.Config.Log.File != "":
		path, err := utils.ExpandPath(cli.Config.Log.File)
		if err != nil {
			return nil, fmt.Errorf("invalid log file: %w", err)
		}
		return logging.NewLogger(path, cli.Config.Log.Level)
	case cli.verbose:
		return logging.NewWriterLogger(w, logging.LevelDebug), nil
	default:
		return logging.NopLogger(), nil
	}
}

// showProgress reports whether the live progress view fits on w.
func (cli *CLI) showProgress(w io.Writer) bool {
	if cli.quiet {
		return false
	}
	// Verbose logs without a log file share the terminal.
	if cli.verbose && cli.Config.Log.File == "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && utils.IsTerminal(f)
}
