package commands

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/yourusername/termreel/cli/output"
	"github.com/yourusername/termreel/core/config"
	"github.com/yourusername/termreel/core/render"
)

// CLI holds the application state
type CLI struct {
	Config *config.Config
	Output *output.Formatter

	viper   *viper.Viper
	cfgFile string
	noColor bool
	verbose bool
	quiet   bool
}

// settingFlags maps command line flags onto config keys.
var settingFlags = []struct{ flag, key string }{
	{"output", "output"},
	{"shell", "shell"},
	{"cols", "cols"},
	{"rows", "rows"},
	{"prompt", "prompt"},
	{"typing-speed", "typing_speed"},
	{"typing-pause", "typing_pause"},
	{"fps", "fps"},
	{"hold", "hold"},
	{"timeout", "timeout"},
	{"max-duration", "max_duration"},
	{"max-frames", "max_frames"},
	{"grace", "grace"},
	{"show-cursor", "show_cursor"},
	{"theme", "render.theme"},
	{"font-size", "render.font_size"},
	{"line-height", "render.line_height"},
	{"padding", "render.padding"},
	{"window-bar", "render.window_bar"},
	{"max-width", "render.max_width"},
	{"log-file", "log.file"},
	{"log-level", "log.level"},
}

// NewRootCommand creates the root command
func NewRootCommand(ctx context.Context) *cobra.Command {
	cli := &CLI{}

	rootCmd := &cobra.Command{
		Use:   "termreel [flags] [--] command [args...]",
		Short: "Record a terminal command as an animated GIF",
		Long: color.HiCyanString(`
  ▀█▀ █▀▀ █▀█ █▀▄▀█ █▀█ █▀▀ █▀▀ █
   █  ██▄ █▀▄ █ ▀ █ █▀▄ ██▄ ██▄ █▄▄
`) + `termreel types a command at a fake prompt, runs it in a pseudo-terminal
and saves everything it draws as an animated GIF.

Examples:
  termreel ls -la
  termreel -o demo.gif --theme dracula -- git log --oneline -5
  termreel --cols 60 --rows 12 --max-duration 5s -- top
  termreel config init
  termreel themes`,
		Args: cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cli.Output = output.NewWriterFormatter(cmd.ErrOrStderr(), !cli.noColor && !color.NoColor, cli.verbose)

			if err := cli.initConfig(cmd.Flags()); err != nil {
				return fmt.Errorf("failed to initialize config: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return cli.record(ctx, cmd, args)
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	// Flags after the command belong to the command.
	rootCmd.Flags().SetInterspersed(false)

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cli.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/termreel/config.yaml)")
	pf.BoolVar(&cli.noColor, "no-color", false, "disable colored output")
	pf.BoolVarP(&cli.verbose, "verbose", "v", false, "verbose output")
	pf.BoolVarP(&cli.quiet, "quiet", "q", false, "print nothing but errors")
	addSettingFlags(pf)

	rootCmd.AddCommand(
		NewRecordCommand(cli, ctx),
		NewConfigCommand(cli),
		NewThemesCommand(cli),
		NewVersionCommand(),
	)

	return rootCmd
}

// addSettingFlags registers one flag per config key. Their defaults are
// only shown in help; the merged config supplies the real values.
func addSettingFlags(fs *pflag.FlagSet) {
	d := config.DefaultConfig()

	fs.StringP("output", "o", d.Output, "GIF file to write")
	fs.String("shell", d.Shell, "shell running the command (default $SHELL, then /bin/sh)")
	fs.Int("cols", d.Cols, "terminal columns (0 uses the current terminal)")
	fs.Int("rows", d.Rows, "terminal rows (0 uses the current terminal)")
	fs.String("prompt", d.Prompt, "prompt shown before the typed command")
	fs.Float64("typing-speed", d.TypingSpeed, "typed characters per second")
	fs.Duration("typing-pause", d.TypingPause, "pause after typing, before the command runs")
	fs.Float64("fps", d.FPS, "screen samples per second while the command runs")
	fs.Duration("hold", d.Hold, "how long the last frame stays on screen")
	fs.Duration("timeout", d.Timeout, "kill the command after this long (0 disables)")
	fs.Duration("max-duration", d.MaxDuration, "stop recording after this long (0 disables)")
	fs.Int("max-frames", d.MaxFrames, "stop recording after this many frames (0 disables)")
	fs.Duration("grace", d.Grace, "how long to wait for the command after recording stops")
	fs.Bool("show-cursor", d.ShowCursor, "draw the cursor while the command runs")
	fs.String("theme", d.Render.Theme, "color theme (see `termreel themes`)")
	fs.Float64("font-size", d.Render.FontSize, "font size in points")
	fs.Float64("line-height", d.Render.LineHeight, "line height as a multiple of the font height")
	fs.Int("padding", d.Render.Padding, "padding around the grid in pixels")
	fs.Bool("window-bar", d.Render.WindowBar, "draw a window title bar")
	fs.Int("max-width", d.Render.MaxWidth, "scale frames down to this width in pixels (0 disables)")
	fs.String("log-file", d.Log.File, "write a JSON log to this file")
	fs.String("log-level", d.Log.Level, "log level (DEBUG, INFO, WARN, ERROR)")
}

// initConfig merges defaults, the config file, TERMREEL_* variables and
// flags, in increasing priority.
func (cli *CLI) initConfig(fs *pflag.FlagSet) error {
	v, err := config.NewViper(cli.cfgFile)
	if err != nil {
		return err
	}

	for _, f := range settingFlags {
		if err := v.BindPFlag(f.key, fs.Lookup(f.flag)); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", f.flag, err)
		}
	}

	cfg, err := config.FromViper(v)
	if err != nil {
		return err
	}

	cli.viper = v
	cli.Config = cfg
	return nil
}

// configPath returns the file config commands read and write.
func (cli *CLI) configPath() string {
	if cli.cfgFile != "" {
		return cli.cfgFile
	}
	if p := cli.Config.Path(); p != "" {
		return p
	}
	return config.DefaultConfigPath()
}

// NewThemesCommand creates the themes command
func NewThemesCommand(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List the built-in color themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.NewWriterFormatter(cmd.OutOrStdout(), !cli.noColor && !color.NoColor, cli.verbose)
			out.ShowList("Themes:", render.ThemeNames(), cli.Config.Render.Theme)
			return nil
		},
	}
}
