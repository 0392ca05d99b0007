package commands

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/yourusername/termreel/internal/version"
)

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version information about termreel.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), version.Version)
				return
			}
			showVersion(cmd)
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print the version number only")

	return cmd
}

// showVersion displays version information
func showVersion(cmd *cobra.Command) {
	info := version.GetInfo()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, color.HiCyanString("termreel - terminal recordings as GIFs"))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Version:    %s\n", info.Version)
	fmt.Fprintf(out, "Build Time: %s\n", info.BuildTime)
	fmt.Fprintf(out, "Git Commit: %s\n", info.GitCommit)
	fmt.Fprintf(out, "Go Version: %s\n", info.GoVersion)
	fmt.Fprintf(out, "OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
