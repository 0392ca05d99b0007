// Package cli wires the command tree to the process: it builds the root
// command and reports errors the way every command does.
package cli

import (
	"context"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/yourusername/termreel/cli/commands"
	"github.com/yourusername/termreel/cli/output"
)

// NewRootCommand creates the root command
func NewRootCommand(ctx context.Context) *cobra.Command {
	return commands.NewRootCommand(ctx)
}

// Execute runs the command line in args and prints any error to stderr.
// It returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand(ctx)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		output.NewWriterFormatter(stderr, !color.NoColor, false).Error(err.Error())
		return 1
	}
	if ctx.Err() != nil {
		return 130
	}
	return 0
}
