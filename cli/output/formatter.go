package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/yourusername/termreel/core/recorder"
	"github.com/yourusername/termreel/pkg/utils"
)

// Formatter handles output formatting
type Formatter struct {
	out          io.Writer
	colorEnabled bool
	verbose      bool
	successColor *color.Color
	errorColor   *color.Color
	warningColor *color.Color
	infoColor    *color.Color
	dimColor     *color.Color
}

// NewFormatter creates a formatter writing to stderr, so stdout stays free
// for piping.
func NewFormatter(colorEnabled, verbose bool) *Formatter {
	return NewWriterFormatter(os.Stderr, colorEnabled, verbose)
}

// NewWriterFormatter creates a formatter writing to w.
func NewWriterFormatter(w io.Writer, colorEnabled, verbose bool) *Formatter {
	f := &Formatter{
		out:          w,
		colorEnabled: colorEnabled,
		verbose:      verbose,
		successColor: color.New(color.FgGreen, color.Bold),
		errorColor:   color.New(color.FgRed, color.Bold),
		warningColor: color.New(color.FgYellow, color.Bold),
		infoColor:    color.New(color.FgCyan),
		dimColor:     color.New(color.FgHiBlack),
	}
	for _, c := range []*color.Color{f.successColor, f.errorColor, f.warningColor, f.infoColor, f.dimColor} {
		if colorEnabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return f
}

// Writer returns the destination of the formatter.
func (f *Formatter) Writer() io.Writer {
	return f.out
}

// Success prints a success message
func (f *Formatter) Success(message string) {
	f.successColor.Fprintln(f.out, "✓ "+message)
}

// Error prints an error message
func (f *Formatter) Error(message string) {
	f.errorColor.Fprintln(f.out, "✗ "+message)
}

// Warning prints a warning message
func (f *Formatter) Warning(message string) {
	f.warningColor.Fprintln(f.out, "⚠ "+message)
}

// Info prints an info message
func (f *Formatter) Info(message string) {
	f.infoColor.Fprintln(f.out, "ℹ "+message)
}

// Debug prints a debug message (only in verbose mode)
func (f *Formatter) Debug(message string) {
	if f.verbose {
		f.dimColor.Fprintln(f.out, "» "+message)
	}
}

// ShowSummary prints what a recording produced.
func (f *Formatter) ShowSummary(s recorder.Summary, path string, size int64) {
	f.drawBox("Recording", func(row func(label, value string)) {
		row("Output", fmt.Sprintf("%s (%s)", path, utils.FormatBytes(size)))
		row("Frames", fmt.Sprintf("%d (%d typed, %d live)", s.Frames, s.TypingFrames, s.LiveFrames))
		row("Length", utils.FormatDuration(s.Duration))
		row("Stopped", string(s.Stop))
		if s.Completed {
			row("Command", fmt.Sprintf("%s, exit code %d", s.Capture.Reason, s.Capture.ExitCode))
		} else {
			row("Command", "still running after the grace period")
		}
		if s.Dropped > 0 {
			row("Dropped", fmt.Sprintf("%d frames failed to render", s.Dropped))
		}
		if f.verbose {
			row("Run ID", s.RunID)
		}
	})

	if s.Completed && s.Capture.Error != nil {
		f.Warning("capture: " + s.Capture.Error.Error())
	}
}

// ShowList prints one item per line, marking the current one.
func (f *Formatter) ShowList(title string, items []string, current string) {
	f.infoColor.Fprintln(f.out, title)
	for _, item := range items {
		if item == current {
			f.successColor.Fprintf(f.out, "  • %s (current)\n", item)
			continue
		}
		fmt.Fprintf(f.out, "  • %s\n", item)
	}
}

// Print writes raw text.
func (f *Formatter) Print(text string) {
	fmt.Fprint(f.out, text)
}

// drawBox draws a box of aligned label/value rows.
func (f *Formatter) drawBox(title string, content func(row func(label, value string))) {
	const width = 50

	fmt.Fprint(f.out, "╭─ ")
	f.infoColor.Fprint(f.out, title)
	fmt.Fprint(f.out, " ")
	fmt.Fprint(f.out, strings.Repeat("─", max(width-len(title)-2, 0)))
	fmt.Fprintln(f.out, "╮")

	content(func(label, value string) {
		fmt.Fprint(f.out, "│ ")
		f.dimColor.Fprintf(f.out, "%-8s", label)
		fmt.Fprintf(f.out, " %s\n", value)
	})

	fmt.Fprint(f.out, "╰")
	fmt.Fprint(f.out, strings.Repeat("─", width+2))
	fmt.Fprintln(f.out, "╯")
}
