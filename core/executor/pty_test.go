//go:build unix

package executor

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/termreel/core/terminal"
)

func startCapture(t *testing.T, opts Options, command string) (*Capture, *terminal.Screen) {
	t.Helper()
	if opts.Shell == "" {
		opts.Shell = "/bin/sh"
	}
	screen := terminal.New(opts.Cols, opts.Rows)
	if opts.Cols == 0 {
		screen = terminal.New(80, 24)
	}
	c := NewCapturer(opts).Start(context.Background(), command, screen)
	require.True(t, c.Wait(10*time.Second), "capture did not finish")
	return c, screen
}

func TestPTYCapture_Output(t *testing.T) {
	c, screen := startCapture(t, Options{Cols: 40, Rows: 5, Timeout: 5 * time.Second}, "printf 'hello\\nworld'")

	res := c.Result()
	assert.Equal(t, ReasonExited, res.Reason)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, int64(len("hello\r\nworld")), res.Bytes, "the PTY translates \\n to \\r\\n")

	text := screen.Snapshot().Text()
	assert.True(t, strings.HasPrefix(text, "hello\nworld"), "got %q", text)
}

func TestPTYCapture_ExitCode(t *testing.T) {
	c, _ := startCapture(t, Options{Timeout: 5 * time.Second}, "exit 3")
	assert.Equal(t, 3, c.Result().ExitCode)
}

func TestPTYCapture_Viewport(t *testing.T) {
	_, screen := startCapture(t, Options{Cols: 33, Rows: 7, Timeout: 5 * time.Second},
		`echo "$COLUMNS $LINES $TERM"; stty size`)

	lines := screen.Snapshot().Lines
	assert.Equal(t, "33 7 xterm-256color", lines[0].Text())
	assert.Equal(t, "7 33", lines[1].Text())
}

func TestPTYCapture_ShellSyntax(t *testing.T) {
	_, screen := startCapture(t, Options{Cols: 20, Rows: 3, Timeout: 5 * time.Second},
		"for i in 1 2 3; do printf $i; done | tr 123 abc")
	assert.Equal(t, "abc", screen.Snapshot().Lines[0].Text())
}

func TestPTYCapture_Timeout(t *testing.T) {
	start := time.Now()
	c, screen := startCapture(t, Options{Cols: 20, Rows: 3, Timeout: 300 * time.Millisecond},
		"printf started; sleep 30")

	res := c.Result()
	assert.Equal(t, ReasonTimeout, res.Reason)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, "started", screen.Snapshot().Lines[0].Text())
}

func TestPTYCapture_SpawnFailure(t *testing.T) {
	screen := terminal.New(10, 2)
	c := NewCapturer(Options{Shell: "/nonexistent/shell"}).Start(context.Background(), "true", screen)

	select {
	case <-c.Done():
	default:
		t.Fatal("spawn failure must complete immediately")
	}
	res := c.Result()
	assert.Equal(t, ReasonSpawnFailed, res.Reason)
	assert.Equal(t, int64(0), res.Bytes)
	assert.Error(t, res.Error)
	assert.Equal(t, "\n", screen.Snapshot().Text())
}

func TestPTYCapture_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	screen := terminal.New(10, 2)
	c := NewCapturer(Options{Shell: "/bin/sh"}).Start(ctx, "sleep 30", screen)

	cancel()
	require.True(t, c.Wait(5*time.Second))
	assert.Equal(t, ReasonCanceled, c.Result().Reason)
}

func TestPTYCapture_BackgroundChildDoesNotHang(t *testing.T) {
	start := time.Now()
	c, screen := startCapture(t, Options{Cols: 20, Rows: 3, Timeout: 5 * time.Second},
		"(sleep 30 &) ; printf done")

	assert.Contains(t, []Reason{ReasonExited, ReasonClosed}, c.Result().Reason)
	assert.Less(t, time.Since(start), 4*time.Second, "exit of the shell ends the capture")
	assert.Equal(t, "done", screen.Snapshot().Lines[0].Text())
}
