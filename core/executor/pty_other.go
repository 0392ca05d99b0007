//go:build !unix

package executor

import (
	"context"
	"errors"
	"io"
)

type unsupportedCapturer struct {
	opts Options
}

// NewCapturer returns a capturer whose captures complete immediately:
// pseudo-terminals are only available on unix systems.
func NewCapturer(opts Options) Capturer {
	return &unsupportedCapturer{opts: opts.withDefaults()}
}

func (c *unsupportedCapturer) Start(_ context.Context, command string, _ io.Writer) *Capture {
	capture := newCapture()
	c.opts.Logger.Warn("pseudo-terminals are not supported on this platform", "command", command)
	capture.finish(Result{
		Command:  command,
		Reason:   ReasonSpawnFailed,
		ExitCode: -1,
		Error:    errors.New("pseudo-terminals are not supported on this platform"),
	})
	return capture
}
