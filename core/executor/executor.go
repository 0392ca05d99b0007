package executor

import (
	"context"
	"io"
	"sync"
	"time"
)

// Capturer runs commands under a pseudo-terminal and streams their output
// into a screen.
type Capturer interface {
	// Start spawns command and returns immediately. All output is written to
	// screen, in arrival order, from a single goroutine. A spawn failure is
	// not returned: the Capture simply completes at once with no output.
	Start(ctx context.Context, command string, screen io.Writer) *Capture
}

// CapturerFunc adapts a function to Capturer. The function runs on its own
// goroutine and the capture completes with its Result when it returns.
type CapturerFunc func(ctx context.Context, command string, screen io.Writer) Result

// Start implements Capturer.
func (f CapturerFunc) Start(ctx context.Context, command string, screen io.Writer) *Capture {
	c := newCapture()
	go func() {
		c.finish(f(ctx, command, screen))
	}()
	return c
}

// Reason tells why a capture stopped.
type Reason string

const (
	ReasonExited      Reason = "exited"
	ReasonTimeout     Reason = "timeout"
	ReasonClosed      Reason = "output-closed"
	ReasonCanceled    Reason = "canceled"
	ReasonSpawnFailed Reason = "spawn-failed"
)

// Result describes a finished capture.
type Result struct {
	Command  string        `json:"command"`
	Reason   Reason        `json:"reason"`
	ExitCode int           `json:"exit_code"` // -1 when unknown or killed
	Bytes    int64         `json:"bytes"`
	Duration time.Duration `json:"duration"`
	Pid      int           `json:"pid,omitempty"`
	Error    error         `json:"-"` // spawn or read failure, informational only
}

// Capture is a running or finished capture.
type Capture struct {
	done   chan struct{}
	once   sync.Once
	result Result
}

func newCapture() *Capture {
	return &Capture{done: make(chan struct{})}
}

// Done is closed exactly once, when no further bytes will be written.
func (c *Capture) Done() <-chan struct{} {
	return c.done
}

// Result blocks until the capture completes and returns its outcome.
func (c *Capture) Result() Result {
	<-c.done
	return c.result
}

// Wait blocks until the capture completes or timeout elapses, and reports
// whether it completed.
func (c *Capture) Wait(timeout time.Duration) bool {
	select {
	case <-c.done:
		return true
	default:
	}
	if timeout <= 0 {
		return false
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-c.done:
		return true
	case <-timer.C:
		return false
	}
}

func (c *Capture) finish(res Result) {
	c.once.Do(func() {
		c.result = res
		close(c.done)
	})
}
