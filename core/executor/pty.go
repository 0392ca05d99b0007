//go:build unix

package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
)

// ptyCapturer implements Capturer on top of a pseudo-terminal.
type ptyCapturer struct {
	opts Options
}

// NewCapturer creates a PTY-based capturer.
func NewCapturer(opts Options) Capturer {
	return &ptyCapturer{opts: opts.withDefaults()}
}

// Start spawns the command and launches the read loop.
func (c *ptyCapturer) Start(ctx context.Context, command string, screen io.Writer) *Capture {
	capture := newCapture()
	start := time.Now()
	log := c.opts.Logger.With("command", command)

	cmd := exec.Command(c.opts.Shell, "-c", command)
	cmd.Env = c.opts.environ()
	cmd.Dir = c.opts.Dir

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(c.opts.Rows),
		Cols: uint16(c.opts.Cols),
	})
	if err != nil {
		log.Warn("failed to start command", "error", err.Error())
		capture.finish(Result{
			Command:  command,
			Reason:   ReasonSpawnFailed,
			ExitCode: -1,
			Error:    fmt.Errorf("failed to start PTY: %w", err),
		})
		return capture
	}

	log.Debug("command started", "pid", cmd.Process.Pid, "shell", c.opts.Shell)

	w := &worker{
		opts:    c.opts,
		cmd:     cmd,
		ptmx:    ptmx,
		screen:  screen,
		start:   start,
		exited:  make(chan struct{}),
		capture: capture,
	}
	go w.wait()
	go w.run(ctx, command)

	return capture
}

// worker owns one running child and its PTY master.
type worker struct {
	opts    Options
	cmd     *exec.Cmd
	ptmx    *os.File
	screen  io.Writer
	start   time.Time
	total   int64
	capture *Capture

	exited  chan struct{}
	waitErr error
}

func (w *worker) wait() {
	w.waitErr = w.cmd.Wait()
	close(w.exited)
}

func (w *worker) hasExited() bool {
	select {
	case <-w.exited:
		return true
	default:
		return false
	}
}

// run polls the PTY until the child exits, the output closes, the timeout
// elapses or ctx is canceled, then signals completion exactly once.
func (w *worker) run(ctx context.Context, command string) {
	defer w.ptmx.Close()
	log := w.opts.Logger.With("command", command, "pid", w.cmd.Process.Pid)

	reader, err := newNonblockingReader(w.ptmx)
	if err != nil {
		log.Warn("failed to switch PTY to non-blocking mode", "error", err.Error())
		w.kill()
		w.finish(command, ReasonClosed, err)
		return
	}

	buf := make([]byte, DefaultReadBuffer)
	for {
		if w.opts.Timeout > 0 && time.Since(w.start) > w.opts.Timeout {
			log.Info("capture timed out, killing child", "timeout", w.opts.Timeout.String())
			w.kill()
			w.finish(command, ReasonTimeout, nil)
			return
		}
		if ctx.Err() != nil {
			w.kill()
			w.finish(command, ReasonCanceled, ctx.Err())
			return
		}

		n, err := reader.Read(buf)
		if n > 0 {
			w.forward(buf[:n])
			continue
		}

		if errors.Is(err, unix.EINTR) {
			continue
		}
		if !errors.Is(err, unix.EAGAIN) {
			// EOF, or EIO once the slave side is gone.
			reason := ReasonClosed
			if w.reap() {
				reason = ReasonExited
			}
			if isClosedErr(err) {
				err = nil
			}
			w.finish(command, reason, err)
			return
		}

		if w.hasExited() {
			w.drain(reader, buf)
			w.finish(command, ReasonExited, nil)
			return
		}
		time.Sleep(w.opts.PollInterval)
	}
}

// drain forwards whatever output is still buffered after the child exited.
// It is bounded so a surviving grandchild cannot keep the loop alive.
func (w *worker) drain(reader io.Reader, buf []byte) {
	for i := 0; i < maxDrainReads; i++ {
		n, _ := reader.Read(buf)
		if n <= 0 {
			return
		}
		w.forward(buf[:n])
	}
}

func (w *worker) forward(p []byte) {
	w.total += int64(len(p))
	_, _ = w.screen.Write(p)
}

// kill terminates the child's whole process group. pty.Start makes the
// child a session leader, so its pid is also its group id.
func (w *worker) kill() {
	pid := w.cmd.Process.Pid
	if err := unix.Kill(-pid, unix.SIGKILL); err != nil {
		_ = w.cmd.Process.Kill()
	}
	w.reap()
}

// reap waits briefly for the child's exit status.
func (w *worker) reap() bool {
	if w.hasExited() {
		return true
	}
	timer := time.NewTimer(reapTimeout)
	defer timer.Stop()
	select {
	case <-w.exited:
		return true
	case <-timer.C:
		return false
	}
}

func (w *worker) finish(command string, reason Reason, err error) {
	res := Result{
		Command:  command,
		Reason:   reason,
		ExitCode: -1,
		Bytes:    w.total,
		Duration: time.Since(w.start),
		Pid:      w.cmd.Process.Pid,
		Error:    err,
	}
	if w.hasExited() {
		res.ExitCode = exitCode(w.waitErr)
	}
	w.opts.Logger.Debug("capture finished",
		"command", command,
		"reason", string(reason),
		"exit_code", res.ExitCode,
		"bytes", res.Bytes,
		"duration_ms", res.Duration.Milliseconds(),
	)
	w.capture.finish(res)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

func isClosedErr(err error) bool {
	return err == nil || errors.Is(err, io.EOF) || errors.Is(err, unix.EIO) || errors.Is(err, os.ErrClosed)
}

// nonblockingReader reads the PTY master with O_NONBLOCK set, so an empty
// PTY yields EAGAIN instead of parking the goroutine.
type nonblockingReader struct {
	raw syscall.RawConn
}

func newNonblockingReader(f *os.File) (*nonblockingReader, error) {
	raw, err := f.SyscallConn()
	if err != nil {
		return nil, fmt.Errorf("failed to access PTY descriptor: %w", err)
	}
	var nbErr error
	if err := raw.Control(func(fd uintptr) {
		nbErr = unix.SetNonblock(int(fd), true)
	}); err != nil {
		return nil, err
	}
	if nbErr != nil {
		return nil, fmt.Errorf("failed to set O_NONBLOCK: %w", nbErr)
	}
	return &nonblockingReader{raw: raw}, nil
}

func (r *nonblockingReader) Read(p []byte) (int, error) {
	var (
		n    int
		rErr error
	)
	if err := r.raw.Control(func(fd uintptr) {
		n, rErr = unix.Read(int(fd), p)
	}); err != nil {
		return 0, err
	}
	if n < 0 {
		n = 0
	}
	if n == 0 && rErr == nil {
		return 0, io.EOF
	}
	return n, rErr
}
