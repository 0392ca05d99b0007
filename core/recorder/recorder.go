// Package recorder turns the execution of a command into a timed sequence
// of frames.
//
// A recording has three phases. Typing replays the prompt line one
// character at a time on disposable screens. Live capture runs the command
// under a pseudo-terminal and samples the screen at a fixed rate, merging
// identical samples into one longer frame. Final takes one last snapshot
// and holds it. The finished sequence is handed to an Encoder once.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/termreel/core/executor"
	"github.com/yourusername/termreel/core/terminal"
	"github.com/yourusername/termreel/internal/logging"
)

// Renderer rasterizes screen content. An error drops the frame.
type Renderer interface {
	Render(lines []terminal.Line, cursorRow, cursorCol int, showCursor bool) (image.Image, error)
}

// Encoder writes a finished frame sequence. Any error fails the recording.
type Encoder interface {
	Encode(frames []Frame) error
}

// StopReason tells why the live phase ended.
type StopReason string

const (
	StopCompleted   StopReason = "completed"
	StopMaxDuration StopReason = "max-duration"
	StopMaxFrames   StopReason = "max-frames"
	StopCanceled    StopReason = "canceled"
)

// Summary describes a finished recording.
type Summary struct {
	RunID        string          `json:"run_id"`
	Frames       int             `json:"frames"`
	TypingFrames int             `json:"typing_frames"`
	LiveFrames   int             `json:"live_frames"`
	Dropped      int             `json:"dropped_frames"`
	Duration     time.Duration   `json:"duration"`
	Stop         StopReason      `json:"stop"`
	Capture      executor.Result `json:"capture"`
	Completed    bool            `json:"completed"` // capture signaled completion within the grace period
}

// Recorder records one command.
type Recorder struct {
	opts     Options
	renderer Renderer
	encoder  Encoder
	capturer executor.Capturer
	runID    string
	log      *logging.Logger
}

// New validates opts and creates a Recorder.
func New(opts Options, renderer Renderer, encoder Encoder, capturer executor.Capturer) (*Recorder, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid recorder options: %w", err)
	}
	if renderer == nil || encoder == nil || capturer == nil {
		return nil, errors.New("recorder needs a renderer, an encoder and a capturer")
	}

	runID := uuid.NewString()
	return &Recorder{
		opts:     opts,
		renderer: renderer,
		encoder:  encoder,
		capturer: capturer,
		runID:    runID,
		log:      opts.Logger.WithRun(runID),
	}, nil
}

// RunID identifies this recording in logs.
func (r *Recorder) RunID() string {
	return r.runID
}

// Record runs all phases and encodes the result. Cancelling ctx kills the
// command and ends the live phase early; whatever was captured is still
// encoded.
func (r *Recorder) Record(ctx context.Context) (Summary, error) {
	start := time.Now()
	summary := Summary{RunID: r.runID}
	tl := &timeline{}

	r.log.Info("recording started",
		"command", r.opts.Command,
		"cols", r.opts.Cols,
		"rows", r.opts.Rows,
		"fps", r.opts.FPS,
	)

	summary.TypingFrames = r.typing(tl)

	live := r.liveCapture(ctx, tl)
	summary.LiveFrames = live.appended
	summary.Dropped = live.failures
	summary.Stop = live.stop
	summary.Capture = live.result
	summary.Completed = live.completed

	r.final(tl, live.screen)

	summary.Frames = tl.len()
	for _, f := range tl.frames {
		summary.Duration += f.Duration
	}

	r.opts.Observer.PhaseStarted(PhaseEncoding)
	log := r.log.WithPhase(string(PhaseEncoding))
	if err := r.encoder.Encode(tl.frames); err != nil {
		log.Error("encoding failed", "error", err.Error())
		return summary, fmt.Errorf("failed to encode recording: %w", err)
	}

	log.Info("recording finished",
		"frames", summary.Frames,
		"duration_ms", summary.Duration.Milliseconds(),
		"elapsed_ms", time.Since(start).Milliseconds(),
		"stop", string(summary.Stop),
	)
	return summary, nil
}

// typing appends one frame per prefix of the prompt line plus a pause
// frame, and returns the number of typed frames.
func (r *Recorder) typing(tl *timeline) int {
	r.opts.Observer.PhaseStarted(PhaseTyping)
	log := r.log.WithPhase(string(PhaseTyping))

	line := []rune(r.opts.promptLine())
	step := r.opts.keystroke()
	typed := 0
	for n := 0; n <= len(line); n++ {
		screen := terminal.New(r.opts.Cols, r.opts.Rows)
		_, _ = screen.WriteString(string(line[:n]))
		snap := screen.Snapshot()

		img, err := r.renderer.Render(snap.Lines, snap.CursorRow, snap.CursorCol, true)
		if err != nil {
			log.Warn("dropping typing frame, render failed", "error", err.Error(), "prefix", n)
			tl.extend(step)
			continue
		}
		tl.append(img, step)
		typed++
		r.opts.Observer.FramesChanged(PhaseTyping, tl.len())
	}

	if last, ok := tl.last(); ok && r.opts.TypingPause > 0 {
		tl.append(last.Image, r.opts.TypingPause)
		r.opts.Observer.FramesChanged(PhaseTyping, tl.len())
	}

	log.Debug("typing finished", "frames", typed)
	return typed
}

type liveOutcome struct {
	screen    *terminal.Screen
	appended  int
	failures  int
	stop      StopReason
	result    executor.Result
	completed bool
}

// liveCapture runs the command and samples the live screen until the
// command completes or a cap is reached, then waits up to the grace period
// for completion.
func (r *Recorder) liveCapture(ctx context.Context, tl *timeline) liveOutcome {
	r.opts.Observer.PhaseStarted(PhaseLive)
	log := r.log.WithPhase(string(PhaseLive))

	screen := terminal.New(r.opts.Cols, r.opts.Rows)
	_, _ = screen.WriteString(r.opts.promptLine() + "\r\n")

	interval := r.opts.interval()
	s := newSampler(r.renderer, tl, interval, r.opts.ShowCursor, log)
	out := liveOutcome{screen: screen}

	capture := r.capturer.Start(ctx, r.opts.Command, screen)
	start := time.Now()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sample := func() {
		if s.sample(screen.Snapshot()) {
			r.opts.Observer.FramesChanged(PhaseLive, tl.len())
		}
	}

	sample()
loop:
	for {
		if r.opts.MaxFrames > 0 && s.appended >= r.opts.MaxFrames {
			out.stop = StopMaxFrames
			break
		}
		select {
		case <-capture.Done():
			out.stop = StopCompleted
			break loop
		case <-ctx.Done():
			out.stop = StopCanceled
			break loop
		case <-ticker.C:
			if r.opts.MaxDuration > 0 && time.Since(start) >= r.opts.MaxDuration {
				out.stop = StopMaxDuration
				break loop
			}
			sample()
		}
	}

	out.completed = capture.Wait(r.opts.Grace)
	if out.completed {
		out.result = capture.Result()
	} else {
		log.Warn("capture still running after grace period", "grace", r.opts.Grace.String())
	}

	out.appended = s.appended
	out.failures = s.failures
	log.Debug("live capture finished",
		"stop", string(out.stop),
		"samples", s.samples,
		"frames", s.appended,
		"dropped", s.failures,
		"reason", string(out.result.Reason),
		"exit_code", out.result.ExitCode,
	)
	return out
}

// final renders the screen once more and holds it.
func (r *Recorder) final(tl *timeline, screen *terminal.Screen) {
	r.opts.Observer.PhaseStarted(PhaseFinal)
	log := r.log.WithPhase(string(PhaseFinal))

	d := r.opts.interval() + r.opts.Hold
	snap := screen.Snapshot()
	img, err := r.renderer.Render(snap.Lines, snap.CursorRow, snap.CursorCol, r.opts.ShowCursor)
	if err != nil {
		log.Warn("final frame render failed, holding previous frame", "error", err.Error())
		tl.extend(d)
		return
	}
	tl.append(img, d)
	r.opts.Observer.FramesChanged(PhaseFinal, tl.len())
}
