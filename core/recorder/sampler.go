package recorder

import (
	"image"
	"time"

	"github.com/yourusername/termreel/core/terminal"
	"github.com/yourusername/termreel/internal/logging"
)

// Frame is one image of the recording and how long it stays on screen.
type Frame struct {
	Image    image.Image
	Duration time.Duration
}

// timeline accumulates frames. Only the duration of the last frame is ever
// changed after it was appended.
type timeline struct {
	frames []Frame
}

func (t *timeline) append(img image.Image, d time.Duration) {
	t.frames = append(t.frames, Frame{Image: img, Duration: d})
}

// extend lengthens the last frame. It reports false when there is none.
func (t *timeline) extend(d time.Duration) bool {
	if len(t.frames) == 0 {
		return false
	}
	t.frames[len(t.frames)-1].Duration += d
	return true
}

func (t *timeline) last() (Frame, bool) {
	if len(t.frames) == 0 {
		return Frame{}, false
	}
	return t.frames[len(t.frames)-1], true
}

func (t *timeline) len() int {
	return len(t.frames)
}

// sampler turns successive snapshots of a live screen into frames,
// collapsing visually identical samples into one longer frame.
type sampler struct {
	renderer   Renderer
	timeline   *timeline
	interval   time.Duration
	showCursor bool
	log        *logging.Logger

	lastPrint uint64
	hasPrint  bool

	appended int // frames added by this sampler
	samples  int
	failures int
}

func newSampler(r Renderer, t *timeline, interval time.Duration, showCursor bool, log *logging.Logger) *sampler {
	return &sampler{
		renderer:   r,
		timeline:   t,
		interval:   interval,
		showCursor: showCursor,
		log:        log,
	}
}

// sample records one tick. An unchanged fingerprint extends the previous
// frame; a changed one renders a new frame. When rendering fails the
// previous frame is extended instead and the fingerprint is not remembered,
// so the next tick tries again.
func (s *sampler) sample(snap terminal.Snapshot) bool {
	s.samples++
	fp := snap.Fingerprint()
	if s.hasPrint && fp == s.lastPrint {
		s.timeline.extend(s.interval)
		return false
	}

	img, err := s.renderer.Render(snap.Lines, snap.CursorRow, snap.CursorCol, s.showCursor)
	if err != nil {
		s.failures++
		s.log.Warn("dropping frame, render failed", "error", err.Error(), "sample", s.samples)
		s.timeline.extend(s.interval)
		return false
	}

	s.timeline.append(img, s.interval)
	s.lastPrint = fp
	s.hasPrint = true
	s.appended++
	return true
}
