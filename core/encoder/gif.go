// Package encoder writes recordings as animated GIFs.
package encoder

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/soniakeys/quant/median"

	"github.com/yourusername/termreel/core/recorder"
	"github.com/yourusername/termreel/internal/logging"
)

var (
	// ErrNoFrames is returned when there is nothing to encode.
	ErrNoFrames = errors.New("no frames to encode")
	// ErrCreateOutput is returned when the output file cannot be created.
	ErrCreateOutput = errors.New("cannot create output")
	// ErrFinalizeOutput is returned when the output cannot be written or
	// moved into place.
	ErrFinalizeOutput = errors.New("cannot finalize output")
)

const (
	centisecond = 10 * time.Millisecond
	// Most viewers replace delays below 2cs with 10cs.
	minDelay = 2
)

// GIF encodes frames into an animated GIF at Path.
type GIF struct {
	Path      string
	LoopCount int // 0 loops forever
	Colors    int // palette size per frame, at most 256
	Logger    *logging.Logger
}

// NewGIF returns an encoder writing to path.
func NewGIF(path string, logger *logging.Logger) *GIF {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &GIF{Path: path, Colors: 256, Logger: logger}
}

// Encode implements recorder.Encoder. The file at Path is replaced only
// when encoding succeeds.
func (g *GIF) Encode(frames []recorder.Frame) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	start := time.Now()

	anim := &gif.GIF{
		Image:     make([]*image.Paletted, len(frames)),
		Delay:     Delays(frames),
		LoopCount: g.LoopCount,
	}
	colors := g.Colors
	if colors <= 0 || colors > 256 {
		colors = 256
	}
	q := median.Quantizer(colors)
	for i, f := range frames {
		if f.Image == nil {
			return fmt.Errorf("%w: frame %d has no image", ErrFinalizeOutput, i)
		}
		if p, ok := f.Image.(*image.Paletted); ok {
			anim.Image[i] = p
			continue
		}
		anim.Image[i] = q.Paletted(f.Image)
	}

	size, err := writeAtomic(g.Path, func(f *os.File) error {
		w := bufio.NewWriter(f)
		if err := gif.EncodeAll(w, anim); err != nil {
			return err
		}
		return w.Flush()
	})
	if err != nil {
		return err
	}

	g.Logger.Debug("gif written",
		"path", g.Path,
		"frames", len(frames),
		"bytes", size,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Delays converts frame durations to GIF delays in centiseconds. Rounding
// error is carried forward so the animation's total length stays within
// half a centisecond of the sum of the durations, apart from frames raised
// to the minimum delay.
func Delays(frames []recorder.Frame) []int {
	delays := make([]int, len(frames))
	var total time.Duration
	emitted := 0
	for i, f := range frames {
		total += f.Duration
		target := int(math.Round(float64(total) / float64(centisecond)))
		d := max(target-emitted, minDelay)
		delays[i] = d
		emitted += d
	}
	return delays
}

// writeAtomic writes through a temporary file next to path and renames it
// into place, returning the final size.
func writeAtomic(path string, write func(*os.File) error) (int64, error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCreateOutput, err)
	}
	tmpName := tmp.Name()
	fail := func(err error) (int64, error) {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return 0, fmt.Errorf("%w: %w", ErrFinalizeOutput, err)
	}

	if err := write(tmp); err != nil {
		return fail(err)
	}
	if err := tmp.Chmod(0644); err != nil {
		return fail(err)
	}
	info, err := tmp.Stat()
	if err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return 0, fmt.Errorf("%w: %w", ErrFinalizeOutput, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return 0, fmt.Errorf("%w: %w", ErrFinalizeOutput, err)
	}
	return info.Size(), nil
}
