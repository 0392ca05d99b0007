package recorder

import (
	"errors"
	"fmt"
	"time"

	"github.com/yourusername/termreel/internal/logging"
)

// Defaults applied by withDefaults when a field is left zero.
const (
	DefaultPrompt      = "$ "
	DefaultTypingSpeed = 20.0 // characters per second
	DefaultTypingPause = 500 * time.Millisecond
	DefaultFPS         = 10.0
	DefaultHold        = 2 * time.Second
	DefaultGrace       = 500 * time.Millisecond
)

// Options configures a Recorder.
type Options struct {
	Command string
	Prompt  string
	Cols    int
	Rows    int

	TypingSpeed float64       // characters per second
	TypingPause time.Duration // pause after the last typed character

	FPS  float64       // live sampling rate
	Hold time.Duration // extra time the final frame stays visible

	MaxDuration time.Duration // 0 means until the command completes
	MaxFrames   int           // live frames, 0 means unlimited
	Grace       time.Duration // how long to wait for completion after the live phase

	// ShowCursor draws the cursor on live and final frames. Typing frames
	// always show it.
	ShowCursor bool

	Logger   *logging.Logger
	Observer Observer
}

func (o Options) withDefaults() Options {
	if o.Prompt == "" {
		o.Prompt = DefaultPrompt
	}
	if o.TypingSpeed == 0 {
		o.TypingSpeed = DefaultTypingSpeed
	}
	if o.FPS == 0 {
		o.FPS = DefaultFPS
	}
	if o.Grace == 0 {
		o.Grace = DefaultGrace
	}
	if o.Logger == nil {
		o.Logger = logging.NopLogger()
	}
	if o.Observer == nil {
		o.Observer = nopObserver{}
	}
	return o
}

func (o Options) validate() error {
	var errs []error
	if o.Command == "" {
		errs = append(errs, errors.New("command is required"))
	}
	if o.Cols < 1 || o.Rows < 1 {
		errs = append(errs, fmt.Errorf("invalid viewport %dx%d", o.Cols, o.Rows))
	}
	if o.TypingSpeed <= 0 {
		errs = append(errs, fmt.Errorf("typing speed must be positive, got %v", o.TypingSpeed))
	}
	if o.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %v", o.FPS))
	}
	if o.TypingPause < 0 || o.Hold < 0 || o.MaxDuration < 0 || o.Grace < 0 {
		errs = append(errs, errors.New("durations must not be negative"))
	}
	if o.MaxFrames < 0 {
		errs = append(errs, fmt.Errorf("max frames must not be negative, got %d", o.MaxFrames))
	}
	return errors.Join(errs...)
}

// interval is the live sampling period.
func (o Options) interval() time.Duration {
	return time.Duration(float64(time.Second) / o.FPS)
}

// keystroke is the display time of one typing frame.
func (o Options) keystroke() time.Duration {
	return time.Duration(float64(time.Second) / o.TypingSpeed)
}

func (o Options) promptLine() string {
	return o.Prompt + o.Command
}
