package executor

import (
	"fmt"
	"os"
	"time"

	"github.com/yourusername/termreel/internal/logging"
)

// Defaults used when Options leaves a field zero.
const (
	DefaultPollInterval = 5 * time.Millisecond
	DefaultReadBuffer   = 32 * 1024
	reapTimeout         = 200 * time.Millisecond
	maxDrainReads       = 64
)

// Options configures a Capturer.
type Options struct {
	Cols    int
	Rows    int
	Timeout time.Duration // 0 disables the timeout

	// Shell runs the command as `Shell -c command`. Empty uses $SHELL,
	// then /bin/sh.
	Shell string
	Dir   string
	Env   []string // extra variables appended to the inherited environment

	PollInterval time.Duration
	Logger       *logging.Logger
}

func (o Options) withDefaults() Options {
	if o.Cols <= 0 {
		o.Cols = 80
	}
	if o.Rows <= 0 {
		o.Rows = 24
	}
	if o.Shell == "" {
		o.Shell = os.Getenv("SHELL")
	}
	if o.Shell == "" {
		o.Shell = "/bin/sh"
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.Logger == nil {
		o.Logger = logging.NopLogger()
	}
	return o
}

// environ returns the child environment: the parent's, the caller's extras,
// then the viewport variables, later entries winning.
func (o Options) environ() []string {
	env := append(os.Environ(), o.Env...)
	return append(env,
		"TERM=xterm-256color",
		fmt.Sprintf("COLUMNS=%d", o.Cols),
		fmt.Sprintf("LINES=%d", o.Rows),
	)
}
