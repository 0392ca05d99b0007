// Package tui shows a one-line progress view while a recording runs.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yourusername/termreel/core/recorder"
)

// maxCommandWidth bounds how much of the command the view shows.
const maxCommandWidth = 40

// Model is the bubbletea model of the progress view.
type Model struct {
	spinner spinner.Model
	command string
	phase   recorder.Phase
	frames  int
	start   time.Time
	now     func() time.Time

	done bool
	err  error
}

// New creates a progress model for command.
func New(command string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle
	return Model{
		spinner: s,
		command: command,
		start:   time.Now(),
		now:     time.Now,
	}
}

// Init starts the spinner.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Done reports whether the recording finished.
func (m Model) Done() bool {
	return m.done
}

// Err returns the error the recording finished with, if any.
func (m Model) Err() error {
	return m.err
}
