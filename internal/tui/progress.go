package tui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yourusername/termreel/core/recorder"
)

// Progress runs the progress view and forwards recorder events to it.
// It implements recorder.Observer.
type Progress struct {
	program *tea.Program
	exited  chan struct{}
}

// StartProgress starts the view on out. The view never reads input, so
// interrupts reach the process as signals.
func StartProgress(command string, out io.Writer) *Progress {
	p := &Progress{
		program: tea.NewProgram(New(command), tea.WithInput(nil), tea.WithOutput(out)),
		exited:  make(chan struct{}),
	}
	go func() {
		defer close(p.exited)
		_, _ = p.program.Run()
	}()
	return p
}

// PhaseStarted implements recorder.Observer.
func (p *Progress) PhaseStarted(phase recorder.Phase) {
	p.program.Send(PhaseMsg{Phase: phase})
}

// FramesChanged implements recorder.Observer.
func (p *Progress) FramesChanged(phase recorder.Phase, frames int) {
	p.program.Send(FramesMsg{Phase: phase, Frames: frames})
}

// Finish stops the view and waits for it to restore the terminal.
func (p *Progress) Finish(err error) {
	p.program.Send(DoneMsg{Err: err})
	<-p.exited
}
