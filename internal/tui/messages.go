package tui

import "github.com/yourusername/termreel/core/recorder"

// PhaseMsg reports that the recorder entered a new phase.
type PhaseMsg struct {
	Phase recorder.Phase
}

// FramesMsg reports the current number of frames.
type FramesMsg struct {
	Phase  recorder.Phase
	Frames int
}

// DoneMsg ends the progress view.
type DoneMsg struct {
	Err error
}
