package recorder

// Phase names a stage of a recording.
type Phase string

const (
	PhaseTyping   Phase = "typing"
	PhaseLive     Phase = "live"
	PhaseFinal    Phase = "final"
	PhaseEncoding Phase = "encoding"
)

// Observer receives progress notifications. Calls are made synchronously
// from the goroutine running Record, so implementations must not block.
type Observer interface {
	PhaseStarted(phase Phase)
	FramesChanged(phase Phase, frames int)
}

type nopObserver struct{}

func (nopObserver) PhaseStarted(Phase)       {}
func (nopObserver) FramesChanged(Phase, int) {}
