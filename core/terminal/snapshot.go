package terminal

import (
	"hash/fnv"
	"strings"
)

// Snapshot is an immutable copy of a Screen at one instant.
type Snapshot struct {
	Lines     []Line
	CursorRow int
	CursorCol int
	Cols      int
	Rows      int
}

// Text returns the visible characters, one row per line, without styling.
func (s Snapshot) Text() string {
	var b strings.Builder
	for i, l := range s.Lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(l.Text())
	}
	return b.String()
}

// Fingerprint hashes the visible text. Two snapshots that differ only in
// styling or cursor position share a fingerprint.
func (s Snapshot) Fingerprint() uint64 {
	h := fnv.New64a()
	for i, l := range s.Lines {
		if i > 0 {
			h.Write([]byte{'\n'})
		}
		for _, sp := range l {
			h.Write([]byte(sp.Text))
		}
	}
	return h.Sum64()
}
