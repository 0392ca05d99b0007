// Package terminal implements the screen model that recordings are built
// from: a fixed-size viewport of styled lines fed by a small ANSI/VT
// control-sequence parser.
//
// A Screen is written by one goroutine (the capture worker) through Write
// and read by others only through Snapshot, which returns a deep copy.
// Unsupported or private control sequences are consumed and ignored so that
// real-world programs never desynchronize the parser.
package terminal

import (
	"sync"
	"unicode/utf8"
)

// Screen is a bounded terminal viewport. It is safe for one writer and any
// number of concurrent Snapshot callers.
type Screen struct {
	mu sync.Mutex

	cols int
	rows int

	// lines always holds exactly rows entries between calls.
	lines []Line

	// row and col locate the cursor. col may equal cols after the last
	// column was written; the next printable character wraps first.
	row int
	col int

	style   Style
	parser  parser
	pending []byte // incomplete UTF-8 tail of the previous Write
}

// New creates an empty screen of the given size. Sizes below 1 are raised
// to 1.
func New(cols, rows int) *Screen {
	cols = max(cols, 1)
	rows = max(rows, 1)
	return &Screen{
		cols:  cols,
		rows:  rows,
		lines: make([]Line, rows),
	}
}

// Size returns the viewport size.
func (s *Screen) Size() (cols, rows int) {
	return s.cols, s.rows
}

// Write feeds raw terminal output. A trailing incomplete UTF-8 sequence is
// kept until a later call completes it. Write never fails.
func (s *Screen) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := p
	if len(s.pending) > 0 {
		data = append(s.pending, p...)
		s.pending = nil
	}

	for i := 0; i < len(data); {
		if !utf8.FullRune(data[i:]) {
			s.pending = append([]byte(nil), data[i:]...)
			break
		}
		r, size := utf8.DecodeRune(data[i:])
		s.feed(r)
		i += size
	}
	return len(p), nil
}

// WriteString is Write for strings.
func (s *Screen) WriteString(str string) (int, error) {
	return s.Write([]byte(str))
}

// Snapshot returns a deep copy of the visible lines and the cursor.
func (s *Screen) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]Line, len(s.lines))
	for i, l := range s.lines {
		lines[i] = l.clone()
	}
	return Snapshot{
		Lines:     lines,
		CursorRow: s.row,
		CursorCol: min(s.col, s.cols-1),
		Cols:      s.cols,
		Rows:      s.rows,
	}
}

// place writes r at the cursor with the active style and advances.
func (s *Screen) place(r rune) {
	if s.col >= s.cols {
		s.col = 0
		s.lineFeed()
	}
	s.lines[s.row] = putRune(s.lines[s.row], s.col, r, s.style)
	s.col++
}

// lineFeed moves the cursor down one row, scrolling the viewport when it is
// already on the last row. Scrolled-off lines are discarded.
func (s *Screen) lineFeed() {
	if s.row < s.rows-1 {
		s.row++
		return
	}
	copy(s.lines, s.lines[1:])
	s.lines[s.rows-1] = nil
}

// tab emits spaces up to the next multiple of 8, clamped to the width.
func (s *Screen) tab() {
	next := min((s.col/8+1)*8, s.cols)
	for s.col < next {
		s.place(' ')
	}
}

func (s *Screen) eraseInDisplay(mode int) {
	switch mode {
	case 0:
		s.lines[s.row] = truncate(s.lines[s.row], s.col)
		for i := s.row + 1; i < s.rows; i++ {
			s.lines[i] = nil
		}
	case 1:
		for i := 0; i < s.row; i++ {
			s.lines[i] = nil
		}
		s.lines[s.row] = blankThrough(s.lines[s.row], s.col)
	case 2, 3:
		for i := range s.lines {
			s.lines[i] = nil
		}
	}
}

func (s *Screen) eraseInLine(mode int) {
	switch mode {
	case 0:
		s.lines[s.row] = truncate(s.lines[s.row], s.col)
	case 1:
		s.lines[s.row] = blankThrough(s.lines[s.row], s.col)
	case 2:
		s.lines[s.row] = nil
	}
}
