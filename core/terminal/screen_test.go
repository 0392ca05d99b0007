package terminal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowText(s *Screen, row int) string {
	return s.Snapshot().Lines[row].Text()
}

func TestNew(t *testing.T) {
	screen := New(80, 24)

	cols, rows := screen.Size()
	assert.Equal(t, 80, cols)
	assert.Equal(t, 24, rows)

	snap := screen.Snapshot()
	require.Len(t, snap.Lines, 24)
	for _, l := range snap.Lines {
		require.Len(t, l, 1, "empty lines are exposed as one empty span")
		assert.Equal(t, "", l[0].Text)
	}
	assert.Equal(t, 0, snap.CursorRow)
	assert.Equal(t, 0, snap.CursorCol)

	tiny := New(0, -3)
	cols, rows = tiny.Size()
	assert.Equal(t, 1, cols)
	assert.Equal(t, 1, rows)
}

func TestWrite_PlainText(t *testing.T) {
	screen := New(20, 3)

	n, err := screen.WriteString("hello\r\nworld")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	assert.Equal(t, "hello", rowText(screen, 0))
	assert.Equal(t, "world", rowText(screen, 1))

	snap := screen.Snapshot()
	assert.Equal(t, 1, snap.CursorRow)
	assert.Equal(t, 5, snap.CursorCol)
}

func TestWrite_SplitMultiByte(t *testing.T) {
	input := []byte("a\x1b[31mé€𝄞b\x1b[0m z")

	whole := New(20, 2)
	_, _ = whole.Write(input)
	want := whole.Snapshot()

	for cut := 0; cut <= len(input); cut++ {
		split := New(20, 2)
		_, _ = split.Write(input[:cut])
		_, _ = split.Write(input[cut:])
		assert.Equal(t, want, split.Snapshot(), "split at byte %d", cut)
	}
}

func TestWrite_PendingBytesStayBuffered(t *testing.T) {
	screen := New(10, 1)

	_, _ = screen.Write([]byte{0xe2, 0x82})
	assert.Equal(t, "", rowText(screen, 0), "incomplete sequence is not placed")

	_, _ = screen.Write([]byte{0xac})
	assert.Equal(t, "€", rowText(screen, 0))
	assert.Equal(t, 1, screen.Snapshot().CursorCol)
}

func TestWrite_InvalidByte(t *testing.T) {
	screen := New(10, 1)
	_, _ = screen.Write([]byte{'a', 0xff, 'b'})
	assert.Equal(t, "a�b", rowText(screen, 0))
}

func TestWrap(t *testing.T) {
	screen := New(5, 3)

	_, _ = screen.WriteString("abcde")
	snap := screen.Snapshot()
	assert.Equal(t, 0, snap.CursorRow, "filling the last column does not wrap yet")
	assert.Equal(t, 4, snap.CursorCol)

	_, _ = screen.WriteString("f")
	assert.Equal(t, "abcde", rowText(screen, 0))
	assert.Equal(t, "f", rowText(screen, 1))

	snap = screen.Snapshot()
	assert.Equal(t, 1, snap.CursorRow)
	assert.Equal(t, 1, snap.CursorCol)
}

func TestScroll(t *testing.T) {
	screen := New(10, 3)

	_, _ = screen.WriteString("one\r\ntwo\r\nthree\r\nfour")

	snap := screen.Snapshot()
	assert.Equal(t, "two\nthree\nfour", snap.Text())
	assert.Equal(t, 2, snap.CursorRow)
	require.Len(t, snap.Lines, 3)

	_, _ = screen.WriteString("\r\n\r\n\r\n")
	assert.Equal(t, "\n\n", screen.Snapshot().Text())
}

func TestControlCharacters(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantCol int
	}{
		{name: "carriage return overwrites", input: "hello\rJ", want: "Jello", wantCol: 1},
		{name: "backspace", input: "ab\bc", want: "ac", wantCol: 2},
		{name: "backspace floors at zero", input: "\b\b\bx", want: "x", wantCol: 1},
		{name: "tab to next stop", input: "ab\tc", want: "ab      c", wantCol: 9},
		{name: "tab from stop", input: "12345678\tx", want: "12345678        x", wantCol: 17},
		{name: "bell ignored", input: "a\ab", want: "ab", wantCol: 2},
		{name: "other controls ignored", input: "a\x00\x01\x7fb", want: "ab", wantCol: 2},
		{name: "line feed keeps column", input: "ab\ncd", want: "ab", wantCol: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			screen := New(40, 3)
			_, _ = screen.WriteString(tt.input)
			assert.Equal(t, tt.want, rowText(screen, 0))
			assert.Equal(t, tt.wantCol, screen.Snapshot().CursorCol)
		})
	}
}

func TestTab_ClampedToWidth(t *testing.T) {
	screen := New(10, 2)
	_, _ = screen.WriteString("abcdefghi\tX")

	assert.Equal(t, "abcdefghi ", rowText(screen, 0))
	assert.Equal(t, "X", rowText(screen, 1))
}

func TestTab_InheritsStyle(t *testing.T) {
	screen := New(20, 1)
	_, _ = screen.WriteString("\x1b[41ma\tb")

	line := screen.Snapshot().Lines[0]
	require.Len(t, line, 1)
	assert.Equal(t, "a       b", line[0].Text)
	assert.Equal(t, Indexed(1), line[0].Bg)
}

func TestCursorMovement(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantRow int
		wantCol int
	}{
		{name: "up", input: "\x1b[5;5H\x1b[2A", wantRow: 2, wantCol: 4},
		{name: "up clamps", input: "\x1b[2;1H\x1b[9A", wantRow: 0, wantCol: 0},
		{name: "down default", input: "\x1b[B", wantRow: 1, wantCol: 0},
		{name: "down clamps", input: "\x1b[99B", wantRow: 5, wantCol: 0},
		{name: "forward", input: "\x1b[3C", wantRow: 0, wantCol: 3},
		{name: "forward clamps", input: "\x1b[50C", wantRow: 0, wantCol: 9},
		{name: "back", input: "abcd\x1b[2D", wantRow: 0, wantCol: 2},
		{name: "back clamps", input: "ab\x1b[9D", wantRow: 0, wantCol: 0},
		{name: "horizontal absolute", input: "\x1b[7G", wantRow: 0, wantCol: 6},
		{name: "horizontal absolute clamps", input: "\x1b[70G", wantRow: 0, wantCol: 9},
		{name: "position", input: "\x1b[3;4H", wantRow: 2, wantCol: 3},
		{name: "position f", input: "\x1b[2;2f", wantRow: 1, wantCol: 1},
		{name: "position home", input: "abc\x1b[H", wantRow: 0, wantCol: 0},
		{name: "position clamps", input: "\x1b[40;40H", wantRow: 5, wantCol: 9},
		{name: "zero means one", input: "\x1b[0;0H\x1b[0C", wantRow: 0, wantCol: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			screen := New(10, 6)
			_, _ = screen.WriteString(tt.input)
			snap := screen.Snapshot()
			assert.Equal(t, tt.wantRow, snap.CursorRow)
			assert.Equal(t, tt.wantCol, snap.CursorCol)
		})
	}
}

func TestCursorMovement_PlacesAtTarget(t *testing.T) {
	screen := New(10, 3)
	_, _ = screen.WriteString("\x1b[2;5HX")

	assert.Equal(t, "", rowText(screen, 0))
	assert.Equal(t, "    X", rowText(screen, 1))
}

func TestEraseInLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "to end", input: "abcdef\x1b[4G\x1b[K", want: "abc"},
		{name: "to end explicit", input: "abcdef\x1b[4G\x1b[0K", want: "abc"},
		{name: "to start inclusive", input: "abcdef\x1b[3G\x1b[1K", want: "   def"},
		{name: "to start past content", input: "ab\x1b[8G\x1b[1K", want: "  "},
		{name: "whole line", input: "abcdef\x1b[3G\x1b[2K", want: ""},
		{name: "unknown mode ignored", input: "abcdef\x1b[3G\x1b[7K", want: "abcdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			screen := New(10, 2)
			_, _ = screen.WriteString(tt.input)
			assert.Equal(t, tt.want, rowText(screen, 0))
		})
	}
}

func TestEraseInLine_StartUsesDefaultStyle(t *testing.T) {
	screen := New(10, 1)
	_, _ = screen.WriteString("\x1b[1;31mabcd\x1b[2G\x1b[1K")

	line := screen.Snapshot().Lines[0]
	require.Len(t, line, 2)
	assert.Equal(t, Span{Text: "  "}, line[0])
	assert.Equal(t, "cd", line[1].Text)
	assert.True(t, line[1].Bold)
	assert.Equal(t, Indexed(1), line[1].Fg)
}

func TestEraseInDisplay(t *testing.T) {
	fill := "aaaa\r\nbbbb\r\ncccc\x1b[2;3H"

	tests := []struct {
		name string
		seq  string
		want string
	}{
		{name: "to end", seq: "\x1b[J", want: "aaaa\nbb\n"},
		{name: "to start", seq: "\x1b[1J", want: "\n   b\ncccc"},
		{name: "whole screen", seq: "\x1b[2J", want: "\n\n"},
		{name: "whole screen alias", seq: "\x1b[3J", want: "\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			screen := New(4, 3)
			_, _ = screen.WriteString(fill + tt.seq)
			snap := screen.Snapshot()
			assert.Equal(t, tt.want, snap.Text())
			assert.Equal(t, 1, snap.CursorRow, "erase never moves the cursor")
			assert.Equal(t, 2, snap.CursorCol)
		})
	}
}

func TestEscape_NonCSIDiscarded(t *testing.T) {
	screen := New(20, 1)
	_, _ = screen.WriteString("a\x1b7b\x1bMc")
	assert.Equal(t, "abc", rowText(screen, 0))
}

func TestControlSequence_Ignored(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "private mode set", input: "a\x1b[?25lb"},
		{name: "private mode with params", input: "a\x1b[?1049;1hb"},
		{name: "private sgr ignored", input: "a\x1b[?1mb"},
		{name: "unknown terminator", input: "a\x1b[5Sb"},
		{name: "scroll region", input: "a\x1b[1;3rb"},
		{name: "question mark mid sequence", input: "a\x1b[1?b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			screen := New(20, 2)
			_, _ = screen.WriteString(tt.input)
			line := screen.Snapshot().Lines[0]
			require.Len(t, line, 1)
			assert.Equal(t, "ab", line[0].Text)
			assert.True(t, line[0].IsDefault())
		})
	}
}

func TestControlSequence_SplitAcrossWrites(t *testing.T) {
	screen := New(20, 1)
	_, _ = screen.WriteString("a\x1b")
	_, _ = screen.WriteString("[3")
	_, _ = screen.WriteString("2mb")

	line := screen.Snapshot().Lines[0]
	require.Len(t, line, 2)
	assert.Equal(t, Indexed(2), line[1].Fg)
}

func TestSnapshot_IsIndependent(t *testing.T) {
	screen := New(10, 2)
	_, _ = screen.WriteString("abc")
	snap := screen.Snapshot()

	_, _ = screen.WriteString("\rXYZ")
	assert.Equal(t, "abc", snap.Lines[0].Text())
	assert.Equal(t, "XYZ", rowText(screen, 0))
}

func TestSnapshot_TextAndFingerprint(t *testing.T) {
	a := New(10, 2)
	b := New(10, 2)
	_, _ = a.WriteString("hi\r\nthere")
	_, _ = b.WriteString("\x1b[1;32mhi\x1b[0m\r\nthere\x1b[H")

	assert.Equal(t, "hi\nthere", a.Snapshot().Text())
	assert.Equal(t, a.Snapshot().Fingerprint(), b.Snapshot().Fingerprint(),
		"styling and cursor do not change the fingerprint")

	_, _ = b.WriteString("!")
	assert.NotEqual(t, a.Snapshot().Fingerprint(), b.Snapshot().Fingerprint())
}

func TestConcurrentSnapshot(t *testing.T) {
	screen := New(40, 10)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			_, _ = screen.WriteString("\x1b[31mline\x1b[0m " + strings.Repeat("x", i%30) + "\r\n")
		}
	}()

	for {
		select {
		case <-done:
			assert.Len(t, screen.Snapshot().Lines, 10)
			return
		default:
			snap := screen.Snapshot()
			require.Len(t, snap.Lines, 10)
			for _, l := range snap.Lines {
				require.NotEmpty(t, l)
			}
		}
	}
}
