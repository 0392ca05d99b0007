package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red  = Style{Fg: Indexed(1)}
	bold = Style{Bold: true}
)

func assertMinimal(t *testing.T, l Line) {
	t.Helper()
	for i := 1; i < len(l); i++ {
		assert.NotEqual(t, l[i-1].Style, l[i].Style, "spans %d and %d share a style", i-1, i)
	}
}

func TestAppendRune_MergesEqualStyle(t *testing.T) {
	var l Line
	l = appendRune(l, 'a', red)
	l = appendRune(l, 'b', red)
	l = appendRune(l, 'c', bold)

	require.Len(t, l, 2)
	assert.Equal(t, Span{Text: "ab", Style: red}, l[0])
	assert.Equal(t, Span{Text: "c", Style: bold}, l[1])
}

func TestPutRune_PadsWithDefaultSpaces(t *testing.T) {
	l := putRune(nil, 3, 'x', red)

	require.Len(t, l, 2)
	assert.Equal(t, Span{Text: "   "}, l[0])
	assert.Equal(t, Span{Text: "x", Style: red}, l[1])
}

func TestPutRune_OverwriteInsideSpans(t *testing.T) {
	base := compact([]cell{
		{'a', Style{}}, {'b', Style{}}, {'c', red}, {'d', red}, {'e', bold},
	})
	require.Len(t, base, 3)

	tests := []struct {
		name  string
		col   int
		style Style
		want  Line
	}{
		{
			name:  "same style keeps spans",
			col:   1,
			style: Style{},
			want:  Line{{Text: "aX"}, {Text: "cd", Style: red}, {Text: "e", Style: bold}},
		},
		{
			name:  "joins right neighbour",
			col:   1,
			style: red,
			want:  Line{{Text: "a"}, {Text: "Xcd", Style: red}, {Text: "e", Style: bold}},
		},
		{
			name:  "splits a span",
			col:   2,
			style: bold,
			want:  Line{{Text: "ab"}, {Text: "X", Style: bold}, {Text: "d", Style: red}, {Text: "e", Style: bold}},
		},
		{
			name:  "bridges two spans",
			col:   3,
			style: bold,
			want:  Line{{Text: "ab"}, {Text: "c", Style: red}, {Text: "Xe", Style: bold}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := append(Line(nil), base...)
			got := putRune(in, tt.col, 'X', tt.style)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, base.Width(), got.Width(), "overwrite keeps the width")
			assertMinimal(t, got)
		})
	}
}

func TestPutRune_MultiByteText(t *testing.T) {
	l := putRune(nil, 0, 'é', Style{})
	l = putRune(l, 1, '€', Style{})
	l = putRune(l, 0, 'x', Style{})

	assert.Equal(t, "x€", l.Text())
	assert.Equal(t, 2, l.Width())
}

func TestCompact(t *testing.T) {
	assert.Nil(t, compact(nil))

	l := compact([]cell{{'a', red}, {'b', red}, {'c', red}})
	assert.Equal(t, Line{{Text: "abc", Style: red}}, l)
}

func TestTruncate(t *testing.T) {
	l := Line{{Text: "ab"}, {Text: "cd", Style: red}}

	assert.Nil(t, truncate(l, 0))
	assert.Equal(t, Line{{Text: "ab"}, {Text: "c", Style: red}}, truncate(l, 3))
	assert.Equal(t, Line{{Text: "ab"}}, truncate(l, 2))
	assert.Equal(t, l, truncate(l, 10))
}

func TestBlankThrough(t *testing.T) {
	l := Line{{Text: "ab", Style: bold}, {Text: "cd", Style: red}}

	assert.Equal(t, Line{{Text: " "}, {Text: "b", Style: bold}, {Text: "cd", Style: red}}, blankThrough(l, 0))
	assert.Equal(t, Line{{Text: "   "}, {Text: "d", Style: red}}, blankThrough(l, 2))
	assert.Equal(t, Line{{Text: "    "}}, blankThrough(l, 9))
	assert.Nil(t, blankThrough(nil, 3))
}

func TestClone(t *testing.T) {
	assert.Equal(t, Line{{}}, Line(nil).clone())

	l := Line{{Text: "ab", Style: red}}
	c := l.clone()
	l[0].Text = "zz"
	assert.Equal(t, "ab", c[0].Text)
}

func TestScreen_OverwriteProducesMinimalSpans(t *testing.T) {
	screen := New(20, 1)
	_, _ = screen.WriteString("\x1b[31mred\x1b[32mgreen\x1b[0mplain")
	before := screen.Snapshot().Lines[0]
	require.Len(t, before, 3)

	_, _ = screen.WriteString("\x1b[5G\x1b[31mX")
	after := screen.Snapshot().Lines[0]

	assert.Equal(t, before.Width(), after.Width())
	assert.Equal(t, "redgXeenplain", after.Text())
	assertMinimal(t, after)
	require.Len(t, after, 5)
}
