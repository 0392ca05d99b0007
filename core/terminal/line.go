package terminal

import (
	"strings"
	"unicode/utf8"
)

// Style is the rendition attached to a run of characters.
type Style struct {
	Fg   Color
	Bg   Color
	Bold bool
	Dim  bool
}

// IsDefault reports whether the style carries no attributes at all.
func (s Style) IsDefault() bool {
	return s == Style{}
}

// Span is a run of characters sharing one Style.
type Span struct {
	Text string
	Style
}

// Line is one terminal row as a left-to-right list of spans.
// Adjacent spans never share a style.
type Line []Span

// Text returns the characters of the line without styling.
func (l Line) Text() string {
	switch len(l) {
	case 0:
		return ""
	case 1:
		return l[0].Text
	}
	var b strings.Builder
	for _, sp := range l {
		b.WriteString(sp.Text)
	}
	return b.String()
}

// Width returns the number of characters in the line.
func (l Line) Width() int {
	n := 0
	for _, sp := range l {
		n += utf8.RuneCountInString(sp.Text)
	}
	return n
}

// cell is one character of a flattened line.
type cell struct {
	r     rune
	style Style
}

var blank = cell{r: ' '}

func flatten(l Line) []cell {
	cells := make([]cell, 0, l.Width())
	for _, sp := range l {
		for _, r := range sp.Text {
			cells = append(cells, cell{r: r, style: sp.Style})
		}
	}
	return cells
}

// compact rebuilds minimal spans from cells, merging equal neighbours.
func compact(cells []cell) Line {
	if len(cells) == 0 {
		return nil
	}
	var (
		out  Line
		text strings.Builder
		cur  = cells[0].style
	)
	for _, c := range cells {
		if c.style != cur {
			out = append(out, Span{Text: text.String(), Style: cur})
			text.Reset()
			cur = c.style
		}
		text.WriteRune(c.r)
	}
	return append(out, Span{Text: text.String(), Style: cur})
}

// appendRune adds r at the end of l, extending the last span when the
// style matches.
func appendRune(l Line, r rune, st Style) Line {
	if n := len(l); n > 0 && l[n-1].Style == st {
		l[n-1].Text += string(r)
		return l
	}
	return append(l, Span{Text: string(r), Style: st})
}

// putRune writes r at column col. Columns past the end are padded with
// default spaces; columns inside the content are replaced in place.
func putRune(l Line, col int, r rune, st Style) Line {
	width := l.Width()
	if col >= width {
		for ; width < col; width++ {
			l = appendRune(l, ' ', Style{})
		}
		return appendRune(l, r, st)
	}
	cells := flatten(l)
	cells[col] = cell{r: r, style: st}
	return compact(cells)
}

// truncate drops everything from column col to the end of the line.
func truncate(l Line, col int) Line {
	if col <= 0 {
		return nil
	}
	if col >= l.Width() {
		return l
	}
	return compact(flatten(l)[:col])
}

// blankThrough replaces columns 0..col inclusive with default spaces.
func blankThrough(l Line, col int) Line {
	cells := flatten(l)
	if len(cells) == 0 {
		return l
	}
	end := min(col, len(cells)-1)
	for i := 0; i <= end; i++ {
		cells[i] = blank
	}
	return compact(cells)
}

// clone copies the span slice. Span text is immutable, so this is deep.
func (l Line) clone() Line {
	if len(l) == 0 {
		return Line{{}}
	}
	out := make(Line, len(l))
	copy(out, l)
	return out
}
