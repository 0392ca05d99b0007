package terminal

// parserState is the state of the control-sequence parser.
type parserState uint8

const (
	stateNormal parserState = iota
	stateEscape
	stateCSI
)

// maxParam caps numeric parameters so hostile input cannot overflow.
const maxParam = 1 << 16

// parser accumulates the parameters of the control sequence being read.
type parser struct {
	state   parserState
	private bool
	params  []int
	cur     int
	curSet  bool
}

func (p *parser) reset() {
	p.private = false
	p.params = p.params[:0]
	p.cur = 0
	p.curSet = false
}

// feed advances the parser by one decoded character.
func (s *Screen) feed(r rune) {
	p := &s.parser
	switch p.state {
	case stateNormal:
		s.normal(r)
	case stateEscape:
		if r == '[' {
			p.reset()
			p.state = stateCSI
			return
		}
		p.state = stateNormal
	case stateCSI:
		switch {
		case r >= '0' && r <= '9':
			p.cur = min(p.cur*10+int(r-'0'), maxParam)
			p.curSet = true
		case r == ';':
			p.params = append(p.params, p.cur)
			p.cur = 0
			p.curSet = false
		case r == '?' && !p.curSet && len(p.params) == 0 && !p.private:
			p.private = true
		default:
			if p.curSet || len(p.params) > 0 {
				p.params = append(p.params, p.cur)
			}
			p.state = stateNormal
			if !p.private {
				s.dispatch(r, p.params)
			}
		}
	}
}

func (s *Screen) normal(r rune) {
	switch r {
	case 0x1b:
		s.parser.state = stateEscape
	case '\n':
		s.lineFeed()
	case '\r':
		s.col = 0
	case '\b':
		s.col = max(min(s.col, s.cols)-1, 0)
	case '\t':
		s.tab()
	default:
		if r < 0x20 || r == 0x7f {
			return
		}
		s.place(r)
	}
}

// param returns params[i], or def when it is missing or zero.
func param(params []int, i, def int) int {
	if i < len(params) && params[i] != 0 {
		return params[i]
	}
	return def
}

// dispatch runs a complete control sequence. Unknown terminators are dropped.
func (s *Screen) dispatch(final rune, params []int) {
	switch final {
	case 'A':
		s.row = max(s.row-param(params, 0, 1), 0)
	case 'B':
		s.row = min(s.row+param(params, 0, 1), s.rows-1)
	case 'C':
		s.col = min(s.col+param(params, 0, 1), s.cols-1)
	case 'D':
		s.col = max(min(s.col, s.cols-1)-param(params, 0, 1), 0)
	case 'G':
		s.col = clamp(param(params, 0, 1)-1, 0, s.cols-1)
	case 'H', 'f':
		s.row = clamp(param(params, 0, 1)-1, 0, s.rows-1)
		s.col = clamp(param(params, 1, 1)-1, 0, s.cols-1)
	case 'J':
		s.eraseInDisplay(param(params, 0, 0))
	case 'K':
		s.eraseInLine(param(params, 0, 0))
	case 'm':
		s.style = applySGR(s.style, params)
	}
}

// applySGR returns st updated by one Select Graphic Rendition parameter list.
func applySGR(st Style, params []int) Style {
	if len(params) == 0 {
		return Style{}
	}
	for i := 0; i < len(params); i++ {
		switch n := params[i]; {
		case n == 0:
			st = Style{}
		case n == 1:
			st.Bold = true
		case n == 2:
			st.Dim = true
		case n == 22:
			st.Bold, st.Dim = false, false
		case n >= 30 && n <= 37:
			st.Fg = Indexed(uint8(n - 30))
		case n >= 90 && n <= 97:
			st.Fg = Indexed(uint8(n - 90 + 8))
		case n >= 40 && n <= 47:
			st.Bg = Indexed(uint8(n - 40))
		case n >= 100 && n <= 107:
			st.Bg = Indexed(uint8(n - 100 + 8))
		case n == 39:
			st.Fg = Color{}
		case n == 49:
			st.Bg = Color{}
		case n == 38 || n == 48:
			c, used, ok := extendedColor(params[i+1:])
			if ok {
				if n == 38 {
					st.Fg = c
				} else {
					st.Bg = c
				}
			}
			i += used
		}
	}
	return st
}

// extendedColor parses the tail of a 38/48 sequence: "5;N" or "2;R;G;B".
// used is how many parameters were consumed; ok is false when the tail is
// truncated or unknown, in which case the rest of the list is consumed.
func extendedColor(rest []int) (c Color, used int, ok bool) {
	if len(rest) == 0 {
		return Color{}, 0, false
	}
	switch rest[0] {
	case 5:
		if len(rest) < 2 {
			return Color{}, len(rest), false
		}
		return Indexed(uint8(clamp(rest[1], 0, 255))), 2, true
	case 2:
		if len(rest) < 4 {
			return Color{}, len(rest), false
		}
		return RGB(channel(rest[1]), channel(rest[2]), channel(rest[3])), 4, true
	default:
		return Color{}, len(rest), false
	}
}

func channel(v int) uint8 {
	return uint8(clamp(v, 0, 255))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
