package render

import (
	"image/color"

	"github.com/yourusername/termreel/core/terminal"
)

// MaxCanvas is the largest width or height a GIF can describe.
const MaxCanvas = 65535

// Layout fixes the geometry and colors of every frame.
type Layout struct {
	Cols       int
	Rows       int
	FontSize   float64 // points at 72 DPI, so also pixels
	LineHeight float64 // multiple of the font height
	Padding    int     // pixels around the text area
	Theme      Theme
	WindowBar  bool
	MaxWidth   int // downscale wider frames; 0 keeps the native size
}

// DefaultLayout returns an 80x24 layout with the default theme.
func DefaultLayout() Layout {
	t, _ := LookupTheme("default")
	return Layout{
		Cols:       80,
		Rows:       24,
		FontSize:   16,
		LineHeight: 1.2,
		Padding:    16,
		Theme:      t,
	}
}

func ansi16() [16]color.RGBA {
	return terminal.ANSI16
}
