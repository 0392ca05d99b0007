package terminal

import "image/color"

// ColorKind tells how a Color should be resolved.
type ColorKind uint8

const (
	// ColorDefault means no color was selected; the renderer's theme decides.
	ColorDefault ColorKind = iota
	// ColorIndexed refers to an entry of the 256-color palette.
	ColorIndexed
	// ColorRGB is an exact 24-bit color.
	ColorRGB
)

// Color is a foreground or background color as selected by SGR.
// The zero value is the default color. Color is comparable.
type Color struct {
	Kind  ColorKind
	Index uint8
	R     uint8
	G     uint8
	B     uint8
}

// Indexed returns a palette color.
func Indexed(n uint8) Color {
	return Color{Kind: ColorIndexed, Index: n}
}

// RGB returns an exact 24-bit color.
func RGB(r, g, b uint8) Color {
	return Color{Kind: ColorRGB, R: r, G: g, B: b}
}

// IsDefault reports whether no color was selected.
func (c Color) IsDefault() bool {
	return c.Kind == ColorDefault
}

// Resolve maps the color to RGB. Indexed colors 0-15 come from base, which
// lets themes restyle the basic ANSI colors. ok is false for the default color.
func (c Color) Resolve(base *[16]color.RGBA) (rgba color.RGBA, ok bool) {
	switch c.Kind {
	case ColorIndexed:
		if c.Index < 16 && base != nil {
			return base[c.Index], true
		}
		return PaletteColor(c.Index), true
	case ColorRGB:
		return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}, true
	default:
		return color.RGBA{}, false
	}
}

// ANSI16 holds the basic and bright ANSI colors, xterm values.
var ANSI16 = [16]color.RGBA{
	{0x00, 0x00, 0x00, 0xff},
	{0xcd, 0x00, 0x00, 0xff},
	{0x00, 0xcd, 0x00, 0xff},
	{0xcd, 0xcd, 0x00, 0xff},
	{0x00, 0x00, 0xee, 0xff},
	{0xcd, 0x00, 0xcd, 0xff},
	{0x00, 0xcd, 0xcd, 0xff},
	{0xe5, 0xe5, 0xe5, 0xff},
	{0x7f, 0x7f, 0x7f, 0xff},
	{0xff, 0x00, 0x00, 0xff},
	{0x00, 0xff, 0x00, 0xff},
	{0xff, 0xff, 0x00, 0xff},
	{0x5c, 0x5c, 0xff, 0xff},
	{0xff, 0x00, 0xff, 0xff},
	{0x00, 0xff, 0xff, 0xff},
	{0xff, 0xff, 0xff, 0xff},
}

// cubeStep maps a 0-5 cube coordinate to its channel value.
func cubeStep(v uint8) uint8 {
	if v == 0 {
		return 0
	}
	return 55 + 40*v
}

// PaletteColor returns entry n of the xterm 256-color palette:
// 0-15 ANSI colors, 16-231 a 6x6x6 cube, 232-255 a grayscale ramp.
func PaletteColor(n uint8) color.RGBA {
	switch {
	case n < 16:
		return ANSI16[n]
	case n < 232:
		i := n - 16
		return color.RGBA{
			R: cubeStep(i / 36),
			G: cubeStep((i / 6) % 6),
			B: cubeStep(i % 6),
			A: 0xff,
		}
	default:
		v := 8 + 10*(n-232)
		return color.RGBA{R: v, G: v, B: v, A: 0xff}
	}
}
