package render

import (
	"errors"
	"fmt"
	"image/color"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrUnknownTheme is returned by LookupTheme for names that are not built in.
var ErrUnknownTheme = errors.New("unknown theme")

// Theme describes the colors of the rendered terminal as hex strings.
// Palette overrides ANSI colors 0-15; empty entries keep the xterm values.
type Theme struct {
	Name       string     `yaml:"name"`
	Background string     `yaml:"background"`
	Foreground string     `yaml:"foreground"`
	Cursor     string     `yaml:"cursor"`
	Palette    [16]string `yaml:"palette"`
}

var themes = map[string]Theme{
	"default": {
		Name:       "default",
		Background: "#171717",
		Foreground: "#dddddd",
		Cursor:     "#eeeeee",
	},
	"dracula": {
		Name:       "dracula",
		Background: "#282a36",
		Foreground: "#f8f8f2",
		Cursor:     "#f8f8f2",
		Palette: [16]string{
			"#21222c", "#ff5555", "#50fa7b", "#f1fa8c", "#bd93f9", "#ff79c6", "#8be9fd", "#f8f8f2",
			"#6272a4", "#ff6e6e", "#69ff94", "#ffffa5", "#d6acff", "#ff92df", "#a4ffff", "#ffffff",
		},
	},
	"solarized-dark": {
		Name:       "solarized-dark",
		Background: "#002b36",
		Foreground: "#839496",
		Cursor:     "#93a1a1",
		Palette: [16]string{
			"#073642", "#dc322f", "#859900", "#b58900", "#268bd2", "#d33682", "#2aa198", "#eee8d5",
			"#002b36", "#cb4b16", "#586e75", "#657b83", "#839496", "#6c71c4", "#93a1a1", "#fdf6e3",
		},
	},
	"light": {
		Name:       "light",
		Background: "#fafafa",
		Foreground: "#383a42",
		Cursor:     "#526fff",
		Palette: [16]string{
			"#383a42", "#e45649", "#50a14f", "#c18401", "#0184bc", "#a626a4", "#0997b3", "#fafafa",
			"#4f525e", "#e06c75", "#98c379", "#e5c07b", "#61afef", "#c678dd", "#56b6c2", "#ffffff",
		},
	},
}

// ThemeNames lists the built-in themes in alphabetical order.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupTheme returns a built-in theme by name.
func LookupTheme(name string) (Theme, error) {
	t, ok := themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	return t, nil
}

// colors is a Theme resolved to RGBA values.
type colors struct {
	bg      color.RGBA
	fg      color.RGBA
	cursor  color.RGBA
	palette [16]color.RGBA
}

func (t Theme) resolve() (colors, error) {
	var c colors
	var err error
	if c.bg, err = parseHex("background", t.Background); err != nil {
		return c, err
	}
	if c.fg, err = parseHex("foreground", t.Foreground); err != nil {
		return c, err
	}
	c.cursor = c.fg
	if t.Cursor != "" {
		if c.cursor, err = parseHex("cursor", t.Cursor); err != nil {
			return c, err
		}
	}
	c.palette = ansi16()
	for i, hex := range t.Palette {
		if hex == "" {
			continue
		}
		if c.palette[i], err = parseHex(fmt.Sprintf("palette[%d]", i), hex); err != nil {
			return c, err
		}
	}
	return c, nil
}

func parseHex(field, hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid %s color %q: %w", field, hex, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// blend mixes fg towards bg; t=0 is fg, t=1 is bg.
func blend(fg, bg color.RGBA, t float64) color.RGBA {
	a, _ := colorful.MakeColor(fg)
	b, _ := colorful.MakeColor(bg)
	r, g, bl := a.BlendRgb(b, t).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: bl, A: 0xff}
}
