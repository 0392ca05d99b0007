// Package render rasterizes terminal screens into images using the Go mono
// fonts.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/yourusername/termreel/core/terminal"
)

// ErrCanvasTooLarge is returned by NewRenderer when the layout does not fit
// in a GIF.
var ErrCanvasTooLarge = errors.New("canvas exceeds the maximum image size")

// dimAmount is how far dim text is pulled towards its background.
const dimAmount = 0.45

var barColors = [3]color.RGBA{
	{0xff, 0x5f, 0x58, 0xff},
	{0xff, 0xbd, 0x2e, 0xff},
	{0x18, 0xc1, 0x32, 0xff},
}

// Renderer draws screens with a fixed Layout. It is safe for concurrent
// use, though calls are serialized.
type Renderer struct {
	mu sync.Mutex

	layout  Layout
	colors  colors
	regular font.Face
	bold    font.Face

	cellW  int
	cellH  int
	ascent int
	barH   int
	width  int
	height int
}

// NewRenderer loads the fonts and computes the cell geometry once.
func NewRenderer(layout Layout) (*Renderer, error) {
	if layout.Cols < 1 || layout.Rows < 1 {
		return nil, fmt.Errorf("invalid grid %dx%d", layout.Cols, layout.Rows)
	}
	def := DefaultLayout()
	if layout.FontSize <= 0 {
		layout.FontSize = def.FontSize
	}
	if layout.LineHeight <= 0 {
		layout.LineHeight = def.LineHeight
	}
	if layout.Padding < 0 {
		layout.Padding = 0
	}
	if layout.Theme.Background == "" && layout.Theme.Foreground == "" {
		layout.Theme = def.Theme
	}

	c, err := layout.Theme.resolve()
	if err != nil {
		return nil, fmt.Errorf("failed to load theme %q: %w", layout.Theme.Name, err)
	}
	regular, err := newFace(gomono.TTF, layout.FontSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load regular font: %w", err)
	}
	bold, err := newFace(gomonobold.TTF, layout.FontSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load bold font: %w", err)
	}

	adv, ok := regular.GlyphAdvance('M')
	if !ok {
		return nil, errors.New("font has no glyph for M")
	}
	m := regular.Metrics()
	fontH := m.Height.Ceil()
	r := &Renderer{
		layout:  layout,
		colors:  c,
		regular: regular,
		bold:    bold,
		cellW:   adv.Ceil(),
		cellH:   int(math.Ceil(float64(fontH) * layout.LineHeight)),
	}
	r.ascent = m.Ascent.Ceil() + (r.cellH-fontH)/2
	if layout.WindowBar {
		r.barH = int(math.Ceil(layout.FontSize * 2))
	}

	w := 2*layout.Padding + layout.Cols*r.cellW
	h := 2*layout.Padding + r.barH + layout.Rows*r.cellH
	if w > MaxCanvas || h > MaxCanvas {
		return nil, fmt.Errorf("%w: %dx%d pixels, limit is %d", ErrCanvasTooLarge, w, h, MaxCanvas)
	}
	r.width, r.height = w, h
	return r, nil
}

func newFace(ttf []byte, size float64) (font.Face, error) {
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Size returns the size of the images Render produces.
func (r *Renderer) Size() (width, height int) {
	if mw := r.layout.MaxWidth; mw > 0 && r.width > mw {
		return mw, int(math.Round(float64(r.height) * float64(mw) / float64(r.width)))
	}
	return r.width, r.height
}

// CellSize returns the pixel size of one character cell.
func (r *Renderer) CellSize() (width, height int) {
	return r.cellW, r.cellH
}

// Render draws lines onto a fresh image. Lines and columns beyond the
// layout are clipped. The cursor is drawn as a block in inverse colors.
func (r *Renderer) Render(lines []terminal.Line, cursorRow, cursorCol int, showCursor bool) (image.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(r.colors.bg), image.Point{}, draw.Src)
	if r.layout.WindowBar {
		r.drawBar(img)
	}

	for row, line := range lines {
		if row >= r.layout.Rows {
			break
		}
		col := 0
		for _, sp := range line {
			fg, bg, hasBg := r.styleColors(sp.Style)
			face := r.faceFor(sp.Style)
			for _, ch := range sp.Text {
				if col >= r.layout.Cols {
					break
				}
				r.drawCell(img, row, col, ch, face, fg, bg, hasBg)
				col++
			}
		}
	}

	if showCursor && cursorRow >= 0 && cursorRow < r.layout.Rows && cursorCol >= 0 && cursorCol < r.layout.Cols {
		ch, st := ' ', terminal.Style{}
		if cursorRow < len(lines) {
			ch, st = runeAt(lines[cursorRow], cursorCol)
		}
		r.drawCell(img, cursorRow, cursorCol, ch, r.faceFor(st), r.colors.bg, r.colors.cursor, true)
	}

	if mw := r.layout.MaxWidth; mw > 0 && r.width > mw {
		return imaging.Resize(img, mw, 0, imaging.Lanczos), nil
	}
	return img, nil
}

func (r *Renderer) styleColors(st terminal.Style) (fg, bg color.RGBA, hasBg bool) {
	fg = r.colors.fg
	if c, ok := st.Fg.Resolve(&r.colors.palette); ok {
		fg = c
	}
	bg = r.colors.bg
	if c, ok := st.Bg.Resolve(&r.colors.palette); ok {
		bg, hasBg = c, true
	}
	if st.Dim {
		fg = blend(fg, bg, dimAmount)
	}
	return fg, bg, hasBg
}

func (r *Renderer) faceFor(st terminal.Style) font.Face {
	if st.Bold {
		return r.bold
	}
	return r.regular
}

func (r *Renderer) cellOrigin(row, col int) image.Point {
	return image.Pt(
		r.layout.Padding+col*r.cellW,
		r.layout.Padding+r.barH+row*r.cellH,
	)
}

func (r *Renderer) drawCell(img *image.RGBA, row, col int, ch rune, face font.Face, fg, bg color.RGBA, fill bool) {
	o := r.cellOrigin(row, col)
	if fill {
		rect := image.Rect(o.X, o.Y, o.X+r.cellW, o.Y+r.cellH)
		draw.Draw(img, rect, image.NewUniform(bg), image.Point{}, draw.Src)
	}
	if ch == ' ' {
		return
	}
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(o.X, o.Y+r.ascent),
	}
	d.DrawString(string(ch))
}

// drawBar paints the three window buttons in the top padding area.
func (r *Renderer) drawBar(img *image.RGBA) {
	radius := r.layout.FontSize * 0.4
	cy := float64(r.layout.Padding) + float64(r.barH)/2
	for i, c := range barColors {
		cx := float64(r.layout.Padding) + radius + float64(i)*radius*3
		fillCircle(img, cx, cy, radius, c)
	}
}

func fillCircle(img *image.RGBA, cx, cy, radius float64, c color.RGBA) {
	r2 := radius * radius
	minX, maxX := int(math.Floor(cx-radius)), int(math.Ceil(cx+radius))
	minY, maxY := int(math.Floor(cy-radius)), int(math.Ceil(cy+radius))
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if dx*dx+dy*dy <= r2 {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

// runeAt returns the character and style at col, or a default space past
// the end of the line.
func runeAt(l terminal.Line, col int) (rune, terminal.Style) {
	i := 0
	for _, sp := range l {
		for _, ch := range sp.Text {
			if i == col {
				return ch, sp.Style
			}
			i++
		}
	}
	return ' ', terminal.Style{}
}
