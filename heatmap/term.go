package heatmap

import (
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Half blocks paint one pixel of a cell with the foreground color and the
// other with the background color.
const (
	upperHalf = "▀"
	lowerHalf = "▄"
)

// TermCanvas is a Canvas backed by terminal cells. Every cell holds two
// vertically stacked pixels, which keeps square tiles roughly square on
// screen.
type TermCanvas struct {
	width, height int
	background    color.NRGBA

	pixels []color.NRGBA
	set    []bool
	text   map[image.Point]textCell
}

type textCell struct {
	r     rune
	color color.NRGBA
}

// NewTermCanvas returns a canvas of width x height pixels, i.e. width
// columns and height/2 (rounded up) lines. Translucent colors are blended
// against background.
func NewTermCanvas(width, height int, background color.NRGBA) *TermCanvas {
	width, height = max(width, 0), max(height, 0)
	return &TermCanvas{
		width:      width,
		height:     height,
		background: background,
		pixels:     make([]color.NRGBA, width*height),
		set:        make([]bool, width*height),
		text:       make(map[image.Point]textCell),
	}
}

// ToPixel converts a terminal cell position relative to the canvas to the
// pixel at the top of that cell.
func ToPixel(column, line int) image.Point {
	return image.Pt(column, line*2)
}

func (c *TermCanvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.width, c.height)
}

// Lines is the number of terminal lines the canvas occupies.
func (c *TermCanvas) Lines() int { return (c.height + 1) / 2 }

func (c *TermCanvas) FillRect(r image.Rectangle, col color.NRGBA) {
	r = r.Intersect(c.Bounds())
	solid := c.blend(col)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			i := y*c.width + x
			c.pixels[i] = solid
			c.set[i] = true
		}
	}
}

// DrawText writes text on the cell line containing origin.
func (c *TermCanvas) DrawText(text string, origin image.Point, style TextStyle) {
	line := floorDiv(origin.Y, 2)
	if line < 0 || line >= c.Lines() {
		return
	}
	x := origin.X
	for _, r := range text {
		if x >= 0 && x < c.width {
			c.text[image.Pt(x, line)] = textCell{r: r, color: style.Color}
		}
		x += lipgloss.Width(string(r))
	}
}

// TextBounds spans one cell line, so text is anchored at its top-left.
func (c *TermCanvas) TextBounds(text string, _ TextStyle) image.Rectangle {
	return image.Rect(0, 0, lipgloss.Width(text), 2)
}

func (c *TermCanvas) pixel(x, y int) (color.NRGBA, bool) {
	if y >= c.height {
		return color.NRGBA{}, false
	}
	i := y*c.width + x
	return c.pixels[i], c.set[i]
}

func (c *TermCanvas) blend(col color.NRGBA) color.NRGBA {
	if col.A == 255 {
		return col
	}
	fg := colorful.Color{R: float64(col.R) / 255, G: float64(col.G) / 255, B: float64(col.B) / 255}
	bg := colorful.Color{R: float64(c.background.R) / 255, G: float64(c.background.G) / 255, B: float64(c.background.B) / 255}
	r, g, b := bg.BlendRgb(fg, float64(col.A)/255).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// cellStyle is the rendering key of one cell; neighbouring cells with the
// same key are rendered as a single run.
type cellStyle struct {
	fg, bg       string
	hasFg, hasBg bool
}

func (s cellStyle) style() lipgloss.Style {
	st := lipgloss.NewStyle()
	if s.hasFg {
		st = st.Foreground(lipgloss.Color(s.fg))
	}
	if s.hasBg {
		st = st.Background(lipgloss.Color(s.bg))
	}
	return st
}

func (c *TermCanvas) cell(x, line int) (string, cellStyle) {
	if t, ok := c.text[image.Pt(x, line)]; ok {
		s := cellStyle{fg: HexColor(t.color), hasFg: true}
		if c.background.A > 0 {
			s.bg, s.hasBg = HexColor(c.background), true
		}
		return string(t.r), s
	}

	top, topSet := c.pixel(x, line*2)
	bottom, bottomSet := c.pixel(x, line*2+1)
	switch {
	case !topSet && !bottomSet:
		if c.background.A > 0 {
			return " ", cellStyle{bg: HexColor(c.background), hasBg: true}
		}
		return " ", cellStyle{}
	case topSet && bottomSet && top == bottom:
		return " ", cellStyle{bg: HexColor(top), hasBg: true}
	}

	if !topSet {
		if c.background.A == 0 {
			return lowerHalf, cellStyle{fg: HexColor(bottom), hasFg: true}
		}
		return upperHalf, cellStyle{fg: HexColor(c.background), hasFg: true, bg: HexColor(bottom), hasBg: true}
	}
	s := cellStyle{fg: HexColor(top), hasFg: true}
	if bottomSet {
		s.bg, s.hasBg = HexColor(bottom), true
	} else if c.background.A > 0 {
		s.bg, s.hasBg = HexColor(c.background), true
	}
	return upperHalf, s
}

// String renders the canvas as terminal lines joined by newlines.
func (c *TermCanvas) String() string {
	lines := make([]string, c.Lines())
	for line := range lines {
		var b, run strings.Builder
		var cur cellStyle
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if cur == (cellStyle{}) {
				b.WriteString(run.String())
			} else {
				b.WriteString(cur.style().Render(run.String()))
			}
			run.Reset()
		}
		for x := 0; x < c.width; x++ {
			s, st := c.cell(x, line)
			if st != cur {
				flush()
				cur = st
			}
			run.WriteString(s)
		}
		flush()
		lines[line] = b.String()
	}
	return strings.Join(lines, "\n")
}

// RenderTerm draws w on a fresh TermCanvas sized to its geometry and returns
// the rendered lines.
func RenderTerm(w *Widget, background color.NRGBA) string {
	g := w.Geometry()
	c := NewTermCanvas(g.Width, g.Height, background)
	w.Draw(c)
	return c.String()
}
