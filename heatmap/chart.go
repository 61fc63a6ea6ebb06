package heatmap

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/freetype/truetype"
	"github.com/wcharczuk/go-chart"
	"github.com/wcharczuk/go-chart/drawing"
)

// Format is an image export format.
type Format int

const (
	PNG Format = iota
	SVG
)

var ErrUnknownFormat = errors.New("unknown image format")

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case SVG:
		return "svg"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// FormatFromPath picks the export format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG, nil
	case ".svg":
		return SVG, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

func (f Format) provider() (chart.RendererProvider, error) {
	switch f {
	case PNG:
		return chart.PNG, nil
	case SVG:
		return chart.SVG, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, f)
}

// ChartCanvas draws on a go-chart Renderer.
type ChartCanvas struct {
	r    chart.Renderer
	font *truetype.Font
}

// NewChartCanvas wraps r. Text is set in font, or in the go-chart default
// font if font is nil.
func NewChartCanvas(r chart.Renderer, font *truetype.Font) (*ChartCanvas, error) {
	if font == nil {
		f, err := chart.GetDefaultFont()
		if err != nil {
			return nil, fmt.Errorf("load default font: %w", err)
		}
		font = f
	}
	return &ChartCanvas{r: r, font: font}, nil
}

func toDrawing(c color.NRGBA) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

func (c *ChartCanvas) FillRect(r image.Rectangle, col color.NRGBA) {
	dc := toDrawing(col)
	chart.Draw.Box(c.r, chart.Box{
		Left:   r.Min.X,
		Top:    r.Min.Y,
		Right:  r.Max.X,
		Bottom: r.Max.Y,
	}, chart.Style{
		FillColor:   dc,
		StrokeColor: dc,
		StrokeWidth: chart.DefaultStrokeWidth,
	})
}

func (c *ChartCanvas) setText(style TextStyle) {
	c.r.SetFont(c.font)
	c.r.SetFontSize(style.Size)
	c.r.SetFontColor(toDrawing(style.Color))
}

// DrawText draws text with its baseline at origin.Y.
func (c *ChartCanvas) DrawText(text string, origin image.Point, style TextStyle) {
	c.setText(style)
	c.r.Text(text, origin.X, origin.Y)
}

// TextBounds sits the measured box on the baseline.
func (c *ChartCanvas) TextBounds(text string, style TextStyle) image.Rectangle {
	c.setText(style)
	box := c.r.MeasureText(text)
	return image.Rect(0, -box.Height(), box.Width(), 0)
}

// LoadFont parses a TrueType font file.
func LoadFont(path string) (*truetype.Font, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	f, err := truetype.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return f, nil
}

// Export renders w as an image in format f. A background with zero alpha
// leaves the image transparent.
func Export(w *Widget, f Format, out io.Writer, background color.NRGBA) error {
	provider, err := f.provider()
	if err != nil {
		return err
	}

	// The header font was loaded by New
	if w.fontErr != nil {
		return w.fontErr
	}

	g := w.Geometry()
	width, height := max(g.Width, 1), max(g.Height, 1)
	r, err := provider(width, height)
	if err != nil {
		return fmt.Errorf("create %s renderer: %w", f, err)
	}
	r.SetDPI(chart.DefaultDPI)

	c, err := NewChartCanvas(r, w.font)
	if err != nil {
		return err
	}
	if background.A > 0 {
		c.FillRect(image.Rect(0, 0, width, height), background)
	}
	w.Draw(c)

	if err := r.Save(out); err != nil {
		return fmt.Errorf("write %s: %w", f, err)
	}
	return nil
}
