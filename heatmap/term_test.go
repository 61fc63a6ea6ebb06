package heatmap

import (
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func TestTermCanvasBlend(t *testing.T) {
	c := NewTermCanvas(2, 2, color.NRGBA{A: 255})
	c.FillRect(image.Rect(0, 0, 1, 1), color.NRGBA{R: 255, G: 255, B: 255, A: 0})
	c.FillRect(image.Rect(1, 0, 2, 1), color.NRGBA{R: 200, G: 100, B: 50, A: 255})

	if got, _ := c.pixel(0, 0); got != (color.NRGBA{A: 255}) {
		t.Errorf("transparent white over black = %v, want black", got)
	}
	if got, _ := c.pixel(1, 0); got != (color.NRGBA{R: 200, G: 100, B: 50, A: 255}) {
		t.Errorf("opaque color changed to %v", got)
	}
	if _, set := c.pixel(0, 1); set {
		t.Error("unpainted pixel reported as set")
	}
}

func TestTermCanvasClips(t *testing.T) {
	c := NewTermCanvas(4, 4, color.NRGBA{})
	c.FillRect(image.Rect(-5, -5, 50, 50), color.NRGBA{R: 1, A: 255})
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if _, set := c.pixel(x, y); !set {
				t.Fatalf("pixel %d,%d not painted", x, y)
			}
		}
	}
	c.DrawText("hello", image.Pt(2, 100), TextStyle{})
	c.DrawText("hello", image.Pt(2, 0), TextStyle{})
	if len(c.text) != 2 {
		t.Errorf("kept %d text cells, want 2 (clipped to width)", len(c.text))
	}
}

func TestRenderTerm(t *testing.T) {
	w := newTestWidget(t, Config{TileSize: 4, TileSpacing: 1, TitleLength: 2})
	w.SetEvaluator(NewThreshold(GitHubLevels()...))
	if err := w.SetData(2019, time.December, ActivityData{1: 100, 2: 60, 31: 0}); err != nil {
		t.Fatal(err)
	}

	g := w.Geometry()
	out := RenderTerm(w, color.NRGBA{R: 0x16, G: 0x1b, B: 0x22, A: 0xff})
	lines := strings.Split(out, "\n")

	if want := (g.Height + 1) / 2; len(lines) != want {
		t.Fatalf("rendered %d lines, want %d", len(lines), want)
	}
	for i, line := range lines {
		if got := lipgloss.Width(line); got != g.Width {
			t.Errorf("line %d is %d cells wide, want %d", i, got, g.Width)
		}
	}
	for _, title := range []string{"Su", "Mo", "Sa"} {
		if !strings.Contains(lines[0], title) {
			t.Errorf("header line %q lacks %q", lines[0], title)
		}
	}
}

func TestToPixel(t *testing.T) {
	if got := ToPixel(3, 2); got != image.Pt(3, 4) {
		t.Errorf("ToPixel(3, 2) = %v", got)
	}
}
