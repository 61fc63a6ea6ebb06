package heatmap

import (
	"bytes"
	"errors"
	"image/color"
	"strings"
	"testing"
	"time"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"out.png", PNG},
		{"/tmp/Month.PNG", PNG},
		{"grid.svg", SVG},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if err != nil {
			t.Fatalf("FormatFromPath(%q): %v", tt.path, err)
		}
		if got != tt.want {
			t.Errorf("FormatFromPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}

	if _, err := FormatFromPath("grid.gif"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("got %v, want ErrUnknownFormat", err)
	}
}

func exportWidget(t *testing.T) *Widget {
	t.Helper()
	w := newTestWidget(t, Config{TileSize: 16, TileSpacing: 2})
	w.SetEvaluator(NewLinearAlpha(color.NRGBA{R: 0xee, G: 0x54, B: 0x54, A: 0xff}))
	if err := w.SetData(2019, time.December, ActivityData{1: 10, 12: 40, 24: 80}); err != nil {
		t.Fatal(err)
	}
	return w
}

func TestExportPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(exportWidget(t), PNG, &buf, color.NRGBA{R: 255, G: 255, B: 255, A: 255}); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Errorf("output is not a PNG: % x", buf.Bytes()[:min(8, buf.Len())])
	}
}

func TestExportSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(exportWidget(t), SVG, &buf, color.NRGBA{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "<svg") {
		t.Error("output is not an SVG document")
	}
}

func TestExportMissingFont(t *testing.T) {
	w := newTestWidget(t, Config{HeaderFontFamily: "/nonexistent/font.ttf"})
	var buf bytes.Buffer
	if err := Export(w, PNG, &buf, color.NRGBA{}); err == nil {
		t.Error("expected error for missing font file")
	}
}
