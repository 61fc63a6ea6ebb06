package heatmap

import (
	"image"
	"image/color"
)

// TextStyle describes how weekday titles are drawn.
type TextStyle struct {
	Color color.NRGBA
	Size  float64
	// Font is a path to a TrueType file. Backends that cannot load fonts ignore it.
	Font string
}

// Canvas is a drawing surface for the widget.
type Canvas interface {
	FillRect(r image.Rectangle, c color.NRGBA)
	// DrawText draws text with its origin (baseline start) at origin.
	DrawText(text string, origin image.Point, style TextStyle)
	// TextBounds returns the bounding box of text relative to its origin.
	TextBounds(text string, style TextStyle) image.Rectangle
}
