package heatmap

import "image"

type pointerState int

const (
	pointerIdle pointerState = iota
	pointerArmed
)

// Tile identifies a clicked day. Row does not count the header row.
type Tile struct {
	Column int
	Row    int
	Day    int
}

// PointerDown claims the gesture. It always returns true.
func (w *Widget) PointerDown(p image.Point) bool {
	w.pointer = pointerArmed
	return true
}

// PointerUp resolves an armed gesture into a tile click. It returns whether a
// click listener consumed the event; taps on padding cells or outside the
// grid are dropped silently.
func (w *Widget) PointerUp(p image.Point) bool {
	if w.pointer != pointerArmed {
		return false
	}
	w.pointer = pointerIdle

	if w.onTileClick == nil {
		return false
	}
	if t, ok := w.DayAt(p); ok {
		w.onTileClick(t.Column, t.Row, t.Day)
	}
	return true
}

// PointerCancel abandons the current gesture.
func (w *Widget) PointerCancel() {
	w.pointer = pointerIdle
}

// DayAt resolves a widget-relative pixel to a day of the displayed month.
func (w *Widget) DayAt(p image.Point) (Tile, bool) {
	g := w.currentGeometry()
	column, row := g.CellAt(p)
	// Header row
	row--
	if column < 0 || column >= w.month.Columns || row < 0 {
		return Tile{}, false
	}
	day, ok := w.month.Day(row*w.month.Columns + column)
	if !ok {
		return Tile{}, false
	}
	return Tile{Column: column, Row: row, Day: day}, true
}

// TileRect returns the rectangle of day's tile.
func (w *Widget) TileRect(day int) (image.Rectangle, bool) {
	pos, ok := w.month.Position(day)
	if !ok {
		return image.Rectangle{}, false
	}
	g := w.currentGeometry()
	return g.Cell(pos%w.month.Columns, pos/w.month.Columns+1), true
}
