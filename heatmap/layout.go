package heatmap

import (
	"fmt"
	"image"
)

// Mode says how strictly a parent bounds one axis of the widget.
type Mode int

const (
	// Exact forces the size.
	Exact Mode = iota
	// Unspecified lets the widget take its intrinsic size.
	Unspecified
	// AtMost bounds the size from above.
	AtMost
)

func (m Mode) String() string {
	switch m {
	case Exact:
		return "exact"
	case Unspecified:
		return "unspecified"
	case AtMost:
		return "at-most"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Constraint is a size bound imposed on one axis.
type Constraint struct {
	Mode Mode
	Size int
}

func ExactSize(n int) Constraint  { return Constraint{Mode: Exact, Size: n} }
func AtMostSize(n int) Constraint { return Constraint{Mode: AtMost, Size: n} }

// Free is the unbounded constraint.
var Free = Constraint{Mode: Unspecified}

// Axis is the result of measuring one axis.
type Axis struct {
	Size     int
	TileSize int
	// Shrunk is set when the requested tile size did not fit.
	Shrunk bool
}

func intrinsic(count, tileSize, spacing int) int {
	return count*tileSize + (count-1)*spacing
}

func fitTile(size, count, spacing int) int {
	t := (size - (count-1)*spacing) / count
	if t < 1 {
		t = 1
	}
	return t
}

// MeasureAxis reconciles count tiles of tileSize separated by spacing with
// constraint c. minimum is the suggested minimum size of the axis.
//
// It panics on an unknown constraint mode.
func MeasureAxis(minimum int, c Constraint, count, tileSize, spacing int) Axis {
	if count < 1 {
		count = 1
	}
	switch c.Mode {
	case Exact:
		a := Axis{Size: c.Size, TileSize: tileSize}
		if t := fitTile(c.Size, count, spacing); t < tileSize {
			a.TileSize = t
			a.Shrunk = true
		}
		return a

	case Unspecified:
		return Axis{Size: intrinsic(count, tileSize, spacing), TileSize: tileSize}

	case AtMost:
		want := max(intrinsic(count, tileSize, spacing), minimum)
		if want <= c.Size {
			return Axis{Size: want, TileSize: tileSize}
		}
		t := fitTile(c.Size, count, spacing)
		if t >= tileSize {
			// Only the minimum overflowed; spacing is fixed so keep the tile
			return Axis{Size: c.Size, TileSize: tileSize}
		}
		size := min(c.Size, max(intrinsic(count, t, spacing), minimum))
		return Axis{Size: size, TileSize: t, Shrunk: true}
	}
	panic(fmt.Sprintf("heatmap: unknown constraint mode %v", c.Mode))
}

// Geometry is the pixel layout of the grid. Row 0 holds the weekday titles.
type Geometry struct {
	Columns  int
	Rows     int
	TileSize int
	Spacing  int
	Width    int
	Height   int
}

// Pitch is the distance between the origins of two neighbouring tiles.
func (g Geometry) Pitch() int { return g.TileSize + g.Spacing }

// Cell returns the rectangle of the tile at column, row.
func (g Geometry) Cell(column, row int) image.Rectangle {
	p := g.Pitch()
	origin := image.Pt(column*p, row*p)
	return image.Rectangle{Min: origin, Max: origin.Add(image.Pt(g.TileSize, g.TileSize))}
}

// TitleAnchor returns the drawing origin that centers a text with the given
// bounds in the row 0 tile of column. Bounds are relative to the origin, so a
// baseline-anchored font has a negative Min.Y.
func (g Geometry) TitleAnchor(column int, text image.Rectangle) image.Point {
	cell := g.Cell(column, 0)
	x := cell.Min.X + (g.TileSize-text.Dx())/2 - text.Min.X
	y := cell.Min.Y + (g.TileSize-text.Dy())/2 - text.Min.Y
	return image.Pt(x, y)
}

// CellAt returns the column and row containing p.
func (g Geometry) CellAt(p image.Point) (column, row int) {
	pitch := g.Pitch()
	if pitch <= 0 {
		return -1, -1
	}
	return floorDiv(p.X, pitch), floorDiv(p.Y, pitch)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Style holds the runtime-adjustable tile parameters.
type Style struct {
	TileSize    int
	TileSpacing int
}

// Layout measures a month under the given constraints. Width is measured
// first; the height pass uses the tile size the width pass settled on.
func Layout(mc MonthContext, style Style, w, h Constraint, minWidth, minHeight int) (Geometry, []string) {
	var warnings []string

	wa := MeasureAxis(minWidth, w, mc.Columns, style.TileSize, style.TileSpacing)
	if wa.Shrunk && w.Mode == Exact {
		warnings = append(warnings, fmt.Sprintf(
			"tile size %d does not fit exact width %d, using %d", style.TileSize, w.Size, wa.TileSize))
	}

	ha := MeasureAxis(minHeight, h, mc.Rows, wa.TileSize, style.TileSpacing)
	if ha.Shrunk && h.Mode == Exact {
		warnings = append(warnings, fmt.Sprintf(
			"tile size %d does not fit exact height %d, using %d", wa.TileSize, h.Size, ha.TileSize))
	}

	return Geometry{
		Columns:  mc.Columns,
		Rows:     mc.Rows,
		TileSize: ha.TileSize,
		Spacing:  style.TileSpacing,
		Width:    wa.Size,
		Height:   ha.Size,
	}, warnings
}
