package heatmap

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// ActivityData maps a day of month (1-based) to its value.
type ActivityData map[int]int

// ColorTable maps a day of month to the color its tile is painted with.
type ColorTable map[int]color.NRGBA

// Transparent is returned by evaluators when a value has no color.
var Transparent = color.NRGBA{}

// ColorEvaluator maps a single day value to a tile color.
type ColorEvaluator interface {
	EvaluateColor(value int) color.NRGBA
}

// Preparer is implemented by evaluators that need a statistic over the whole
// dataset before individual values can be mapped.
type Preparer interface {
	Prepare(data ActivityData)
}

// EvaluatorFunc adapts a plain function to a ColorEvaluator.
type EvaluatorFunc func(value int) color.NRGBA

func (f EvaluatorFunc) EvaluateColor(value int) color.NRGBA { return f(value) }

// Evaluate runs ev over data. Prepare, when implemented, completes before the
// first EvaluateColor call. The returned table has exactly data's keys, or is
// empty if ev is nil.
func Evaluate(ev ColorEvaluator, data ActivityData) ColorTable {
	table := make(ColorTable, len(data))
	if ev == nil {
		return table
	}
	if p, ok := ev.(Preparer); ok {
		p.Prepare(data)
	}
	for day, value := range data {
		table[day] = ev.EvaluateColor(value)
	}
	return table
}

// LinearAlpha paints every tile in Base with an alpha proportional to the
// value divided by the maximum value of the dataset.
type LinearAlpha struct {
	Base color.NRGBA

	max int
}

func NewLinearAlpha(base color.NRGBA) *LinearAlpha {
	return &LinearAlpha{Base: base}
}

func (e *LinearAlpha) Prepare(data ActivityData) {
	e.max = 0
	for _, v := range data {
		if v > e.max {
			e.max = v
		}
	}
}

// Max returns the maximum computed by the last Prepare.
func (e *LinearAlpha) Max() int { return e.max }

func (e *LinearAlpha) EvaluateColor(value int) color.NRGBA {
	c := e.Base
	switch {
	case e.max <= 0 || value <= 0:
		c.A = 0
	case value >= e.max:
		c.A = 255
	default:
		c.A = uint8(value * 255 / e.max)
	}
	return c
}

// Level is one step of a Threshold evaluator.
type Level struct {
	Min   int
	Color color.NRGBA
}

// Threshold returns the color of the first level whose Min is not greater
// than the value.
//
// Levels must be sorted by descending Min. The order is not checked: an
// unsorted list maps values to whichever matching level comes first.
type Threshold struct {
	Levels []Level
}

func NewThreshold(levels ...Level) *Threshold {
	return &Threshold{Levels: levels}
}

func (e *Threshold) EvaluateColor(value int) color.NRGBA {
	for _, l := range e.Levels {
		if value >= l.Min {
			return l.Color
		}
	}
	return Transparent
}

// GitHubLevels is the five-step green palette of contribution graphs, for
// values in the 0-100 range.
func GitHubLevels() []Level {
	return []Level{
		{Min: 95, Color: mustHex("#196127")},
		{Min: 85, Color: mustHex("#239a3b")},
		{Min: 70, Color: mustHex("#7bc96f")},
		{Min: 50, Color: mustHex("#c6e48b")},
		{Min: 0, Color: mustHex("#ebedf0")},
	}
}

// ParseHexColor parses "#rrggbb" or "#rrggbbaa".
func ParseHexColor(s string) (color.NRGBA, error) {
	alpha := uint8(255)
	if len(s) == 9 {
		var a uint8
		if _, err := fmt.Sscanf(s[7:], "%02x", &a); err != nil {
			return color.NRGBA{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		alpha = a
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

func mustHex(s string) color.NRGBA {
	c, err := ParseHexColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// HexColor formats c as "#rrggbb", dropping alpha.
func HexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
