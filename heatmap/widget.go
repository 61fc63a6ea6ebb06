package heatmap

import (
	"image/color"
	"log"
	"maps"
	"time"

	"github.com/golang/freetype/truetype"
)

const (
	DefaultTileSize    = 24
	DefaultTileSpacing = 2
	DefaultTextSize    = 10
	DefaultTitleLength = 3
)

// DefaultHeaderColor is the weekday title color when none is configured.
var DefaultHeaderColor = color.NRGBA{R: 0x76, G: 0x76, B: 0x76, A: 0xff}

// Config holds the construction-time options of a Widget. Zero values take
// the defaults returned by the Get methods, except TileSpacing: zero is a
// valid spacing, and only a negative value takes the default.
type Config struct {
	TileSize    int
	TileSpacing int

	HeaderTextColor  color.NRGBA
	HeaderTextSize   float64
	HeaderFontFamily string

	FirstDayOfWeek time.Weekday
	// TitleLength is how many characters of each weekday name are shown.
	TitleLength int

	MinWidth  int
	MinHeight int

	Logger *log.Logger
}

func (c Config) GetTileSize() int {
	if c.TileSize <= 0 {
		return DefaultTileSize
	}
	return c.TileSize
}

func (c Config) GetTileSpacing() int {
	if c.TileSpacing < 0 {
		return DefaultTileSpacing
	}
	return c.TileSpacing
}

func (c Config) GetHeaderTextColor() color.NRGBA {
	if c.HeaderTextColor == (color.NRGBA{}) {
		return DefaultHeaderColor
	}
	return c.HeaderTextColor
}

func (c Config) GetHeaderTextSize() float64 {
	if c.HeaderTextSize <= 0 {
		return DefaultTextSize
	}
	return c.HeaderTextSize
}

func (c Config) GetTitleLength() int {
	if c.TitleLength <= 0 {
		return DefaultTitleLength
	}
	return c.TitleLength
}

func (c Config) GetLogger() *log.Logger {
	if c.Logger == nil {
		return log.Default()
	}
	return c.Logger
}

// Widget is a month of day tiles colored by a ColorEvaluator, with a row of
// weekday titles on top.
//
// A Widget is not safe for concurrent use; all calls are expected from the
// goroutine that runs the host's event loop.
type Widget struct {
	cfg    Config
	logger *log.Logger
	text   TextStyle

	// font is the parsed HeaderFontFamily, nil for the default font.
	font    *truetype.Font
	fontErr error

	style     Style
	month     MonthContext
	data      ActivityData
	colors    ColorTable
	evaluator ColorEvaluator
	titles    []string

	onTileClick func(column, row, day int)
	pointer     pointerState

	width, height Constraint
	geometry      Geometry
	layoutValid   bool
	needsRedraw   bool
}

// New returns a widget showing the current month without data.
func New(cfg Config) *Widget {
	w := &Widget{
		cfg:    cfg,
		logger: cfg.GetLogger(),
		text: TextStyle{
			Color: cfg.GetHeaderTextColor(),
			Size:  cfg.GetHeaderTextSize(),
			Font:  cfg.HeaderFontFamily,
		},
		style: Style{
			TileSize:    cfg.GetTileSize(),
			TileSpacing: cfg.GetTileSpacing(),
		},
		data:   ActivityData{},
		colors: ColorTable{},
		width:  Free,
		height: Free,
	}

	first := cfg.FirstDayOfWeek
	if first < time.Sunday || first > time.Saturday {
		w.logger.Printf("heatmap: first day of week %d out of range, using Sunday", int(first))
		first = time.Sunday
	}
	if cfg.HeaderFontFamily != "" {
		w.font, w.fontErr = LoadFont(cfg.HeaderFontFamily)
		if w.fontErr != nil {
			w.logger.Printf("heatmap: header font: %v", w.fontErr)
		}
	}

	now := time.Now()
	// Current month with a valid weekday cannot fail
	w.month, _ = NewMonthContext(now.Year(), now.Month(), first)
	w.titles = WeekdayTitles(first, cfg.GetTitleLength())
	w.invalidate()
	return w
}

// SetData displays month of year with data. Keys of data are days of month
// (1-based), months are 1-based. The data map is copied.
func (w *Widget) SetData(year int, month time.Month, data ActivityData) error {
	mc, err := NewMonthContext(year, month, w.month.FirstDayOfWeek)
	if err != nil {
		return err
	}
	w.month = mc
	w.data = maps.Clone(data)
	if w.data == nil {
		w.data = ActivityData{}
	}
	w.colors = Evaluate(w.evaluator, w.data)
	w.invalidate()
	return nil
}

// SetFirstDayOfWeek changes which weekday occupies column 0.
func (w *Widget) SetFirstDayOfWeek(first time.Weekday) error {
	mc, err := NewMonthContext(w.month.Year, w.month.Month, first)
	if err != nil {
		return err
	}
	w.month = mc
	w.titles = WeekdayTitles(first, w.cfg.GetTitleLength())
	w.invalidate()
	return nil
}

// SetEvaluator replaces the color strategy and re-evaluates the current
// data. A nil evaluator draws no tiles.
func (w *Widget) SetEvaluator(ev ColorEvaluator) {
	w.evaluator = ev
	w.colors = Evaluate(ev, w.data)
	w.needsRedraw = true
}

func (w *Widget) Evaluator() ColorEvaluator { return w.evaluator }

// SetOnTileClick registers the callback fired when a tap resolves to a day.
func (w *Widget) SetOnTileClick(fn func(column, row, day int)) {
	w.onTileClick = fn
}

func (w *Widget) SetTileSize(size int) {
	w.style.TileSize = max(size, 1)
	w.invalidate()
}

func (w *Widget) SetTileSpacing(spacing int) {
	w.style.TileSpacing = max(spacing, 0)
	w.invalidate()
}

func (w *Widget) SetStyle(s Style) {
	w.SetTileSize(s.TileSize)
	w.SetTileSpacing(s.TileSpacing)
}

// Style returns the requested tile size and spacing. The laid out tile size
// may be smaller, see Geometry.
func (w *Widget) Style() Style { return w.style }

// Measure lays the widget out under the parent's constraints and returns its
// size.
func (w *Widget) Measure(width, height Constraint) (int, int) {
	w.width, w.height = width, height
	w.layoutValid = false
	g := w.currentGeometry()
	return g.Width, g.Height
}

func (w *Widget) currentGeometry() Geometry {
	if w.layoutValid {
		return w.geometry
	}
	g, warnings := Layout(w.month, w.style, w.width, w.height, w.cfg.MinWidth, w.cfg.MinHeight)
	for _, msg := range warnings {
		w.logger.Printf("heatmap: %s, this may be an error", msg)
	}
	w.geometry = g
	w.layoutValid = true
	return g
}

func (w *Widget) invalidate() {
	w.layoutValid = false
	w.needsRedraw = true
}

// Draw paints the weekday titles and one tile per day that has a color.
func (w *Widget) Draw(c Canvas) {
	g := w.currentGeometry()

	for i, title := range w.titles {
		origin := g.TitleAnchor(i, c.TextBounds(title, w.text))
		c.DrawText(title, origin, w.text)
	}

	if w.evaluator != nil {
		for day := 1; day <= w.month.DaysInMonth; day++ {
			col, ok := w.colors[day]
			if !ok {
				continue
			}
			pos, _ := w.month.Position(day)
			c.FillRect(g.Cell(pos%w.month.Columns, pos/w.month.Columns+1), col)
		}
	}
	w.needsRedraw = false
}

func (w *Widget) Month() MonthContext { return w.month }

func (w *Widget) Geometry() Geometry { return w.currentGeometry() }

func (w *Widget) ColorTable() ColorTable { return maps.Clone(w.colors) }

func (w *Widget) Data() ActivityData { return maps.Clone(w.data) }

func (w *Widget) Titles() []string { return append([]string(nil), w.titles...) }

func (w *Widget) TextStyle() TextStyle { return w.text }

// NeedsRedraw reports whether state changed since the last Draw.
func (w *Widget) NeedsRedraw() bool { return w.needsRedraw }

// NeedsLayout reports whether the geometry must be recomputed.
func (w *Widget) NeedsLayout() bool { return !w.layoutValid }

// WeekdayTitles returns the short weekday names starting at first,
// truncated to n characters.
func WeekdayTitles(first time.Weekday, n int) []string {
	titles := make([]string, DaysPerWeek)
	for i := range titles {
		name := time.Weekday((int(first) + i) % DaysPerWeek).String()
		if n < len(name) {
			name = name[:n]
		}
		titles[i] = name
	}
	return titles
}
