package main

import (
	"image/color"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"heatcal/heatmap"
)

// Metric selects how events of a day are turned into the day's value.
type Metric int

const (
	CountMetric Metric = iota
	MinutesMetric
)

func (m Metric) String() string {
	if m == MinutesMetric {
		return "minutes"
	}
	return "events"
}

type InputMode int

const (
	NoInput InputMode = iota
	SettingsInput
	GotoInput
)

// Event is a calendar entry. Rule is set on the first instance of a
// recurring series; occurrencesIn expands it.
type Event struct {
	Summary       string
	Start         time.Time
	End           time.Time
	AllDay        bool // Start and End are midnights of calendar days
	Description   string
	CalendarName  string
	CalendarColor lipgloss.Color
	UID           string
	Rule          *recurrence
}

type CalendarConfig struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url,omitempty" yaml:"url,omitempty"`
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

// RadicaleConfig points at a CalDAV server whose calendars are read as
// activity sources.
type RadicaleConfig struct {
	ServerURL string `json:"server_url" yaml:"server_url"`
	Username  string `json:"username,omitempty" yaml:"username,omitempty"`
	Password  string `json:"password,omitempty" yaml:"password,omitempty"`
}

type CalDAVCalendar struct {
	DisplayName string
	URL         string
	Color       string // calendar-color property, may be empty
}

type ThresholdConfig struct {
	Min   int    `json:"min" yaml:"min"`
	Color string `json:"color" yaml:"color"`
}

type EvaluatorConfig struct {
	Kind       string            `json:"kind,omitempty" yaml:"kind,omitempty"` // "threshold" or "linear"
	BaseColor  string            `json:"base_color,omitempty" yaml:"base_color,omitempty"`
	Thresholds []ThresholdConfig `json:"thresholds,omitempty" yaml:"thresholds,omitempty"`
}

type Config struct {
	TileSize       int     `json:"tile_size,omitempty" yaml:"tile_size,omitempty"`
	TileSpacing    *int    `json:"tile_spacing,omitempty" yaml:"tile_spacing,omitempty"` // nil when unset, 0 is valid
	HeaderColor    string  `json:"header_color,omitempty" yaml:"header_color,omitempty"`
	HeaderTextSize float64 `json:"header_text_size,omitempty" yaml:"header_text_size,omitempty"`
	HeaderFont     string  `json:"header_font,omitempty" yaml:"header_font,omitempty"`
	FirstDayOfWeek string  `json:"first_day_of_week,omitempty" yaml:"first_day_of_week,omitempty"`
	Background     string  `json:"background,omitempty" yaml:"background,omitempty"`
	Metric         string  `json:"metric,omitempty" yaml:"metric,omitempty"`

	Evaluator      EvaluatorConfig  `json:"evaluator" yaml:"evaluator"`
	Radicale       *RadicaleConfig  `json:"radicale,omitempty" yaml:"radicale,omitempty"`
	Calendars      []CalendarConfig `json:"calendars" yaml:"calendars"`
	LocalCalendars []string         `json:"local_calendars,omitempty" yaml:"local_calendars,omitempty"`
}

// namedEvaluator is one entry of the evaluator cycle.
type namedEvaluator struct {
	name   string
	eval   heatmap.ColorEvaluator
	levels []heatmap.Level // legend swatches, empty for continuous scales
}

// clickState receives tile clicks from the widget callback. The model is
// copied on every Update, so the callback writes through a pointer.
type clickState struct {
	tile    heatmap.Tile
	pending bool
}

// Form data (pointers for huh forms)
type settingsValues struct {
	tileSize    string
	tileSpacing string
	evaluator   string
	baseColor   string
	firstDay    string
}

type model struct {
	widget     *heatmap.Widget
	clicks     *clickState
	events     []Event
	calendars  map[string]lipgloss.Color
	config     *Config
	metric     Metric
	background color.NRGBA

	evaluators     []namedEvaluator
	evaluatorIndex int

	currentDate time.Time
	selectedDay int
	sample      bool
	width       int
	height      int
	oneShot     bool
	err         error
	message     string

	mode      InputMode
	form      *huh.Form
	settings  *settingsValues
	gotoInput *string

	keys     keyMap
	help     help.Model
	valueBar progress.Model
}
