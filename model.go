package main

import (
	"fmt"
	"image"
	"log"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"heatcal/heatmap"
)

// footerLines is the room reserved below the grid for the day pane, legend
// and help.
const footerLines = 12

// exportScale multiplies the terminal tile size for image export.
const exportScale = 6

// initialModel loads the configured calendars and falls back to sample data
// when none can be read.
func initialModel(config *Config, configPath string, month time.Time, oneShot bool) (model, error) {
	baseDir := filepath.Dir(configPath)
	if configPath == "" {
		dir, err := getConfigDir()
		if err == nil {
			baseDir = dir
		}
	}

	events, calendars, err := loadAllCalendars(config, baseDir)
	sample := err != nil
	if sample {
		log.Printf("Using sample data: %v", err)
	}

	m, err := newModel(config, events, calendars, month, sample)
	if err != nil {
		return model{}, err
	}
	m.oneShot = oneShot
	return m, nil
}

func newModel(config *Config, events []Event, calendars map[string]lipgloss.Color, month time.Time, sample bool) (model, error) {
	metric, err := parseMetric(config.Metric)
	if err != nil {
		return model{}, err
	}
	background, err := config.background()
	if err != nil {
		return model{}, err
	}

	clicks := &clickState{}
	widget := heatmap.New(config.widgetConfig())
	widget.SetOnTileClick(func(column, row, day int) {
		clicks.tile = heatmap.Tile{Column: column, Row: row, Day: day}
		clicks.pending = true
	})

	valueBar := progress.New(progress.WithScaledGradient("#c6e48b", "#196127"))
	valueBar.Width = 30

	m := model{
		widget:      widget,
		clicks:      clicks,
		events:      events,
		calendars:   calendars,
		config:      config,
		metric:      metric,
		background:  background,
		currentDate: time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location()),
		sample:      sample,
		keys:        newKeyMap(),
		help:        help.New(),
		valueBar:    valueBar,
	}

	m.evaluators, err = m.buildEvaluators(config.Evaluator)
	if err != nil {
		return model{}, err
	}
	widget.SetEvaluator(m.evaluators[0].eval)
	m.loadMonth()
	if m.err != nil {
		return model{}, m.err
	}
	return m, nil
}

// buildEvaluators returns the evaluator cycle for ec. Default thresholds
// follow the metric; sample data uses the 0..99 scale and gets an extra
// random tint.
func (m model) buildEvaluators(ec EvaluatorConfig) ([]namedEvaluator, error) {
	levels := metricLevels(m.metric)
	if m.sample {
		levels = heatmap.GitHubLevels()
	}
	evaluators, err := evaluatorCycle(ec, levels)
	if err != nil {
		return nil, err
	}
	if m.sample {
		evaluators = append(evaluators, sampleEvaluator(uint64(time.Now().UnixNano())))
	}
	return evaluators, nil
}

func (m model) Init() tea.Cmd {
	if m.oneShot {
		return tea.Quit
	}
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Forms get every message while open
	if m.mode != NoInput && m.form != nil {
		switch msg := msg.(type) {
		case tea.WindowSizeMsg:
			m.resize(msg)
			m.form = m.form.WithWidth(min(m.width, 60))
		case tea.KeyMsg:
			if msg.String() == "esc" {
				m.mode = NoInput
				m.form = nil
				m.message = ""
				return m, nil
			}
		}

		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}

		switch m.form.State {
		case huh.StateCompleted:
			if m.mode == SettingsInput {
				return m.applySettings()
			}
			return m.applyGoto()
		case huh.StateAborted:
			m.mode = NoInput
			m.form = nil
			m.message = ""
			return m, nil
		}
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg)
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) resize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.help.Width = msg.Width
	m.valueBar.Width = max(min(30, msg.Width-10), 10)
	m.layout()
}

// layout measures the widget into the space left by the header and footer.
// Terminal lines hold two widget pixels.
func (m *model) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	width := max(m.width-2*gridLeft, 1)
	lines := max(m.height-m.gridTop()-footerLines, 1)
	m.widget.Measure(heatmap.AtMostSize(width), heatmap.AtMostSize(lines*2))
}

// gridTop is the terminal line the grid starts on.
func (m model) gridTop() int {
	return lipgloss.Height(m.headerView())
}

// gridPixel maps a terminal cell to a widget pixel. A cell covers two pixel
// rows; when the upper one falls into the spacing between rows the lower one
// is used, so clicking the visible half of a tile hits it.
func (m model) gridPixel(x, y int) image.Point {
	p := heatmap.ToPixel(x-gridLeft, y-m.gridTop())
	g := m.widget.Geometry()
	if p.Y >= 0 && g.Pitch() > 0 && p.Y%g.Pitch() >= g.TileSize {
		p.Y++
	}
	return p
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	p := m.gridPixel(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		m.widget.PointerDown(p)

	case tea.MouseActionRelease:
		m.widget.PointerUp(p)
		if m.clicks.pending {
			m.clicks.pending = false
			m.selectDay(m.clicks.tile.Day)
		}
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.PrevMonth):
		m.shiftMonth(-1)
	case key.Matches(msg, m.keys.NextMonth):
		m.shiftMonth(1)
	case key.Matches(msg, m.keys.PrevYear):
		m.shiftMonth(-12)
	case key.Matches(msg, m.keys.NextYear):
		m.shiftMonth(12)

	case key.Matches(msg, m.keys.Today):
		now := time.Now()
		m.currentDate = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		m.loadMonth()
		m.selectDay(now.Day())

	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-heatmap.DaysPerWeek)
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(heatmap.DaysPerWeek)
	case key.Matches(msg, m.keys.PrevDay):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.NextDay):
		m.moveSelection(1)

	case key.Matches(msg, m.keys.FirstDay):
		next := (m.widget.Month().FirstDayOfWeek + 1) % heatmap.DaysPerWeek
		if err := m.widget.SetFirstDayOfWeek(next); err != nil {
			m.message = err.Error()
		}
		m.layout()

	case key.Matches(msg, m.keys.Grow):
		m.widget.SetTileSize(m.widget.Style().TileSize + 1)
		m.layout()
	case key.Matches(msg, m.keys.Shrink):
		m.widget.SetTileSize(m.widget.Style().TileSize - 1)
		m.layout()
	case key.Matches(msg, m.keys.MoreSpacing):
		m.widget.SetTileSpacing(m.widget.Style().TileSpacing + 1)
		m.layout()
	case key.Matches(msg, m.keys.LessSpacing):
		m.widget.SetTileSpacing(m.widget.Style().TileSpacing - 1)
		m.layout()

	case key.Matches(msg, m.keys.Evaluator):
		m.evaluatorIndex = (m.evaluatorIndex + 1) % len(m.evaluators)
		m.widget.SetEvaluator(m.evaluators[m.evaluatorIndex].eval)
		m.message = "Color scale: " + m.evaluators[m.evaluatorIndex].name

	case key.Matches(msg, m.keys.Settings):
		m.mode = SettingsInput
		m.settings = m.currentSettings()
		m.form = buildSettingsForm(m.settings)
		if m.width > 0 {
			m.form = m.form.WithWidth(min(m.width, 60))
		}
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Goto):
		input := ""
		m.mode = GotoInput
		m.gotoInput = &input
		m.form = buildGotoForm(m.gotoInput, m.currentDate)
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Export):
		path := fmt.Sprintf("heatcal-%s.png", m.currentDate.Format("2006-01"))
		if err := m.exportMonth(path); err != nil {
			m.message = fmt.Sprintf("Export failed: %v", err)
		} else {
			m.message = "Exported " + path
		}

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *model) shiftMonth(months int) {
	next := m.currentDate.AddDate(0, months, 0)
	if next.Year() < 1 || next.Year() > 9999 {
		m.message = "No months beyond that"
		return
	}
	m.currentDate = next
	m.selectedDay = 0
	m.message = ""
	m.loadMonth()
}

// loadMonth feeds the activity of currentDate's month into the widget.
func (m *model) loadMonth() {
	year, month := m.currentDate.Year(), m.currentDate.Month()
	var data heatmap.ActivityData
	if m.sample {
		data = sampleActivity(year, month)
	} else {
		data = activityForMonth(m.events, year, month, m.metric, m.currentDate.Location())
	}

	if err := m.widget.SetData(year, month, data); err != nil {
		log.Printf("load %s %d: %v", month, year, err)
		m.err = err
		return
	}
	m.err = nil
	m.layout()
}

func (m *model) selectDay(day int) {
	if day < 1 || day > m.widget.Month().DaysInMonth {
		return
	}
	m.selectedDay = day
	m.message = ""
}

func (m *model) moveSelection(delta int) {
	if m.selectedDay == 0 {
		m.selectDay(1)
		return
	}
	m.selectDay(m.selectedDay + delta)
}

// selectedDate returns the selected day, or the zero time without selection.
func (m model) selectedDate() time.Time {
	if m.selectedDay == 0 {
		return time.Time{}
	}
	return m.widget.Month().Date(m.selectedDay, m.currentDate.Location())
}

// dayValue returns the selected day's value and the largest value of the
// month.
func (m model) dayValue() (value, maxValue int) {
	data := m.widget.Data()
	for _, v := range data {
		maxValue = max(maxValue, v)
	}
	return data[m.selectedDay], maxValue
}

// exportMonth writes the displayed month to path as an image, scaled up from
// the terminal tile size.
func (m model) exportMonth(path string) error {
	wc := m.config.widgetConfig()
	style := m.widget.Style()
	wc.TileSize = max(style.TileSize, 1) * exportScale
	wc.TileSpacing = max(style.TileSpacing, 1) * exportScale / 2
	wc.FirstDayOfWeek = m.widget.Month().FirstDayOfWeek
	wc.TitleLength = 3
	if wc.HeaderTextSize == 0 {
		wc.HeaderTextSize = float64(wc.TileSize) / 2
	}

	w := heatmap.New(wc)
	w.SetEvaluator(m.widget.Evaluator())
	month := m.widget.Month()
	if err := w.SetData(month.Year, month.Month, m.widget.Data()); err != nil {
		return err
	}
	return exportFile(w, path, m.background)
}
