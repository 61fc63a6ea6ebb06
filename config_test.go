package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"heatcal/heatmap"
)

const testYAML = `
tile_size: 3
tile_spacing: 2
first_day_of_week: sunday
metric: minutes
background: "#000000"
evaluator:
  kind: linear
  base_color: "#00ff00"
calendars:
  - name: work
    file: work.ics
local_calendars:
  - personal
`

func TestDecodeYAML(t *testing.T) {
	config, err := decodeConfig(strings.NewReader(testYAML), ".yaml")
	if err != nil {
		t.Fatal(err)
	}
	if config.TileSize != 3 || *config.TileSpacing != 2 {
		t.Errorf("tile size/spacing = %d/%d", config.TileSize, *config.TileSpacing)
	}
	if config.Evaluator.Kind != "linear" || config.Evaluator.BaseColor != "#00ff00" {
		t.Errorf("evaluator = %+v", config.Evaluator)
	}
	if len(config.Calendars) != 1 || config.Calendars[0].File != "work.ics" {
		t.Errorf("calendars = %+v", config.Calendars)
	}
	if len(config.LocalCalendars) != 1 {
		t.Errorf("local calendars = %v", config.LocalCalendars)
	}

	wc := config.widgetConfig()
	if wc.FirstDayOfWeek != 0 || wc.TileSize != 3 {
		t.Errorf("widget config = %+v", wc)
	}
}

func TestDecodeJSON(t *testing.T) {
	const doc = `{"tile_size": 5, "metric": "count", "evaluator": {"thresholds": [{"min": 2, "color": "#00aa00"}, {"min": 0, "color": "#eeeeee"}]}}`
	config, err := decodeConfig(strings.NewReader(doc), ".json")
	if err != nil {
		t.Fatal(err)
	}
	ev, err := buildEvaluator(config.Evaluator, nil)
	if err != nil {
		t.Fatal(err)
	}
	if ev.name != "threshold" || len(ev.levels) != 2 {
		t.Errorf("evaluator %s with %d levels", ev.name, len(ev.levels))
	}
	if got := ev.eval.EvaluateColor(3); heatmap.HexColor(got) != "#00aa00" {
		t.Errorf("3 -> %s, want #00aa00", heatmap.HexColor(got))
	}
}

func TestDecodeEmptyUsesDefaults(t *testing.T) {
	config, err := decodeConfig(strings.NewReader(""), ".yml")
	if err != nil {
		t.Fatal(err)
	}
	if config.TileSize != defaultTileSize || *config.TileSpacing != defaultTileSpacing {
		t.Errorf("tile size/spacing = %d/%d", config.TileSize, *config.TileSpacing)
	}
	if config.FirstDayOfWeek != "monday" || config.Metric != "count" || config.Evaluator.Kind != "threshold" {
		t.Errorf("defaults not applied: %+v", config)
	}
}

func TestDecodeZeroSpacing(t *testing.T) {
	tests := []struct {
		doc string
		ext string
	}{
		{"tile_spacing: 0", ".yaml"},
		{`{"tile_spacing": 0}`, ".json"},
	}
	for _, tt := range tests {
		config, err := decodeConfig(strings.NewReader(tt.doc), tt.ext)
		if err != nil {
			t.Fatalf("%s: %v", tt.ext, err)
		}
		if *config.TileSpacing != 0 {
			t.Errorf("%s: tile spacing = %d, want 0", tt.ext, *config.TileSpacing)
		}
		if got := config.widgetConfig().TileSpacing; got != 0 {
			t.Errorf("%s: widget spacing = %d, want 0", tt.ext, got)
		}
		m, err := newModel(config, nil, nil, time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC), true)
		if err != nil {
			t.Fatal(err)
		}
		if got := m.widget.Style().TileSpacing; got != 0 {
			t.Errorf("%s: widget style spacing = %d, want 0", tt.ext, got)
		}
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		ext  string
	}{
		{"weekday", "first_day_of_week: funday", ".yaml"},
		{"metric", "metric: loudness", ".yaml"},
		{"color", "evaluator: {kind: linear, base_color: '#zz0000'}", ".yaml"},
		{"kind", "evaluator: {kind: rainbow}", ".yaml"},
		{"threshold color", "evaluator: {thresholds: [{min: 1, color: red}]}", ".yaml"},
		{"background", "background: black", ".yaml"},
		{"spacing", "tile_spacing: -1", ".yaml"},
		{"syntax", "{", ".json"},
		{"format", "tile_size = 3", ".toml"},
	}
	for _, tt := range tests {
		if _, err := decodeConfig(strings.NewReader(tt.doc), tt.ext); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}

	_, err := decodeConfig(strings.NewReader("first_day_of_week: funday"), ".yaml")
	if !errors.Is(err, heatmap.ErrInvalidWeekday) {
		t.Errorf("got %v, want ErrInvalidWeekday", err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heatcal.yaml")
	if err := os.WriteFile(path, []byte(testYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	config, got, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != path || config.Metric != "minutes" {
		t.Errorf("loaded %q with metric %q", got, config.Metric)
	}

	if _, _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("got %v, want os.ErrNotExist", err)
	}
}

func TestParseWeekday(t *testing.T) {
	for input, want := range map[string]int{"Sunday": 0, "mon": 1, " SATURDAY ": 6} {
		got, err := parseWeekday(input)
		if err != nil || int(got) != want {
			t.Errorf("parseWeekday(%q) = %v, %v", input, got, err)
		}
	}
}

func TestMetricLevels(t *testing.T) {
	levels := metricLevels(MinutesMetric)
	if levels[0].Min != 360 || levels[len(levels)-1].Min != 0 {
		t.Errorf("minutes levels = %+v", levels)
	}
	if metricLevels(CountMetric)[0].Color != heatmap.GitHubLevels()[0].Color {
		t.Error("count levels changed the palette")
	}
}

func TestEvaluatorCycle(t *testing.T) {
	cycle, err := evaluatorCycle(EvaluatorConfig{Kind: "linear", BaseColor: defaultBaseColor}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(cycle) != 2 || cycle[0].name != "linear" || cycle[1].name != "threshold" {
		t.Errorf("cycle = %v, %v", cycle[0].name, cycle[1].name)
	}
}
