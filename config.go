package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"heatcal/heatmap"
)

var configNames = []string{"heatcal.yaml", "heatcal.yml", "heatcal.json"}

// Terminal pixels are half a cell tall, so these give 4x2 cell tiles.
const (
	defaultTileSize    = 4
	defaultTileSpacing = 1
	defaultBackground  = "#161b22"
	defaultBaseColor   = "#ee5454"
)

func getConfigDir() (string, error) {
	usr, err := user.Current()
	if err != nil {
		return "", err
	}
	configDir := filepath.Join(usr.HomeDir, ".config", "heatcal")
	return configDir, nil
}

// findConfig returns the config file to load: the current directory first
// (dev mode), then the standard config directory.
func findConfig() (string, error) {
	for _, name := range configNames {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}

	configDir, err := getConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	for _, name := range configNames {
		path := filepath.Join(configDir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", os.ErrNotExist
}

// loadConfig reads path, or the first config file found when path is empty.
// A missing config file yields the defaults and os.ErrNotExist.
func loadConfig(path string) (*Config, string, error) {
	if path == "" {
		found, err := findConfig()
		if err != nil {
			config := &Config{}
			config.applyDefaults()
			return config, "", err
		}
		path = found
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, path, err
	}
	defer file.Close()

	config, err := decodeConfig(file, filepath.Ext(path))
	if err != nil {
		return nil, path, fmt.Errorf("parse %s: %w", path, err)
	}
	return config, path, nil
}

func decodeConfig(r io.Reader, ext string) (*Config, error) {
	var config Config
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.NewDecoder(r).Decode(&config); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(r).Decode(&config); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	config.applyDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.TileSize <= 0 {
		c.TileSize = defaultTileSize
	}
	if c.TileSpacing == nil {
		spacing := defaultTileSpacing
		c.TileSpacing = &spacing
	}
	if c.Background == "" {
		c.Background = defaultBackground
	}
	if c.FirstDayOfWeek == "" {
		c.FirstDayOfWeek = "monday"
	}
	if c.Metric == "" {
		c.Metric = "count"
	}
	if c.Evaluator.Kind == "" {
		c.Evaluator.Kind = "threshold"
	}
	if c.Evaluator.BaseColor == "" {
		c.Evaluator.BaseColor = defaultBaseColor
	}
}

func (c *Config) validate() error {
	if c.TileSpacing != nil && *c.TileSpacing < 0 {
		return fmt.Errorf("tile_spacing %d is negative", *c.TileSpacing)
	}
	if _, err := parseWeekday(c.FirstDayOfWeek); err != nil {
		return err
	}
	if _, err := parseMetric(c.Metric); err != nil {
		return err
	}
	if _, err := c.background(); err != nil {
		return err
	}
	if _, err := buildEvaluator(c.Evaluator, nil); err != nil {
		return err
	}
	if c.HeaderColor != "" {
		if _, err := heatmap.ParseHexColor(c.HeaderColor); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) background() (color.NRGBA, error) {
	return heatmap.ParseHexColor(c.Background)
}

// widgetConfig translates the file config into widget options. Fields that
// were validated on load are not re-checked.
func (c *Config) widgetConfig() heatmap.Config {
	first, _ := parseWeekday(c.FirstDayOfWeek)
	spacing := defaultTileSpacing
	if c.TileSpacing != nil {
		spacing = *c.TileSpacing
	}
	wc := heatmap.Config{
		TileSize:         c.TileSize,
		TileSpacing:      spacing,
		HeaderTextSize:   c.HeaderTextSize,
		HeaderFontFamily: c.HeaderFont,
		FirstDayOfWeek:   first,
		TitleLength:      2,
	}
	if c.HeaderColor != "" {
		wc.HeaderTextColor, _ = heatmap.ParseHexColor(c.HeaderColor)
	}
	return wc
}

func parseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", heatmap.ErrInvalidWeekday, s)
}

func parseMetric(s string) (Metric, error) {
	switch strings.ToLower(s) {
	case "count", "events":
		return CountMetric, nil
	case "minutes", "duration":
		return MinutesMetric, nil
	}
	return 0, fmt.Errorf("unknown metric %q (want count or minutes)", s)
}

// metricLevels is the default threshold palette for a metric, in the
// colors of heatmap.GitHubLevels.
func metricLevels(m Metric) []heatmap.Level {
	levels := heatmap.GitHubLevels()
	mins := []int{8, 5, 3, 1, 0}
	if m == MinutesMetric {
		mins = []int{360, 240, 120, 30, 0}
	}
	for i := range levels {
		levels[i].Min = mins[i]
	}
	return levels
}

// buildEvaluator returns the evaluator described by ec. Thresholds default
// to defaults, or to heatmap.GitHubLevels when defaults is empty.
func buildEvaluator(ec EvaluatorConfig, defaults []heatmap.Level) (namedEvaluator, error) {
	switch strings.ToLower(ec.Kind) {
	case "linear", "alpha":
		base, err := heatmap.ParseHexColor(ec.BaseColor)
		if err != nil {
			return namedEvaluator{}, err
		}
		return namedEvaluator{name: "linear", eval: heatmap.NewLinearAlpha(base)}, nil

	case "threshold", "":
		levels := defaults
		if len(levels) == 0 {
			levels = heatmap.GitHubLevels()
		}
		if len(ec.Thresholds) > 0 {
			levels = make([]heatmap.Level, 0, len(ec.Thresholds))
			for _, t := range ec.Thresholds {
				c, err := heatmap.ParseHexColor(t.Color)
				if err != nil {
					return namedEvaluator{}, err
				}
				levels = append(levels, heatmap.Level{Min: t.Min, Color: c})
			}
		}
		return namedEvaluator{name: "threshold", eval: heatmap.NewThreshold(levels...), levels: levels}, nil
	}
	return namedEvaluator{}, fmt.Errorf("unknown evaluator kind %q", ec.Kind)
}

// evaluatorCycle returns the configured evaluator followed by the other
// built-in kind, so both can be toggled at runtime.
func evaluatorCycle(ec EvaluatorConfig, defaults []heatmap.Level) ([]namedEvaluator, error) {
	first, err := buildEvaluator(ec, defaults)
	if err != nil {
		return nil, err
	}
	other := ec
	if first.name == "linear" {
		other.Kind = "threshold"
	} else {
		other.Kind = "linear"
	}
	second, err := buildEvaluator(other, defaults)
	if err != nil {
		return nil, err
	}
	return []namedEvaluator{first, second}, nil
}
