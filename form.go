package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"heatcal/heatmap"
)

func validateRange(lo, hi int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("not a number")
		}
		if n < lo || n > hi {
			return fmt.Errorf("must be between %d and %d", lo, hi)
		}
		return nil
	}
}

// buildSettingsForm creates a huh form editing the display settings
func buildSettingsForm(v *settingsValues) *huh.Form {
	dayOptions := make([]huh.Option[string], 0, heatmap.DaysPerWeek)
	for d := time.Sunday; d <= time.Saturday; d++ {
		dayOptions = append(dayOptions, huh.NewOption(d.String(), strings.ToLower(d.String())))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Tile Size").
				Prompt("> ").
				Value(&v.tileSize).
				Placeholder("4").
				Validate(validateRange(1, 32)),

			huh.NewInput().
				Title("Tile Spacing").
				Prompt("> ").
				Value(&v.tileSpacing).
				Placeholder("1").
				Validate(validateRange(0, 16)),

			huh.NewSelect[string]().
				Title("Color Scale").
				Options(
					huh.NewOption("Thresholds", "threshold"),
					huh.NewOption("Linear alpha", "linear"),
				).
				Value(&v.evaluator),

			huh.NewInput().
				Title("Base Color").
				Prompt("> ").
				Value(&v.baseColor).
				Placeholder("#ee5454").
				Validate(func(s string) error {
					_, err := heatmap.ParseHexColor(strings.TrimSpace(s))
					return err
				}),

			huh.NewSelect[string]().
				Title("First Day of Week").
				Options(dayOptions...).
				Value(&v.firstDay),
		),
	).WithTheme(huh.ThemeCharm())
}

// buildGotoForm creates the go-to-month prompt
func buildGotoForm(input *string, base time.Time) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Go to month").
				Description("e.g. next month, 2024-03, 03/2024, march 2024").
				Prompt("> ").
				Value(input).
				Validate(func(s string) error {
					_, err := parseMonthInput(s, base)
					return err
				}),
		),
	).WithTheme(huh.ThemeCharm())
}

// currentSettings snapshots the widget and config into form values.
func (m model) currentSettings() *settingsValues {
	style := m.widget.Style()
	evaluator := m.evaluators[m.evaluatorIndex].name
	if evaluator != "threshold" && evaluator != "linear" {
		evaluator = m.evaluators[0].name
	}
	return &settingsValues{
		tileSize:    strconv.Itoa(style.TileSize),
		tileSpacing: strconv.Itoa(style.TileSpacing),
		evaluator:   evaluator,
		baseColor:   m.config.Evaluator.BaseColor,
		firstDay:    strings.ToLower(m.widget.Month().FirstDayOfWeek.String()),
	}
}

func (m model) applySettings() (tea.Model, tea.Cmd) {
	m.mode = NoInput
	m.form = nil
	v := m.settings

	size, err := strconv.Atoi(strings.TrimSpace(v.tileSize))
	if err != nil {
		m.message = fmt.Sprintf("Invalid tile size: %v", err)
		return m, nil
	}
	spacing, err := strconv.Atoi(strings.TrimSpace(v.tileSpacing))
	if err != nil {
		m.message = fmt.Sprintf("Invalid tile spacing: %v", err)
		return m, nil
	}
	first, err := parseWeekday(v.firstDay)
	if err != nil {
		m.message = err.Error()
		return m, nil
	}

	ec := m.config.Evaluator
	ec.Kind = v.evaluator
	ec.BaseColor = strings.TrimSpace(v.baseColor)
	evaluators, err := m.buildEvaluators(ec)
	if err != nil {
		m.message = fmt.Sprintf("Invalid color scale: %v", err)
		return m, nil
	}
	m.config.Evaluator = ec
	m.evaluators = evaluators
	m.evaluatorIndex = 0

	m.widget.SetStyle(heatmap.Style{TileSize: size, TileSpacing: spacing})
	if err := m.widget.SetFirstDayOfWeek(first); err != nil {
		m.message = err.Error()
		return m, nil
	}
	m.widget.SetEvaluator(m.evaluators[0].eval)
	m.layout()
	m.message = "Settings applied"
	return m, nil
}

func (m model) applyGoto() (tea.Model, tea.Cmd) {
	m.mode = NoInput
	m.form = nil

	month, err := parseMonthInput(*m.gotoInput, m.currentDate)
	if err != nil {
		m.message = fmt.Sprintf("Invalid month: %v", err)
		return m, nil
	}
	m.currentDate = month
	m.selectedDay = 0
	m.loadMonth()
	return m, nil
}

// renderSettingsSummary previews the values being edited.
func (m model) renderSettingsSummary() string {
	if m.settings == nil {
		return ""
	}
	v := m.settings
	var b strings.Builder
	b.WriteString(selectedFieldStyle.Render("Settings") + "\n\n")
	rows := []struct{ label, value string }{
		{"Tile size", v.tileSize},
		{"Spacing", v.tileSpacing},
		{"Scale", v.evaluator},
		{"Base color", v.baseColor},
		{"First day", v.firstDay},
	}
	for _, r := range rows {
		b.WriteString(fieldLabelStyle.Render(r.label+": ") + r.value + "\n")
	}
	return summaryStyle.Render(strings.TrimRight(b.String(), "\n"))
}
