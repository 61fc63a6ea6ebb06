package main

import (
	"fmt"
	"image/color"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"heatcal/heatmap"
)

// maxDayEvents is how many events the day pane lists.
const maxDayEvents = 4

func (m model) View() string {
	if m.mode != NoInput && m.form != nil {
		return m.viewForm()
	}
	return m.viewMonth()
}

func (m model) headerView() string {
	title := titleStyle.Render("▦ heatcal")

	source := m.metric.String()
	if m.sample {
		source = "sample data"
	}
	header := dateHeaderStyle.Render(fmt.Sprintf("%s  ·  %s  ·  %s",
		m.currentDate.Format("January 2006"),
		source,
		m.evaluators[m.evaluatorIndex].name,
	))
	return lipgloss.JoinVertical(lipgloss.Left, title, header)
}

func (m model) viewMonth() string {
	sections := []string{
		m.headerView(),
		gridStyle.Render(heatmap.RenderTerm(m.widget, m.background)),
	}

	if !m.oneShot {
		sections = append(sections, m.viewDay(), m.renderLegend())
		sections = append(sections, helpStyle.Render(m.help.View(m.keys)))
		if m.err != nil {
			sections = append(sections, errorStyle.Render(m.err.Error()))
		}
		if m.message != "" {
			sections = append(sections, helpStyle.UnsetMarginTop().Render(m.message))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// viewDay renders the selected day's value and events.
func (m model) viewDay() string {
	date := m.selectedDate()
	if date.IsZero() {
		return noEventsStyle.Render("Click a day or press tab to select one")
	}

	value, maxValue := m.dayValue()
	ratio := 0.0
	if maxValue > 0 {
		ratio = float64(value) / float64(maxValue)
	}

	unit := m.metric.String()
	if m.sample {
		unit = "of 99"
	}

	var b strings.Builder
	b.WriteString(selectedFieldStyle.Render(date.Format("Monday, January 2")) + "\n")
	b.WriteString(fmt.Sprintf("%s %s\n", timeStyle.Render(fmt.Sprintf("%d", value)), unit))
	b.WriteString(m.valueBar.ViewAs(ratio))

	if !m.sample {
		dayEvents := getEventsForDay(m.events, date)
		if len(dayEvents) == 0 {
			b.WriteString("\n" + noEventsStyle.UnsetPadding().Render("No events"))
		}
		for i, event := range dayEvents {
			if i == maxDayEvents {
				b.WriteString("\n" + noEventsStyle.UnsetPadding().Render(fmt.Sprintf("… %d more", len(dayEvents)-i)))
				break
			}
			b.WriteString("\n" + m.renderEventLine(event))
		}
	}
	return dayBoxStyle.Render(b.String())
}

func (m model) renderEventLine(event Event) string {
	timeStr := fmt.Sprintf("%s-%s", event.Start.Format("15:04"), event.End.Format("15:04"))
	if isAllDay(event) {
		timeStr = "all day"
	}
	eventStyle := lipgloss.NewStyle().Foreground(event.CalendarColor)
	return timeStyle.Render(fmt.Sprintf("%-11s", timeStr)) + " " + eventStyle.Render("● "+event.Summary)
}

func isAllDay(event Event) bool {
	if event.AllDay {
		return true
	}
	d := event.End.Sub(event.Start)
	return d > 0 && d%(24*time.Hour) == 0 && event.Start.Hour() == 0 && event.Start.Minute() == 0
}

// renderLegend shows the color scale and the loaded calendars.
func (m model) renderLegend() string {
	var b strings.Builder
	current := m.evaluators[m.evaluatorIndex]

	if len(current.levels) > 0 {
		levels := append([]heatmap.Level(nil), current.levels...)
		sort.Slice(levels, func(i, j int) bool { return levels[i].Min < levels[j].Min })
		b.WriteString(legendLabelStyle.Render("Less"))
		for _, level := range levels {
			b.WriteString(m.swatch(level.Color))
		}
		b.WriteString(legendLabelStyle.Render("More"))
	} else {
		_, maxValue := m.dayValue()
		b.WriteString(legendLabelStyle.Render("0"))
		for i := 0; i <= 4; i++ {
			b.WriteString(m.swatch(current.eval.EvaluateColor(maxValue * i / 4)))
		}
		b.WriteString(legendLabelStyle.Render(fmt.Sprintf("%d", maxValue)))
	}

	names := make([]string, 0, len(m.calendars))
	for name := range m.calendars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.WriteString(lipgloss.NewStyle().Foreground(m.calendars[name]).Padding(0, 1).Render("● " + name))
	}
	return b.String()
}

// swatch renders c, blended over the background, as a two cell block.
func (m model) swatch(c color.NRGBA) string {
	bg := colorful.Color{R: float64(m.background.R) / 255, G: float64(m.background.G) / 255, B: float64(m.background.B) / 255}
	fg := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	blended := bg.BlendRgb(fg, float64(c.A)/255).Clamped()
	return lipgloss.NewStyle().Foreground(lipgloss.Color(blended.Hex())).Render("██")
}

func (m model) viewForm() string {
	formView := m.form.View()
	if m.mode != SettingsInput {
		return lipgloss.JoinVertical(lipgloss.Left, m.headerView(), formView,
			helpStyle.Render("Enter: confirm | Esc: cancel"))
	}

	formWidth := 40
	if m.width > 0 {
		formWidth = max(m.width*60/100, 40)
	}
	leftColumn := lipgloss.NewStyle().Width(formWidth).Render(formView)
	content := lipgloss.JoinHorizontal(lipgloss.Top, leftColumn, "  ", m.renderSettingsSummary())
	return lipgloss.JoinVertical(lipgloss.Left, m.headerView(), content,
		helpStyle.Render("Enter: confirm & next | Shift+Tab: previous | Esc: cancel"))
}
