package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/charmbracelet/lipgloss"

	"heatcal/heatmap"
)

// maxOccurrences bounds the expansion of a single series.
const maxOccurrences = 20000

func loadICSFromReader(reader io.Reader, calendarName string, color lipgloss.Color) ([]Event, error) {
	cal, err := ics.ParseCalendar(reader)
	if err != nil {
		return nil, err
	}

	var events []Event
	for _, event := range cal.Events() {
		start, err := event.GetStartAt()
		if err != nil {
			continue
		}

		end, err := event.GetEndAt()
		if err != nil || end.Before(start) {
			end = start.Add(time.Hour)
		}

		// DATE values name calendar days, not instants
		allDay := isDateValue(event.GetProperty(ics.ComponentPropertyDtStart))
		if allDay {
			start = dateIn(start, time.Local)
			end = start.AddDate(0, 0, 1)
			if e, err := event.GetEndAt(); err == nil && isDateValue(event.GetProperty(ics.ComponentPropertyDtEnd)) {
				if e = dateIn(e, time.Local); e.After(start) {
					end = e
				}
			}
		}

		summary := ""
		if summaryProp := event.GetProperty(ics.ComponentPropertySummary); summaryProp != nil {
			summary = summaryProp.Value
		}
		if summary == "" {
			summary = "(No title)"
		}

		description := ""
		if descProp := event.GetProperty(ics.ComponentPropertyDescription); descProp != nil {
			description = descProp.Value
		}

		uid := ""
		if uidProp := event.GetProperty(ics.ComponentPropertyUniqueId); uidProp != nil {
			uid = uidProp.Value
		}

		var rule *recurrence
		for _, prop := range event.Properties {
			if strings.EqualFold(prop.IANAToken, "RRULE") {
				rule, err = parseRRule(prop.Value, start.Location())
				if err != nil {
					log.Printf("calendar %s: event %q: %v", calendarName, summary, err)
				}
				break
			}
		}

		events = append(events, Event{
			Summary:       summary,
			Start:         start,
			End:           end,
			AllDay:        allDay,
			Description:   description,
			CalendarName:  calendarName,
			CalendarColor: color,
			UID:           uid,
			Rule:          rule,
		})
	}

	return events, nil
}

// isDateValue reports whether a DTSTART or DTEND property holds a DATE
// rather than a DATE-TIME.
func isDateValue(prop *ics.IANAProperty) bool {
	if prop == nil {
		return false
	}
	for name, values := range prop.ICalParameters {
		if !strings.EqualFold(name, string(ics.ParameterValue)) {
			continue
		}
		for _, v := range values {
			if strings.EqualFold(v, "DATE") {
				return true
			}
		}
	}
	return len(prop.Value) == len("20060102")
}

// dateIn returns midnight of t's calendar day in loc.
func dateIn(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func loadICSFromURL(url string, calendarName string, color lipgloss.Color) ([]Event, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch calendar: %s", resp.Status)
	}

	return loadICSFromReader(resp.Body, calendarName, color)
}

func loadICSFromFile(filename string, calendarName string, color lipgloss.Color) ([]Event, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return loadICSFromReader(file, calendarName, color)
}

// loadAllCalendars loads the Radicale server's calendars, then the configured
// calendars and local .ics files. local_calendars entries are resolved
// against baseDir. Calendars that fail to load are logged and skipped.
func loadAllCalendars(config *Config, baseDir string) ([]Event, map[string]lipgloss.Color, error) {
	var allEvents []Event
	calendars := make(map[string]lipgloss.Color)
	colorIndex := 0

	if rc := config.Radicale; rc != nil && rc.ServerURL != "" {
		radicaleCals, err := loadCalendarsFromRadicale(rc)
		if err != nil {
			log.Printf("Warning: Failed to connect to Radicale server: %v", err)
		}
		for _, cal := range radicaleCals {
			color, ok := radicaleColor(cal.Color)
			if !ok {
				color = calendarColors[colorIndex%len(calendarColors)]
				colorIndex++
			}
			events, err := loadICSFromRadicale(cal.URL, cal.DisplayName, color, rc)
			if err != nil {
				log.Printf("Warning: Failed to load Radicale calendar %s: %v", cal.DisplayName, err)
				continue
			}
			calendars[cal.DisplayName] = color
			allEvents = append(allEvents, events...)
		}
	}

	for _, cal := range config.Calendars {
		color := calendarColors[colorIndex%len(calendarColors)]

		var events []Event
		var err error
		switch {
		case cal.URL != "":
			events, err = loadICSFromURL(cal.URL, cal.Name, color)
		case cal.File != "":
			events, err = loadICSFromFile(cal.File, cal.Name, color)
		default:
			err = fmt.Errorf("neither url nor file set")
		}
		if err != nil {
			log.Printf("Warning: Failed to load calendar %s: %v", cal.Name, err)
			continue
		}

		calendars[cal.Name] = color
		allEvents = append(allEvents, events...)
		colorIndex++
	}

	for _, localCal := range config.LocalCalendars {
		icsFile := localCal
		if !strings.HasSuffix(icsFile, ".ics") {
			icsFile += ".ics"
		}
		icsPath := icsFile
		if !filepath.IsAbs(icsPath) {
			icsPath = filepath.Join(baseDir, icsFile)
		}

		calendarName := strings.TrimSuffix(filepath.Base(icsFile), ".ics")
		color := calendarColors[colorIndex%len(calendarColors)]
		events, err := loadICSFromFile(icsPath, calendarName, color)
		if err != nil {
			log.Printf("Warning: Failed to load local calendar %s: %v", calendarName, err)
			continue
		}

		calendars[calendarName] = color
		allEvents = append(allEvents, events...)
		colorIndex++
	}

	if len(calendars) == 0 {
		return nil, nil, fmt.Errorf("no calendars found")
	}
	return allEvents, calendars, nil
}

// recurrence is the supported subset of an RRULE: FREQ with INTERVAL and one
// of COUNT or UNTIL.
type recurrence struct {
	freq     string
	interval int
	count    int
	until    time.Time
}

// parseRRule parses rrule. Floating and date-only UNTIL values are read in
// loc, the location of the series' DTSTART.
func parseRRule(rrule string, loc *time.Location) (*recurrence, error) {
	r := &recurrence{interval: 1}
	for _, part := range strings.Split(strings.ToUpper(rrule), ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "FREQ":
			r.freq = value
		case "INTERVAL":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("invalid INTERVAL %q", value)
			}
			r.interval = n
		case "COUNT":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("invalid COUNT %q", value)
			}
			r.count = n
		case "UNTIL":
			t, err := parseUntil(value, loc)
			if err != nil {
				return nil, err
			}
			r.until = t
		}
	}

	switch r.freq {
	case "DAILY", "WEEKLY", "MONTHLY", "YEARLY":
		return r, nil
	case "":
		return nil, fmt.Errorf("RRULE without FREQ")
	}
	return nil, fmt.Errorf("unsupported FREQ %q", r.freq)
}

func parseUntil(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse("20060102T150405Z", s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"20060102T150405", "20060102"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			if layout == "20060102" {
				// UNTIL on a date is inclusive of the whole day
				t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
			}
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid UNTIL %q", s)
}

// nth returns the n-th instance start of a series starting at start. Monthly
// and yearly instances that do not exist (Feb 30, Feb 29 in common years) are
// reported as !ok and skipped by the caller.
func (r *recurrence) nth(start time.Time, n int) (time.Time, bool) {
	step := n * r.interval
	var t time.Time
	switch r.freq {
	case "DAILY":
		return start.AddDate(0, 0, step), true
	case "WEEKLY":
		return start.AddDate(0, 0, 7*step), true
	case "MONTHLY":
		t = start.AddDate(0, step, 0)
	case "YEARLY":
		t = start.AddDate(step, 0, 0)
	}
	return t, t.Day() == start.Day()
}

type occurrence struct {
	Start time.Time
	End   time.Time
}

// expand returns the instances of the series that overlap [from, to).
func (r *recurrence) expand(start, end, from, to time.Time) []occurrence {
	var occurrences []occurrence
	duration := end.Sub(start)
	instances := 0

	for n := 0; n < maxOccurrences; n++ {
		s, ok := r.nth(start, n)
		if !ok {
			continue
		}
		if !s.Before(to) {
			break
		}
		if !r.until.IsZero() && s.After(r.until) {
			break
		}
		if r.count > 0 && instances >= r.count {
			break
		}
		instances++

		e := s.Add(duration)
		if e.After(from) || (duration == 0 && !s.Before(from)) {
			occurrences = append(occurrences, occurrence{Start: s, End: e})
		}
	}
	return occurrences
}

// occurrencesIn returns every event instance overlapping [from, to), with
// recurring series expanded, sorted by start. All-day events are moved to
// the same calendar days in from's location.
func occurrencesIn(events []Event, from, to time.Time) []Event {
	var out []Event
	for _, event := range events {
		if event.AllDay {
			loc := from.Location()
			event.Start = dateIn(event.Start, loc)
			event.End = dateIn(event.End, loc)
			if event.Rule != nil && !event.Rule.until.IsZero() {
				rule := *event.Rule
				rule.until = dateIn(rule.until, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
				event.Rule = &rule
			}
		}
		if event.Rule == nil {
			if overlaps(event.Start, event.End, from, to) {
				out = append(out, event)
			}
			continue
		}
		for _, occ := range event.Rule.expand(event.Start, event.End, from, to) {
			instance := event
			instance.Start = occ.Start
			instance.End = occ.End
			instance.Rule = nil
			out = append(out, instance)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

func overlaps(start, end, from, to time.Time) bool {
	if !end.After(start) {
		return !start.Before(from) && start.Before(to)
	}
	return start.Before(to) && end.After(from)
}

// activityForMonth aggregates the events of a month into per-day values.
// Every day of the month gets a value, zero when nothing happens. Events
// spanning midnight count towards every day they touch; the minutes metric
// splits their duration accordingly.
func activityForMonth(events []Event, year int, month time.Month, metric Metric, loc *time.Location) heatmap.ActivityData {
	data := heatmap.ActivityData{}
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	next := first.AddDate(0, 1, 0)
	for day := first; day.Before(next); day = day.AddDate(0, 0, 1) {
		data[day.Day()] = 0
	}

	for _, event := range occurrencesIn(events, first, next) {
		for day := first; day.Before(next); day = day.AddDate(0, 0, 1) {
			dayEnd := day.AddDate(0, 0, 1)
			if !overlaps(event.Start, event.End, day, dayEnd) {
				continue
			}
			switch metric {
			case MinutesMetric:
				s, e := event.Start, event.End
				if s.Before(day) {
					s = day
				}
				if e.After(dayEnd) {
					e = dayEnd
				}
				data[day.Day()] += int(e.Sub(s).Minutes())
			default:
				data[day.Day()]++
			}
		}
	}
	return data
}

// getEventsForDay returns the instances overlapping date's day.
func getEventsForDay(events []Event, date time.Time) []Event {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return occurrencesIn(events, day, day.AddDate(0, 0, 1))
}
