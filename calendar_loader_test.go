package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var testICS = strings.Join([]string{
	"BEGIN:VCALENDAR",
	"VERSION:2.0",
	"PRODID:-//heatcal//test//EN",
	"BEGIN:VEVENT",
	"UID:standup@test",
	"DTSTART:20240501T090000Z",
	"DTEND:20240501T100000Z",
	"SUMMARY:Standup",
	"RRULE:FREQ=DAILY;COUNT=3",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:review@test",
	"DTSTART:20240502T140000Z",
	"DTEND:20240502T153000Z",
	"SUMMARY:Review",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:night@test",
	"DTSTART:20240510T220000Z",
	"DTEND:20240511T020000Z",
	"SUMMARY:Night shift",
	"END:VEVENT",
	"END:VCALENDAR",
	"",
}, "\r\n")

func parseTestCalendar(t *testing.T) []Event {
	t.Helper()
	events, err := loadICSFromReader(strings.NewReader(testICS), "work", calendarColors[0])
	if err != nil {
		t.Fatalf("loadICSFromReader: %v", err)
	}
	return events
}

func TestLoadICSFromReader(t *testing.T) {
	events := parseTestCalendar(t)
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].Summary != "Standup" || events[0].Rule == nil {
		t.Errorf("first event = %q, rule %v; want recurring Standup", events[0].Summary, events[0].Rule)
	}
	if events[1].Rule != nil {
		t.Error("single event has a recurrence rule")
	}
	if events[2].CalendarName != "work" {
		t.Errorf("calendar name = %q", events[2].CalendarName)
	}
}

func TestActivityForMonth(t *testing.T) {
	events := parseTestCalendar(t)

	counts := activityForMonth(events, 2024, time.May, CountMetric, time.UTC)
	if len(counts) != 31 {
		t.Errorf("got %d days, want every day of May", len(counts))
	}
	wantCounts := map[int]int{1: 1, 2: 2, 3: 1, 4: 0, 10: 1, 11: 1, 20: 0}
	for day, want := range wantCounts {
		if counts[day] != want {
			t.Errorf("count of May %d = %d, want %d", day, counts[day], want)
		}
	}

	minutes := activityForMonth(events, 2024, time.May, MinutesMetric, time.UTC)
	wantMinutes := map[int]int{1: 60, 2: 150, 3: 60, 10: 120, 11: 120}
	for day, want := range wantMinutes {
		if minutes[day] != want {
			t.Errorf("minutes of May %d = %d, want %d", day, minutes[day], want)
		}
	}

	june := activityForMonth(events, 2024, time.June, CountMetric, time.UTC)
	for day, v := range june {
		if v != 0 {
			t.Errorf("June %d = %d, want 0", day, v)
		}
	}
}

func TestParseRRule(t *testing.T) {
	r, err := parseRRule("FREQ=WEEKLY;INTERVAL=2;UNTIL=20240601T000000Z", time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if r.freq != "WEEKLY" || r.interval != 2 || r.until.IsZero() {
		t.Errorf("parsed %+v", r)
	}

	for _, bad := range []string{"", "INTERVAL=2", "FREQ=HOURLY", "FREQ=DAILY;INTERVAL=0", "FREQ=DAILY;COUNT=0", "FREQ=DAILY;COUNT=-2", "FREQ=DAILY;UNTIL=tomorrow"} {
		if _, err := parseRRule(bad, time.UTC); err == nil {
			t.Errorf("parseRRule(%q) succeeded", bad)
		}
	}
}

func TestExpand(t *testing.T) {
	utc := func(y int, m time.Month, d, h int) time.Time { return time.Date(y, m, d, h, 0, 0, 0, time.UTC) }

	tests := []struct {
		name     string
		rule     string
		start    time.Time
		from, to time.Time
		want     []int
	}{
		{
			name:  "monthly skips short months",
			rule:  "FREQ=MONTHLY",
			start: utc(2024, time.January, 31, 10),
			from:  utc(2024, time.January, 1, 0), to: utc(2024, time.June, 1, 0),
			want: []int{31, 31, 31},
		},
		{
			name:  "until date is inclusive",
			rule:  "FREQ=WEEKLY;UNTIL=20240515",
			start: utc(2024, time.May, 1, 9),
			from:  utc(2024, time.May, 1, 0), to: utc(2024, time.June, 1, 0),
			want: []int{1, 8, 15},
		},
		{
			name:  "series started before the window",
			rule:  "FREQ=DAILY;INTERVAL=10",
			start: utc(2024, time.April, 25, 9),
			from:  utc(2024, time.May, 1, 0), to: utc(2024, time.June, 1, 0),
			want: []int{5, 15, 25},
		},
		{
			name:  "count ends the series",
			rule:  "FREQ=YEARLY;COUNT=2",
			start: utc(2022, time.May, 3, 9),
			from:  utc(2024, time.May, 1, 0), to: utc(2024, time.June, 1, 0),
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := parseRRule(tt.rule, time.UTC)
			if err != nil {
				t.Fatal(err)
			}
			var got []int
			for _, occ := range r.expand(tt.start, tt.start.Add(time.Hour), tt.from, tt.to) {
				got = append(got, occ.Start.Day())
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got days %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got days %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestUntilDateInSeriesLocation(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	r, err := parseRRule("FREQ=DAILY;UNTIL=20240515", est)
	if err != nil {
		t.Fatal(err)
	}
	// 23:30 in EST is already the next day in UTC
	start := time.Date(2024, time.May, 13, 23, 30, 0, 0, est)
	from := time.Date(2024, time.May, 1, 0, 0, 0, 0, est)
	var got []int
	for _, occ := range r.expand(start, start.Add(time.Hour), from, from.AddDate(0, 1, 0)) {
		got = append(got, occ.Start.Day())
	}
	if len(got) != 3 || got[2] != 15 {
		t.Errorf("got days %v, want [13 14 15]", got)
	}

	r, err = parseRRule("FREQ=DAILY;UNTIL=20240515T120000", est)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2024, time.May, 15, 12, 0, 0, 0, est); !r.until.Equal(want) {
		t.Errorf("floating UNTIL = %v, want %v", r.until, want)
	}
}

const allDayICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//heatcal//test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:holiday@test\r\n" +
	"DTSTART;VALUE=DATE:20240510\r\n" +
	"DTEND;VALUE=DATE:20240511\r\n" +
	"SUMMARY:Holiday\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:trip@test\r\n" +
	"DTSTART;VALUE=DATE:20240520\r\n" +
	"SUMMARY:Trip\r\n" +
	"RRULE:FREQ=DAILY;UNTIL=20240522\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestAllDayEventsStayOnTheirDay(t *testing.T) {
	events, err := loadICSFromReader(strings.NewReader(allDayICS), "home", calendarColors[0])
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 || !events[0].AllDay || !events[1].AllDay {
		t.Fatalf("events = %+v, want two all-day events", events)
	}
	if events[0].End.Sub(events[0].Start) != 24*time.Hour {
		t.Errorf("holiday lasts %v, want one day", events[0].End.Sub(events[0].Start))
	}
	if d := events[1].End.Sub(events[1].Start); d != 24*time.Hour {
		t.Errorf("event without DTEND lasts %v, want one day", d)
	}

	for _, loc := range []*time.Location{time.UTC, time.FixedZone("EST", -5*3600), time.FixedZone("JST", 9*3600)} {
		counts := activityForMonth(events, 2024, time.May, CountMetric, loc)
		want := map[int]int{9: 0, 10: 1, 11: 0, 19: 0, 20: 1, 21: 1, 22: 1, 23: 0}
		for day, n := range want {
			if counts[day] != n {
				t.Errorf("%s: count of May %d = %d, want %d", loc, day, counts[day], n)
			}
		}

		minutes := activityForMonth(events, 2024, time.May, MinutesMetric, loc)
		if minutes[10] != 24*60 || minutes[9] != 0 {
			t.Errorf("%s: minutes of May 9/10 = %d/%d, want 0/1440", loc, minutes[9], minutes[10])
		}

		day := getEventsForDay(events, time.Date(2024, time.May, 10, 12, 0, 0, 0, loc))
		if len(day) != 1 || day[0].Summary != "Holiday" || !isAllDay(day[0]) {
			t.Errorf("%s: events on May 10 = %+v", loc, day)
		}
	}
}

func TestGetEventsForDay(t *testing.T) {
	events := parseTestCalendar(t)
	day := getEventsForDay(events, time.Date(2024, time.May, 2, 12, 0, 0, 0, time.UTC))
	if len(day) != 2 {
		t.Fatalf("got %d events on May 2, want 2", len(day))
	}
	if day[0].Summary != "Standup" || day[1].Summary != "Review" {
		t.Errorf("events not sorted by start: %q, %q", day[0].Summary, day[1].Summary)
	}
	if day[0].Rule != nil {
		t.Error("expanded instance kept its rule")
	}
}

func TestLoadAllCalendars(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "team.ics"), []byte(testICS), 0o644); err != nil {
		t.Fatal(err)
	}

	config := &Config{
		Calendars:      []CalendarConfig{{Name: "gone", File: filepath.Join(dir, "missing.ics")}},
		LocalCalendars: []string{"team"},
	}
	events, calendars, err := loadAllCalendars(config, dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 3 {
		t.Errorf("got %d events, want 3", len(events))
	}
	if _, ok := calendars["team"]; !ok || len(calendars) != 1 {
		t.Errorf("calendars = %v, want only team", calendars)
	}

	if _, _, err := loadAllCalendars(&Config{}, dir); err == nil {
		t.Error("expected error without calendars")
	}
}
