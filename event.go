package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var monthNames = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var monthPatterns = []struct {
	pattern *regexp.Regexp
	parse   func([]string, time.Time) (time.Time, error)
}{
	{regexp.MustCompile(`^(this|current) month$|^today$|^now$`), func(_ []string, base time.Time) (time.Time, error) {
		return base, nil
	}},
	{regexp.MustCompile(`^next month$`), func(_ []string, base time.Time) (time.Time, error) {
		return base.AddDate(0, 1, 0), nil
	}},
	{regexp.MustCompile(`^(last|previous|prev) month$`), func(_ []string, base time.Time) (time.Time, error) {
		return base.AddDate(0, -1, 0), nil
	}},
	{regexp.MustCompile(`^next year$`), func(_ []string, base time.Time) (time.Time, error) {
		return base.AddDate(1, 0, 0), nil
	}},
	{regexp.MustCompile(`^(last|previous|prev) year$`), func(_ []string, base time.Time) (time.Time, error) {
		return base.AddDate(-1, 0, 0), nil
	}},
	{regexp.MustCompile(`^([+-]\d{1,4})\s*(months?|m)?$`), parseMonthOffset},
	{regexp.MustCompile(`^(\d{4})-(\d{1,2})$`), func(m []string, base time.Time) (time.Time, error) {
		return parseYearMonth(m[1], m[2], base)
	}},
	{regexp.MustCompile(`^(\d{1,2})/(\d{4})$`), func(m []string, base time.Time) (time.Time, error) {
		return parseYearMonth(m[2], m[1], base)
	}},
	{regexp.MustCompile(`^([a-z]{3,9})\.?(?:\s+(\d{4}))?$`), parseMonthName},
}

// parseMonthInput resolves a go-to-month input relative to base and returns
// the first day of the chosen month in base's location.
func parseMonthInput(input string, base time.Time) (time.Time, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return time.Time{}, fmt.Errorf("empty input")
	}

	base = time.Date(base.Year(), base.Month(), 1, 0, 0, 0, 0, base.Location())
	for _, mp := range monthPatterns {
		if matches := mp.pattern.FindStringSubmatch(input); matches != nil {
			t, err := mp.parse(matches, base)
			if err != nil {
				return time.Time{}, err
			}
			if t.Year() < 1 || t.Year() > 9999 {
				return time.Time{}, fmt.Errorf("year %d out of range", t.Year())
			}
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized month %q", input)
}

func parseMonthOffset(m []string, base time.Time) (time.Time, error) {
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, err
	}
	return base.AddDate(0, n, 0), nil
}

func parseYearMonth(year, month string, base time.Time) (time.Time, error) {
	y, _ := strconv.Atoi(year)
	mo, _ := strconv.Atoi(month)
	if mo < 1 || mo > 12 {
		return time.Time{}, fmt.Errorf("month %d out of range", mo)
	}
	return time.Date(y, time.Month(mo), 1, 0, 0, 0, 0, base.Location()), nil
}

func parseMonthName(m []string, base time.Time) (time.Time, error) {
	month, ok := monthNames[m[1][:3]]
	if !ok || !strings.HasPrefix(strings.ToLower(month.String()), m[1]) {
		return time.Time{}, fmt.Errorf("unknown month %q", m[1])
	}
	year := base.Year()
	if m[2] != "" {
		year, _ = strconv.Atoi(m[2])
	}
	return time.Date(year, month, 1, 0, 0, 0, 0, base.Location()), nil
}
