package heatmap

import (
	"errors"
	"fmt"
	"time"
)

// DaysPerWeek is the number of grid columns.
const DaysPerWeek = 7

var (
	ErrInvalidMonth   = errors.New("invalid month")
	ErrInvalidYear    = errors.New("invalid year")
	ErrInvalidWeekday = errors.New("invalid weekday")
)

func validate(year int, month time.Month) error {
	if month < time.January || month > time.December {
		return fmt.Errorf("%w: %d (want 1-12)", ErrInvalidMonth, int(month))
	}
	if year < 1 || year > 9999 {
		return fmt.Errorf("%w: %d", ErrInvalidYear, year)
	}
	return nil
}

// DaysInMonth returns the number of days in the given month. Months are 1-based.
func DaysInMonth(year int, month time.Month) (int, error) {
	if err := validate(year, month); err != nil {
		return 0, err
	}
	// Day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day(), nil
}

// WeekdayOfFirst returns the weekday of the first day of the given month.
func WeekdayOfFirst(year int, month time.Month) (time.Weekday, error) {
	if err := validate(year, month); err != nil {
		return 0, err
	}
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday(), nil
}

// LeadingBlanks returns how many cells of the previous month precede day 1
// when the grid starts on firstDayOfWeek. The result is in [0, columns-1].
func LeadingBlanks(weekdayOfFirst, firstDayOfWeek time.Weekday, columns int) int {
	n := (int(weekdayOfFirst) - int(firstDayOfWeek) + columns) % columns
	if n < 0 {
		n += columns
	}
	return n
}

// TotalRows returns the number of grid rows including the weekday header row.
func TotalRows(leadingBlanks, daysInMonth, columns int) int {
	return (leadingBlanks+daysInMonth+columns-1)/columns + 1
}

// MonthContext is the calendar geometry of one displayed month.
type MonthContext struct {
	Year           int
	Month          time.Month
	FirstDayOfWeek time.Weekday

	DaysInMonth   int
	LeadingBlanks int
	Columns       int
	Rows          int
}

func NewMonthContext(year int, month time.Month, firstDayOfWeek time.Weekday) (MonthContext, error) {
	if firstDayOfWeek < time.Sunday || firstDayOfWeek > time.Saturday {
		return MonthContext{}, fmt.Errorf("%w: %d", ErrInvalidWeekday, int(firstDayOfWeek))
	}
	days, err := DaysInMonth(year, month)
	if err != nil {
		return MonthContext{}, err
	}
	first, err := WeekdayOfFirst(year, month)
	if err != nil {
		return MonthContext{}, err
	}

	blanks := LeadingBlanks(first, firstDayOfWeek, DaysPerWeek)
	return MonthContext{
		Year:           year,
		Month:          month,
		FirstDayOfWeek: firstDayOfWeek,
		DaysInMonth:    days,
		LeadingBlanks:  blanks,
		Columns:        DaysPerWeek,
		Rows:           TotalRows(blanks, days, DaysPerWeek),
	}, nil
}

// Day converts a raw grid position (row-major, header row excluded) to a day
// of month. ok is false for padding cells before or after the month.
func (mc MonthContext) Day(position int) (day int, ok bool) {
	if position < mc.LeadingBlanks || position >= mc.LeadingBlanks+mc.DaysInMonth {
		return 0, false
	}
	return position - mc.LeadingBlanks + 1, true
}

// Position is the inverse of Day.
func (mc MonthContext) Position(day int) (position int, ok bool) {
	if day < 1 || day > mc.DaysInMonth {
		return 0, false
	}
	return day - 1 + mc.LeadingBlanks, true
}

// Date returns day as a time.Time in loc.
func (mc MonthContext) Date(day int, loc *time.Location) time.Time {
	return time.Date(mc.Year, mc.Month, day, 0, 0, 0, 0, loc)
}
