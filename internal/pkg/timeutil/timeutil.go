package timeutil

import (
	"errors"
	"math"
	"strings"
	"time"
)

// ErrInvalidMonthName is returned when a month name cannot be resolved.
var ErrInvalidMonthName = errors.New("invalid month name")

var monthsByName = map[string]time.Month{
	"january":   time.January,
	"february":  time.February,
	"march":     time.March,
	"april":     time.April,
	"may":       time.May,
	"june":      time.June,
	"july":      time.July,
	"august":    time.August,
	"september": time.September,
	"october":   time.October,
	"november":  time.November,
	"december":  time.December,
}

// MonthByName resolves an English month name (case-insensitive) to its
// time.Month value.
func MonthByName(name string) (time.Month, error) {
	m, ok := monthsByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, ErrInvalidMonthName
	}
	return m, nil
}

// MonthRange resolves a month name and year to the [startOfMonth, endOfMonth]
// window used for attendance and payroll aggregation. The end bound is the
// last nanosecond of the month's final day.
func MonthRange(monthName string, year int) (time.Time, time.Time, error) {
	m, err := MonthByName(monthName)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	start := time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end, nil
}

// WorkingDays counts days in [start, end] inclusive whose weekday is
// Monday through Friday. Returns 0 when end precedes start.
func WorkingDays(start, end time.Time) int {
	start = DateOnly(start)
	end = DateOnly(end)

	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		wd := d.Weekday()
		if wd != time.Saturday && wd != time.Sunday {
			count++
		}
	}
	return count
}

// DateOnly truncates a timestamp to its calendar day in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MillisToHours converts an accumulated millisecond duration to decimal hours.
func MillisToHours(ms int64) float64 {
	return float64(ms) / 3600000.0
}

// DurationMillis returns the span between two timestamps in milliseconds.
func DurationMillis(from, to time.Time) int64 {
	return to.Sub(from).Milliseconds()
}

// Round2 rounds a float to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// AtTimeOfDay pins a "HH:MM" clock reading onto the calendar day of ref.
// Used to compare a clock-in/out instant against office hours.
func AtTimeOfDay(ref time.Time, hour, minute int) time.Time {
	return time.Date(ref.Year(), ref.Month(), ref.Day(), hour, minute, 0, 0, ref.Location())
}
