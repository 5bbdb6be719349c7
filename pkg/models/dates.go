package models

import (
	"strings"
	"time"
)

// Date builds a UTC calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// YearStart and YearEnd bound a fiscal (calendar) year, both inclusive.
func YearStart(year int) time.Time { return Date(year, time.January, 1) }
func YearEnd(year int) time.Time   { return Date(year, time.December, 31) }

// MonthEnd returns the last day of the month containing t.
func MonthEnd(t time.Time) time.Time {
	return Date(t.Year(), t.Month()+1, 0)
}

// DaysBetween returns calendar days from a to b (b - a). It counts civil
// days rather than durations, so it stays exact over any span of years.
func DaysBetween(a, b time.Time) int {
	return int(dayNumber(b) - dayNumber(a))
}

// dayNumber is the day index of t's calendar date since 1970-01-01.
func dayNumber(t time.Time) int64 {
	y, m, d := t.Date()
	return Date(y, m, d).Unix() / 86400
}

// AddDays shifts a date by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"2006.01.02",
	"2006. 1. 2.",
	"2006. 1. 2",
}

// ParseDate parses the date formats found in registry exports. The second
// return is false for blanks and anything unparseable.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "nat") || strings.EqualFold(s, "null") {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date(t.Year(), t.Month(), t.Day()), true
		}
	}
	// "2025-03-04 00:00:00.000" and similar: fall back to the date prefix.
	if len(s) > 10 {
		if t, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return Date(t.Year(), t.Month(), t.Day()), true
		}
	}
	return time.Time{}, false
}
