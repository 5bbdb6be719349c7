package models

import (
	"testing"
	"time"
)

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"same day", Date(2026, 3, 1), Date(2026, 3, 1), 0},
		{"leap february", Date(2024, 2, 1), Date(2024, 3, 1), 29},
		{"backwards", Date(2026, 1, 10), Date(2026, 1, 1), -9},
		{"before epoch", Date(1969, 12, 31), Date(1970, 1, 1), 1},
		{"400-year cycle", Date(2000, 1, 1), Date(2400, 1, 1), 146097},
		{"ignores time of day", time.Date(2026, 1, 1, 23, 0, 0, 0, time.UTC), Date(2026, 1, 2), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.a, tt.b); got != tt.want {
				t.Errorf("DaysBetween = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"2025-03-04", "2025/03/04", "2025. 3. 4.", "2025-03-04 00:00:00.000"} {
		got, ok := ParseDate(s)
		if !ok || got != Date(2025, 3, 4) {
			t.Errorf("ParseDate(%q) = %v, %v", s, got, ok)
		}
	}
	for _, s := range []string{"", "NaT", "nan", "not a date"} {
		if _, ok := ParseDate(s); ok {
			t.Errorf("ParseDate(%q) should fail", s)
		}
	}
}
