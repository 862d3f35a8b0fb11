package scheduler

import (
	"fmt"
	"strings"
	"time"
)

// DayLayout is the canonical calendar-day representation.
const DayLayout = "2006-01-02"

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	DayLayout,
}

// ParseDate accepts calendar days, RFC 3339 timestamps and local date-times
// without an offset. Values without an offset are read as UTC.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognised date %q", ErrInvalidInput, value)
}

// StartOfDay returns midnight UTC of the calendar day t falls on in its own
// location. Comparing normalized values compares calendar days.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return StartOfDay(a).Equal(StartOfDay(b))
}

// FormatDay renders the calendar day of t as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return StartOfDay(t).Format(DayLayout)
}
