package model

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// DateOnly truncates a timestamp to midnight UTC. All pipeline date math is
// day-granular; time-of-day and zone components must not influence gaps.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole-day difference to - from. Negative when to
// precedes from.
func DaysBetween(from, to time.Time) int {
	delta := DateOnly(to).Sub(DateOnly(from))
	return int(delta.Hours() / 24)
}

// ParseDate accepts ISO (2006-01-02) and US (01/02/2006) calendar dates.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return DateOnly(t), nil
	}
	if t, err := time.Parse("01/02/2006", s); err == nil {
		return DateOnly(t), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// FormatDate renders a date as ISO 2006-01-02, or "" for the zero value.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
