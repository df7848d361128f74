package util

import (
	"strconv"
	"time"
)

// DayFormat is the calendar-day key layout used across the pipeline.
const DayFormat = "2006-01-02"

// ParseTime tries RFC3339, RFC3339Nano, date-only, and unix seconds.
// Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(DayFormat, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0).UTC(), true
	}
	return time.Time{}, false
}

// DayKey converts an instant to its calendar day in the given timezone.
// Returns ("", false) when the timestamp is the zero value and cannot be
// placed on a calendar.
func DayKey(t time.Time, loc *time.Location) (string, bool) {
	if t.IsZero() || loc == nil {
		return "", false
	}
	return t.In(loc).Format(DayFormat), true
}
