package util

import (
    "strconv"
    "testing"
    "time"
)

func TestParseTimeRFC3339(t *testing.T) {
    s := "2025-08-03T10:10:10Z"
    got, ok := ParseTime(s)
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.UTC().Format(time.RFC3339) != s {
        t.Fatalf("unexpected time %v", got)
    }
}

func TestParseTimeUnix(t *testing.T) {
    ts := time.Date(2025, 8, 3, 10, 10, 10, 0, time.UTC).Unix()
    got, ok := ParseTime(strconv.FormatInt(ts, 10))
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.Unix() != ts {
        t.Fatalf("unexpected unix %v", got.Unix())
    }
}

func TestParseTimeDayOnly(t *testing.T) {
    got, ok := ParseTime("2025-08-03")
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.Format(DayFormat) != "2025-08-03" {
        t.Fatalf("unexpected day %v", got)
    }
}

func TestDayKeyConvertsTimezone(t *testing.T) {
    ny, err := time.LoadLocation("America/New_York")
    if err != nil {
        t.Fatalf("load location: %v", err)
    }
    // 03:00 UTC on Aug 4 is still Aug 3 in New York (UTC-4 in summer).
    instant := time.Date(2025, 8, 4, 3, 0, 0, 0, time.UTC)
    day, ok := DayKey(instant, ny)
    if !ok {
        t.Fatalf("expected ok")
    }
    if day != "2025-08-03" {
        t.Fatalf("unexpected day %s", day)
    }
}

func TestDayKeyZeroTime(t *testing.T) {
    if _, ok := DayKey(time.Time{}, time.UTC); ok {
        t.Fatalf("expected zero time to be rejected")
    }
}
