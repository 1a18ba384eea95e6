package sla

import (
    "testing"
    "time"

    "github.com/HamedShams/sla-pulse/internal/domain"
)

func ts(t *testing.T, v string) time.Time {
    t.Helper()
    out, err := time.Parse(time.RFC3339, v)
    if err != nil { t.Fatalf("bad timestamp %q: %v", v, err) }
    return out
}

func TestBusinessHours_EndBeforeStartIsZero(t *testing.T) {
    start := ts(t, "2026-03-04T12:00:00Z")
    end := ts(t, "2026-03-03T12:00:00Z")
    if got := BusinessHours(start, end, domain.HolidaySet{}, DefaultWindow()); got != 0 {
        t.Fatalf("expected 0 for end before start, got %v", got)
    }
    if got := BusinessHours(start, start, domain.HolidaySet{}, DefaultWindow()); got != 0 {
        t.Fatalf("expected 0 for end == start, got %v", got)
    }
}

func TestBusinessHours_WeekendExcluded(t *testing.T) {
    // 2026-03-06 is a Friday; window 09:00-17:00.
    // Friday 16:00 -> Monday 10:00 = 1h Friday + 1h Monday.
    win, err := WindowFromStrings("09:00:00", "17:00:00")
    if err != nil { t.Fatalf("window: %v", err) }
    start := ts(t, "2026-03-06T16:00:00Z")
    end := ts(t, "2026-03-09T10:00:00Z")
    if got := BusinessHours(start, end, domain.HolidaySet{}, win); got != 2.0 {
        t.Fatalf("expected 2.0 business hours across weekend, got %v", got)
    }
}

func TestBusinessHours_SameDayOnHolidayIsZero(t *testing.T) {
    holidays := domain.HolidaySet{}
    holidays.Add("2026-03-04")
    start := ts(t, "2026-03-04T08:00:00Z")
    end := ts(t, "2026-03-04T20:00:00Z")
    if got := BusinessHours(start, end, holidays, DefaultWindow()); got != 0 {
        t.Fatalf("expected 0 on a holiday, got %v", got)
    }
}

func TestBusinessHours_HolidayInsideRangeSkipped(t *testing.T) {
    // Wed 2026-03-04 declared a holiday; Tue 12:00 -> Thu 12:00 under a full-day
    // window counts 12h Tuesday + 12h Thursday.
    holidays := domain.HolidaySet{}
    holidays.Add("2026-03-04")
    start := ts(t, "2026-03-03T12:00:00Z")
    end := ts(t, "2026-03-05T12:00:00Z")
    got := BusinessHours(start, end, holidays, DefaultWindow())
    if got != 24.0 {
        t.Fatalf("expected 24.0 with the middle day excluded, got %v", got)
    }
}

func TestBusinessHours_FullDayWindowCountsWholeWeekday(t *testing.T) {
    // Full-day window over a single weekday: 23:59:59 worth of hours.
    start := ts(t, "2026-03-03T00:00:00Z")
    end := ts(t, "2026-03-04T00:00:00Z")
    got := BusinessHours(start, end, domain.HolidaySet{}, DefaultWindow())
    if got != 24.0 { // 86399s rounds to 24.00
        t.Fatalf("expected 24.0 for a full weekday, got %v", got)
    }
}

func TestBusinessHours_FractionalHoursKept(t *testing.T) {
    win, err := WindowFromStrings("09:00:00", "17:00:00")
    if err != nil { t.Fatalf("window: %v", err) }
    start := ts(t, "2026-03-03T09:00:00Z")
    end := ts(t, "2026-03-03T09:45:00Z")
    if got := BusinessHours(start, end, domain.HolidaySet{}, win); got != 0.75 {
        t.Fatalf("expected 0.75, got %v", got)
    }
}

func TestBusinessHours_MonotonicInEnd(t *testing.T) {
    win, err := WindowFromStrings("09:00:00", "17:00:00")
    if err != nil { t.Fatalf("window: %v", err) }
    start := ts(t, "2026-03-05T10:00:00Z")
    prev := 0.0
    for i := 0; i < 14; i++ {
        end := start.Add(time.Duration(i*12) * time.Hour)
        got := BusinessHours(start, end, domain.HolidaySet{}, win)
        if got < prev {
            t.Fatalf("business hours decreased when end grew: %v -> %v at step %d", prev, got, i)
        }
        prev = got
    }
}

func TestParseClock_Invalid(t *testing.T) {
    if _, err := ParseClock("25:00:00"); err == nil {
        t.Fatalf("expected error for out-of-range hour")
    }
    if _, err := ParseClock("bogus"); err == nil {
        t.Fatalf("expected error for garbage input")
    }
}
