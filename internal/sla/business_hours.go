/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */

// Package sla implements the business-hours calculator and the priority
// SLA policy used to classify resolved issues.
package sla

import (
    "fmt"
    "math"
    "time"

    "github.com/HamedShams/sla-pulse/internal/domain"
)

// Clock is a time of day within a business day.
type Clock struct {
    Hour, Min, Sec int
}

// ParseClock parses "HH:MM:SS" (seconds optional).
func ParseClock(s string) (Clock, error) {
    var c Clock
    if _, err := fmt.Sscanf(s, "%d:%d:%d", &c.Hour, &c.Min, &c.Sec); err != nil {
        if _, err2 := fmt.Sscanf(s, "%d:%d", &c.Hour, &c.Min); err2 != nil {
            return Clock{}, fmt.Errorf("sla: invalid clock %q", s)
        }
    }
    if c.Hour < 0 || c.Hour > 23 || c.Min < 0 || c.Min > 59 || c.Sec < 0 || c.Sec > 59 {
        return Clock{}, fmt.Errorf("sla: clock out of range %q", s)
    }
    return c, nil
}

// Window is the daily business window. The default spans the full day, which
// degenerates the calculation to calendar-day counting with weekend/holiday
// exclusion only.
type Window struct {
    Open, Close Clock
}

func DefaultWindow() Window {
    return Window{Open: Clock{0, 0, 0}, Close: Clock{23, 59, 59}}
}

// WindowFromStrings builds a Window from two "HH:MM:SS" strings.
func WindowFromStrings(open, close string) (Window, error) {
    o, err := ParseClock(open)
    if err != nil { return Window{}, err }
    c, err := ParseClock(close)
    if err != nil { return Window{}, err }
    return Window{Open: o, Close: c}, nil
}

// BusinessHours returns the elapsed business hours between start and end:
// time inside the daily window on weekdays that are not in holidays.
// end <= start yields 0. The result is rounded to 2 decimals.
//
// The walk is day by day in start's location; weekday and holiday checks use
// the same date basis as the instants, so day-boundary inputs cannot slip
// into a neighboring calendar day.
func BusinessHours(start, end time.Time, holidays domain.HolidaySet, win Window) float64 {
    if !end.After(start) { return 0 }
    loc := start.Location()
    end = end.In(loc)

    total := 0.0
    cur := start
    ey, em, ed := end.Date()
    lastDay := time.Date(ey, em, ed, 0, 0, 0, 0, loc)

    for {
        y, m, d := cur.Date()
        day := time.Date(y, m, d, 0, 0, 0, 0, loc)
        if day.After(lastDay) { break }

        wd := day.Weekday()
        if wd != time.Saturday && wd != time.Sunday && !holidays.Has(day) {
            dayOpen := time.Date(y, m, d, win.Open.Hour, win.Open.Min, win.Open.Sec, 0, loc)
            dayClose := time.Date(y, m, d, win.Close.Hour, win.Close.Min, win.Close.Sec, 0, loc)
            s := cur
            if dayOpen.After(s) { s = dayOpen }
            e := end
            if dayClose.Before(e) { e = dayClose }
            if e.After(s) { total += e.Sub(s).Hours() }
        }
        cur = day.AddDate(0, 0, 1)
    }
    return Round2(total)
}

func Round2(f float64) float64 { return math.Round(f*100) / 100 }
