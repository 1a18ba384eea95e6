/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */

// Package gold enriches resolved issues with SLA metrics and builds the
// summary reports.
package gold

import (
    "sort"
    "sync"

    "github.com/HamedShams/sla-pulse/internal/domain"
    "github.com/HamedShams/sla-pulse/internal/sla"
)

// FilterResolved keeps the SLA-eligible statuses only. Open issues stay in
// silver but never get an SLA verdict.
func FilterResolved(records []domain.Record) []domain.Record {
    out := make([]domain.Record, 0, len(records))
    for _, r := range records {
        if r.Status == domain.StatusDone || r.Status == domain.StatusResolved {
            out = append(out, r)
        }
    }
    return out
}

// Years returns the sorted union of calendar years touched by created_at and
// resolved_at across the records.
func Years(records []domain.Record) []int {
    set := map[int]struct{}{}
    for _, r := range records {
        if r.CreatedAt != nil { set[r.CreatedAt.Year()] = struct{}{} }
        if r.ResolvedAt != nil { set[r.ResolvedAt.Year()] = struct{}{} }
    }
    out := make([]int, 0, len(set))
    for y := range set { out = append(out, y) }
    sort.Ints(out)
    return out
}

// Enrich computes the three derived SLA columns for every record. The holiday
// set, policy, and window are read-only shared values; rows are fanned out to
// a worker pool and results land at their input index, so output order equals
// input order.
//
// Records missing either timestamp, or resolved before created, get 0
// measurable business hours rather than failing the run.
func Enrich(records []domain.Record, holidays domain.HolidaySet, pol sla.Policy, win sla.Window, workers int) []domain.GoldRecord {
    out := make([]domain.GoldRecord, len(records))
    if len(records) == 0 { return out }
    if workers <= 0 { workers = 4 }
    if workers > len(records) { workers = len(records) }

    jobs := make(chan int)
    var wg sync.WaitGroup
    for w := 0; w < workers; w++ {
        wg.Add(1)
        go func() {
            defer wg.Done()
            for i := range jobs {
                r := records[i]
                hours := 0.0
                if r.CreatedAt != nil && r.ResolvedAt != nil {
                    hours = sla.BusinessHours(*r.CreatedAt, *r.ResolvedAt, holidays, win)
                }
                expected := pol.ExpectedHours(r.Priority)
                out[i] = domain.GoldRecord{
                    Record:                  r,
                    ResolutionBusinessHours: hours,
                    ExpectedSLAHours:        expected,
                    SLAStatus:               sla.Classify(hours, expected),
                }
            }
        }()
    }
    for i := range records { jobs <- i }
    close(jobs)
    wg.Wait()
    return out
}
