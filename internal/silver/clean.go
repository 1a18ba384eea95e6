/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */

// Package silver cleans bronze rows into normalized records and applies the
// data quality gate that partitions them into valid and rejected sets.
package silver

import (
    "strings"
    "time"
    "unicode"

    "github.com/HamedShams/sla-pulse/internal/bronze"
    "github.com/HamedShams/sla-pulse/internal/domain"
)

// Clean converts bronze rows into normalized records: timestamps parsed to
// UTC (unparseable values become nil), status/priority trimmed and
// title-cased, and a missing assignee name replaced with the sentinel.
func Clean(rows []bronze.Row) []domain.Record {
    out := make([]domain.Record, 0, len(rows))
    for _, r := range rows {
        rec := domain.Record{
            IssueID:       strings.TrimSpace(r.IssueID),
            IssueType:     strings.TrimSpace(r.IssueType),
            Status:        titleCase(strings.TrimSpace(r.Status)),
            Priority:      titleCase(strings.TrimSpace(r.Priority)),
            AssigneeName:  strings.TrimSpace(r.AssigneeName),
            AssigneeID:    strings.TrimSpace(r.AssigneeID),
            AssigneeEmail: strings.TrimSpace(r.AssigneeEmail),
            CreatedAt:     parseTimeUTC(r.CreatedAt),
            ResolvedAt:    parseTimeUTC(r.ResolvedAt),
        }
        if rec.AssigneeName == "" { rec.AssigneeName = domain.UnassignedName }
        out = append(out, rec)
    }
    return out
}

func parseTimeUTC(v string) *time.Time {
    v = strings.TrimSpace(v)
    if v == "" { return nil }
    layouts := []string{
        time.RFC3339,
        "2006-01-02T15:04:05.000-0700", // Jira API timestamp flavor
        "2006-01-02T15:04:05Z0700",
        "2006-01-02 15:04:05",
        "2006-01-02",
    }
    for _, l := range layouts {
        if t, err := time.Parse(l, v); err == nil {
            u := t.UTC()
            return &u
        }
    }
    return nil
}

// titleCase uppercases the first letter of every word and lowercases the
// rest, with any non-letter acting as a word boundary ("in progress" ->
// "In Progress").
func titleCase(s string) string {
    var b strings.Builder
    b.Grow(len(s))
    prevLetter := false
    for _, r := range s {
        if unicode.IsLetter(r) {
            if prevLetter {
                b.WriteRune(unicode.ToLower(r))
            } else {
                b.WriteRune(unicode.ToUpper(r))
            }
            prevLetter = true
        } else {
            b.WriteRune(r)
            prevLetter = false
        }
    }
    return b.String()
}
