// Package profile produces lightweight descriptive metrics over record sets:
// row count, null percentage and cardinality per column, and top values for
// categorical columns. Used for run-time dataset visibility in logs.
package profile

import (
    "fmt"
    "sort"
    "strings"

    "github.com/HamedShams/sla-pulse/internal/domain"
)

type ValueCount struct {
    Value string
    Count int
}

type Report struct {
    RowCount    int
    NullPct     map[string]float64
    Cardinality map[string]int
    TopValues   map[string][]ValueCount
}

// column is one materialized column: a cell per row, null tracked separately.
type column struct {
    name        string
    categorical bool
    values      []string
    nulls       []bool
}

func recordColumns(rows []domain.Record) []column {
    n := len(rows)
    cols := []column{
        {name: "issue_id"}, {name: "issue_type", categorical: true},
        {name: "status", categorical: true}, {name: "priority", categorical: true},
        {name: "assignee_name", categorical: true}, {name: "assignee_id", categorical: true},
        {name: "assignee_email", categorical: true},
        {name: "created_at"}, {name: "resolved_at"},
    }
    for i := range cols {
        cols[i].values = make([]string, n)
        cols[i].nulls = make([]bool, n)
    }
    for i, r := range rows {
        set := func(c int, v string) { cols[c].values[i] = v; cols[c].nulls[i] = v == "" }
        set(0, r.IssueID)
        set(1, r.IssueType)
        set(2, r.Status)
        set(3, r.Priority)
        set(4, r.AssigneeName)
        set(5, r.AssigneeID)
        set(6, r.AssigneeEmail)
        if r.CreatedAt != nil { set(7, r.CreatedAt.Format("2006-01-02T15:04:05Z")) } else { cols[7].nulls[i] = true }
        if r.ResolvedAt != nil { set(8, r.ResolvedAt.Format("2006-01-02T15:04:05Z")) } else { cols[8].nulls[i] = true }
    }
    return cols
}

func goldColumns(rows []domain.GoldRecord) []column {
    base := make([]domain.Record, len(rows))
    for i, r := range rows { base[i] = r.Record }
    cols := recordColumns(base)
    extra := []column{
        {name: "resolution_time_business_hours"},
        {name: "expected_sla_hours"},
        {name: "sla_status", categorical: true},
    }
    n := len(rows)
    for i := range extra {
        extra[i].values = make([]string, n)
        extra[i].nulls = make([]bool, n)
    }
    for i, r := range rows {
        extra[0].values[i] = fmt.Sprintf("%.2f", r.ResolutionBusinessHours)
        extra[1].values[i] = fmt.Sprintf("%d", r.ExpectedSLAHours)
        extra[2].values[i] = string(r.SLAStatus)
    }
    return append(cols, extra...)
}

// Records profiles a normalized record set.
func Records(rows []domain.Record, topN int) Report { return build(recordColumns(rows), len(rows), topN) }

// Gold profiles an enriched record set.
func Gold(rows []domain.GoldRecord, topN int) Report { return build(goldColumns(rows), len(rows), topN) }

func build(cols []column, n, topN int) Report {
    if topN <= 0 { topN = 5 }
    rep := Report{
        RowCount:    n,
        NullPct:     map[string]float64{},
        Cardinality: map[string]int{},
        TopValues:   map[string][]ValueCount{},
    }
    for _, c := range cols {
        nulls := 0
        counts := map[string]int{}
        for i := 0; i < n; i++ {
            if c.nulls[i] { nulls++; continue }
            counts[c.values[i]]++
        }
        pct := 0.0
        if n > 0 { pct = float64(nulls) / float64(n) * 100 }
        rep.NullPct[c.name] = round2(pct)
        rep.Cardinality[c.name] = len(counts)
        if c.categorical && len(counts) > 0 {
            vcs := make([]ValueCount, 0, len(counts))
            for v, k := range counts { vcs = append(vcs, ValueCount{Value: v, Count: k}) }
            sort.Slice(vcs, func(i, j int) bool {
                if vcs[i].Count == vcs[j].Count { return vcs[i].Value < vcs[j].Value }
                return vcs[i].Count > vcs[j].Count
            })
            if len(vcs) > topN { vcs = vcs[:topN] }
            rep.TopValues[c.name] = vcs
        }
    }
    return rep
}

func round2(f float64) float64 {
    return float64(int(f*100+0.5)) / 100
}

// Format renders the report as a readable multi-line string.
func (r Report) Format() string {
    var b strings.Builder
    fmt.Fprintf(&b, "Row count: %d\n", r.RowCount)
    b.WriteString("Null % by column:\n")
    for _, name := range sortedKeys(r.NullPct) {
        fmt.Fprintf(&b, "  - %s: %v%%\n", name, r.NullPct[name])
    }
    b.WriteString("Cardinality by column:\n")
    for _, name := range sortedKeysInt(r.Cardinality) {
        fmt.Fprintf(&b, "  - %s: %d\n", name, r.Cardinality[name])
    }
    if len(r.TopValues) > 0 {
        b.WriteString("Top values (categorical):\n")
        names := make([]string, 0, len(r.TopValues))
        for n := range r.TopValues { names = append(names, n) }
        sort.Strings(names)
        for _, n := range names {
            fmt.Fprintf(&b, "  - %s:\n", n)
            for _, vc := range r.TopValues[n] {
                fmt.Fprintf(&b, "      %s: %d\n", vc.Value, vc.Count)
            }
        }
    }
    return strings.TrimRight(b.String(), "\n")
}

func sortedKeys(m map[string]float64) []string {
    out := make([]string, 0, len(m))
    for k := range m { out = append(out, k) }
    sort.Strings(out)
    return out
}

func sortedKeysInt(m map[string]int) []string {
    out := make([]string, 0, len(m))
    for k := range m { out = append(out, k) }
    sort.Strings(out)
    return out
}

// Preview renders the first n records as a fixed-width table with a rule
// under the header row.
func Preview(rows []domain.Record, n int) string {
    if n <= 0 { n = 10 }
    if n > len(rows) { n = len(rows) }
    header := []string{"issue_id", "issue_type", "status", "priority", "assignee_name"}
    table := [][]string{header}
    for _, r := range rows[:n] {
        table = append(table, []string{r.IssueID, r.IssueType, r.Status, r.Priority, r.AssigneeName})
    }
    widths := make([]int, len(header))
    for _, row := range table {
        for i, cell := range row {
            if len(cell) > widths[i] { widths[i] = len(cell) }
        }
    }
    var b strings.Builder
    for ri, row := range table {
        cells := make([]string, len(row))
        for i, cell := range row { cells[i] = pad(cell, widths[i]) }
        line := strings.TrimRight(strings.Join(cells, "  "), " ")
        b.WriteString(line)
        b.WriteString("\n")
        if ri == 0 {
            b.WriteString(strings.Repeat("-", len(line)))
            b.WriteString("\n")
        }
    }
    return strings.TrimRight(b.String(), "\n")
}

func pad(s string, w int) string {
    if len(s) >= w { return s }
    return s + strings.Repeat(" ", w-len(s))
}
