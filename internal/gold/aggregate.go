package gold

import (
    "sort"

    "github.com/HamedShams/sla-pulse/internal/domain"
    "github.com/HamedShams/sla-pulse/internal/sla"
)

// AggregateByAssignee groups enriched records by assignee name and returns
// one row per group with the issue count and the mean resolution business
// hours (2-decimal rounding), sorted by group key.
func AggregateByAssignee(rows []domain.GoldRecord) ([]domain.ReportRow, error) {
    return aggregate(rows, func(r domain.GoldRecord) string { return r.AssigneeName })
}

// AggregateByIssueType groups enriched records by issue type.
func AggregateByIssueType(rows []domain.GoldRecord) ([]domain.ReportRow, error) {
    return aggregate(rows, func(r domain.GoldRecord) string { return r.IssueType })
}

func aggregate(rows []domain.GoldRecord, key func(domain.GoldRecord) string) ([]domain.ReportRow, error) {
    if err := checkReportInput(rows); err != nil { return nil, err }

    counts := map[string]int{}
    sums := map[string]float64{}
    for _, r := range rows {
        k := key(r)
        counts[k]++
        sums[k] += r.ResolutionBusinessHours
    }

    out := make([]domain.ReportRow, 0, len(counts))
    for k, n := range counts {
        out = append(out, domain.ReportRow{
            GroupKey:    k,
            IssueCount:  n,
            SLAAvgHours: sla.Round2(sums[k] / float64(n)),
        })
    }
    sort.Slice(out, func(i, j int) bool { return out[i].GroupKey < out[j].GroupKey })
    return out, nil
}

// checkReportInput guards the structural contract of the report input. The
// gate guarantees a non-empty issue_id and cleaning guarantees a non-empty
// assignee_name (the Unassigned sentinel), so a violation here means the
// caller skipped those stages. An empty issue_type is data, not structure,
// and stays a valid group key.
func checkReportInput(rows []domain.GoldRecord) error {
    for _, r := range rows {
        var missing []string
        if r.IssueID == "" { missing = append(missing, "issue_id") }
        if r.AssigneeName == "" { missing = append(missing, "assignee_name") }
        if len(missing) > 0 {
            return &domain.SchemaError{Stage: "gold reports", Missing: missing}
        }
    }
    return nil
}
