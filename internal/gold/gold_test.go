package gold

import (
    "errors"
    "testing"
    "time"

    "github.com/HamedShams/sla-pulse/internal/domain"
    "github.com/HamedShams/sla-pulse/internal/sla"
)

func tp(t *testing.T, v string) *time.Time {
    t.Helper()
    out, err := time.Parse(time.RFC3339, v)
    if err != nil { t.Fatalf("bad timestamp %q: %v", v, err) }
    return &out
}

func mkRec(id, typ, status, priority, assignee string, created, resolved *time.Time) domain.Record {
    return domain.Record{
        IssueID: id, IssueType: typ, Status: status, Priority: priority,
        AssigneeName: assignee, CreatedAt: created, ResolvedAt: resolved,
    }
}

func TestFilterResolved(t *testing.T) {
    c := tp(t, "2026-03-02T10:00:00Z")
    in := []domain.Record{
        mkRec("1", "Bug", domain.StatusOpen, "High", "Ana", c, nil),
        mkRec("2", "Bug", domain.StatusDone, "High", "Ana", c, nil),
        mkRec("3", "Bug", domain.StatusResolved, "High", "Ana", c, nil),
    }
    out := FilterResolved(in)
    if len(out) != 2 { t.Fatalf("expected 2 resolved records, got %d", len(out)) }
}

func TestYears_UnionOfBothTimestamps(t *testing.T) {
    in := []domain.Record{
        mkRec("1", "Bug", domain.StatusDone, "High", "Ana", tp(t, "2025-12-30T10:00:00Z"), tp(t, "2026-01-02T10:00:00Z")),
        mkRec("2", "Bug", domain.StatusDone, "High", "Ana", nil, nil),
    }
    got := Years(in)
    if len(got) != 2 || got[0] != 2025 || got[1] != 2026 {
        t.Fatalf("expected [2025 2026], got %v", got)
    }
    if got := Years(nil); len(got) != 0 {
        t.Fatalf("expected no years for empty input, got %v", got)
    }
}

func TestEnrich_ComputesDerivedColumnsInInputOrder(t *testing.T) {
    pol := sla.DefaultPolicy()
    win := sla.DefaultWindow()
    in := []domain.Record{
        // Mon 10:00 -> Tue 10:00, full-day window: 24h, High budget 24 -> met.
        mkRec("1", "Bug", domain.StatusDone, "High", "Ana", tp(t, "2026-03-02T10:00:00Z"), tp(t, "2026-03-03T10:00:00Z")),
        // Mon 10:00 -> Wed 10:30: 48.5h, High budget 24 -> violated.
        mkRec("2", "Bug", domain.StatusDone, "High", "Ana", tp(t, "2026-03-02T10:00:00Z"), tp(t, "2026-03-04T10:30:00Z")),
        // resolved before created degrades to 0 -> met.
        mkRec("3", "Task", domain.StatusDone, "Low", "Bia", tp(t, "2026-03-04T10:00:00Z"), tp(t, "2026-03-02T10:00:00Z")),
        // missing resolved_at degrades to 0.
        mkRec("4", "Task", domain.StatusDone, "Sev-0", "Bia", tp(t, "2026-03-02T10:00:00Z"), nil),
    }
    out := Enrich(in, domain.HolidaySet{}, pol, win, 3)
    if len(out) != len(in) { t.Fatalf("expected %d rows, got %d", len(in), len(out)) }
    for i := range out {
        if out[i].IssueID != in[i].IssueID {
            t.Fatalf("output order differs from input at %d: %s", i, out[i].IssueID)
        }
    }
    if out[0].ResolutionBusinessHours != 24.0 || out[0].SLAStatus != domain.SLAMet {
        t.Fatalf("row 0: got %v/%s", out[0].ResolutionBusinessHours, out[0].SLAStatus)
    }
    if out[1].SLAStatus != domain.SLAViolated {
        t.Fatalf("row 1 should violate: %v", out[1].ResolutionBusinessHours)
    }
    if out[2].ResolutionBusinessHours != 0 || out[2].SLAStatus != domain.SLAMet {
        t.Fatalf("row 2 should degrade to 0/met, got %v/%s", out[2].ResolutionBusinessHours, out[2].SLAStatus)
    }
    if out[3].ExpectedSLAHours != 72 {
        t.Fatalf("unknown priority should use default budget, got %d", out[3].ExpectedSLAHours)
    }
}

func TestAggregate_CountsAndMeans(t *testing.T) {
    c := tp(t, "2026-03-02T10:00:00Z")
    rows := []domain.GoldRecord{
        {Record: mkRec("1", "Bug", domain.StatusDone, "High", "Ana", c, c), ResolutionBusinessHours: 10},
        {Record: mkRec("2", "Bug", domain.StatusDone, "High", "Ana", c, c), ResolutionBusinessHours: 21},
        {Record: mkRec("3", "Task", domain.StatusDone, "High", "Bia", c, c), ResolutionBusinessHours: 5},
    }
    byAssignee, err := AggregateByAssignee(rows)
    if err != nil { t.Fatalf("aggregate: %v", err) }
    if len(byAssignee) != 2 { t.Fatalf("expected 2 assignee groups, got %d", len(byAssignee)) }
    total := 0
    for _, g := range byAssignee { total += g.IssueCount }
    if total != len(rows) { t.Fatalf("group counts do not add up to row count: %d != %d", total, len(rows)) }
    if byAssignee[0].GroupKey != "Ana" || byAssignee[0].SLAAvgHours != 15.5 {
        t.Fatalf("Ana group wrong: %+v", byAssignee[0])
    }

    byType, err := AggregateByIssueType(rows)
    if err != nil { t.Fatalf("aggregate: %v", err) }
    if len(byType) != 2 || byType[0].GroupKey != "Bug" || byType[0].IssueCount != 2 {
        t.Fatalf("issue-type groups wrong: %+v", byType)
    }
}

func TestAggregate_SchemaErrorOnMalformedInput(t *testing.T) {
    rows := []domain.GoldRecord{{Record: domain.Record{IssueType: "Bug"}}}
    _, err := AggregateByAssignee(rows)
    var se *domain.SchemaError
    if !errors.As(err, &se) { t.Fatalf("expected SchemaError, got %v", err) }
}
