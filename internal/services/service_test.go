package services

import (
    "strings"
    "testing"

    "github.com/HamedShams/sla-pulse/internal/domain"
)

func TestBuildKPIs(t *testing.T) {
    enriched := []domain.GoldRecord{
        {SLAStatus: domain.SLAMet, ResolutionBusinessHours: 10},
        {SLAStatus: domain.SLAMet, ResolutionBusinessHours: 20},
        {SLAStatus: domain.SLAViolated, ResolutionBusinessHours: 90},
    }
    kpis := buildKPIs(10, 8, 2, enriched)
    if kpis["rows_in"] != 10 || kpis["rows_valid"] != 8 || kpis["rejects"] != 2 {
        t.Fatalf("counts wrong: %v", kpis)
    }
    if kpis["sla_met"] != 2 || kpis["sla_violated"] != 1 {
        t.Fatalf("verdicts wrong: %v", kpis)
    }
    if kpis["compliance_pct"] != 66.67 {
        t.Fatalf("compliance = %v, want 66.67", kpis["compliance_pct"])
    }
    if kpis["avg_hours"] != 40.0 {
        t.Fatalf("avg = %v, want 40", kpis["avg_hours"])
    }
}

func TestBuildKPIs_NoEligible(t *testing.T) {
    kpis := buildKPIs(3, 3, 0, nil)
    if _, ok := kpis["compliance_pct"]; ok {
        t.Fatalf("compliance must be absent with no eligible issues")
    }
}

func TestWorstGroups(t *testing.T) {
    rows := []domain.ReportRow{
        {GroupKey: "Ana", IssueCount: 2, SLAAvgHours: 15.5},
        {GroupKey: "Bruno", IssueCount: 1, SLAAvgHours: 90.0},
        {GroupKey: "Carla", IssueCount: 4, SLAAvgHours: 40.0},
        {GroupKey: "Davi", IssueCount: 1, SLAAvgHours: 5.0},
    }
    worst := worstGroups(rows, 3)
    if len(worst) != 3 { t.Fatalf("len = %d, want 3", len(worst)) }
    if worst[0]["group"] != "Bruno" || worst[1]["group"] != "Carla" {
        t.Fatalf("unexpected order: %v", worst)
    }
    if len(rows) != 4 || rows[0].GroupKey != "Ana" {
        t.Fatalf("input slice must not be reordered")
    }
}

func TestEscapeMarkdownV2(t *testing.T) {
    in := "avg_hours: 12.5 (top-3)!"
    out := escapeMarkdownV2(in)
    for _, frag := range []string{`\_`, `\.`, `\(`, `\)`, `\-`, `\!`} {
        if !strings.Contains(out, frag) { t.Fatalf("missing escape %s in %q", frag, out) }
    }
}

func TestRenderDigest(t *testing.T) {
    s := &Service{}
    kpis := map[string]float64{
        "rows_in": 10, "rows_valid": 9, "rejects": 1,
        "sla_eligible": 5, "sla_met": 4, "sla_violated": 1,
        "compliance_pct": 80, "avg_hours": 12.34,
    }
    rows := []domain.ReportRow{{GroupKey: "Ana", IssueCount: 2, SLAAvgHours: 15.5}}
    out := s.renderDigest(kpis, rows)
    if !strings.Contains(out, "*SLA Pulse*") { t.Fatalf("missing title: %q", out) }
    if !strings.Contains(out, "*Met:* 4") || !strings.Contains(out, "*Violated:* 1") {
        t.Fatalf("missing verdict counts: %q", out)
    }
    if !strings.Contains(out, `80\.00%`) { t.Fatalf("compliance not escaped: %q", out) }
    if !strings.Contains(out, "Slowest assignees") { t.Fatalf("missing worst section: %q", out) }
    if !strings.Contains(out, `15\.5`) { t.Fatalf("worst row hours not rendered: %q", out) }
}
