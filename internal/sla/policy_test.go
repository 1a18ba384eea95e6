package sla

import (
    "testing"

    "github.com/HamedShams/sla-pulse/internal/domain"
)

func TestPolicy_ExpectedHoursWithDefaultFallback(t *testing.T) {
    p := DefaultPolicy()
    if got := p.ExpectedHours("High"); got != 24 { t.Fatalf("High: got %d", got) }
    if got := p.ExpectedHours("Low"); got != 120 { t.Fatalf("Low: got %d", got) }
    if got := p.ExpectedHours("Sev-0"); got != 72 { t.Fatalf("unknown priority should fall back to default, got %d", got) }
    if got := p.ExpectedHours(""); got != 72 { t.Fatalf("empty priority should fall back to default, got %d", got) }
}

func TestNewPolicy_Overrides(t *testing.T) {
    p := NewPolicy(map[string]int{"High": 8}, 48)
    if got := p.ExpectedHours("High"); got != 8 { t.Fatalf("override ignored, got %d", got) }
    if got := p.ExpectedHours("Medium"); got != 48 { t.Fatalf("default override ignored, got %d", got) }
}

func TestClassify_Boundary(t *testing.T) {
    if got := Classify(72.0, 72); got != domain.SLAMet {
        t.Fatalf("actual == expected must be met, got %s", got)
    }
    if got := Classify(72.01, 72); got != domain.SLAViolated {
        t.Fatalf("actual just over expected must be violated, got %s", got)
    }
    if got := Classify(0, 24); got != domain.SLAMet {
        t.Fatalf("zero hours must be met, got %s", got)
    }
}
