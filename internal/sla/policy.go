package sla

import "github.com/HamedShams/sla-pulse/internal/domain"

// Policy maps a priority label to its expected business-hours budget.
// Built once per run from configuration and treated as read-only afterwards.
type Policy struct {
    Expected map[string]int
    Default  int
}

// DefaultPolicy mirrors the stock priority table.
func DefaultPolicy() Policy {
    return Policy{
        Expected: map[string]int{"High": 24, "Medium": 72, "Low": 120},
        Default:  72,
    }
}

// NewPolicy overlays a configured table (may be nil) on the defaults.
func NewPolicy(expected map[string]int, def int) Policy {
    p := DefaultPolicy()
    if len(expected) > 0 { p.Expected = expected }
    if def > 0 { p.Default = def }
    return p
}

// ExpectedHours resolves a priority to its budget; unknown or empty
// priorities fall back to the default rather than failing.
func (p Policy) ExpectedHours(priority string) int {
    if h, ok := p.Expected[priority]; ok { return h }
    return p.Default
}

// Classify compares actual business hours against the budget. The boundary
// actual == expected counts as met.
func Classify(actual float64, expected int) domain.SLAStatus {
    if actual <= float64(expected) { return domain.SLAMet }
    return domain.SLAViolated
}
