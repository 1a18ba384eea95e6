package domain

import (
    "fmt"
    "strings"
    "time"
)

// Statuses kept in the clean (silver) layer; SLA math additionally requires
// the issue to be resolved.
const (
    StatusOpen     = "Open"
    StatusDone     = "Done"
    StatusResolved = "Resolved"
)

// UnassignedName is the sentinel written into AssigneeName when the export
// carries no assignee.
const UnassignedName = "Unassigned"

// Record is one normalized issue row as it flows through the pipeline stages.
// Stages never mutate a Record in place; each stage derives new slices.
type Record struct {
    IssueID       string
    IssueType     string
    Status        string
    Priority      string
    AssigneeName  string
    AssigneeID    string
    AssigneeEmail string
    CreatedAt     *time.Time
    ResolvedAt    *time.Time
}

type RejectReason string

const (
    RejectMissingIssueID   RejectReason = "missing_issue_id"
    RejectMissingCreatedAt RejectReason = "missing_created_at"
    RejectDuplicateIssueID RejectReason = "duplicate_issue_id"
)

// RejectedRecord carries exactly one reason; precedence is decided by the gate.
type RejectedRecord struct {
    Record
    Reason RejectReason
}

type SLAStatus string

const (
    SLAMet      SLAStatus = "met"
    SLAViolated SLAStatus = "violated"
)

// GoldRecord is a resolved issue enriched with SLA metrics.
type GoldRecord struct {
    Record
    ResolutionBusinessHours float64
    ExpectedSLAHours        int
    SLAStatus               SLAStatus
}

// ReportRow is one aggregated summary line (by assignee or by issue type).
type ReportRow struct {
    GroupKey    string  `json:"group_key"`
    IssueCount  int     `json:"issue_count"`
    SLAAvgHours float64 `json:"sla_avg_hours"`
}

const dateLayout = "2006-01-02"

// HolidaySet is a set of calendar dates (no time component), keyed by the
// ISO date string. Read-only once built for a run.
type HolidaySet map[string]struct{}

func (h HolidaySet) Add(isoDate string) { h[isoDate] = struct{}{} }

func (h HolidaySet) Merge(o HolidaySet) {
    for d := range o { h[d] = struct{}{} }
}

// Has reports whether the calendar date of t (in t's own location) is a holiday.
func (h HolidaySet) Has(t time.Time) bool {
    _, ok := h[t.Format(dateLayout)]
    return ok
}

// SchemaError reports required fields absent from a stage's input. It is
// fatal to the stage that raises it.
type SchemaError struct {
    Stage   string
    Missing []string
}

func (e *SchemaError) Error() string {
    return fmt.Sprintf("%s: input is missing required fields: %s", e.Stage, strings.Join(e.Missing, ", "))
}
