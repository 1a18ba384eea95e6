package silver

import (
    "testing"
    "time"

    "github.com/HamedShams/sla-pulse/internal/domain"
)

func rec(id string, created *time.Time) domain.Record {
    return domain.Record{IssueID: id, Status: domain.StatusDone, CreatedAt: created}
}

func tp(v string) *time.Time {
    t, err := time.Parse(time.RFC3339, v)
    if err != nil { panic(err) }
    return &t
}

func TestGate_PartitionComplete(t *testing.T) {
    in := []domain.Record{
        rec("1", tp("2026-01-05T10:00:00Z")),
        rec("", tp("2026-01-05T10:00:00Z")),
        rec("2", nil),
        rec("1", tp("2026-01-06T10:00:00Z")),
        rec("3", tp("2026-01-07T10:00:00Z")),
    }
    valid, rejects := Gate(in)
    if len(valid)+len(rejects) != len(in) {
        t.Fatalf("partition lost records: %d valid + %d rejected != %d in", len(valid), len(rejects), len(in))
    }
    if len(valid) != 2 { t.Fatalf("expected 2 valid, got %d", len(valid)) }
    if len(rejects) != 3 { t.Fatalf("expected 3 rejects, got %d", len(rejects)) }
}

func TestGate_PrecedenceSingleReason(t *testing.T) {
    // A row that both lacks an id and collides with an earlier id must be
    // tagged missing_issue_id; a row lacking created_at that also duplicates
    // must be tagged missing_created_at.
    in := []domain.Record{
        rec("7", tp("2026-01-05T10:00:00Z")),
        rec("", nil),
        rec("7", nil),
        rec("7", tp("2026-01-06T10:00:00Z")),
    }
    _, rejects := Gate(in)
    if len(rejects) != 3 { t.Fatalf("expected 3 rejects, got %d", len(rejects)) }
    want := []domain.RejectReason{
        domain.RejectMissingIssueID,
        domain.RejectMissingCreatedAt,
        domain.RejectDuplicateIssueID,
    }
    for i, w := range want {
        if rejects[i].Reason != w {
            t.Fatalf("reject %d: want %s, got %s", i, w, rejects[i].Reason)
        }
    }
}

func TestGate_FirstOccurrenceWins(t *testing.T) {
    first := rec("9", tp("2026-01-05T10:00:00Z"))
    first.AssigneeName = "Ana"
    second := rec("9", tp("2026-01-06T10:00:00Z"))
    second.AssigneeName = "Bruno"
    valid, rejects := Gate([]domain.Record{first, second})
    if len(valid) != 1 || valid[0].AssigneeName != "Ana" {
        t.Fatalf("first occurrence should be retained, got %+v", valid)
    }
    if len(rejects) != 1 || rejects[0].Reason != domain.RejectDuplicateIssueID {
        t.Fatalf("second occurrence should be a duplicate reject, got %+v", rejects)
    }
}

func TestGate_IdempotentOnValidOutput(t *testing.T) {
    in := []domain.Record{
        rec("1", tp("2026-01-05T10:00:00Z")),
        rec("1", tp("2026-01-05T11:00:00Z")),
        rec("2", nil),
        rec("3", tp("2026-01-06T10:00:00Z")),
    }
    valid, _ := Gate(in)
    again, rejects := Gate(valid)
    if len(rejects) != 0 {
        t.Fatalf("re-gating valid output produced rejects: %+v", rejects)
    }
    if len(again) != len(valid) {
        t.Fatalf("re-gating changed the valid set: %d -> %d", len(valid), len(again))
    }
}

func TestFilterStatuses(t *testing.T) {
    mk := func(status string) domain.Record {
        r := rec("1", tp("2026-01-05T10:00:00Z"))
        r.Status = status
        return r
    }
    in := []domain.Record{mk("Open"), mk("Done"), mk("Resolved"), mk("In Progress"), mk("Cancelled")}
    out := FilterStatuses(in)
    if len(out) != 3 {
        t.Fatalf("expected 3 records after status filter, got %d", len(out))
    }
    for _, r := range out {
        if r.Status != domain.StatusOpen && r.Status != domain.StatusDone && r.Status != domain.StatusResolved {
            t.Fatalf("unexpected status in output: %s", r.Status)
        }
    }
}
