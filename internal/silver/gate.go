/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package silver

import "github.com/HamedShams/sla-pulse/internal/domain"

// Gate partitions records into valid and rejected sets. Every input record
// lands in exactly one partition, and a rejected record carries exactly one
// reason, decided in fixed precedence order:
//
//  1. missing_issue_id
//  2. missing_created_at
//  3. duplicate_issue_id (first occurrence in input order wins)
//
// Any earlier occurrence of an id counts for duplicate detection, even when
// that occurrence itself was rejected for a missing created_at.
func Gate(records []domain.Record) ([]domain.Record, []domain.RejectedRecord) {
    valid := make([]domain.Record, 0, len(records))
    var rejects []domain.RejectedRecord
    seen := make(map[string]struct{}, len(records))

    for _, r := range records {
        if r.IssueID == "" {
            rejects = append(rejects, domain.RejectedRecord{Record: r, Reason: domain.RejectMissingIssueID})
            continue
        }
        _, dup := seen[r.IssueID]
        seen[r.IssueID] = struct{}{}
        if r.CreatedAt == nil {
            rejects = append(rejects, domain.RejectedRecord{Record: r, Reason: domain.RejectMissingCreatedAt})
            continue
        }
        if dup {
            rejects = append(rejects, domain.RejectedRecord{Record: r, Reason: domain.RejectDuplicateIssueID})
            continue
        }
        valid = append(valid, r)
    }
    return valid, rejects
}

// FilterStatuses keeps records whose status is in the clean-layer allowed
// set. Out-of-set statuses are excluded from the stage output, not rejected.
func FilterStatuses(records []domain.Record) []domain.Record {
    out := make([]domain.Record, 0, len(records))
    for _, r := range records {
        switch r.Status {
        case domain.StatusOpen, domain.StatusDone, domain.StatusResolved:
            out = append(out, r)
        }
    }
    return out
}
