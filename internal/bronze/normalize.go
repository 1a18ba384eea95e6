/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */

// Package bronze flattens the raw issue-tracker export into tabular rows.
// Values stay as raw strings here; parsing and normalization happen in silver.
package bronze

import (
    "encoding/json"
    "fmt"
    "strconv"

    "github.com/HamedShams/sla-pulse/internal/domain"
)

// Row is one flattened issue straight out of the raw export.
type Row struct {
    IssueID       string
    IssueType     string
    Status        string
    Priority      string
    AssigneeName  string
    AssigneeID    string
    AssigneeEmail string
    CreatedAt     string
    ResolvedAt    string
}

// Normalize parses the raw export payload ({"issues": [...]}) and flattens
// each issue, preserving the array order end-to-end so that downstream
// duplicate resolution is deterministic. A payload without an issues array
// is a SchemaError.
func Normalize(raw []byte) ([]Row, error) {
    var doc map[string]any
    if err := json.Unmarshal(raw, &doc); err != nil {
        return nil, fmt.Errorf("bronze: invalid raw payload: %w", err)
    }
    issuesAny, ok := doc["issues"]
    if !ok {
        return nil, &domain.SchemaError{Stage: "bronze", Missing: []string{"issues"}}
    }
    arr, ok := issuesAny.([]any)
    if !ok {
        return nil, &domain.SchemaError{Stage: "bronze", Missing: []string{"issues"}}
    }

    rows := make([]Row, 0, len(arr))
    for _, it := range arr {
        im, _ := it.(map[string]any)
        if im == nil { continue }
        rows = append(rows, flatten(im))
    }
    return rows, nil
}

func flatten(im map[string]any) Row {
    r := Row{
        IssueID:   toStr(im["id"]),
        IssueType: toStr(im["issue_type"]),
        Status:    toStr(im["status"]),
        Priority:  toStr(im["priority"]),
    }
    // Nested single-element arrays in the current export shape.
    if as := firstItem(im["assignee"]); as != nil {
        r.AssigneeName = toStr(as["name"])
        r.AssigneeID = toStr(as["id"])
        r.AssigneeEmail = toStr(as["email"])
    }
    if ts := firstItem(im["timestamps"]); ts != nil {
        r.CreatedAt = toStr(ts["created_at"])
        r.ResolvedAt = toStr(ts["resolved_at"])
    }
    // Legacy Jira API shape fallbacks (fields.*).
    if fields, ok := im["fields"].(map[string]any); ok {
        if r.IssueType == "" { r.IssueType = nestedName(fields, "issuetype") }
        if r.Status == "" { r.Status = nestedName(fields, "status") }
        if r.Priority == "" { r.Priority = nestedName(fields, "priority") }
        if r.AssigneeName == "" {
            if as, ok := fields["assignee"].(map[string]any); ok { r.AssigneeName = toStr(as["displayName"]) }
        }
        if r.CreatedAt == "" { r.CreatedAt = toStr(fields["created"]) }
        if r.ResolvedAt == "" { r.ResolvedAt = toStr(fields["resolutiondate"]) }
    }
    return r
}

func nestedName(fields map[string]any, key string) string {
    if m, ok := fields[key].(map[string]any); ok { return toStr(m["name"]) }
    return ""
}

func firstItem(v any) map[string]any {
    arr, ok := v.([]any)
    if !ok || len(arr) == 0 { return nil }
    m, _ := arr[0].(map[string]any)
    return m
}

func toStr(v any) string {
    switch t := v.(type) {
    case nil:
        return ""
    case string:
        return t
    case float64:
        // JSON numbers arrive as float64; ids are integral in practice.
        if t == float64(int64(t)) { return strconv.FormatInt(int64(t), 10) }
        return strconv.FormatFloat(t, 'f', -1, 64)
    case bool:
        return strconv.FormatBool(t)
    default:
        return fmt.Sprintf("%v", t)
    }
}
