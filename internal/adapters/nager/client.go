/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */

// Package nager is a thin client for the Nager.Date public-holiday API.
package nager

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "net/http"
    "strings"
    "time"

    "github.com/HamedShams/sla-pulse/internal/config"
    "github.com/rs/zerolog"
)

type Client struct {
    baseURL string
    http    *http.Client
    log     zerolog.Logger
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
    return &Client{
        baseURL: cfg.HolidayAPIURL,
        http:    &http.Client{Timeout: cfg.HTTPTimeout},
        log:     log,
    }
}

type holidayEntry struct {
    Date     string   `json:"date"`
    Counties []string `json:"counties"`
    Global   bool     `json:"global"`
    Types    []string `json:"types"`
}

// PublicHolidays returns the nation-wide public-holiday dates (ISO calendar
// dates) for one year and country. Entries restricted to a regional
// subdivision, or typed as something other than Public, are dropped.
func (c *Client) PublicHolidays(ctx context.Context, year int, country string) ([]string, error) {
    if c.baseURL == "" { return nil, errors.New("nager: empty baseURL") }
    if country == "" { return nil, errors.New("nager: empty country code") }
    u := fmt.Sprintf("%s/%d/%s", strings.TrimRight(c.baseURL, "/"), year, country)

    var lastErr error
    for attempt := 0; attempt < 3; attempt++ {
        req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
        if err != nil { return nil, err }
        resp, err := c.http.Do(req)
        if err != nil { lastErr = err } else {
            entries, retry, err := decodeHolidays(resp)
            if err == nil { return filterNationalPublic(entries), nil }
            if !retry { return nil, err }
            lastErr = err
        }
        // backoff on network errors and 429/5xx
        select {
        case <-ctx.Done():
            return nil, ctx.Err()
        case <-time.After(time.Duration(300*(1<<attempt)) * time.Millisecond):
        }
    }
    return nil, lastErr
}

func decodeHolidays(resp *http.Response) ([]holidayEntry, bool, error) {
    defer resp.Body.Close()
    if resp.StatusCode >= 300 {
        b, _ := io.ReadAll(resp.Body)
        err := fmt.Errorf("nager api status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(b)))
        return nil, resp.StatusCode == 429 || resp.StatusCode >= 500, err
    }
    var entries []holidayEntry
    if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil { return nil, false, err }
    return entries, false, nil
}

func filterNationalPublic(entries []holidayEntry) []string {
    out := make([]string, 0, len(entries))
    for _, e := range entries {
        if e.Date == "" { continue }
        if !e.Global && len(e.Counties) > 0 { continue }
        if len(e.Types) > 0 && !hasType(e.Types, "Public") { continue }
        out = append(out, e.Date)
    }
    return out
}

func hasType(types []string, want string) bool {
    for _, t := range types {
        if strings.EqualFold(t, want) { return true }
    }
    return false
}
