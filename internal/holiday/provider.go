/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */

// Package holiday resolves the non-business dates for a set of years and a
// country, backed by an upstream calendar source with an advisory cache.
package holiday

import (
    "context"
    "errors"
    "fmt"

    "github.com/HamedShams/sla-pulse/internal/domain"
    "github.com/rs/zerolog"
)

// ErrUnavailableCalendar means the upstream source failed and no cached
// result exists for a required year. Business-hours math must not proceed
// without holidays: treating every day as a business day would silently
// skew SLA verdicts.
var ErrUnavailableCalendar = errors.New("holiday calendar unavailable")

type Source interface {
    PublicHolidays(ctx context.Context, year int, country string) ([]string, error)
}

// Cache is advisory: a hit short-circuits the network call, a miss populates
// it for reuse within and across runs. Cache write failures are logged, not
// fatal.
type Cache interface {
    GetHolidayDates(ctx context.Context, country string, year int) ([]string, bool, error)
    PutHolidayDates(ctx context.Context, country string, year int, dates []string) error
}

type Provider struct {
    src   Source
    cache Cache
    log   zerolog.Logger
}

func NewProvider(src Source, cache Cache, log zerolog.Logger) *Provider {
    return &Provider{src: src, cache: cache, log: log}
}

// Fetch returns the holiday set for the union of the given years, scoped to
// one country. The set is built once per run, before row-wise computation,
// and treated as read-only afterwards.
func (p *Provider) Fetch(ctx context.Context, years []int, country string) (domain.HolidaySet, error) {
    set := domain.HolidaySet{}
    for _, year := range years {
        dates, err := p.yearDates(ctx, year, country)
        if err != nil { return nil, err }
        for _, d := range dates { set.Add(d) }
    }
    return set, nil
}

func (p *Provider) yearDates(ctx context.Context, year int, country string) ([]string, error) {
    if p.cache != nil {
        dates, ok, err := p.cache.GetHolidayDates(ctx, country, year)
        if err != nil {
            p.log.Warn().Err(err).Int("year", year).Str("country", country).Msg("holiday cache read failed")
        } else if ok {
            return dates, nil
        }
    }
    dates, err := p.src.PublicHolidays(ctx, year, country)
    if err != nil {
        return nil, fmt.Errorf("%w: year=%d country=%s: %v", ErrUnavailableCalendar, year, country, err)
    }
    if p.cache != nil {
        if err := p.cache.PutHolidayDates(ctx, country, year, dates); err != nil {
            p.log.Warn().Err(err).Int("year", year).Str("country", country).Msg("holiday cache write failed")
        }
    }
    return dates, nil
}
