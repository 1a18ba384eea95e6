/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package jobs

import (
    "context"
    "time"

    "github.com/HamedShams/sla-pulse/internal/config"
    "github.com/HamedShams/sla-pulse/internal/repo"
    "github.com/HamedShams/sla-pulse/internal/services"
    "github.com/robfig/cron/v3"
    "github.com/rs/zerolog"
)

// Lock key shared by all instances so only one node runs the pipeline.
const pipelineLockKey = 727501

type Scheduler struct {
    c   *cron.Cron
    log zerolog.Logger
}

func NewScheduler(cfg config.Config, log zerolog.Logger, r *repo.Repository, svc *services.Service) (*Scheduler, error) {
    parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
    c := cron.New(cron.WithLocation(time.Local), cron.WithParser(parser))
    _, err := c.AddFunc(cfg.PipelineCron, func() {
        ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
        defer cancel()
        ok, err := r.TryAdvisoryLock(ctx, pipelineLockKey)
        if err != nil { log.Error().Err(err).Msg("cron: advisory lock failed"); return }
        if !ok { log.Info().Msg("cron: pipeline already running elsewhere, skipping"); return }
        defer func(){
            if err := r.AdvisoryUnlock(ctx, pipelineLockKey); err != nil {
                log.Error().Err(err).Msg("cron: advisory unlock failed")
            }
        }()
        if err := svc.RunPipeline(ctx); err != nil {
            log.Error().Err(err).Msg("cron: pipeline run failed")
        }
    })
    if err != nil { return nil, err }
    return &Scheduler{c: c, log: log}, nil
}

func (s *Scheduler) Start() { s.c.Start(); s.log.Info().Msg("cron: scheduler started") }

func (s *Scheduler) Stop() {
    ctx := s.c.Stop()
    <-ctx.Done()
    s.log.Info().Msg("cron: scheduler stopped")
}
