/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package main

import (
    "context"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/HamedShams/sla-pulse/internal/adapters/nager"
    "github.com/HamedShams/sla-pulse/internal/adapters/openai"
    "github.com/HamedShams/sla-pulse/internal/adapters/telegram"
    "github.com/HamedShams/sla-pulse/internal/config"
    "github.com/HamedShams/sla-pulse/internal/holiday"
    apphttp "github.com/HamedShams/sla-pulse/internal/http"
    "github.com/HamedShams/sla-pulse/internal/jobs"
    "github.com/HamedShams/sla-pulse/internal/logger"
    "github.com/HamedShams/sla-pulse/internal/repo"
    "github.com/HamedShams/sla-pulse/internal/services"
)

func main() {
    cfg := config.Load()
    log := logger.New(cfg)
    log.Info().Str("env", cfg.AppEnv).Msg("sla-pulse starting")

    ctx, cancel := context.WithCancel(context.Background())
    defer cancel()

    db := repo.MustOpen(ctx, cfg, log)
    defer db.Close()
    repository := repo.NewRepository(db, log)

    cal := holiday.NewProvider(nager.NewClient(cfg, log), repository, log)
    llm := openai.NewClient(cfg, log)
    tg := telegram.NewClient(cfg, log)

    svc := services.New(cfg, log, repository, cal, llm, tg)

    sched, err := jobs.NewScheduler(cfg, log, repository, svc)
    if err != nil { log.Fatal().Err(err).Msg("invalid cron expression") }
    sched.Start()
    defer sched.Stop()

    router := apphttp.NewRouter(cfg, log, svc)
    errCh := make(chan error, 1)
    go func() { errCh <- router.Run(cfg.HTTPAddr) }()
    log.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")

    sigCh := make(chan os.Signal, 1)
    signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
    select {
    case sig := <-sigCh:
        log.Info().Str("signal", sig.String()).Msg("shutting down")
    case err := <-errCh:
        log.Error().Err(err).Msg("http server stopped")
    }
    cancel()
    time.Sleep(500 * time.Millisecond)
}
