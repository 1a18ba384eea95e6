/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
    "time"

    "github.com/HamedShams/sla-pulse/internal/config"
    "github.com/HamedShams/sla-pulse/internal/services"
    "github.com/gin-gonic/gin"
    "github.com/rs/zerolog"
)

func NewRouter(cfg config.Config, log zerolog.Logger, svc *services.Service) *gin.Engine {
    if cfg.AppEnv == "prod" { gin.SetMode(gin.ReleaseMode) }
    r := gin.New()
    r.Use(gin.Recovery())
    r.Use(requestLog(log))

    h := &Handlers{cfg: cfg, log: log, svc: svc}

    r.GET("/healthz", h.Health)
    admin := r.Group("/admin")
    {
        admin.POST("/run", h.RunPipeline)
        admin.GET("/last-run", h.LastRun)
    }
    reports := r.Group("/reports")
    {
        reports.GET("/assignees", h.ReportsByAssignee)
        reports.GET("/issue-types", h.ReportsByIssueType)
    }
    r.GET("/rejects", h.Rejects)
    return r
}

func requestLog(log zerolog.Logger) gin.HandlerFunc {
    return func(c *gin.Context) {
        start := time.Now()
        c.Next()
        log.Info().
            Str("m", c.Request.Method).
            Str("p", c.Request.URL.Path).
            Int("s", c.Writer.Status()).
            Dur("d", time.Since(start)).
            Msg("http")
    }
}
