/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
    "context"
    "net/http"
    "sync/atomic"
    "time"

    "github.com/HamedShams/sla-pulse/internal/config"
    "github.com/HamedShams/sla-pulse/internal/services"
    "github.com/gin-gonic/gin"
    "github.com/rs/zerolog"
)

type Handlers struct {
    cfg     config.Config
    log     zerolog.Logger
    svc     *services.Service
    running atomic.Bool
}

func (h *Handlers) Health(c *gin.Context) {
    c.JSON(http.StatusOK, gin.H{"status": "ok", "env": h.cfg.AppEnv})
}

// RunPipeline triggers a run in the background. A second trigger while one
// is in flight gets a 409 rather than a queued duplicate.
func (h *Handlers) RunPipeline(c *gin.Context) {
    if !h.running.CompareAndSwap(false, true) {
        c.JSON(http.StatusConflict, gin.H{"status": "already running"})
        return
    }
    go func() {
        defer h.running.Store(false)
        ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
        defer cancel()
        if err := h.svc.RunPipeline(ctx); err != nil {
            h.log.Error().Err(err).Msg("manual pipeline run failed")
        }
    }()
    c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

func (h *Handlers) LastRun(c *gin.Context) {
    lr, err := h.svc.GetLastRun(c.Request.Context())
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    if lr == nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "no runs yet"})
        return
    }
    c.JSON(http.StatusOK, lr)
}

func (h *Handlers) ReportsByAssignee(c *gin.Context)  { h.reports(c, "assignee") }
func (h *Handlers) ReportsByIssueType(c *gin.Context) { h.reports(c, "issue_type") }

func (h *Handlers) reports(c *gin.Context, kind string) {
    rows, err := h.svc.ReportRows(c.Request.Context(), kind)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, gin.H{"kind": kind, "rows": rows})
}

func (h *Handlers) Rejects(c *gin.Context) {
    rows, err := h.svc.RejectRows(c.Request.Context())
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, gin.H{"count": len(rows), "rows": rows})
}
