/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */

// Package services orchestrates the pipeline run: ingestion, bronze
// flattening, silver cleaning and gating, gold SLA enrichment, reports,
// persistence, and the run digest.
package services

import (
    "context"
    "encoding/csv"
    "fmt"
    "os"
    "path/filepath"
    "sort"
    "strings"
    "time"

    "github.com/HamedShams/sla-pulse/internal/bronze"
    "github.com/HamedShams/sla-pulse/internal/config"
    "github.com/HamedShams/sla-pulse/internal/domain"
    "github.com/HamedShams/sla-pulse/internal/gold"
    "github.com/HamedShams/sla-pulse/internal/profile"
    "github.com/HamedShams/sla-pulse/internal/repo"
    "github.com/HamedShams/sla-pulse/internal/silver"
    "github.com/HamedShams/sla-pulse/internal/sla"
    "github.com/rs/zerolog"
)

type CalendarProvider interface {
    Fetch(ctx context.Context, years []int, country string) (domain.HolidaySet, error)
}

type LLM interface {
    Summarize(ctx context.Context, kpis map[string]float64, worst []map[string]any) (string, error)
}

type Notifier interface {
    SendMessagePlain(ctx context.Context, chatID int64, text string) error
    SendMarkdownV2(ctx context.Context, chatID int64, text string) error
}

type Service struct {
    cfg  config.Config
    log  zerolog.Logger
    repo *repo.Repository
    cal  CalendarProvider
    llm  LLM
    tg   Notifier
    pol  sla.Policy
    win  sla.Window
}

func New(cfg config.Config, log zerolog.Logger, r *repo.Repository, cal CalendarProvider, llm LLM, tg Notifier) *Service {
    win, err := sla.WindowFromStrings(cfg.BusinessDayStart, cfg.BusinessDayEnd)
    if err != nil {
        log.Warn().Err(err).Msg("invalid business window config, using full-day window")
        win = sla.DefaultWindow()
    }
    return &Service{
        cfg: cfg, log: log, repo: r, cal: cal, llm: llm, tg: tg,
        pol: sla.NewPolicy(cfg.SLAExpected, cfg.SLADefaultHours),
        win: win,
    }
}

// RunPipeline executes one full medallion run. Data-level rejects never fail
// the run; schema errors and calendar unavailability do.
func (s *Service) RunPipeline(ctx context.Context) error {
    runID, err := s.repo.StartJobRun(ctx)
    if err != nil { s.log.Error().Err(err).Msg("start job run failed") }
    s.log.Info().Msg("pipeline: start")

    var rowsIn, rowsValid, nRejects int
    var runErr error
    defer func(){
        if runID != 0 {
            errStr := ""
            if runErr != nil { errStr = runErr.Error() }
            _ = s.repo.FinishJobRun(context.WithoutCancel(ctx), runID, rowsIn, rowsValid, nRejects, runErr == nil, errStr)
        }
    }()

    raw, err := s.ingestRaw()
    if err != nil { runErr = err; return err }

    bronzeRows, err := bronze.Normalize(raw)
    if err != nil { runErr = err; return err }
    rowsIn = len(bronzeRows)
    s.log.Info().Int("rows", rowsIn).Msg("bronze: normalized")

    records := silver.Clean(bronzeRows)
    valid, rejects := silver.Gate(records)
    rowsValid, nRejects = len(valid), len(rejects)
    s.log.Info().Int("valid", rowsValid).Int("rejected", nRejects).Msg("silver: gate")
    if err := s.repo.ReplaceRejects(ctx, rejects); err != nil { runErr = err; return err }

    cleanSet := silver.FilterStatuses(valid)
    if err := s.repo.ReplaceSilver(ctx, cleanSet); err != nil { runErr = err; return err }
    s.log.Info().Msgf("silver profile:\n%s", profile.Records(cleanSet, 5).Format())
    if len(cleanSet) > 0 { s.log.Debug().Msgf("silver preview:\n%s", profile.Preview(cleanSet, 10)) }

    resolved := gold.FilterResolved(cleanSet)
    years := gold.Years(resolved)
    if len(years) == 0 { years = []int{s.cfg.DefaultHolidayYear} }
    holidays, err := s.cal.Fetch(ctx, years, s.cfg.HolidayCountry)
    if err != nil {
        // No holidays means no trustworthy SLA verdicts for this run.
        runErr = err
        return err
    }
    s.log.Info().Ints("years", years).Int("holidays", len(holidays)).Msg("gold: holiday set ready")

    enriched := gold.Enrich(resolved, holidays, s.pol, s.win, s.cfg.WorkersSLA)
    if err := s.repo.ReplaceGold(ctx, enriched); err != nil { runErr = err; return err }
    s.log.Info().Msgf("gold profile:\n%s", profile.Gold(enriched, 5).Format())

    byAssignee, err := gold.AggregateByAssignee(enriched)
    if err != nil { runErr = err; return err }
    byType, err := gold.AggregateByIssueType(enriched)
    if err != nil { runErr = err; return err }
    if err := s.repo.ReplaceReports(ctx, "assignee", byAssignee); err != nil { runErr = err; return err }
    if err := s.repo.ReplaceReports(ctx, "issue_type", byType); err != nil { runErr = err; return err }
    if err := s.writeReportsCSV(byAssignee, byType); err != nil {
        s.log.Error().Err(err).Msg("report csv export failed")
    }

    s.notifyDigest(ctx, buildKPIs(rowsIn, rowsValid, nRejects, enriched), byAssignee)
    s.log.Info().Msg("pipeline: done")
    return nil
}

func (s *Service) GetLastRun(ctx context.Context) (*repo.LastRun, error) { return s.repo.GetLastRun(ctx) }

func (s *Service) ReportRows(ctx context.Context, kind string) ([]domain.ReportRow, error) {
    return s.repo.ListReports(ctx, kind)
}

func (s *Service) RejectRows(ctx context.Context) ([]domain.RejectedRecord, error) {
    return s.repo.ListRejects(ctx, 0)
}

// ingestRaw bootstraps the raw layer and copies the configured export file
// into it, returning the payload bytes.
func (s *Service) ingestRaw() ([]byte, error) {
    rawDir := filepath.Join(s.cfg.DataDir, "raw")
    if err := os.MkdirAll(rawDir, 0o755); err != nil { return nil, err }
    data, err := os.ReadFile(s.cfg.RawInputFile)
    if err != nil { return nil, fmt.Errorf("ingest: cannot read raw input %s: %w", s.cfg.RawInputFile, err) }
    dst := filepath.Join(rawDir, filepath.Base(s.cfg.RawInputFile))
    if err := os.WriteFile(dst, data, 0o644); err != nil {
        s.log.Warn().Err(err).Str("path", dst).Msg("ingest: raw copy failed")
    }
    return data, nil
}

func (s *Service) writeReportsCSV(byAssignee, byType []domain.ReportRow) error {
    dir := filepath.Join(s.cfg.DataDir, "gold", "reports")
    if err := os.MkdirAll(dir, 0o755); err != nil { return err }
    if err := writeReportCSV(filepath.Join(dir, "sla_avg_by_assignee.csv"), byAssignee); err != nil { return err }
    return writeReportCSV(filepath.Join(dir, "sla_avg_by_issue_type.csv"), byType)
}

func writeReportCSV(path string, rows []domain.ReportRow) error {
    f, err := os.Create(path)
    if err != nil { return err }
    defer f.Close()
    w := csv.NewWriter(f)
    if err := w.Write([]string{"group_key", "issue_count", "sla_avg_hours"}); err != nil { return err }
    for _, r := range rows {
        rec := []string{r.GroupKey, fmt.Sprintf("%d", r.IssueCount), fmt.Sprintf("%.2f", r.SLAAvgHours)}
        if err := w.Write(rec); err != nil { return err }
    }
    w.Flush()
    return w.Error()
}

func buildKPIs(rowsIn, rowsValid, rejects int, enriched []domain.GoldRecord) map[string]float64 {
    met := 0
    totalHours := 0.0
    for _, r := range enriched {
        if r.SLAStatus == domain.SLAMet { met++ }
        totalHours += r.ResolutionBusinessHours
    }
    kpis := map[string]float64{
        "rows_in":      float64(rowsIn),
        "rows_valid":   float64(rowsValid),
        "rejects":      float64(rejects),
        "sla_eligible": float64(len(enriched)),
        "sla_met":      float64(met),
        "sla_violated": float64(len(enriched) - met),
    }
    if len(enriched) > 0 {
        kpis["compliance_pct"] = sla.Round2(float64(met) / float64(len(enriched)) * 100)
        kpis["avg_hours"] = sla.Round2(totalHours / float64(len(enriched)))
    }
    return kpis
}

func (s *Service) notifyDigest(ctx context.Context, kpis map[string]float64, byAssignee []domain.ReportRow) {
    if s.tg == nil || len(s.cfg.TelegramChatIDs) == 0 { return }
    digest := s.renderDigest(kpis, byAssignee)
    if summary := s.llmSummary(ctx, kpis, byAssignee); summary != "" {
        digest += "\n\n" + escapeMarkdownV2(summary)
    }
    for _, chat := range s.cfg.TelegramChatIDs {
        if err := s.tg.SendMarkdownV2(ctx, chat, digest); err != nil {
            s.log.Error().Err(err).Int64("chat", chat).Msg("digest send failed")
        }
    }
}

func (s *Service) llmSummary(ctx context.Context, kpis map[string]float64, byAssignee []domain.ReportRow) string {
    if s.llm == nil || s.cfg.OpenAIKey == "" { return "" }
    worst := worstGroups(byAssignee, 3)
    ctx2, cancel := context.WithTimeout(ctx, s.cfg.OpenAITimeout)
    defer cancel()
    out, err := s.llm.Summarize(ctx2, kpis, worst)
    if err != nil {
        s.log.Warn().Err(err).Msg("llm summary failed")
        return ""
    }
    return out
}

func worstGroups(rows []domain.ReportRow, n int) []map[string]any {
    sorted := make([]domain.ReportRow, len(rows))
    copy(sorted, rows)
    sort.Slice(sorted, func(i, j int) bool { return sorted[i].SLAAvgHours > sorted[j].SLAAvgHours })
    if len(sorted) > n { sorted = sorted[:n] }
    out := make([]map[string]any, 0, len(sorted))
    for _, r := range sorted {
        out = append(out, map[string]any{"group": r.GroupKey, "issues": r.IssueCount, "avg_hours": r.SLAAvgHours})
    }
    return out
}

func (s *Service) renderDigest(kpis map[string]float64, byAssignee []domain.ReportRow) string {
    b := &strings.Builder{}
    fmt.Fprintf(b, "*SLA Pulse*\n")
    fmt.Fprintf(b, "Pipeline run %s\n\n", escapeMarkdownV2(time.Now().Format("2006-01-02 15:04")))
    fmt.Fprintf(b, "*Rows in:* %d\n", int(kpis["rows_in"]))
    fmt.Fprintf(b, "*Valid:* %d  *Rejected:* %d\n", int(kpis["rows_valid"]), int(kpis["rejects"]))
    fmt.Fprintf(b, "*SLA eligible:* %d\n", int(kpis["sla_eligible"]))
    fmt.Fprintf(b, "*Met:* %d  *Violated:* %d\n", int(kpis["sla_met"]), int(kpis["sla_violated"]))
    if v, ok := kpis["compliance_pct"]; ok {
        fmt.Fprintf(b, "*Compliance:* %s%%\n", escapeMarkdownV2(fmt.Sprintf("%.2f", v)))
    }
    if v, ok := kpis["avg_hours"]; ok {
        fmt.Fprintf(b, "*Avg resolution:* %s business hours\n", escapeMarkdownV2(fmt.Sprintf("%.2f", v)))
    }
    if worst := worstGroups(byAssignee, 3); len(worst) > 0 {
        fmt.Fprintf(b, "\n*Slowest assignees:*\n")
        for i, w := range worst {
            fmt.Fprintf(b, "%d\\. %s — %s h\n", i+1,
                escapeMarkdownV2(fmt.Sprintf("%v", w["group"])),
                escapeMarkdownV2(fmt.Sprintf("%v", w["avg_hours"])))
        }
    }
    return b.String()
}

var mdV2Escaper = strings.NewReplacer(
    "_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(", ")", "\\)",
    "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#", "+", "\\+", "-", "\\-",
    "=", "\\=", "|", "\\|", "{", "\\{", "}", "\\}", ".", "\\.", "!", "\\!",
)

func escapeMarkdownV2(s string) string { return mdV2Escaper.Replace(s) }
