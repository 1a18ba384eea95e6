package repo

import (
    "context"
    "encoding/json"
    "errors"
    "time"

    "github.com/HamedShams/sla-pulse/internal/config"
    "github.com/HamedShams/sla-pulse/internal/domain"
    "github.com/jackc/pgx/v5"
    "github.com/jackc/pgx/v5/pgxpool"
    "github.com/rs/zerolog"
)

type DB struct {
    Pool *pgxpool.Pool
    log  zerolog.Logger
}

func MustOpen(ctx context.Context, cfg config.Config, log zerolog.Logger) *DB {
    pool, err := pgxpool.New(ctx, cfg.DBDSN)
    if err != nil { log.Fatal().Err(err).Msg("db connect failed") }
    ctx2, cancel := context.WithTimeout(ctx, 10*time.Second); defer cancel()
    if err := pool.Ping(ctx2); err != nil { log.Fatal().Err(err).Msg("db ping failed") }
    return &DB{Pool: pool, log: log}
}

func (d *DB) Close() { d.Pool.Close() }

type Repository struct {
    db  *DB
    log zerolog.Logger
}

func NewRepository(d *DB, log zerolog.Logger) *Repository { return &Repository{db: d, log: log} }

func (r *Repository) TryAdvisoryLock(ctx context.Context, key int64) (bool, error) {
    var ok bool
    err := r.db.Pool.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", key).Scan(&ok)
    return ok, err
}

func (r *Repository) AdvisoryUnlock(ctx context.Context, key int64) error {
    var ok bool
    err := r.db.Pool.QueryRow(ctx, "SELECT pg_advisory_unlock($1)", key).Scan(&ok)
    if err == nil && !ok { return errors.New("advisory unlock returned false") }
    return err
}

// replaceBatch truncates a per-run table and refills it inside one tx.
func (r *Repository) replaceBatch(ctx context.Context, table string, batch *pgx.Batch, n int) error {
    tx, err := r.db.Pool.Begin(ctx)
    if err != nil { return err }
    defer func(){ _ = tx.Rollback(ctx) }()
    if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil { return err }
    if n > 0 {
        br := tx.SendBatch(ctx, batch)
        for i := 0; i < n; i++ {
            if _, err := br.Exec(); err != nil { _ = br.Close(); return err }
        }
        if err := br.Close(); err != nil { return err }
    }
    return tx.Commit(ctx)
}

func (r *Repository) ReplaceSilver(ctx context.Context, rows []domain.Record) error {
    batch := &pgx.Batch{}
    const q = `INSERT INTO silver_issues(issue_id, issue_type, status, priority,
        assignee_name, assignee_id, assignee_email, created_at, resolved_at)
        VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9)`
    for _, x := range rows {
        batch.Queue(q, x.IssueID, x.IssueType, x.Status, x.Priority,
            x.AssigneeName, x.AssigneeID, x.AssigneeEmail, x.CreatedAt, x.ResolvedAt)
    }
    return r.replaceBatch(ctx, "silver_issues", batch, len(rows))
}

func (r *Repository) ReplaceRejects(ctx context.Context, rows []domain.RejectedRecord) error {
    batch := &pgx.Batch{}
    const q = `INSERT INTO silver_rejects(issue_id, issue_type, status, priority,
        assignee_name, assignee_id, assignee_email, created_at, resolved_at, reject_reason)
        VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
    for _, x := range rows {
        batch.Queue(q, x.IssueID, x.IssueType, x.Status, x.Priority,
            x.AssigneeName, x.AssigneeID, x.AssigneeEmail, x.CreatedAt, x.ResolvedAt, string(x.Reason))
    }
    return r.replaceBatch(ctx, "silver_rejects", batch, len(rows))
}

func (r *Repository) ReplaceGold(ctx context.Context, rows []domain.GoldRecord) error {
    batch := &pgx.Batch{}
    // assignee id/email are dropped from the analytics layer
    const q = `INSERT INTO gold_issues(issue_id, issue_type, status, priority,
        assignee_name, created_at, resolved_at,
        resolution_time_business_hours, expected_sla_hours, sla_status)
        VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
    for _, x := range rows {
        batch.Queue(q, x.IssueID, x.IssueType, x.Status, x.Priority,
            x.AssigneeName, x.CreatedAt, x.ResolvedAt,
            x.ResolutionBusinessHours, x.ExpectedSLAHours, string(x.SLAStatus))
    }
    return r.replaceBatch(ctx, "gold_issues", batch, len(rows))
}

func (r *Repository) ReplaceReports(ctx context.Context, kind string, rows []domain.ReportRow) error {
    tx, err := r.db.Pool.Begin(ctx)
    if err != nil { return err }
    defer func(){ _ = tx.Rollback(ctx) }()
    if _, err := tx.Exec(ctx, "DELETE FROM sla_reports WHERE group_kind=$1", kind); err != nil { return err }
    batch := &pgx.Batch{}
    const q = `INSERT INTO sla_reports(group_kind, group_key, issue_count, sla_avg_hours)
        VALUES($1,$2,$3,$4)`
    for _, x := range rows { batch.Queue(q, kind, x.GroupKey, x.IssueCount, x.SLAAvgHours) }
    if len(rows) > 0 {
        br := tx.SendBatch(ctx, batch)
        for range rows {
            if _, err := br.Exec(); err != nil { _ = br.Close(); return err }
        }
        if err := br.Close(); err != nil { return err }
    }
    return tx.Commit(ctx)
}

func (r *Repository) ListReports(ctx context.Context, kind string) ([]domain.ReportRow, error) {
    rows, err := r.db.Pool.Query(ctx,
        `SELECT group_key, issue_count, sla_avg_hours FROM sla_reports WHERE group_kind=$1 ORDER BY group_key`, kind)
    if err != nil { return nil, err }
    defer rows.Close()
    var out []domain.ReportRow
    for rows.Next() {
        var x domain.ReportRow
        if err := rows.Scan(&x.GroupKey, &x.IssueCount, &x.SLAAvgHours); err != nil { return nil, err }
        out = append(out, x)
    }
    return out, rows.Err()
}

func (r *Repository) ListRejects(ctx context.Context, limit int) ([]domain.RejectedRecord, error) {
    if limit <= 0 { limit = 500 }
    rows, err := r.db.Pool.Query(ctx,
        `SELECT issue_id, issue_type, status, priority, assignee_name, created_at, resolved_at, reject_reason
         FROM silver_rejects LIMIT $1`, limit)
    if err != nil { return nil, err }
    defer rows.Close()
    var out []domain.RejectedRecord
    for rows.Next() {
        var x domain.RejectedRecord
        var reason string
        if err := rows.Scan(&x.IssueID, &x.IssueType, &x.Status, &x.Priority,
            &x.AssigneeName, &x.CreatedAt, &x.ResolvedAt, &reason); err != nil { return nil, err }
        x.Reason = domain.RejectReason(reason)
        out = append(out, x)
    }
    return out, rows.Err()
}

// Holiday cache, keyed (country, year). Dates stored as a jsonb array of
// ISO calendar dates.
func (r *Repository) GetHolidayDates(ctx context.Context, country string, year int) ([]string, bool, error) {
    var raw []byte
    err := r.db.Pool.QueryRow(ctx,
        `SELECT dates FROM holiday_cache WHERE country=$1 AND year=$2`, country, year).Scan(&raw)
    if errors.Is(err, pgx.ErrNoRows) { return nil, false, nil }
    if err != nil { return nil, false, err }
    var dates []string
    if err := json.Unmarshal(raw, &dates); err != nil { return nil, false, err }
    return dates, true, nil
}

func (r *Repository) PutHolidayDates(ctx context.Context, country string, year int, dates []string) error {
    raw, err := json.Marshal(dates)
    if err != nil { return err }
    _, err = r.db.Pool.Exec(ctx,
        `INSERT INTO holiday_cache(country, year, dates, fetched_at)
         VALUES($1,$2,$3,now())
         ON CONFLICT(country, year) DO UPDATE SET dates=EXCLUDED.dates, fetched_at=now()`,
        country, year, raw)
    return err
}

type LastRun struct {
    ID         int64      `json:"id"`
    StartedAt  time.Time  `json:"started_at"`
    FinishedAt *time.Time `json:"finished_at"`
    RowsIn     int        `json:"rows_in"`
    RowsValid  int        `json:"rows_valid"`
    Rejects    int        `json:"rejects"`
    Success    *bool      `json:"success"`
    Error      *string    `json:"error"`
}

func (r *Repository) StartJobRun(ctx context.Context) (int64, error) {
    var id int64
    err := r.db.Pool.QueryRow(ctx,
        `INSERT INTO job_runs(started_at) VALUES(now()) RETURNING id`).Scan(&id)
    return id, err
}

func (r *Repository) FinishJobRun(ctx context.Context, id int64, rowsIn, rowsValid, rejects int, success bool, errStr string) error {
    _, err := r.db.Pool.Exec(ctx,
        `UPDATE job_runs SET finished_at=now(), rows_in=$2, rows_valid=$3, rejects=$4, success=$5, error=$6 WHERE id=$1`,
        id, rowsIn, rowsValid, rejects, success, errStr)
    return err
}

func (r *Repository) GetLastRun(ctx context.Context) (*LastRun, error) {
    var lr LastRun
    err := r.db.Pool.QueryRow(ctx,
        `SELECT id, started_at, finished_at, COALESCE(rows_in,0), COALESCE(rows_valid,0), COALESCE(rejects,0), success, error
         FROM job_runs ORDER BY id DESC LIMIT 1`).Scan(
        &lr.ID, &lr.StartedAt, &lr.FinishedAt, &lr.RowsIn, &lr.RowsValid, &lr.Rejects, &lr.Success, &lr.Error)
    if errors.Is(err, pgx.ErrNoRows) { return nil, nil }
    if err != nil { return nil, err }
    return &lr, nil
}
