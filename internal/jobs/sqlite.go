package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id TEXT PRIMARY KEY,
	status TEXT NOT NULL,
	progress INTEGER NOT NULL DEFAULT 0,
	message TEXT NOT NULL DEFAULT '',
	outputPath TEXT NOT NULL DEFAULT '',
	degraded INTEGER NOT NULL DEFAULT 0,
	error TEXT NOT NULL DEFAULT '',
	createdAt REAL NOT NULL,
	updatedAt REAL NOT NULL,
	doneAt REAL
);
CREATE INDEX IF NOT EXISTS idx_jobs_createdAt ON jobs(createdAt);
`

type sqliteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (creating if needed) a SQLite job store in WAL mode.
func OpenSQLite(path string) (Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection serializes writers and keeps Update atomic.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &sqliteStore{db: db, now: time.Now}, nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func (s *sqliteStore) Create(ctx context.Context, job Job) error {
	if job.ID == "" {
		return fmt.Errorf("job ID is required")
	}
	stamp(&job, s.now())

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (id, status, progress, message, outputPath, degraded, error, createdAt, updatedAt, doneAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, job.ID, string(job.Status), job.Progress, job.Message, job.OutputPath, job.Degraded, job.Error,
		unixFromTime(job.CreatedAt), unixFromTime(job.UpdatedAt), nullTime(job.DoneAt))
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (s *sqliteStore) Update(ctx context.Context, id string, fn func(*Job)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	job, err := scanJob(tx.QueryRowContext(ctx, selectJob+` WHERE id = ?`, id))
	if err != nil {
		return err
	}

	fn(&job)
	job.ID = id
	stamp(&job, s.now())

	_, err = tx.ExecContext(ctx, `
		UPDATE jobs
		SET status = ?, progress = ?, message = ?, outputPath = ?, degraded = ?, error = ?, updatedAt = ?, doneAt = ?
		WHERE id = ?
	`, string(job.Status), job.Progress, job.Message, job.OutputPath, job.Degraded, job.Error,
		unixFromTime(job.UpdatedAt), nullTime(job.DoneAt), id)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return tx.Commit()
}

func (s *sqliteStore) Get(ctx context.Context, id string) (Job, error) {
	return scanJob(s.db.QueryRowContext(ctx, selectJob+` WHERE id = ?`, id))
}

func (s *sqliteStore) List(ctx context.Context, limit int) ([]Job, error) {
	query := selectJob + ` ORDER BY createdAt DESC, id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var out []Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

const selectJob = `
	SELECT id, status, progress, message, outputPath, degraded, error, createdAt, updatedAt, doneAt
	FROM jobs`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row scanner) (Job, error) {
	var (
		j                    Job
		status               string
		createdAt, updatedAt float64
		doneAt               sql.NullFloat64
	)
	err := row.Scan(&j.ID, &status, &j.Progress, &j.Message, &j.OutputPath, &j.Degraded, &j.Error,
		&createdAt, &updatedAt, &doneAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Job{}, ErrNotFound
	}
	if err != nil {
		return Job{}, fmt.Errorf("scan job: %w", err)
	}

	j.Status = Status(status)
	j.CreatedAt = timeFromUnix(createdAt)
	j.UpdatedAt = timeFromUnix(updatedAt)
	if doneAt.Valid {
		t := timeFromUnix(doneAt.Float64)
		j.DoneAt = &t
	}
	return j, nil
}

func unixFromTime(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

// timeFromUnix converts float seconds since the epoch, at microsecond
// precision.
func timeFromUnix(ts float64) time.Time {
	return time.UnixMicro(int64(ts * 1e6))
}

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return unixFromTime(*t)
}
