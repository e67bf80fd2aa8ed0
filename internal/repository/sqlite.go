package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/trialfit-scoring-server/internal/domain"
)

// SQLiteReportRepository persists score reports in a local SQLite file. It is
// the default store when no Postgres database is configured, suitable for
// single-node deployments and development.
type SQLiteReportRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

// NewSQLiteReportRepository opens (creating if needed) the SQLite database at
// dbPath and ensures the report schema exists.
func NewSQLiteReportRepository(dbPath string, logger *logrus.Logger) (*SQLiteReportRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// WAL lets report writes proceed alongside list/get reads.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if err := createReportSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating report schema: %w", err)
	}

	logger.WithField("path", dbPath).Info("SQLite report store ready")

	return &SQLiteReportRepository{db: db, log: logger}, nil
}

func createReportSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS score_reports (
		id         TEXT PRIMARY KEY,
		kind       TEXT NOT NULL,
		request    TEXT NOT NULL,
		result     TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_score_reports_kind_created
		ON score_reports (kind, created_at DESC);`

	_, err := db.Exec(schema)
	return err
}

// Close closes the underlying database handle.
func (r *SQLiteReportRepository) Close() error {
	return r.db.Close()
}

// Save inserts a new score report.
func (r *SQLiteReportRepository) Save(ctx context.Context, report *domain.ScoreReport) error {
	query := `
		INSERT INTO score_reports (id, kind, request, result, created_at)
		VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		report.ID,
		report.Kind,
		string(report.Request),
		string(report.Result),
		report.CreatedAt.UTC().Format(time.RFC3339Nano),
	)

	if err != nil {
		r.log.WithFields(logrus.Fields{
			"report_id": report.ID,
			"kind":      report.Kind,
			"error":     err,
		}).Error("Failed to save score report")
		return fmt.Errorf("saving score report: %w", err)
	}

	return nil
}

// Get retrieves a score report by its ID
func (r *SQLiteReportRepository) Get(ctx context.Context, id string) (*domain.ScoreReport, error) {
	query := `
		SELECT id, kind, request, result, created_at
		FROM score_reports
		WHERE id = ?`

	report, err := scanReport(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("score report %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("getting score report: %w", err)
	}

	return report, nil
}

// ListByKind retrieves the most recent reports of one kind
func (r *SQLiteReportRepository) ListByKind(ctx context.Context, kind string, limit int) ([]*domain.ScoreReport, error) {
	query := `
		SELECT id, kind, request, result, created_at
		FROM score_reports
		WHERE kind = ?
		ORDER BY created_at DESC
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("listing score reports: %w", err)
	}
	defer rows.Close()

	var reports []*domain.ScoreReport
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning score report: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating score reports: %w", err)
	}

	return reports, nil
}

// scanner abstracts sql.Row and sql.Rows for shared scan logic.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanReport(s scanner) (*domain.ScoreReport, error) {
	var (
		report    domain.ScoreReport
		request   string
		result    string
		createdAt string
	)

	if err := s.Scan(&report.ID, &report.Kind, &request, &result, &createdAt); err != nil {
		return nil, err
	}

	report.Request = []byte(request)
	report.Result = []byte(result)

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing report timestamp: %w", err)
	}
	report.CreatedAt = ts

	return &report, nil
}
