// Package repository provides persistence for score-report audit records,
// backed by Postgres for multi-node deployments or SQLite for single-node.
package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/trialfit-scoring-server/internal/domain"
)

// PostgresReportRepository persists score reports in Postgres.
type PostgresReportRepository struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

// NewPostgresReportRepository creates a new Postgres-backed report repository
func NewPostgresReportRepository(db *pgxpool.Pool, logger *logrus.Logger) *PostgresReportRepository {
	return &PostgresReportRepository{
		db:  db,
		log: logger,
	}
}

// Save inserts a new score report. Reports are immutable: there is no update
// path by design of the audit trail.
func (r *PostgresReportRepository) Save(ctx context.Context, report *domain.ScoreReport) error {
	query := `
		INSERT INTO score_reports (id, kind, request, result, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query,
		report.ID,
		report.Kind,
		report.Request,
		report.Result,
		report.CreatedAt,
	)

	if err != nil {
		r.log.WithFields(logrus.Fields{
			"report_id": report.ID,
			"kind":      report.Kind,
			"error":     err,
		}).Error("Failed to save score report")
		return fmt.Errorf("saving score report: %w", err)
	}

	r.log.WithFields(logrus.Fields{
		"report_id": report.ID,
		"kind":      report.Kind,
	}).Info("Score report saved")

	return nil
}

// Get retrieves a score report by its ID
func (r *PostgresReportRepository) Get(ctx context.Context, id string) (*domain.ScoreReport, error) {
	query := `
		SELECT id, kind, request, result, created_at
		FROM score_reports
		WHERE id = $1`

	var report domain.ScoreReport
	err := r.db.QueryRow(ctx, query, id).Scan(
		&report.ID,
		&report.Kind,
		&report.Request,
		&report.Result,
		&report.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("score report %s: %w", id, domain.ErrNotFound)
		}
		r.log.WithFields(logrus.Fields{
			"report_id": id,
			"error":     err,
		}).Error("Failed to get score report")
		return nil, fmt.Errorf("getting score report: %w", err)
	}

	return &report, nil
}

// ListByKind retrieves the most recent reports of one kind
func (r *PostgresReportRepository) ListByKind(ctx context.Context, kind string, limit int) ([]*domain.ScoreReport, error) {
	query := `
		SELECT id, kind, request, result, created_at
		FROM score_reports
		WHERE kind = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("listing score reports: %w", err)
	}
	defer rows.Close()

	var reports []*domain.ScoreReport
	for rows.Next() {
		var report domain.ScoreReport
		if err := rows.Scan(
			&report.ID,
			&report.Kind,
			&report.Request,
			&report.Result,
			&report.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning score report: %w", err)
		}
		reports = append(reports, &report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating score reports: %w", err)
	}

	return reports, nil
}
