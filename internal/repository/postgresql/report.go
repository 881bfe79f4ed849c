package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/roplabs/payroll-backend-go/internal/domain/report"
	"github.com/roplabs/payroll-backend-go/internal/pkg/database"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.Repository {
	return &reportRepositoryImpl{db: db}
}

const reportColumns = `id, type, period_id, manager_id, user_id, file_path, file_format, sent_at, archived_at, created_at, updated_at`

func scanReport(row pgx.Row) (report.GeneratedReport, error) {
	var rec report.GeneratedReport
	err := row.Scan(
		&rec.ID, &rec.Type, &rec.PeriodID, &rec.ManagerID, &rec.UserID,
		&rec.FilePath, &rec.FileFormat, &rec.SentAt, &rec.ArchivedAt, &rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

// UpsertActive keeps at most one non-archived row per (type, period, owner).
// An existing active row has its file reference replaced and its sent marker
// cleared, matching a regenerated file that has not been delivered yet.
func (r *reportRepositoryImpl) UpsertActive(ctx context.Context, rec report.GeneratedReport) (report.GeneratedReport, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE generated_reports
		SET file_path = $1, file_format = $2, sent_at = NULL, updated_at = NOW()
		WHERE type = $3 AND period_id = $4
			AND manager_id IS NOT DISTINCT FROM $5
			AND user_id IS NOT DISTINCT FROM $6
			AND archived_at IS NULL
		RETURNING ` + reportColumns

	updated, err := scanReport(q.QueryRow(ctx, query,
		rec.FilePath, rec.FileFormat, rec.Type, rec.PeriodID, rec.ManagerID, rec.UserID))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return report.GeneratedReport{}, fmt.Errorf("failed to upsert generated report: %w", err)
	}

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}

	insert := `
		INSERT INTO generated_reports (id, type, period_id, manager_id, user_id, file_path, file_format)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + reportColumns

	created, err := scanReport(q.QueryRow(ctx, insert,
		rec.ID, rec.Type, rec.PeriodID, rec.ManagerID, rec.UserID, rec.FilePath, rec.FileFormat))
	if err != nil {
		return report.GeneratedReport{}, fmt.Errorf("failed to insert generated report: %w", err)
	}
	return created, nil
}

func (r *reportRepositoryImpl) GetByID(ctx context.Context, id string) (report.GeneratedReport, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + reportColumns + ` FROM generated_reports WHERE id = $1`

	rec, err := scanReport(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return report.GeneratedReport{}, report.ErrReportNotFound
		}
		return report.GeneratedReport{}, fmt.Errorf("failed to get generated report %s: %w", id, err)
	}
	return rec, nil
}

func (r *reportRepositoryImpl) List(ctx context.Context, periodID string) ([]report.GeneratedReport, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + reportColumns + ` FROM generated_reports`
	args := []interface{}{}
	if periodID != "" {
		query += ` WHERE period_id = $1`
		args = append(args, periodID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list generated reports: %w", err)
	}
	defer rows.Close()

	var reports []report.GeneratedReport
	for rows.Next() {
		rec, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *reportRepositoryImpl) MarkSent(ctx context.Context, id string, at time.Time) error {
	return r.markTimestamp(ctx, id, "sent_at", at)
}

func (r *reportRepositoryImpl) MarkArchived(ctx context.Context, id string, at time.Time) error {
	return r.markTimestamp(ctx, id, "archived_at", at)
}

func (r *reportRepositoryImpl) markTimestamp(ctx context.Context, id, column string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	// column is one of two fixed names, never user input.
	query := fmt.Sprintf(`UPDATE generated_reports SET %s = $1, updated_at = NOW() WHERE id = $2 RETURNING id`, column)

	var updatedID string
	if err := q.QueryRow(ctx, query, at, id).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return report.ErrReportNotFound
		}
		return fmt.Errorf("failed to set %s on report %s: %w", column, id, err)
	}
	return nil
}

func (r *reportRepositoryImpl) UpdateFile(ctx context.Context, id, filePath, fileFormat string) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE generated_reports SET file_path = $1, file_format = $2, updated_at = NOW() WHERE id = $3 RETURNING id`

	var updatedID string
	if err := q.QueryRow(ctx, query, filePath, fileFormat, id).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return report.ErrReportNotFound
		}
		return fmt.Errorf("failed to update file on report %s: %w", id, err)
	}
	return nil
}
