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

type emailLogRepositoryImpl struct {
	db *database.DB
}

func NewEmailLogRepository(db *database.DB) report.EmailLogRepository {
	return &emailLogRepositoryImpl{db: db}
}

const emailLogColumns = `id, report_id, to_email, subject, status, error_message, attempts, sent_at, created_at`

func scanEmailLog(row pgx.Row) (report.EmailLog, error) {
	var l report.EmailLog
	err := row.Scan(&l.ID, &l.ReportID, &l.ToEmail, &l.Subject, &l.Status, &l.ErrorMessage, &l.Attempts, &l.SentAt, &l.CreatedAt)
	return l, err
}

func (r *emailLogRepositoryImpl) Create(ctx context.Context, l report.EmailLog) (report.EmailLog, error) {
	q := GetQuerier(ctx, r.db)

	if l.ID == "" {
		l.ID = uuid.New().String()
	}

	query := `
		INSERT INTO email_logs (id, report_id, to_email, subject, status, error_message, attempts)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + emailLogColumns

	created, err := scanEmailLog(q.QueryRow(ctx, query,
		l.ID, l.ReportID, l.ToEmail, l.Subject, l.Status, l.ErrorMessage, l.Attempts))
	if err != nil {
		return report.EmailLog{}, fmt.Errorf("failed to create email log: %w", err)
	}
	return created, nil
}

func (r *emailLogRepositoryImpl) MarkSent(ctx context.Context, id string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE email_logs SET status = $1, sent_at = $2, error_message = '' WHERE id = $3 RETURNING id`

	var updatedID string
	if err := q.QueryRow(ctx, query, report.EmailStatusSent, at, id).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("email log %s not found", id)
		}
		return fmt.Errorf("failed to mark email log %s sent: %w", id, err)
	}
	return nil
}

func (r *emailLogRepositoryImpl) MarkFailed(ctx context.Context, id string, errorMessage string) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE email_logs SET status = $1, error_message = $2, attempts = attempts + 1 WHERE id = $3 RETURNING id`

	var updatedID string
	if err := q.QueryRow(ctx, query, report.EmailStatusFailed, errorMessage, id).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("email log %s not found", id)
		}
		return fmt.Errorf("failed to mark email log %s failed: %w", id, err)
	}
	return nil
}

func (r *emailLogRepositoryImpl) ListByReport(ctx context.Context, reportID string) ([]report.EmailLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + emailLogColumns + ` FROM email_logs WHERE report_id = $1 ORDER BY created_at DESC`

	rows, err := q.Query(ctx, query, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to list email logs for report %s: %w", reportID, err)
	}
	defer rows.Close()

	var logs []report.EmailLog
	for rows.Next() {
		l, err := scanEmailLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}
