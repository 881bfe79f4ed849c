package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/roplabs/payroll-backend-go/internal/domain/attendance"
	"github.com/roplabs/payroll-backend-go/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceColumns = `id, user_id, date, type, hours_worked, created_at, updated_at`

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	err := row.Scan(&rec.ID, &rec.UserID, &rec.Date, &rec.Type, &rec.HoursWorked, &rec.CreatedAt, &rec.UpdatedAt)
	return rec, err
}

func (r *attendanceRepositoryImpl) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}

	query := `
		INSERT INTO attendance_records (id, user_id, date, type, hours_worked)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + attendanceColumns

	created, err := scanRecord(q.QueryRow(ctx, query, rec.ID, rec.UserID, rec.Date, rec.Type, rec.HoursWorked))
	if err != nil {
		if isUniqueViolation(err, "") {
			return attendance.Record{}, attendance.ErrRecordExists
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}
	return created, nil
}

func (r *attendanceRepositoryImpl) Update(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_records
		SET date = $1, type = $2, hours_worked = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING ` + attendanceColumns

	updated, err := scanRecord(q.QueryRow(ctx, query, rec.Date, rec.Type, rec.HoursWorked, rec.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		if isUniqueViolation(err, "") {
			return attendance.Record{}, attendance.ErrRecordExists
		}
		return attendance.Record{}, fmt.Errorf("failed to update attendance record %s: %w", rec.ID, err)
	}
	return updated, nil
}

func (r *attendanceRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance record %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}
	return nil
}

func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendance_records WHERE id = $1`

	rec, err := scanRecord(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance record %s: %w", id, err)
	}
	return rec, nil
}

func (r *attendanceRepositoryImpl) ListByUserRange(ctx context.Context, userID string, from, to time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendance_records
		WHERE user_id = $1 AND date BETWEEN $2 AND $3 ORDER BY date`

	rows, err := q.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance for user %s: %w", userID, err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *attendanceRepositoryImpl) CountByTypeInRange(ctx context.Context, userID string, typ attendance.Type, from, to time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT COUNT(*) FROM attendance_records
		WHERE user_id = $1 AND type = $2 AND date BETWEEN $3 AND $4`

	var count int
	if err := q.QueryRow(ctx, query, userID, typ, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s days for user %s: %w", typ, userID, err)
	}
	return count, nil
}

func (r *attendanceRepositoryImpl) CountByTypeInMonth(ctx context.Context, userID string, typ attendance.Type, year, month int) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT COUNT(*) FROM attendance_records
		WHERE user_id = $1 AND type = $2
		AND EXTRACT(YEAR FROM date) = $3 AND EXTRACT(MONTH FROM date) = $4`

	var count int
	if err := q.QueryRow(ctx, query, userID, typ, year, month).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s days in %d-%02d for user %s: %w", typ, year, month, userID, err)
	}
	return count, nil
}

func (r *attendanceRepositoryImpl) SummaryForRange(ctx context.Context, userID string, from, to time.Time) (attendance.MonthlySummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE type = 'WORKED'),
			COUNT(*) FILTER (WHERE type = 'VACATION'),
			COUNT(*) FILTER (WHERE type = 'SICK_LEAVE'),
			COUNT(*) FILTER (WHERE type = 'UNPAID_LEAVE'),
			COUNT(*) FILTER (WHERE type = 'PUBLIC_HOLIDAY'),
			COALESCE(SUM(hours_worked), 0)
		FROM attendance_records
		WHERE user_id = $1 AND date BETWEEN $2 AND $3`

	summary := attendance.MonthlySummary{UserID: userID}
	err := q.QueryRow(ctx, query, userID, from, to).Scan(
		&summary.WorkedDays, &summary.VacationDays, &summary.SickDays,
		&summary.UnpaidDays, &summary.PublicHolidays, &summary.TotalHoursWorked,
	)
	if err != nil {
		return attendance.MonthlySummary{}, fmt.Errorf("failed to summarize attendance for user %s: %w", userID, err)
	}
	return summary, nil
}
