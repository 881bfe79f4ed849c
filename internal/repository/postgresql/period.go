package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/roplabs/payroll-backend-go/internal/domain/payroll"
	"github.com/roplabs/payroll-backend-go/internal/pkg/database"
)

type periodRepositoryImpl struct {
	db *database.DB
}

func NewPeriodRepository(db *database.DB) payroll.PeriodRepository {
	return &periodRepositoryImpl{db: db}
}

const periodColumns = `id, year, month, start_date, end_date, is_locked, locked_at, locked_by, created_at, updated_at`

func scanPeriod(row pgx.Row) (payroll.Period, error) {
	var p payroll.Period
	err := row.Scan(
		&p.ID, &p.Year, &p.Month, &p.StartDate, &p.EndDate,
		&p.IsLocked, &p.LockedAt, &p.LockedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *periodRepositoryImpl) Create(ctx context.Context, p payroll.Period) (payroll.Period, error) {
	q := GetQuerier(ctx, r.db)

	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	query := `
		INSERT INTO payroll_periods (id, year, month, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + periodColumns

	created, err := scanPeriod(q.QueryRow(ctx, query, p.ID, p.Year, p.Month, p.StartDate, p.EndDate))
	if err != nil {
		if isUniqueViolation(err, "") {
			return payroll.Period{}, payroll.ErrPeriodExists
		}
		return payroll.Period{}, fmt.Errorf("failed to create period %d-%02d: %w", p.Year, p.Month, err)
	}
	return created, nil
}

func (r *periodRepositoryImpl) GetByID(ctx context.Context, id string) (payroll.Period, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + periodColumns + ` FROM payroll_periods WHERE id = $1`

	p, err := scanPeriod(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Period{}, payroll.ErrPeriodNotFound
		}
		return payroll.Period{}, fmt.Errorf("failed to get period %s: %w", id, err)
	}
	return p, nil
}

func (r *periodRepositoryImpl) GetByYearMonth(ctx context.Context, year, month int) (payroll.Period, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + periodColumns + ` FROM payroll_periods WHERE year = $1 AND month = $2`

	p, err := scanPeriod(q.QueryRow(ctx, query, year, month))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Period{}, payroll.ErrPeriodNotFound
		}
		return payroll.Period{}, fmt.Errorf("failed to get period %d-%02d: %w", year, month, err)
	}
	return p, nil
}

func (r *periodRepositoryImpl) List(ctx context.Context) ([]payroll.Period, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + periodColumns + ` FROM payroll_periods ORDER BY year DESC, month DESC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	defer rows.Close()

	var periods []payroll.Period
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return periods, nil
}

func (r *periodRepositoryImpl) SetLock(ctx context.Context, id string, locked bool, lockedBy *string, lockedAt *time.Time) (payroll.Period, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_periods
		SET is_locked = $1, locked_by = $2, locked_at = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING ` + periodColumns

	p, err := scanPeriod(q.QueryRow(ctx, query, locked, lockedBy, lockedAt, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Period{}, payroll.ErrPeriodNotFound
		}
		return payroll.Period{}, fmt.Errorf("failed to set lock on period %s: %w", id, err)
	}
	return p, nil
}
