package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/roplabs/payroll-backend-go/internal/domain/payroll"
	"github.com/roplabs/payroll-backend-go/internal/pkg/database"
)

type payslipRepositoryImpl struct {
	db *database.DB
}

func NewPayslipRepository(db *database.DB) payroll.PayslipRepository {
	return &payslipRepositoryImpl{db: db}
}

const payslipColumns = `id, user_id, period_id, compensation, unpaid_deduction, bonuses_total, net_total, calculated_at`

func scanPayslip(row pgx.Row) (payroll.Payslip, error) {
	var p payroll.Payslip
	err := row.Scan(
		&p.ID, &p.UserID, &p.PeriodID,
		&p.Compensation, &p.UnpaidDeduction, &p.BonusesTotal, &p.NetTotal, &p.CalculatedAt,
	)
	return p, err
}

func (r *payslipRepositoryImpl) Create(ctx context.Context, p payroll.Payslip) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	query := `
		INSERT INTO payslips (id, user_id, period_id, compensation, unpaid_deduction, bonuses_total, net_total, calculated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + payslipColumns

	created, err := scanPayslip(q.QueryRow(ctx, query,
		p.ID, p.UserID, p.PeriodID, p.Compensation, p.UnpaidDeduction, p.BonusesTotal, p.NetTotal, p.CalculatedAt))
	if err != nil {
		if isUniqueViolation(err, "") {
			return payroll.Payslip{}, payroll.ErrPayslipExists
		}
		return payroll.Payslip{}, fmt.Errorf("failed to create payslip for user %s: %w", p.UserID, err)
	}
	return created, nil
}

func (r *payslipRepositoryImpl) Exists(ctx context.Context, userID, periodID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT EXISTS (SELECT 1 FROM payslips WHERE user_id = $1 AND period_id = $2)`

	var exists bool
	if err := q.QueryRow(ctx, query, userID, periodID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check payslip existence: %w", err)
	}
	return exists, nil
}

func (r *payslipRepositoryImpl) GetByUserPeriod(ctx context.Context, userID, periodID string) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payslipColumns + ` FROM payslips WHERE user_id = $1 AND period_id = $2`

	p, err := scanPayslip(q.QueryRow(ctx, query, userID, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payslip{}, payroll.ErrPayslipNotFound
		}
		return payroll.Payslip{}, fmt.Errorf("failed to get payslip for user %s: %w", userID, err)
	}
	return p, nil
}

func (r *payslipRepositoryImpl) ListByPeriod(ctx context.Context, periodID string) ([]payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payslipColumns + ` FROM payslips WHERE period_id = $1 ORDER BY calculated_at`

	rows, err := q.Query(ctx, query, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslips for period %s: %w", periodID, err)
	}
	defer rows.Close()

	var payslips []payroll.Payslip
	for rows.Next() {
		p, err := scanPayslip(rows)
		if err != nil {
			return nil, err
		}
		payslips = append(payslips, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return payslips, nil
}
