package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/roplabs/payroll-backend-go/internal/domain/payroll"
	"github.com/roplabs/payroll-backend-go/internal/pkg/database"
)

type bonusRepositoryImpl struct {
	db *database.DB
}

func NewBonusRepository(db *database.DB) payroll.BonusRepository {
	return &bonusRepositoryImpl{db: db}
}

const bonusColumns = `id, user_id, period_id, description, amount, created_at, updated_at`

func scanBonus(row pgx.Row) (payroll.Bonus, error) {
	var b payroll.Bonus
	err := row.Scan(&b.ID, &b.UserID, &b.PeriodID, &b.Description, &b.Amount, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (r *bonusRepositoryImpl) Create(ctx context.Context, b payroll.Bonus) (payroll.Bonus, error) {
	q := GetQuerier(ctx, r.db)

	if b.ID == "" {
		b.ID = uuid.New().String()
	}

	query := `
		INSERT INTO bonuses (id, user_id, period_id, description, amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + bonusColumns

	created, err := scanBonus(q.QueryRow(ctx, query, b.ID, b.UserID, b.PeriodID, b.Description, b.Amount))
	if err != nil {
		if isUniqueViolation(err, "") {
			return payroll.Bonus{}, payroll.ErrBonusExists
		}
		return payroll.Bonus{}, fmt.Errorf("failed to create bonus for user %s: %w", b.UserID, err)
	}
	return created, nil
}

func (r *bonusRepositoryImpl) Update(ctx context.Context, b payroll.Bonus) (payroll.Bonus, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE bonuses
		SET description = $1, amount = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING ` + bonusColumns

	updated, err := scanBonus(q.QueryRow(ctx, query, b.Description, b.Amount, b.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Bonus{}, payroll.ErrBonusNotFound
		}
		if isUniqueViolation(err, "") {
			return payroll.Bonus{}, payroll.ErrBonusExists
		}
		return payroll.Bonus{}, fmt.Errorf("failed to update bonus %s: %w", b.ID, err)
	}
	return updated, nil
}

func (r *bonusRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM bonuses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bonus %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrBonusNotFound
	}
	return nil
}

func (r *bonusRepositoryImpl) GetByID(ctx context.Context, id string) (payroll.Bonus, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + bonusColumns + ` FROM bonuses WHERE id = $1`

	b, err := scanBonus(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Bonus{}, payroll.ErrBonusNotFound
		}
		return payroll.Bonus{}, fmt.Errorf("failed to get bonus %s: %w", id, err)
	}
	return b, nil
}

func (r *bonusRepositoryImpl) ListByUserPeriod(ctx context.Context, userID, periodID string) ([]payroll.Bonus, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + bonusColumns + ` FROM bonuses WHERE user_id = $1 AND period_id = $2 ORDER BY created_at`

	rows, err := q.Query(ctx, query, userID, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bonuses for user %s: %w", userID, err)
	}
	defer rows.Close()

	var bonuses []payroll.Bonus
	for rows.Next() {
		b, err := scanBonus(rows)
		if err != nil {
			return nil, err
		}
		bonuses = append(bonuses, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bonuses, nil
}

func (r *bonusRepositoryImpl) SumForUserPeriod(ctx context.Context, userID, periodID string) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT COALESCE(SUM(amount), 0) FROM bonuses WHERE user_id = $1 AND period_id = $2`

	var sum decimal.Decimal
	if err := q.QueryRow(ctx, query, userID, periodID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum bonuses for user %s: %w", userID, err)
	}
	return sum, nil
}
