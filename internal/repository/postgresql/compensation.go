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

type compensationRepositoryImpl struct {
	db *database.DB
}

func NewCompensationRepository(db *database.DB) payroll.CompensationRepository {
	return &compensationRepositoryImpl{db: db}
}

const compensationColumns = `id, user_id, amount, currency, created_at, updated_at`

func scanCompensation(row pgx.Row) (payroll.Compensation, error) {
	var c payroll.Compensation
	err := row.Scan(&c.ID, &c.UserID, &c.Amount, &c.Currency, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *compensationRepositoryImpl) GetByUserID(ctx context.Context, userID string) (payroll.Compensation, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + compensationColumns + ` FROM compensations WHERE user_id = $1`

	c, err := scanCompensation(q.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Compensation{}, payroll.ErrCompensationNotFound
		}
		return payroll.Compensation{}, fmt.Errorf("failed to get compensation for user %s: %w", userID, err)
	}
	return c, nil
}

func (r *compensationRepositoryImpl) Upsert(ctx context.Context, c payroll.Compensation) (payroll.Compensation, error) {
	q := GetQuerier(ctx, r.db)

	if c.ID == "" {
		c.ID = uuid.New().String()
	}

	query := `
		INSERT INTO compensations (id, user_id, amount, currency)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id)
		DO UPDATE SET amount = EXCLUDED.amount, currency = EXCLUDED.currency, updated_at = NOW()
		RETURNING ` + compensationColumns

	upserted, err := scanCompensation(q.QueryRow(ctx, query, c.ID, c.UserID, c.Amount, c.Currency))
	if err != nil {
		return payroll.Compensation{}, fmt.Errorf("failed to upsert compensation for user %s: %w", c.UserID, err)
	}
	return upserted, nil
}

func (r *compensationRepositoryImpl) Delete(ctx context.Context, userID string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM compensations WHERE user_id = $1`

	tag, err := q.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to delete compensation for user %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrCompensationNotFound
	}
	return nil
}
