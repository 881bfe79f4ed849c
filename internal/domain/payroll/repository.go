package payroll

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PeriodRepository defines the interface for payroll period data access
type PeriodRepository interface {
	Create(ctx context.Context, p Period) (Period, error)
	GetByID(ctx context.Context, id string) (Period, error)
	GetByYearMonth(ctx context.Context, year, month int) (Period, error)
	List(ctx context.Context) ([]Period, error)

	// SetLock updates the lock flag and its metadata. lockedBy is nil when
	// unlocking.
	SetLock(ctx context.Context, id string, locked bool, lockedBy *string, lockedAt *time.Time) (Period, error)
}

// CompensationRepository defines the interface for compensation data access
type CompensationRepository interface {
	GetByUserID(ctx context.Context, userID string) (Compensation, error)
	Upsert(ctx context.Context, c Compensation) (Compensation, error)
	Delete(ctx context.Context, userID string) error
}

// BonusRepository defines the interface for bonus data access
type BonusRepository interface {
	Create(ctx context.Context, b Bonus) (Bonus, error)
	Update(ctx context.Context, b Bonus) (Bonus, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Bonus, error)
	ListByUserPeriod(ctx context.Context, userID, periodID string) ([]Bonus, error)

	// SumForUserPeriod aggregates bonus amounts, decimal zero when none.
	SumForUserPeriod(ctx context.Context, userID, periodID string) (decimal.Decimal, error)
}

// PayslipRepository defines the interface for payslip data access
type PayslipRepository interface {
	Create(ctx context.Context, p Payslip) (Payslip, error)
	Exists(ctx context.Context, userID, periodID string) (bool, error)
	GetByUserPeriod(ctx context.Context, userID, periodID string) (Payslip, error)
	ListByPeriod(ctx context.Context, periodID string) ([]Payslip, error)
}
