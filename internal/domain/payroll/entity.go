package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Period is one payroll month. Periods are unique per (year, month) and may
// be locked, after which no bonus or payslip may be created or modified.
type Period struct {
	ID        string
	Year      int
	Month     int
	StartDate time.Time
	EndDate   time.Time
	IsLocked  bool
	LockedAt  *time.Time
	LockedBy  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Label renders the period as "YYYY-MM".
func (p Period) Label() string {
	return fmt.Sprintf("%d-%02d", p.Year, p.Month)
}

// Compensation is the base monthly pay for one user, one row per user.
type Compensation struct {
	ID        string
	UserID    string
	Amount    decimal.Decimal
	Currency  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultCurrency is used when an employee has no compensation on record.
const DefaultCurrency = "RON"

// Bonus is an extra payment for a user within a period, unique per
// (user, period, description).
type Bonus struct {
	ID          string
	UserID      string
	PeriodID    string
	Description string
	Amount      decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Payslip is the immutable computed salary snapshot for (user, period).
// NetTotal is always derived from the other three amounts.
type Payslip struct {
	ID              string
	UserID          string
	PeriodID        string
	Compensation    decimal.Decimal
	UnpaidDeduction decimal.Decimal
	BonusesTotal    decimal.Decimal
	NetTotal        decimal.Decimal
	CalculatedAt    time.Time
}

// SalaryBreakdown is the result of a salary calculation. All monetary fields
// are quantized to 2 decimal places.
type SalaryBreakdown struct {
	Compensation    decimal.Decimal
	BonusesTotal    decimal.Decimal
	UnpaidDeduction decimal.Decimal
	NetTotal        decimal.Decimal
	BusinessDays    int
	UnpaidDays      int
}
