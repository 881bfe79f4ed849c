package payroll

import (
	"context"

	"github.com/roplabs/payroll-backend-go/internal/domain/user"
)

// TeamMemberResult is one row of a team-wide calculation. Exactly one of
// Breakdown or Err is set; per-employee failures never abort the batch.
type TeamMemberResult struct {
	User      user.User
	Breakdown *SalaryBreakdown
	Err       error
}

// SalaryService computes salary breakdowns and persists payslips
type SalaryService interface {
	Calculate(ctx context.Context, u user.User, period Period) (SalaryBreakdown, error)
	GeneratePayslip(ctx context.Context, u user.User, period Period) (Payslip, error)
	CalculateForTeam(ctx context.Context, manager user.User, period Period, includeIndirect bool) ([]TeamMemberResult, error)
}

// PeriodService manages payroll periods and their lock state
type PeriodService interface {
	Create(ctx context.Context, req CreatePeriodRequest) (Period, error)
	GetByID(ctx context.Context, id string) (Period, error)
	List(ctx context.Context) ([]Period, error)
	Lock(ctx context.Context, id, actorID string) (Period, error)
	Unlock(ctx context.Context, id string) (Period, error)
}

// CompensationService manages base pay records
type CompensationService interface {
	Upsert(ctx context.Context, req UpsertCompensationRequest) (Compensation, error)
	GetByUserID(ctx context.Context, userID string) (Compensation, error)
	Delete(ctx context.Context, userID string) error
}

// BonusService manages per-period bonuses. Every mutation is refused on a
// locked period.
type BonusService interface {
	Create(ctx context.Context, req CreateBonusRequest) (Bonus, error)
	Update(ctx context.Context, id string, req CreateBonusRequest) (Bonus, error)
	Delete(ctx context.Context, id string) error
	ListByUserPeriod(ctx context.Context, userID, periodID string) ([]Bonus, error)
}
