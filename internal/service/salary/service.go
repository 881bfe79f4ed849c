package salary

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roplabs/payroll-backend-go/internal/domain/attendance"
	"github.com/roplabs/payroll-backend-go/internal/domain/payroll"
	"github.com/roplabs/payroll-backend-go/internal/domain/user"
	"github.com/roplabs/payroll-backend-go/internal/pkg/database"
	"github.com/roplabs/payroll-backend-go/internal/pkg/dateutil"
	"github.com/roplabs/payroll-backend-go/internal/pkg/money"
)

type SalaryServiceImpl struct {
	tx               database.TxRunner
	compensationRepo payroll.CompensationRepository
	bonusRepo        payroll.BonusRepository
	payslipRepo      payroll.PayslipRepository
	attendanceRepo   attendance.Repository
	employeeService  user.Service
}

func NewSalaryService(
	tx database.TxRunner,
	compensationRepo payroll.CompensationRepository,
	bonusRepo payroll.BonusRepository,
	payslipRepo payroll.PayslipRepository,
	attendanceRepo attendance.Repository,
	employeeService user.Service,
) payroll.SalaryService {
	return &SalaryServiceImpl{
		tx:               tx,
		compensationRepo: compensationRepo,
		bonusRepo:        bonusRepo,
		payslipRepo:      payslipRepo,
		attendanceRepo:   attendanceRepo,
		employeeService:  employeeService,
	}
}

// Calculate computes the salary breakdown for one user in one period. Each
// monetary component is quantized independently; the net total is computed
// from the already-quantized components and quantized once more.
func (s *SalaryServiceImpl) Calculate(ctx context.Context, u user.User, period payroll.Period) (payroll.SalaryBreakdown, error) {
	comp, err := s.compensationRepo.GetByUserID(ctx, u.ID)
	if err != nil {
		return payroll.SalaryBreakdown{}, fmt.Errorf("user %s (%s): %w", u.FullName(), u.ID, err)
	}

	businessDays := dateutil.CountBusinessDays(period.StartDate, period.EndDate)

	unpaidDays, err := s.attendanceRepo.CountByTypeInRange(ctx, u.ID, attendance.TypeUnpaidLeave, period.StartDate, period.EndDate)
	if err != nil {
		return payroll.SalaryBreakdown{}, fmt.Errorf("failed to count unpaid days for %s: %w", u.ID, err)
	}

	bonusSum, err := s.bonusRepo.SumForUserPeriod(ctx, u.ID, period.ID)
	if err != nil {
		return payroll.SalaryBreakdown{}, fmt.Errorf("failed to sum bonuses for %s: %w", u.ID, err)
	}

	compensation := money.Quantize(comp.Amount)
	dailyRate := s.dailyRate(comp.Amount, businessDays)
	unpaidDeduction := money.Quantize(dailyRate.Mul(decimal.NewFromInt(int64(unpaidDays))))
	bonusesTotal := money.Quantize(bonusSum)
	netTotal := money.Quantize(compensation.Sub(unpaidDeduction).Add(bonusesTotal))

	return payroll.SalaryBreakdown{
		Compensation:    compensation,
		BonusesTotal:    bonusesTotal,
		UnpaidDeduction: unpaidDeduction,
		NetTotal:        netTotal,
		BusinessDays:    businessDays,
		UnpaidDays:      unpaidDays,
	}, nil
}

func (s *SalaryServiceImpl) dailyRate(monthlyAmount decimal.Decimal, businessDays int) decimal.Decimal {
	if businessDays <= 0 {
		return decimal.Zero
	}
	return money.Quantize(monthlyAmount.Div(decimal.NewFromInt(int64(businessDays))))
}

// GeneratePayslip persists the immutable payslip for (user, period). The
// locked-period and already-exists checks run inside the same transaction as
// the insert; the unique (user, period) constraint backs up the race.
func (s *SalaryServiceImpl) GeneratePayslip(ctx context.Context, u user.User, period payroll.Period) (payroll.Payslip, error) {
	if period.IsLocked {
		return payroll.Payslip{}, fmt.Errorf("period %s: %w", period.Label(), payroll.ErrPeriodLocked)
	}

	var slip payroll.Payslip
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		exists, err := s.payslipRepo.Exists(ctx, u.ID, period.ID)
		if err != nil {
			return fmt.Errorf("failed to check existing payslip: %w", err)
		}
		if exists {
			return fmt.Errorf("user %s, period %s: %w", u.FullName(), period.Label(), payroll.ErrPayslipExists)
		}

		breakdown, err := s.Calculate(ctx, u, period)
		if err != nil {
			return err
		}

		slip, err = s.payslipRepo.Create(ctx, payroll.Payslip{
			UserID:          u.ID,
			PeriodID:        period.ID,
			Compensation:    breakdown.Compensation,
			UnpaidDeduction: breakdown.UnpaidDeduction,
			BonusesTotal:    breakdown.BonusesTotal,
			NetTotal:        breakdown.NetTotal,
			CalculatedAt:    time.Now(),
		})
		return err
	})
	if err != nil {
		return payroll.Payslip{}, err
	}

	slog.Info("Payslip generated", "user_id", u.ID, "period", period.Label(), "net_total", slip.NetTotal)
	return slip, nil
}

// CalculateForTeam computes breakdowns for every employee under the manager.
// Per-employee failures are captured on the row, never raised.
func (s *SalaryServiceImpl) CalculateForTeam(ctx context.Context, manager user.User, period payroll.Period, includeIndirect bool) ([]payroll.TeamMemberResult, error) {
	if !manager.IsManager {
		return nil, fmt.Errorf("user %s: %w", manager.FullName(), user.ErrNotManager)
	}

	employees, err := s.employeeService.ResolveTeam(ctx, manager, includeIndirect)
	if err != nil {
		return nil, err
	}

	results := make([]payroll.TeamMemberResult, 0, len(employees))
	for _, emp := range employees {
		breakdown, err := s.Calculate(ctx, emp, period)
		if err != nil {
			slog.Warn("Salary calculation failed for team member", "user_id", emp.ID, "period", period.Label(), "error", err)
			results = append(results, payroll.TeamMemberResult{User: emp, Err: err})
			continue
		}
		results = append(results, payroll.TeamMemberResult{User: emp, Breakdown: &breakdown})
	}
	return results, nil
}
