package payrolladmin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/roplabs/payroll-backend-go/internal/domain/payroll"
)

type PeriodServiceImpl struct {
	periodRepo payroll.PeriodRepository
}

func NewPeriodService(periodRepo payroll.PeriodRepository) payroll.PeriodService {
	return &PeriodServiceImpl{periodRepo: periodRepo}
}

func (s *PeriodServiceImpl) Create(ctx context.Context, req payroll.CreatePeriodRequest) (payroll.Period, error) {
	start, end, err := req.Validate()
	if err != nil {
		return payroll.Period{}, err
	}

	created, err := s.periodRepo.Create(ctx, payroll.Period{
		Year:      req.Year,
		Month:     req.Month,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return payroll.Period{}, err
	}

	slog.Info("Payroll period created", "period", created.Label(), "period_id", created.ID)
	return created, nil
}

func (s *PeriodServiceImpl) GetByID(ctx context.Context, id string) (payroll.Period, error) {
	return s.periodRepo.GetByID(ctx, id)
}

func (s *PeriodServiceImpl) List(ctx context.Context) ([]payroll.Period, error) {
	return s.periodRepo.List(ctx)
}

func (s *PeriodServiceImpl) Lock(ctx context.Context, id, actorID string) (payroll.Period, error) {
	p, err := s.periodRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.Period{}, err
	}
	if p.IsLocked {
		return p, nil
	}

	now := time.Now()
	locked, err := s.periodRepo.SetLock(ctx, id, true, &actorID, &now)
	if err != nil {
		return payroll.Period{}, err
	}
	slog.Info("Payroll period locked", "period", locked.Label(), "locked_by", actorID)
	return locked, nil
}

func (s *PeriodServiceImpl) Unlock(ctx context.Context, id string) (payroll.Period, error) {
	if _, err := s.periodRepo.GetByID(ctx, id); err != nil {
		return payroll.Period{}, err
	}

	unlocked, err := s.periodRepo.SetLock(ctx, id, false, nil, nil)
	if err != nil {
		return payroll.Period{}, err
	}
	slog.Info("Payroll period unlocked", "period", unlocked.Label())
	return unlocked, nil
}

type CompensationServiceImpl struct {
	compensationRepo payroll.CompensationRepository
}

func NewCompensationService(compensationRepo payroll.CompensationRepository) payroll.CompensationService {
	return &CompensationServiceImpl{compensationRepo: compensationRepo}
}

func (s *CompensationServiceImpl) Upsert(ctx context.Context, req payroll.UpsertCompensationRequest) (payroll.Compensation, error) {
	if err := req.Validate(); err != nil {
		return payroll.Compensation{}, err
	}
	return s.compensationRepo.Upsert(ctx, payroll.Compensation{
		UserID:   req.UserID,
		Amount:   req.Amount,
		Currency: req.Currency,
	})
}

func (s *CompensationServiceImpl) GetByUserID(ctx context.Context, userID string) (payroll.Compensation, error) {
	return s.compensationRepo.GetByUserID(ctx, userID)
}

func (s *CompensationServiceImpl) Delete(ctx context.Context, userID string) error {
	if _, err := s.compensationRepo.GetByUserID(ctx, userID); err != nil {
		return err
	}
	return s.compensationRepo.Delete(ctx, userID)
}

type BonusServiceImpl struct {
	bonusRepo  payroll.BonusRepository
	periodRepo payroll.PeriodRepository
}

func NewBonusService(bonusRepo payroll.BonusRepository, periodRepo payroll.PeriodRepository) payroll.BonusService {
	return &BonusServiceImpl{bonusRepo: bonusRepo, periodRepo: periodRepo}
}

func (s *BonusServiceImpl) Create(ctx context.Context, req payroll.CreateBonusRequest) (payroll.Bonus, error) {
	if err := req.Validate(); err != nil {
		return payroll.Bonus{}, err
	}
	if err := s.requireUnlocked(ctx, req.PeriodID); err != nil {
		return payroll.Bonus{}, err
	}
	return s.bonusRepo.Create(ctx, payroll.Bonus{
		UserID:      req.UserID,
		PeriodID:    req.PeriodID,
		Description: req.Description,
		Amount:      req.Amount,
	})
}

func (s *BonusServiceImpl) Update(ctx context.Context, id string, req payroll.CreateBonusRequest) (payroll.Bonus, error) {
	if err := req.Validate(); err != nil {
		return payroll.Bonus{}, err
	}

	current, err := s.bonusRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.Bonus{}, err
	}
	if err := s.requireUnlocked(ctx, current.PeriodID); err != nil {
		return payroll.Bonus{}, err
	}

	current.Description = req.Description
	current.Amount = req.Amount
	return s.bonusRepo.Update(ctx, current)
}

func (s *BonusServiceImpl) Delete(ctx context.Context, id string) error {
	current, err := s.bonusRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireUnlocked(ctx, current.PeriodID); err != nil {
		return err
	}
	return s.bonusRepo.Delete(ctx, id)
}

func (s *BonusServiceImpl) ListByUserPeriod(ctx context.Context, userID, periodID string) ([]payroll.Bonus, error) {
	return s.bonusRepo.ListByUserPeriod(ctx, userID, periodID)
}

func (s *BonusServiceImpl) requireUnlocked(ctx context.Context, periodID string) error {
	p, err := s.periodRepo.GetByID(ctx, periodID)
	if err != nil {
		return err
	}
	if p.IsLocked {
		return fmt.Errorf("period %s: %w", p.Label(), payroll.ErrPeriodLocked)
	}
	return nil
}
