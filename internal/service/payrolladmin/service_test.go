package payrolladmin

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roplabs/payroll-backend-go/internal/domain/payroll"
)

type fakePeriodRepo struct {
	byID map[string]payroll.Period
}

func (f *fakePeriodRepo) Create(_ context.Context, p payroll.Period) (payroll.Period, error) {
	for _, existing := range f.byID {
		if existing.Year == p.Year && existing.Month == p.Month {
			return payroll.Period{}, payroll.ErrPeriodExists
		}
	}
	p.ID = "period-1"
	f.byID[p.ID] = p
	return p, nil
}

func (f *fakePeriodRepo) GetByID(_ context.Context, id string) (payroll.Period, error) {
	p, ok := f.byID[id]
	if !ok {
		return payroll.Period{}, payroll.ErrPeriodNotFound
	}
	return p, nil
}

func (f *fakePeriodRepo) GetByYearMonth(_ context.Context, year, month int) (payroll.Period, error) {
	for _, p := range f.byID {
		if p.Year == year && p.Month == month {
			return p, nil
		}
	}
	return payroll.Period{}, payroll.ErrPeriodNotFound
}

func (f *fakePeriodRepo) List(_ context.Context) ([]payroll.Period, error) { return nil, nil }

func (f *fakePeriodRepo) SetLock(_ context.Context, id string, locked bool, lockedBy *string, lockedAt *time.Time) (payroll.Period, error) {
	p, ok := f.byID[id]
	if !ok {
		return payroll.Period{}, payroll.ErrPeriodNotFound
	}
	p.IsLocked = locked
	p.LockedBy = lockedBy
	p.LockedAt = lockedAt
	f.byID[id] = p
	return p, nil
}

type fakeBonusRepo struct {
	byID    map[string]payroll.Bonus
	created int
	deleted int
}

func (f *fakeBonusRepo) Create(_ context.Context, b payroll.Bonus) (payroll.Bonus, error) {
	f.created++
	b.ID = "bonus-1"
	f.byID[b.ID] = b
	return b, nil
}
func (f *fakeBonusRepo) Update(_ context.Context, b payroll.Bonus) (payroll.Bonus, error) {
	f.byID[b.ID] = b
	return b, nil
}
func (f *fakeBonusRepo) Delete(_ context.Context, id string) error {
	f.deleted++
	delete(f.byID, id)
	return nil
}
func (f *fakeBonusRepo) GetByID(_ context.Context, id string) (payroll.Bonus, error) {
	b, ok := f.byID[id]
	if !ok {
		return payroll.Bonus{}, payroll.ErrBonusNotFound
	}
	return b, nil
}
func (f *fakeBonusRepo) ListByUserPeriod(_ context.Context, _, _ string) ([]payroll.Bonus, error) {
	return nil, nil
}
func (f *fakeBonusRepo) SumForUserPeriod(_ context.Context, _, _ string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func TestPeriodLockUnlock(t *testing.T) {
	ctx := context.Background()
	repo := &fakePeriodRepo{byID: map[string]payroll.Period{
		"period-1": {ID: "period-1", Year: 2024, Month: 3},
	}}
	svc := NewPeriodService(repo)

	locked, err := svc.Lock(ctx, "period-1", "m1")
	require.NoError(t, err)
	assert.True(t, locked.IsLocked)
	require.NotNil(t, locked.LockedBy)
	assert.Equal(t, "m1", *locked.LockedBy)
	assert.NotNil(t, locked.LockedAt)

	// Locking again is a no-op that keeps the original metadata.
	again, err := svc.Lock(ctx, "period-1", "m2")
	require.NoError(t, err)
	assert.Equal(t, "m1", *again.LockedBy)

	unlocked, err := svc.Unlock(ctx, "period-1")
	require.NoError(t, err)
	assert.False(t, unlocked.IsLocked)
	assert.Nil(t, unlocked.LockedBy)
	assert.Nil(t, unlocked.LockedAt)
}

func TestPeriodCreate(t *testing.T) {
	ctx := context.Background()
	repo := &fakePeriodRepo{byID: map[string]payroll.Period{}}
	svc := NewPeriodService(repo)

	req := payroll.CreatePeriodRequest{Year: 2024, Month: 3, StartDate: "2024-03-01", EndDate: "2024-03-31"}
	p, err := svc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "2024-03", p.Label())

	_, err = svc.Create(ctx, req)
	require.ErrorIs(t, err, payroll.ErrPeriodExists)

	_, err = svc.Create(ctx, payroll.CreatePeriodRequest{Year: 2024, Month: 4, StartDate: "2024-04-30", EndDate: "2024-04-01"})
	require.Error(t, err)
}

func TestBonusLockedPeriodGuard(t *testing.T) {
	ctx := context.Background()
	periods := &fakePeriodRepo{byID: map[string]payroll.Period{
		"open":   {ID: "open", Year: 2024, Month: 3},
		"locked": {ID: "locked", Year: 2024, Month: 2, IsLocked: true},
	}}
	bonuses := &fakeBonusRepo{byID: map[string]payroll.Bonus{}}
	svc := NewBonusService(bonuses, periods)

	req := payroll.CreateBonusRequest{UserID: "u1", PeriodID: "locked", Description: "spot", Amount: decimal.NewFromInt(100)}
	_, err := svc.Create(ctx, req)
	require.ErrorIs(t, err, payroll.ErrPeriodLocked)
	assert.Zero(t, bonuses.created)

	req.PeriodID = "open"
	b, err := svc.Create(ctx, req)
	require.NoError(t, err)

	// Lock the period afterwards; existing bonuses become immutable.
	periods.byID["open"] = payroll.Period{ID: "open", Year: 2024, Month: 3, IsLocked: true}

	_, err = svc.Update(ctx, b.ID, req)
	require.ErrorIs(t, err, payroll.ErrPeriodLocked)

	err = svc.Delete(ctx, b.ID)
	require.ErrorIs(t, err, payroll.ErrPeriodLocked)
	assert.Zero(t, bonuses.deleted)
}
