package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/roplabs/payroll-backend-go/internal/pkg/validator"
)

type CreatePeriodRequest struct {
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (r *CreatePeriodRequest) Validate() (time.Time, time.Time, error) {
	var errs validator.ValidationErrors

	if !validator.IsValidYear(r.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "year must be between 2000 and 2100"})
	}
	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be between 1 and 12"})
	}

	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start date must be YYYY-MM-DD"})
	}
	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end date must be YYYY-MM-DD"})
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end date must not be before start date"})
	}

	if len(errs) > 0 {
		return time.Time{}, time.Time{}, errs
	}
	return start, end, nil
}

type PeriodResponse struct {
	ID        string  `json:"id"`
	Year      int     `json:"year"`
	Month     int     `json:"month"`
	Label     string  `json:"label"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	IsLocked  bool    `json:"is_locked"`
	LockedAt  *string `json:"locked_at,omitempty"`
	LockedBy  *string `json:"locked_by,omitempty"`
}

func ToPeriodResponse(p Period) PeriodResponse {
	resp := PeriodResponse{
		ID:        p.ID,
		Year:      p.Year,
		Month:     p.Month,
		Label:     p.Label(),
		StartDate: p.StartDate.Format("2006-01-02"),
		EndDate:   p.EndDate.Format("2006-01-02"),
		IsLocked:  p.IsLocked,
		LockedBy:  p.LockedBy,
	}
	if p.LockedAt != nil {
		s := p.LockedAt.Format(time.RFC3339)
		resp.LockedAt = &s
	}
	return resp
}

type UpsertCompensationRequest struct {
	UserID   string          `json:"user_id"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (r *UpsertCompensationRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user id is required"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "amount must be greater than zero"})
	}
	if r.Currency == "" {
		r.Currency = DefaultCurrency
	} else if !validator.IsValidCurrency(r.Currency) {
		errs = append(errs, validator.ValidationError{Field: "currency", Message: "currency must be 3 uppercase letters"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateBonusRequest struct {
	UserID      string          `json:"user_id"`
	PeriodID    string          `json:"period_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

func (r *CreateBonusRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user id is required"})
	}
	if validator.IsEmpty(r.PeriodID) {
		errs = append(errs, validator.ValidationError{Field: "period_id", Message: "period id is required"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "amount must be greater than zero"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BreakdownResponse struct {
	Compensation    string `json:"compensation"`
	BonusesTotal    string `json:"bonuses_total"`
	UnpaidDeduction string `json:"unpaid_deduction"`
	NetTotal        string `json:"net_total"`
	BusinessDays    int    `json:"business_days"`
	UnpaidDays      int    `json:"unpaid_days"`
}

func ToBreakdownResponse(b SalaryBreakdown) BreakdownResponse {
	return BreakdownResponse{
		Compensation:    b.Compensation.StringFixed(2),
		BonusesTotal:    b.BonusesTotal.StringFixed(2),
		UnpaidDeduction: b.UnpaidDeduction.StringFixed(2),
		NetTotal:        b.NetTotal.StringFixed(2),
		BusinessDays:    b.BusinessDays,
		UnpaidDays:      b.UnpaidDays,
	}
}

type PayslipResponse struct {
	ID              string `json:"id"`
	UserID          string `json:"user_id"`
	PeriodID        string `json:"period_id"`
	Compensation    string `json:"compensation"`
	UnpaidDeduction string `json:"unpaid_deduction"`
	BonusesTotal    string `json:"bonuses_total"`
	NetTotal        string `json:"net_total"`
	CalculatedAt    string `json:"calculated_at"`
}

func ToPayslipResponse(p Payslip) PayslipResponse {
	return PayslipResponse{
		ID:              p.ID,
		UserID:          p.UserID,
		PeriodID:        p.PeriodID,
		Compensation:    p.Compensation.StringFixed(2),
		UnpaidDeduction: p.UnpaidDeduction.StringFixed(2),
		BonusesTotal:    p.BonusesTotal.StringFixed(2),
		NetTotal:        p.NetTotal.StringFixed(2),
		CalculatedAt:    p.CalculatedAt.Format(time.RFC3339),
	}
}
