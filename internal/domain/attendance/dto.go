package attendance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/roplabs/payroll-backend-go/internal/pkg/validator"
)

type CreateRecordRequest struct {
	UserID      string          `json:"user_id"`
	Date        string          `json:"date"`
	Type        string          `json:"type"`
	HoursWorked decimal.Decimal `json:"hours_worked"`
}

func (r *CreateRecordRequest) Validate() (time.Time, error) {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user id is required"})
	}
	date, ok := validator.IsValidDate(r.Date)
	if !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be YYYY-MM-DD"})
	}

	typ := Type(r.Type)
	if !typ.IsValid() {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "invalid attendance type"})
	} else if typ.RequiresZeroHours() {
		if !r.HoursWorked.IsZero() {
			errs = append(errs, validator.ValidationError{Field: "hours_worked", Message: "hours worked must be 0 for this type"})
		}
	} else if typ == TypeWorked {
		if !r.HoursWorked.IsPositive() || !validator.IsValidDailyHours(r.HoursWorked) {
			errs = append(errs, validator.ValidationError{Field: "hours_worked", Message: "hours worked must be greater than 0 and at most 12"})
		}
	}

	if len(errs) > 0 {
		return time.Time{}, errs
	}
	return date, nil
}

type RecordResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Date        string `json:"date"`
	Type        string `json:"type"`
	HoursWorked string `json:"hours_worked"`
}

func ToRecordResponse(r Record) RecordResponse {
	return RecordResponse{
		ID:          r.ID,
		UserID:      r.UserID,
		Date:        r.Date.Format("2006-01-02"),
		Type:        string(r.Type),
		HoursWorked: r.HoursWorked.StringFixed(2),
	}
}

type SummaryResponse struct {
	UserID           string `json:"user_id"`
	WorkedDays       int    `json:"worked_days"`
	VacationDays     int    `json:"vacation_days"`
	SickDays         int    `json:"sick_days"`
	UnpaidDays       int    `json:"unpaid_days"`
	PublicHolidays   int    `json:"public_holidays"`
	TotalHoursWorked string `json:"total_hours_worked"`
}

func ToSummaryResponse(s MonthlySummary) SummaryResponse {
	return SummaryResponse{
		UserID:           s.UserID,
		WorkedDays:       s.WorkedDays,
		VacationDays:     s.VacationDays,
		SickDays:         s.SickDays,
		UnpaidDays:       s.UnpaidDays,
		PublicHolidays:   s.PublicHolidays,
		TotalHoursWorked: s.TotalHoursWorked.StringFixed(2),
	}
}
