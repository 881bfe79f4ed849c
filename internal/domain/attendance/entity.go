package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type enum
type Type string

const (
	TypeWorked        Type = "WORKED"
	TypeVacation      Type = "VACATION"
	TypeSickLeave     Type = "SICK_LEAVE"
	TypeUnpaidLeave   Type = "UNPAID_LEAVE"
	TypePublicHoliday Type = "PUBLIC_HOLIDAY"
)

// ValidTypes lists every accepted attendance type.
var ValidTypes = []Type{TypeWorked, TypeVacation, TypeSickLeave, TypeUnpaidLeave, TypePublicHoliday}

// RequiresZeroHours reports whether records of this type must carry exactly
// zero hours worked.
func (t Type) RequiresZeroHours() bool {
	switch t {
	case TypeVacation, TypeUnpaidLeave, TypePublicHoliday:
		return true
	}
	return false
}

func (t Type) IsValid() bool {
	for _, v := range ValidTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Record is one employee's attendance on one date, unique per (user, date).
type Record struct {
	ID          string
	UserID      string
	Date        time.Time
	Type        Type
	HoursWorked decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (r Record) IsWorkingDay() bool {
	return r.Type == TypeWorked
}

func (r Record) IsPaidLeave() bool {
	switch r.Type {
	case TypeVacation, TypeSickLeave, TypePublicHoliday:
		return true
	}
	return false
}

// MonthlySummary aggregates one user's attendance inside a period window.
type MonthlySummary struct {
	UserID           string
	WorkedDays       int
	VacationDays     int
	SickDays         int
	UnpaidDays       int
	PublicHolidays   int
	TotalHoursWorked decimal.Decimal
}
