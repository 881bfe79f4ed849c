package payroll

import "errors"

var (
	ErrPeriodNotFound       = errors.New("payroll period not found")
	ErrPeriodExists         = errors.New("payroll period already exists for this year and month")
	ErrPeriodLocked         = errors.New("payroll period is locked")
	ErrInvalidPeriodRange   = errors.New("period end date must not be before start date")
	ErrCompensationNotFound = errors.New("no compensation found for user")
	ErrBonusNotFound        = errors.New("bonus not found")
	ErrBonusExists          = errors.New("bonus already exists for this user, period and description")
	ErrPayslipExists        = errors.New("payslip already exists for this user and period")
	ErrPayslipNotFound      = errors.New("payslip not found")
)
