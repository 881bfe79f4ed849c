package response

import (
	"errors"
	"net/http"

	"github.com/roplabs/payroll-backend-go/internal/domain/attendance"
	"github.com/roplabs/payroll-backend-go/internal/domain/payroll"
	"github.com/roplabs/payroll-backend-go/internal/domain/report"
	"github.com/roplabs/payroll-backend-go/internal/domain/user"
	"github.com/roplabs/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrCNPExists):
		Conflict(w, "CNP already registered")
	case errors.Is(err, user.ErrSelfManager):
		BadRequest(w, "User cannot be their own manager", nil)
	case errors.Is(err, user.ErrNotManager):
		Forbidden(w, "User is not a manager")
	case errors.Is(err, user.ErrUserInactive):
		Forbidden(w, "User is inactive")
	case errors.Is(err, user.ErrAccessDenied):
		Forbidden(w, "No access to this user's data")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPeriodNotFound):
		NotFound(w, "Payroll period not found")
	case errors.Is(err, payroll.ErrPeriodExists):
		Conflict(w, "Payroll period already exists for this month")
	case errors.Is(err, payroll.ErrPeriodLocked):
		Conflict(w, "Payroll period is locked")
	case errors.Is(err, payroll.ErrInvalidPeriodRange):
		BadRequest(w, "Invalid period date range", nil)
	case errors.Is(err, payroll.ErrCompensationNotFound):
		NotFound(w, "Compensation not found")
	case errors.Is(err, payroll.ErrBonusNotFound):
		NotFound(w, "Bonus not found")
	case errors.Is(err, payroll.ErrBonusExists):
		Conflict(w, "Bonus already exists for this user, period and description")
	case errors.Is(err, payroll.ErrPayslipExists):
		Conflict(w, "Payslip already generated for this user and period")
	case errors.Is(err, payroll.ErrPayslipNotFound):
		NotFound(w, "Payslip not found")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrRecordExists):
		Conflict(w, "Attendance record already exists for this user and date")
	case errors.Is(err, attendance.ErrInvalidType), errors.Is(err, attendance.ErrInvalidHours):
		BadRequest(w, err.Error(), nil)

	// Report domain errors
	case errors.Is(err, report.ErrReportNotFound):
		NotFound(w, "Generated report not found")
	case errors.Is(err, report.ErrReportTypeMismatch):
		BadRequest(w, "Report has the wrong type for this operation", nil)
	case errors.Is(err, report.ErrEmployeeEmailMissing):
		BadRequest(w, "Recipient email is missing", nil)
	case errors.Is(err, report.ErrNoEmployees):
		BadRequest(w, "No employees found for manager", nil)
	case errors.Is(err, report.ErrNoRowsGenerated):
		BadRequest(w, "No valid employee data to generate report", nil)
	case errors.Is(err, report.ErrNoFilesToArchive):
		BadRequest(w, "No files to archive", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
