package reportgen

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/roplabs/payroll-backend-go/internal/domain/attendance"
	"github.com/roplabs/payroll-backend-go/internal/domain/payroll"
	"github.com/roplabs/payroll-backend-go/internal/domain/report"
	"github.com/roplabs/payroll-backend-go/internal/domain/user"
	"github.com/roplabs/payroll-backend-go/internal/pkg/media"
)

// csvHeader is the fixed column order of manager salary reports.
var csvHeader = []string{"Employee Name", "Salary To Be Paid", "Working Days", "Vacation Days", "Bonuses", "Currency"}

const fileTimestampLayout = "20060102_150405"

type CSVServiceImpl struct {
	salaryService    payroll.SalaryService
	employeeService  user.Service
	compensationRepo payroll.CompensationRepository
	attendanceRepo   attendance.Repository
	paths            media.Paths
}

func NewCSVService(
	salaryService payroll.SalaryService,
	employeeService user.Service,
	compensationRepo payroll.CompensationRepository,
	attendanceRepo attendance.Repository,
	paths media.Paths,
) report.CSVGenerator {
	return &CSVServiceImpl{
		salaryService:    salaryService,
		employeeService:  employeeService,
		compensationRepo: compensationRepo,
		attendanceRepo:   attendanceRepo,
		paths:            paths,
	}
}

// GenerateCSV writes the manager's salary report to the CSV media directory
// and returns the absolute file path.
func (s *CSVServiceImpl) GenerateCSV(ctx context.Context, manager user.User, period payroll.Period, employees []user.User) (string, error) {
	content, err := s.GenerateCSVContent(ctx, manager, period, employees)
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("manager_report_%s_%d_%02d_%s.csv",
		manager.ID, period.Year, period.Month, time.Now().Format(fileTimestampLayout))
	path := filepath.Join(s.paths.CSVDir, filename)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", &report.GenerationError{
			Kind:        report.KindCSV,
			Message:     "failed to write report file",
			ManagerID:   manager.ID,
			ManagerName: manager.FullName(),
			PeriodLabel: period.Label(),
			Err:         err,
		}
	}

	slog.Info("Manager report generated", "manager_id", manager.ID, "period", period.Label(), "file", filename)
	return path, nil
}

func (s *CSVServiceImpl) GenerateCSVForTeam(ctx context.Context, manager user.User, period payroll.Period, includeIndirect bool) (string, error) {
	employees, err := s.employeeService.ResolveTeam(ctx, manager, includeIndirect)
	if err != nil {
		return "", err
	}
	return s.GenerateCSV(ctx, manager, period, employees)
}

// GenerateCSVContent produces the report rows in memory. Employees whose
// salary cannot be calculated are skipped with a warning; the report fails
// only when no row at all could be produced.
func (s *CSVServiceImpl) GenerateCSVContent(ctx context.Context, manager user.User, period payroll.Period, employees []user.User) (string, error) {
	genErr := func(msg string, cause error) *report.GenerationError {
		return &report.GenerationError{
			Kind:        report.KindCSV,
			Message:     msg,
			ManagerID:   manager.ID,
			ManagerName: manager.FullName(),
			PeriodLabel: period.Label(),
			Err:         cause,
		}
	}

	if !manager.IsManager {
		return "", genErr("cannot generate report", user.ErrNotManager)
	}

	if employees == nil {
		var err error
		employees, err = s.employeeService.ResolveTeam(ctx, manager, false)
		if err != nil {
			return "", err
		}
	}
	if len(employees) == 0 {
		return "", genErr("cannot generate report", report.ErrNoEmployees)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return "", genErr("failed to write report header", err)
	}

	rows := 0
	for _, emp := range employees {
		row, err := s.buildRow(ctx, emp, period)
		if err != nil {
			slog.Warn("Skipping employee in manager report",
				"user_id", emp.ID, "manager_id", manager.ID, "period", period.Label(), "error", err)
			continue
		}
		if err := w.Write(row); err != nil {
			return "", genErr("failed to write report row", err)
		}
		rows++
	}

	if rows == 0 {
		return "", genErr("cannot generate report", report.ErrNoRowsGenerated)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", genErr("failed to flush report", err)
	}
	return buf.String(), nil
}

func (s *CSVServiceImpl) buildRow(ctx context.Context, emp user.User, period payroll.Period) ([]string, error) {
	breakdown, err := s.salaryService.Calculate(ctx, emp, period)
	if err != nil {
		return nil, err
	}

	// Vacation days are reported for the calendar month, not the period
	// date range.
	vacationDays, err := s.attendanceRepo.CountByTypeInMonth(ctx, emp.ID, attendance.TypeVacation, period.Year, period.Month)
	if err != nil {
		return nil, fmt.Errorf("failed to count vacation days: %w", err)
	}

	currency := payroll.DefaultCurrency
	if comp, err := s.compensationRepo.GetByUserID(ctx, emp.ID); err == nil && comp.Currency != "" {
		currency = comp.Currency
	}

	return []string{
		emp.FullName(),
		breakdown.NetTotal.StringFixed(2),
		strconv.Itoa(breakdown.BusinessDays - breakdown.UnpaidDays),
		strconv.Itoa(vacationDays),
		breakdown.BonusesTotal.StringFixed(2),
		currency,
	}, nil
}
