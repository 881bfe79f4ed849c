package reportgen

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/roplabs/payroll-backend-go/internal/domain/payroll"
	"github.com/roplabs/payroll-backend-go/internal/domain/report"
	"github.com/roplabs/payroll-backend-go/internal/domain/user"
	"github.com/roplabs/payroll-backend-go/internal/pkg/media"
	"github.com/roplabs/payroll-backend-go/internal/pkg/pdfcrypt"
)

type PDFServiceImpl struct {
	salaryService payroll.SalaryService
	encryptor     pdfcrypt.Encryptor
	paths         media.Paths
}

func NewPDFService(salaryService payroll.SalaryService, encryptor pdfcrypt.Encryptor, paths media.Paths) report.PDFGenerator {
	return &PDFServiceImpl{
		salaryService: salaryService,
		encryptor:     encryptor,
		paths:         paths,
	}
}

// GeneratePDF renders the employee's payslip, encrypts it with the given
// password (the employee's CNP when empty) and returns the absolute path of
// the protected file. The unprotected intermediate file is always removed.
func (s *PDFServiceImpl) GeneratePDF(ctx context.Context, u user.User, period payroll.Period, password string) (string, error) {
	genErr := func(msg string, cause error) *report.GenerationError {
		return &report.GenerationError{
			Kind:        report.KindPDF,
			Message:     msg,
			UserID:      u.ID,
			UserName:    u.FullName(),
			PeriodLabel: period.Label(),
			Err:         cause,
		}
	}

	if password == "" {
		password = u.CNP
	}
	if password == "" {
		return "", genErr("cannot protect payslip, no password available", nil)
	}

	breakdown, err := s.salaryService.Calculate(ctx, u, period)
	if err != nil {
		return "", genErr("failed to calculate salary", err)
	}

	base := fmt.Sprintf("payslip_%s_%d_%02d_%s.pdf",
		u.ID, period.Year, period.Month, time.Now().Format(fileTimestampLayout))
	tempPath := filepath.Join(s.paths.PDFDir, "temp_"+base)
	finalPath := filepath.Join(s.paths.PDFDir, base)

	if err := s.renderPayslip(tempPath, u, period, breakdown); err != nil {
		return "", genErr("failed to render payslip", err)
	}
	defer func() {
		if err := os.Remove(tempPath); err != nil && !os.IsNotExist(err) {
			slog.Warn("Failed to remove unprotected payslip", "path", tempPath, "error", err)
		}
	}()

	if err := s.encryptor.Encrypt(ctx, tempPath, finalPath, password); err != nil {
		return "", genErr("failed to protect payslip", err)
	}

	slog.Info("Payslip PDF generated", "user_id", u.ID, "period", period.Label(), "file", base)
	return finalPath, nil
}

// GeneratePDFsForTeam produces one payslip per employee. Per-employee failures
// are captured on the result row, never raised.
func (s *PDFServiceImpl) GeneratePDFsForTeam(ctx context.Context, manager user.User, period payroll.Period, employees []user.User) ([]report.PDFResult, error) {
	results := make([]report.PDFResult, 0, len(employees))
	for _, emp := range employees {
		path, err := s.GeneratePDF(ctx, emp, period, "")
		if err != nil {
			slog.Warn("Payslip generation failed for team member",
				"user_id", emp.ID, "manager_id", manager.ID, "period", period.Label(), "error", err)
			results = append(results, report.PDFResult{User: emp, Err: err})
			continue
		}
		results = append(results, report.PDFResult{User: emp, FilePath: path})
	}
	return results, nil
}

func (s *PDFServiceImpl) renderPayslip(path string, u user.User, period payroll.Period, b payroll.SalaryBreakdown) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payslip "+period.Label(), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("Payslip for %s", period.Label()), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, "Generated at "+time.Now().Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, "Employee: "+u.FullName(), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, "Employee ID: "+u.ID, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, "CNP: "+u.CNP, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, "Email: "+u.Email, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Period: %s to %s",
		period.StartDate.Format("2006-01-02"), period.EndDate.Format("2006-01-02")), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	rows := []struct {
		label string
		value string
	}{
		{"Base compensation", b.Compensation.StringFixed(2)},
		{"Bonuses", "+" + b.BonusesTotal.StringFixed(2)},
	}
	if b.UnpaidDeduction.IsPositive() {
		rows = append(rows, struct {
			label string
			value string
		}{"Unpaid leave deduction", "-" + b.UnpaidDeduction.StringFixed(2)})
	}

	pdf.SetFont("Helvetica", "", 11)
	for _, row := range rows {
		pdf.CellFormat(100, 8, row.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 8, row.value, "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(100, 9, "Net salary", "1", 0, "L", true, 0, "")
	pdf.CellFormat(60, 9, b.NetTotal.StringFixed(2), "1", 1, "R", true, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Business days: %d    Unpaid days: %d    Worked days: %d",
		b.BusinessDays, b.UnpaidDays, b.BusinessDays-b.UnpaidDays), "", 1, "L", false, 0, "")

	pdf.SetY(-20)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 5, "This document is confidential and intended solely for the named employee.", "", 1, "C", false, 0, "")

	return pdf.OutputFileAndClose(path)
}
