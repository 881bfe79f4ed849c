package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"log/slog"
	"text/template"
	"time"

	"github.com/roplabs/payroll-backend-go/internal/domain/payroll"
	"github.com/roplabs/payroll-backend-go/internal/domain/report"
	"github.com/roplabs/payroll-backend-go/internal/domain/user"
	"github.com/roplabs/payroll-backend-go/internal/pkg/email"
	"github.com/roplabs/payroll-backend-go/internal/pkg/media"
)

//go:embed templates/*.txt
var templateFS embed.FS

var bodyTemplates = template.Must(template.ParseFS(templateFS, "templates/*.txt"))

type bodyData struct {
	FullName    string
	PeriodLabel string
}

// MailerServiceImpl orchestrates generation, persistence, delivery and
// archiving of payroll reports. The report row is persisted before any send
// attempt, so a delivery failure leaves an unsent report behind instead of
// losing the file reference.
type MailerServiceImpl struct {
	csvGen       report.CSVGenerator
	pdfGen       report.PDFGenerator
	archiver     report.Archiver
	reportRepo   report.Repository
	emailLogRepo report.EmailLogRepository
	periodRepo   payroll.PeriodRepository
	userRepo     user.Repository
	accessPolicy user.AccessPolicy
	sender       email.Sender
	paths        media.Paths
	asyncEmail   bool
}

func NewMailerService(
	csvGen report.CSVGenerator,
	pdfGen report.PDFGenerator,
	archiver report.Archiver,
	reportRepo report.Repository,
	emailLogRepo report.EmailLogRepository,
	periodRepo payroll.PeriodRepository,
	userRepo user.Repository,
	accessPolicy user.AccessPolicy,
	sender email.Sender,
	paths media.Paths,
	asyncEmail bool,
) report.Mailer {
	return &MailerServiceImpl{
		csvGen:       csvGen,
		pdfGen:       pdfGen,
		archiver:     archiver,
		reportRepo:   reportRepo,
		emailLogRepo: emailLogRepo,
		periodRepo:   periodRepo,
		userRepo:     userRepo,
		accessPolicy: accessPolicy,
		sender:       sender,
		paths:        paths,
		asyncEmail:   asyncEmail,
	}
}

// SendCSVToManager generates the team salary report, records it, emails it to
// the manager and archives the file. Generation and delivery failures abort
// with an error; archiving failures are logged and swallowed because the
// report has already been delivered.
func (s *MailerServiceImpl) SendCSVToManager(ctx context.Context, manager user.User, period payroll.Period, includeIndirect bool) (report.SendResult, error) {
	path, err := s.csvGen.GenerateCSVForTeam(ctx, manager, period, includeIndirect)
	if err != nil {
		return report.SendResult{}, err
	}

	rec, err := s.reportRepo.UpsertActive(ctx, report.GeneratedReport{
		Type:       report.TypeManagerCSV,
		PeriodID:   period.ID,
		ManagerID:  &manager.ID,
		FilePath:   s.paths.Rel(path),
		FileFormat: "csv",
	})
	if err != nil {
		return report.SendResult{}, fmt.Errorf("failed to record generated report: %w", err)
	}

	if manager.Email == "" {
		return report.SendResult{}, fmt.Errorf("manager %s (%s): %w", manager.FullName(), manager.ID, report.ErrEmployeeEmailMissing)
	}

	subject := "Salary Report - " + period.Label()
	if err := s.deliver(ctx, rec, manager.Email, subject, "manager_report.txt", manager.FullName(), period, path); err != nil {
		return report.SendResult{}, err
	}

	s.archiveReport(ctx, rec, []string{path}, "csv_"+manager.ID, period)

	return report.SendResult{Recipient: manager.Email, Attachments: []string{path}}, nil
}

// QueueCSVToManager hands delivery to a background goroutine when async email
// is enabled, otherwise it delivers inline.
func (s *MailerServiceImpl) QueueCSVToManager(ctx context.Context, manager user.User, period payroll.Period, includeIndirect bool) (report.SendResult, error) {
	if !s.asyncEmail {
		return s.SendCSVToManager(ctx, manager, period, includeIndirect)
	}

	go func() {
		// Detached from the request context so an early HTTP response does
		// not cancel the send.
		bg, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := s.SendCSVToManager(bg, manager, period, includeIndirect); err != nil {
			slog.Error("Queued salary report delivery failed",
				"manager_id", manager.ID, "period", period.Label(), "error", err)
		}
	}()

	return report.SendResult{Recipient: manager.Email, Queued: true}, nil
}

// SendPayslipForManager delivers one employee's protected payslip on behalf of
// a manager. The target comes from opts: an existing USER_PDF report row or a
// raw user; the manager must have access to the target.
func (s *MailerServiceImpl) SendPayslipForManager(ctx context.Context, manager user.User, period payroll.Period, opts report.PayslipSendOptions) (report.SendResult, error) {
	target, existing, err := s.resolvePayslipTarget(ctx, opts)
	if err != nil {
		return report.SendResult{}, err
	}

	// The report row owns the period it was generated for; the argument is
	// only a fallback when sending for a raw user.
	if existing != nil && existing.PeriodID != "" && existing.PeriodID != period.ID {
		period, err = s.periodRepo.GetByID(ctx, existing.PeriodID)
		if err != nil {
			return report.SendResult{}, err
		}
	}

	ok, err := s.accessPolicy.CanManagerAccess(ctx, manager, target)
	if err != nil {
		return report.SendResult{}, err
	}
	if !ok {
		return report.SendResult{}, fmt.Errorf("manager %s, user %s: %w", manager.ID, target.ID, user.ErrAccessDenied)
	}

	toEmail := opts.ToEmail
	if toEmail == "" {
		toEmail = target.Email
	}
	if toEmail == "" {
		return report.SendResult{}, fmt.Errorf("user %s (%s): %w", target.FullName(), target.ID, report.ErrEmployeeEmailMissing)
	}

	rec, path, err := s.ensurePayslipFile(ctx, target, period, existing)
	if err != nil {
		return report.SendResult{}, err
	}

	subject := opts.Subject
	if subject == "" {
		subject = "Your Payslip for " + period.Label()
	}

	if err := s.deliver(ctx, rec, toEmail, subject, "payslip.txt", target.FullName(), period, path); err != nil {
		return report.SendResult{}, err
	}

	s.archiveReport(ctx, rec, []string{path}, fmt.Sprintf("pdf_%s_%s", manager.ID, target.ID), period)

	return report.SendResult{Recipient: toEmail, Attachments: []string{path}}, nil
}

func (s *MailerServiceImpl) resolvePayslipTarget(ctx context.Context, opts report.PayslipSendOptions) (user.User, *report.GeneratedReport, error) {
	if opts.Report != nil {
		if opts.Report.Type != report.TypeUserPDF || opts.Report.UserID == nil {
			return user.User{}, nil, fmt.Errorf("report %s has type %s: %w", opts.Report.ID, opts.Report.Type, report.ErrReportTypeMismatch)
		}
		target, err := s.userRepo.GetByID(ctx, *opts.Report.UserID)
		if err != nil {
			return user.User{}, nil, err
		}
		return target, opts.Report, nil
	}
	if opts.User != nil {
		return *opts.User, nil, nil
	}
	return user.User{}, nil, fmt.Errorf("payslip target missing: %w", user.ErrUserNotFound)
}

// ensurePayslipFile reuses the existing report's file when it is still on
// disk, otherwise it generates a fresh protected payslip and records it.
func (s *MailerServiceImpl) ensurePayslipFile(ctx context.Context, target user.User, period payroll.Period, existing *report.GeneratedReport) (report.GeneratedReport, string, error) {
	if existing != nil {
		path := s.paths.Abs(existing.FilePath)
		if media.Exists(path) {
			return *existing, path, nil
		}
		slog.Warn("Payslip file missing on disk, regenerating", "report_id", existing.ID, "path", path)
	}

	path, err := s.pdfGen.GeneratePDF(ctx, target, period, "")
	if err != nil {
		return report.GeneratedReport{}, "", err
	}

	if existing != nil {
		if err := s.reportRepo.UpdateFile(ctx, existing.ID, s.paths.Rel(path), "pdf"); err != nil {
			return report.GeneratedReport{}, "", fmt.Errorf("failed to update report file: %w", err)
		}
		rec := *existing
		rec.FilePath = s.paths.Rel(path)
		return rec, path, nil
	}

	rec, err := s.reportRepo.UpsertActive(ctx, report.GeneratedReport{
		Type:       report.TypeUserPDF,
		PeriodID:   period.ID,
		UserID:     &target.ID,
		FilePath:   s.paths.Rel(path),
		FileFormat: "pdf",
	})
	if err != nil {
		return report.GeneratedReport{}, "", fmt.Errorf("failed to record generated report: %w", err)
	}
	return rec, path, nil
}

// deliver sends one email with the report attached, keeping the email log and
// the report's sent marker in step with the outcome.
func (s *MailerServiceImpl) deliver(ctx context.Context, rec report.GeneratedReport, toEmail, subject, templateName, fullName string, period payroll.Period, attachment string) error {
	body := renderBody(templateName, fullName, period.Label())

	logEntry, err := s.emailLogRepo.Create(ctx, report.EmailLog{
		ReportID: rec.ID,
		ToEmail:  toEmail,
		Subject:  subject,
		Status:   report.EmailStatusPending,
		Attempts: 1,
	})
	if err != nil {
		slog.Warn("Failed to create email log entry", "report_id", rec.ID, "error", err)
	}

	sendErr := s.sender.Send(ctx, email.Message{
		To:          toEmail,
		Subject:     subject,
		Body:        body,
		Attachments: []string{attachment},
	})

	now := time.Now()
	if sendErr != nil {
		if logEntry.ID != "" {
			if err := s.emailLogRepo.MarkFailed(ctx, logEntry.ID, sendErr.Error()); err != nil {
				slog.Warn("Failed to mark email log as failed", "log_id", logEntry.ID, "error", err)
			}
		}
		return fmt.Errorf("failed to send %s to %s: %w", subject, toEmail, sendErr)
	}

	if logEntry.ID != "" {
		if err := s.emailLogRepo.MarkSent(ctx, logEntry.ID, now); err != nil {
			slog.Warn("Failed to mark email log as sent", "log_id", logEntry.ID, "error", err)
		}
	}
	if err := s.reportRepo.MarkSent(ctx, rec.ID, now); err != nil {
		slog.Warn("Failed to mark report as sent", "report_id", rec.ID, "error", err)
	}
	return nil
}

// archiveReport bundles delivered files and marks the report archived. Every
// failure here is logged and swallowed; delivery already succeeded.
func (s *MailerServiceImpl) archiveReport(ctx context.Context, rec report.GeneratedReport, files []string, label string, period payroll.Period) {
	result, err := s.archiver.ArchiveFiles(ctx, files, label, period)
	if err != nil {
		slog.Warn("Failed to archive report files", "report_id", rec.ID, "label", label, "error", err)
		return
	}
	if err := s.reportRepo.MarkArchived(ctx, rec.ID, time.Now()); err != nil {
		slog.Warn("Failed to mark report as archived", "report_id", rec.ID, "error", err)
		return
	}
	slog.Info("Report archived", "report_id", rec.ID, "archive", result.ArchivePath, "files", result.FilesCount)
}

// renderBody never fails the send: when the template cannot be rendered it
// falls back to a literal body with the same wording.
func renderBody(templateName, fullName, periodLabel string) string {
	var buf bytes.Buffer
	err := bodyTemplates.ExecuteTemplate(&buf, templateName, bodyData{FullName: fullName, PeriodLabel: periodLabel})
	if err != nil {
		slog.Warn("Falling back to literal email body", "template", templateName, "error", err)
		kind := "salary report"
		if templateName == "payslip.txt" {
			kind = "payslip"
		}
		return fmt.Sprintf("Dear %s,\n\nYour %s for %s is attached.\n", fullName, kind, periodLabel)
	}
	return buf.String()
}
