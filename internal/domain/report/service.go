package report

import (
	"context"

	"github.com/roplabs/payroll-backend-go/internal/domain/payroll"
	"github.com/roplabs/payroll-backend-go/internal/domain/user"
)

// CSVGenerator builds aggregated per-manager salary reports
type CSVGenerator interface {
	// GenerateCSV writes the report to the CSV media directory and returns
	// its path. A nil employees slice defaults to the manager's direct
	// active reports ordered by (last name, first name).
	GenerateCSV(ctx context.Context, manager user.User, period payroll.Period, employees []user.User) (string, error)

	// GenerateCSVForTeam derives the employee set from the manager's direct
	// or transitive subordinates.
	GenerateCSVForTeam(ctx context.Context, manager user.User, period payroll.Period, includeIndirect bool) (string, error)

	// GenerateCSVContent produces the same rows as GenerateCSV but returns
	// the content in memory instead of writing a file.
	GenerateCSVContent(ctx context.Context, manager user.User, period payroll.Period, employees []user.User) (string, error)
}

// PDFResult is one row of a team-wide PDF run. Exactly one of FilePath or
// Err is set.
type PDFResult struct {
	User     user.User
	FilePath string
	Err      error
}

// PDFGenerator builds password-protected payslip PDFs
type PDFGenerator interface {
	// GeneratePDF renders and password-protects a payslip. An empty
	// password defaults to the employee's CNP.
	GeneratePDF(ctx context.Context, u user.User, period payroll.Period, password string) (string, error)

	GeneratePDFsForTeam(ctx context.Context, manager user.User, period payroll.Period, employees []user.User) ([]PDFResult, error)
}

// ArchiveResult reports where an archive landed and how many files it holds.
type ArchiveResult struct {
	ArchivePath string
	FilesCount  int
}

// Archiver bundles generated files into dated zip archives
type Archiver interface {
	// ArchiveFiles zips the files that exist into
	// <archivesRoot>/<period label>/<slug(label)>-<timestamp>.zip, flat.
	ArchiveFiles(ctx context.Context, files []string, label string, period payroll.Period) (ArchiveResult, error)
}

// SendResult describes the outcome of a distribution operation. Queued means
// the work was handed to a background task and no delivery status is known.
type SendResult struct {
	Recipient   string
	Attachments []string
	Queued      bool
}

// PayslipSendOptions selects the payslip target: either an existing USER_PDF
// report or a raw user. ToEmail and Subject override the defaults.
type PayslipSendOptions struct {
	Report  *GeneratedReport
	User    *user.User
	ToEmail string
	Subject string
}

// Mailer orchestrates generate, persist, send, archive for payroll reports
type Mailer interface {
	SendCSVToManager(ctx context.Context, manager user.User, period payroll.Period, includeIndirect bool) (SendResult, error)
	QueueCSVToManager(ctx context.Context, manager user.User, period payroll.Period, includeIndirect bool) (SendResult, error)
	SendPayslipForManager(ctx context.Context, manager user.User, period payroll.Period, opts PayslipSendOptions) (SendResult, error)
}
