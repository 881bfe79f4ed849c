package report

import "time"

// ReportType enum
type ReportType string

const (
	// TypeManagerCSV is an aggregated CSV over a manager's team.
	TypeManagerCSV ReportType = "MANAGER_CSV"
	// TypeUserPDF is a password-protected payslip for one employee.
	TypeUserPDF ReportType = "USER_PDF"
)

// GeneratedReport tracks one produced output file. MANAGER_CSV rows carry a
// manager and no user; USER_PDF rows carry a user and no manager. At most one
// active (not yet archived) row exists per (type, period, manager|user).
// SentAt and ArchivedAt are each set once; a report is sent before it is
// archived, and archiving is terminal.
type GeneratedReport struct {
	ID         string
	Type       ReportType
	PeriodID   string
	ManagerID  *string
	UserID     *string
	FilePath   string
	FileFormat string
	SentAt     *time.Time
	ArchivedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (r GeneratedReport) IsSent() bool {
	return r.SentAt != nil
}

func (r GeneratedReport) IsArchived() bool {
	return r.ArchivedAt != nil
}

// EmailStatus enum
type EmailStatus string

const (
	EmailStatusPending EmailStatus = "PENDING"
	EmailStatusSent    EmailStatus = "SENT"
	EmailStatusFailed  EmailStatus = "FAILED"
)

// EmailLog records the outcome of one send attempt for a report.
type EmailLog struct {
	ID           string
	ReportID     string
	ToEmail      string
	Subject      string
	Status       EmailStatus
	ErrorMessage string
	Attempts     int
	SentAt       *time.Time
	CreatedAt    time.Time
}
