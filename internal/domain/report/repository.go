package report

import (
	"context"
	"time"
)

// Repository defines the interface for generated report data access
type Repository interface {
	// UpsertActive inserts or updates the single active (not archived) row
	// for the report's (type, period, manager|user) key, replacing the file
	// reference. Returns the persisted row.
	UpsertActive(ctx context.Context, r GeneratedReport) (GeneratedReport, error)

	GetByID(ctx context.Context, id string) (GeneratedReport, error)
	List(ctx context.Context, periodID string) ([]GeneratedReport, error)
	MarkSent(ctx context.Context, id string, at time.Time) error
	MarkArchived(ctx context.Context, id string, at time.Time) error
	UpdateFile(ctx context.Context, id, filePath, fileFormat string) error
}

// EmailLogRepository defines the interface for email log data access
type EmailLogRepository interface {
	Create(ctx context.Context, l EmailLog) (EmailLog, error)
	MarkSent(ctx context.Context, id string, at time.Time) error
	MarkFailed(ctx context.Context, id string, errorMessage string) error
	ListByReport(ctx context.Context, reportID string) ([]EmailLog, error)
}
