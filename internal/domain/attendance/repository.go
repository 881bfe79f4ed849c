package attendance

import (
	"context"
	"time"
)

// Repository defines the interface for attendance data access
type Repository interface {
	Create(ctx context.Context, r Record) (Record, error)
	Update(ctx context.Context, r Record) (Record, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Record, error)
	ListByUserRange(ctx context.Context, userID string, from, to time.Time) ([]Record, error)

	// CountByTypeInRange counts one user's records of a given type with
	// date in [from, to].
	CountByTypeInRange(ctx context.Context, userID string, typ Type, from, to time.Time) (int, error)

	// CountByTypeInMonth counts one user's records of a given type falling
	// in the calendar month, regardless of period boundaries.
	CountByTypeInMonth(ctx context.Context, userID string, typ Type, year, month int) (int, error)

	// SummaryForRange aggregates per-type day counts and worked hours.
	SummaryForRange(ctx context.Context, userID string, from, to time.Time) (MonthlySummary, error)
}
