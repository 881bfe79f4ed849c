package attendance

import (
	"context"
	"time"
)

// Service manages attendance records and monthly aggregates
type Service interface {
	Create(ctx context.Context, req CreateRecordRequest) (Record, error)
	Update(ctx context.Context, id string, req CreateRecordRequest) (Record, error)
	Delete(ctx context.Context, id string) error
	ListByUserRange(ctx context.Context, userID string, from, to time.Time) ([]Record, error)
	Summary(ctx context.Context, userID string, from, to time.Time) (MonthlySummary, error)
}
