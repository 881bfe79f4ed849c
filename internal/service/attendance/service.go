package attendance

import (
	"context"
	"time"

	"github.com/roplabs/payroll-backend-go/internal/domain/attendance"
)

type AttendanceServiceImpl struct {
	recordRepo attendance.Repository
}

func NewAttendanceService(recordRepo attendance.Repository) attendance.Service {
	return &AttendanceServiceImpl{recordRepo: recordRepo}
}

func (s *AttendanceServiceImpl) Create(ctx context.Context, req attendance.CreateRecordRequest) (attendance.Record, error) {
	date, err := req.Validate()
	if err != nil {
		return attendance.Record{}, err
	}
	return s.recordRepo.Create(ctx, attendance.Record{
		UserID:      req.UserID,
		Date:        date,
		Type:        attendance.Type(req.Type),
		HoursWorked: req.HoursWorked,
	})
}

func (s *AttendanceServiceImpl) Update(ctx context.Context, id string, req attendance.CreateRecordRequest) (attendance.Record, error) {
	date, err := req.Validate()
	if err != nil {
		return attendance.Record{}, err
	}

	current, err := s.recordRepo.GetByID(ctx, id)
	if err != nil {
		return attendance.Record{}, err
	}

	current.Date = date
	current.Type = attendance.Type(req.Type)
	current.HoursWorked = req.HoursWorked
	return s.recordRepo.Update(ctx, current)
}

func (s *AttendanceServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := s.recordRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.recordRepo.Delete(ctx, id)
}

func (s *AttendanceServiceImpl) ListByUserRange(ctx context.Context, userID string, from, to time.Time) ([]attendance.Record, error) {
	return s.recordRepo.ListByUserRange(ctx, userID, from, to)
}

func (s *AttendanceServiceImpl) Summary(ctx context.Context, userID string, from, to time.Time) (attendance.MonthlySummary, error) {
	return s.recordRepo.SummaryForRange(ctx, userID, from, to)
}
