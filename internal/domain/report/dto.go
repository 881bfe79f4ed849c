package report

import "time"

type ReportResponse struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	PeriodID   string  `json:"period_id"`
	ManagerID  *string `json:"manager_id,omitempty"`
	UserID     *string `json:"user_id,omitempty"`
	FilePath   string  `json:"file_path"`
	FileFormat string  `json:"file_format"`
	SentAt     *string `json:"sent_at,omitempty"`
	ArchivedAt *string `json:"archived_at,omitempty"`
}

func ToReportResponse(r GeneratedReport) ReportResponse {
	resp := ReportResponse{
		ID:         r.ID,
		Type:       string(r.Type),
		PeriodID:   r.PeriodID,
		ManagerID:  r.ManagerID,
		UserID:     r.UserID,
		FilePath:   r.FilePath,
		FileFormat: r.FileFormat,
	}
	if r.SentAt != nil {
		s := r.SentAt.Format(time.RFC3339)
		resp.SentAt = &s
	}
	if r.ArchivedAt != nil {
		s := r.ArchivedAt.Format(time.RFC3339)
		resp.ArchivedAt = &s
	}
	return resp
}

type EmailLogResponse struct {
	ID           string  `json:"id"`
	ReportID     string  `json:"report_id"`
	ToEmail      string  `json:"to_email"`
	Subject      string  `json:"subject"`
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message,omitempty"`
	Attempts     int     `json:"attempts"`
	SentAt       *string `json:"sent_at,omitempty"`
}

func ToEmailLogResponse(l EmailLog) EmailLogResponse {
	resp := EmailLogResponse{
		ID:           l.ID,
		ReportID:     l.ReportID,
		ToEmail:      l.ToEmail,
		Subject:      l.Subject,
		Status:       string(l.Status),
		ErrorMessage: l.ErrorMessage,
		Attempts:     l.Attempts,
	}
	if l.SentAt != nil {
		s := l.SentAt.Format(time.RFC3339)
		resp.SentAt = &s
	}
	return resp
}
