package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/roplabs/payroll-backend-go/internal/domain/payroll"
	"github.com/roplabs/payroll-backend-go/internal/domain/report"
	"github.com/roplabs/payroll-backend-go/internal/domain/user"
	"github.com/roplabs/payroll-backend-go/internal/handler/http/middleware"
	"github.com/roplabs/payroll-backend-go/internal/handler/http/response"
)

type ReportHandler struct {
	csvGen        report.CSVGenerator
	pdfGen        report.PDFGenerator
	mailer        report.Mailer
	reportRepo    report.Repository
	emailLogRepo  report.EmailLogRepository
	periodService payroll.PeriodService
	accessPolicy  user.AccessPolicy
	userRepo      user.Repository
}

func NewReportHandler(
	csvGen report.CSVGenerator,
	pdfGen report.PDFGenerator,
	mailer report.Mailer,
	reportRepo report.Repository,
	emailLogRepo report.EmailLogRepository,
	periodService payroll.PeriodService,
	accessPolicy user.AccessPolicy,
	userRepo user.Repository,
) *ReportHandler {
	return &ReportHandler{
		csvGen:        csvGen,
		pdfGen:        pdfGen,
		mailer:        mailer,
		reportRepo:    reportRepo,
		emailLogRepo:  emailLogRepo,
		periodService: periodService,
		accessPolicy:  accessPolicy,
		userRepo:      userRepo,
	}
}

type csvReportRequest struct {
	PeriodID        string `json:"period_id"`
	IncludeIndirect bool   `json:"include_indirect"`
}

// CreateCSV generates the manager's team report without sending it.
func (h *ReportHandler) CreateCSV(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	var req csvReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	period, err := h.periodService.GetByID(r.Context(), req.PeriodID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	path, err := h.csvGen.GenerateCSVForTeam(r.Context(), actor, period, req.IncludeIndirect)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Report generated", map[string]string{"file_path": path})
}

// SendCSV generates, emails and archives the manager's team report. The
// delivery may be queued depending on server configuration.
func (h *ReportHandler) SendCSV(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	var req csvReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	period, err := h.periodService.GetByID(r.Context(), req.PeriodID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.mailer.QueueCSVToManager(r.Context(), actor, period, req.IncludeIndirect)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if result.Queued {
		response.Accepted(w, "Report delivery queued", result)
		return
	}
	response.SuccessWithMessage(w, "Report sent", result)
}

type pdfReportRequest struct {
	PeriodID string `json:"period_id"`
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

// CreatePDF generates one protected payslip, or one per direct report when
// user_id is empty.
func (h *ReportHandler) CreatePDF(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	var req pdfReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	period, err := h.periodService.GetByID(r.Context(), req.PeriodID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if req.UserID != "" {
		target, ok := h.requireAccess(w, r, actor, req.UserID)
		if !ok {
			return
		}
		path, err := h.pdfGen.GeneratePDF(r.Context(), target, period, req.Password)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.Created(w, "Payslip generated", map[string]string{"file_path": path})
		return
	}

	team, err := h.userRepo.ListDirectReports(r.Context(), actor.ID, true)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	results, err := h.pdfGen.GeneratePDFsForTeam(r.Context(), actor, period, team)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	type row struct {
		UserID   string `json:"user_id"`
		FilePath string `json:"file_path,omitempty"`
		Error    string `json:"error,omitempty"`
	}
	out := make([]row, 0, len(results))
	for _, res := range results {
		item := row{UserID: res.User.ID, FilePath: res.FilePath}
		if res.Err != nil {
			item.Error = res.Err.Error()
		}
		out = append(out, item)
	}
	response.Created(w, "Payslips generated", out)
}

type sendPDFRequest struct {
	PeriodID string `json:"period_id"`
	ReportID string `json:"report_id"`
	UserID   string `json:"user_id"`
	ToEmail  string `json:"to_email"`
	Subject  string `json:"subject"`
}

// SendPDF emails a protected payslip selected by report_id or user_id.
func (h *ReportHandler) SendPDF(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	var req sendPDFRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	period, err := h.periodService.GetByID(r.Context(), req.PeriodID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	opts := report.PayslipSendOptions{ToEmail: req.ToEmail, Subject: req.Subject}
	switch {
	case req.ReportID != "":
		rec, err := h.reportRepo.GetByID(r.Context(), req.ReportID)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		opts.Report = &rec
	case req.UserID != "":
		target, err := h.userRepo.GetByID(r.Context(), req.UserID)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		opts.User = &target
	default:
		response.BadRequest(w, "report_id or user_id is required", nil)
		return
	}

	result, err := h.mailer.SendPayslipForManager(r.Context(), actor, period, opts)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Payslip sent", result)
}

func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reportRepo.List(r.Context(), r.URL.Query().Get("period_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	out := make([]report.ReportResponse, 0, len(reports))
	for _, rec := range reports {
		out = append(out, report.ToReportResponse(rec))
	}
	response.Success(w, out)
}

func (h *ReportHandler) EmailLogs(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "id")

	if _, err := h.reportRepo.GetByID(r.Context(), reportID); err != nil {
		response.HandleError(w, err)
		return
	}

	logs, err := h.emailLogRepo.ListByReport(r.Context(), reportID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	out := make([]report.EmailLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, report.ToEmailLogResponse(l))
	}
	response.Success(w, out)
}

func (h *ReportHandler) requireAccess(w http.ResponseWriter, r *http.Request, actor user.User, userID string) (user.User, bool) {
	target, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return user.User{}, false
	}
	ok, err := h.accessPolicy.CanManagerAccess(r.Context(), actor, target)
	if err != nil {
		response.HandleError(w, err)
		return user.User{}, false
	}
	if !ok {
		response.HandleError(w, user.ErrAccessDenied)
		return user.User{}, false
	}
	return target, true
}
