package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/roplabs/payroll-backend-go/internal/domain/attendance"
	"github.com/roplabs/payroll-backend-go/internal/domain/user"
	"github.com/roplabs/payroll-backend-go/internal/handler/http/middleware"
	"github.com/roplabs/payroll-backend-go/internal/handler/http/response"
)

type AttendanceHandler struct {
	attendanceService attendance.Service
	accessPolicy      user.AccessPolicy
	userRepo          user.Repository
}

func NewAttendanceHandler(attendanceService attendance.Service, accessPolicy user.AccessPolicy, userRepo user.Repository) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceService: attendanceService,
		accessPolicy:      accessPolicy,
		userRepo:          userRepo,
	}
}

func (h *AttendanceHandler) requireAccess(w http.ResponseWriter, r *http.Request, userID string) bool {
	actor, _ := middleware.UserFromContext(r.Context())

	target, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return false
	}

	ok, err := h.accessPolicy.CanManagerAccess(r.Context(), actor, target)
	if err != nil {
		response.HandleError(w, err)
		return false
	}
	if !ok {
		response.HandleError(w, user.ErrAccessDenied)
		return false
	}
	return true
}

func (h *AttendanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req attendance.CreateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if !h.requireAccess(w, r, req.UserID) {
		return
	}

	rec, err := h.attendanceService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Attendance record created", attendance.ToRecordResponse(rec))
}

func (h *AttendanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req attendance.CreateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	rec, err := h.attendanceService.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance record updated", attendance.ToRecordResponse(rec))
}

func (h *AttendanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.attendanceService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance record deleted", nil)
}

// parseRange reads from/to query params as YYYY-MM-DD dates.
func parseRange(r *http.Request) (time.Time, time.Time, bool) {
	from, err := time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func (h *AttendanceHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	from, to, ok := parseRange(r)
	if userID == "" || !ok {
		response.BadRequest(w, "user_id, from and to are required", nil)
		return
	}

	if !h.requireAccess(w, r, userID) {
		return
	}

	records, err := h.attendanceService.ListByUserRange(r.Context(), userID, from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	out := make([]attendance.RecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, attendance.ToRecordResponse(rec))
	}
	response.Success(w, out)
}

func (h *AttendanceHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	from, to, ok := parseRange(r)
	if userID == "" || !ok {
		response.BadRequest(w, "user_id, from and to are required", nil)
		return
	}

	if !h.requireAccess(w, r, userID) {
		return
	}

	summary, err := h.attendanceService.Summary(r.Context(), userID, from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, attendance.ToSummaryResponse(summary))
}
