package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/roplabs/payroll-backend-go/internal/domain/payroll"
	"github.com/roplabs/payroll-backend-go/internal/domain/user"
	"github.com/roplabs/payroll-backend-go/internal/handler/http/middleware"
	"github.com/roplabs/payroll-backend-go/internal/handler/http/response"
)

type PayrollHandler struct {
	compensationService payroll.CompensationService
	bonusService        payroll.BonusService
	salaryService       payroll.SalaryService
	periodService       payroll.PeriodService
	payslipRepo         payroll.PayslipRepository
	accessPolicy        user.AccessPolicy
	userRepo            user.Repository
}

func NewPayrollHandler(
	compensationService payroll.CompensationService,
	bonusService payroll.BonusService,
	salaryService payroll.SalaryService,
	periodService payroll.PeriodService,
	payslipRepo payroll.PayslipRepository,
	accessPolicy user.AccessPolicy,
	userRepo user.Repository,
) *PayrollHandler {
	return &PayrollHandler{
		compensationService: compensationService,
		bonusService:        bonusService,
		salaryService:       salaryService,
		periodService:       periodService,
		payslipRepo:         payslipRepo,
		accessPolicy:        accessPolicy,
		userRepo:            userRepo,
	}
}

// requireAccess loads the target user and checks the actor may act on them.
func (h *PayrollHandler) requireAccess(w http.ResponseWriter, r *http.Request, userID string) (user.User, bool) {
	actor, _ := middleware.UserFromContext(r.Context())

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

func (h *PayrollHandler) UpsertCompensation(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpsertCompensationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if _, ok := h.requireAccess(w, r, req.UserID); !ok {
		return
	}

	c, err := h.compensationService.Upsert(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Compensation saved", c)
}

func (h *PayrollHandler) GetCompensation(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if _, ok := h.requireAccess(w, r, userID); !ok {
		return
	}

	c, err := h.compensationService.GetByUserID(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, c)
}

func (h *PayrollHandler) DeleteCompensation(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if _, ok := h.requireAccess(w, r, userID); !ok {
		return
	}

	if err := h.compensationService.Delete(r.Context(), userID); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Compensation deleted", nil)
}

func (h *PayrollHandler) CreateBonus(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreateBonusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if _, ok := h.requireAccess(w, r, req.UserID); !ok {
		return
	}

	b, err := h.bonusService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Bonus created", b)
}

func (h *PayrollHandler) UpdateBonus(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreateBonusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	b, err := h.bonusService.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Bonus updated", b)
}

func (h *PayrollHandler) DeleteBonus(w http.ResponseWriter, r *http.Request) {
	if err := h.bonusService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Bonus deleted", nil)
}

func (h *PayrollHandler) ListBonuses(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	periodID := r.URL.Query().Get("period_id")
	if userID == "" || periodID == "" {
		response.BadRequest(w, "user_id and period_id are required", nil)
		return
	}

	if _, ok := h.requireAccess(w, r, userID); !ok {
		return
	}

	bonuses, err := h.bonusService.ListByUserPeriod(r.Context(), userID, periodID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, bonuses)
}

type generatePayslipRequest struct {
	UserID   string `json:"user_id"`
	PeriodID string `json:"period_id"`
}

func (h *PayrollHandler) GeneratePayslip(w http.ResponseWriter, r *http.Request) {
	var req generatePayslipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	target, ok := h.requireAccess(w, r, req.UserID)
	if !ok {
		return
	}

	period, err := h.periodService.GetByID(r.Context(), req.PeriodID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slip, err := h.salaryService.GeneratePayslip(r.Context(), target, period)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Payslip generated", payroll.ToPayslipResponse(slip))
}

// PreviewSalary calculates a breakdown without persisting anything.
func (h *PayrollHandler) PreviewSalary(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	periodID := r.URL.Query().Get("period_id")
	if userID == "" || periodID == "" {
		response.BadRequest(w, "user_id and period_id are required", nil)
		return
	}

	target, ok := h.requireAccess(w, r, userID)
	if !ok {
		return
	}

	period, err := h.periodService.GetByID(r.Context(), periodID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	breakdown, err := h.salaryService.Calculate(r.Context(), target, period)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, payroll.ToBreakdownResponse(breakdown))
}

func (h *PayrollHandler) GetPayslip(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	periodID := chi.URLParam(r, "periodID")

	if _, ok := h.requireAccess(w, r, userID); !ok {
		return
	}

	slip, err := h.payslipRepo.GetByUserPeriod(r.Context(), userID, periodID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, payroll.ToPayslipResponse(slip))
}

func (h *PayrollHandler) ListPayslips(w http.ResponseWriter, r *http.Request) {
	periodID := r.URL.Query().Get("period_id")
	if periodID == "" {
		response.BadRequest(w, "period_id is required", nil)
		return
	}

	slips, err := h.payslipRepo.ListByPeriod(r.Context(), periodID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	out := make([]payroll.PayslipResponse, 0, len(slips))
	for _, slip := range slips {
		out = append(out, payroll.ToPayslipResponse(slip))
	}
	response.Success(w, out)
}
