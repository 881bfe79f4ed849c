package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/roplabs/payroll-backend-go/internal/domain/payroll"
	"github.com/roplabs/payroll-backend-go/internal/handler/http/middleware"
	"github.com/roplabs/payroll-backend-go/internal/handler/http/response"
)

type PeriodHandler struct {
	periodService payroll.PeriodService
}

func NewPeriodHandler(periodService payroll.PeriodService) *PeriodHandler {
	return &PeriodHandler{periodService: periodService}
}

func (h *PeriodHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreatePeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	created, err := h.periodService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Payroll period created", payroll.ToPeriodResponse(created))
}

func (h *PeriodHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.periodService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, payroll.ToPeriodResponse(p))
}

func (h *PeriodHandler) List(w http.ResponseWriter, r *http.Request) {
	periods, err := h.periodService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	out := make([]payroll.PeriodResponse, 0, len(periods))
	for _, p := range periods {
		out = append(out, payroll.ToPeriodResponse(p))
	}
	response.Success(w, out)
}

func (h *PeriodHandler) Lock(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	locked, err := h.periodService.Lock(r.Context(), chi.URLParam(r, "id"), actor.ID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Payroll period locked", payroll.ToPeriodResponse(locked))
}

func (h *PeriodHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	unlocked, err := h.periodService.Unlock(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Payroll period unlocked", payroll.ToPeriodResponse(unlocked))
}
