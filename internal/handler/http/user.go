package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/roplabs/payroll-backend-go/internal/domain/user"
	"github.com/roplabs/payroll-backend-go/internal/handler/http/middleware"
	"github.com/roplabs/payroll-backend-go/internal/handler/http/response"
)

type UserHandler struct {
	employeeService user.Service
	accessPolicy    user.AccessPolicy
	userRepo        user.Repository
}

func NewUserHandler(employeeService user.Service, accessPolicy user.AccessPolicy, userRepo user.Repository) *UserHandler {
	return &UserHandler{
		employeeService: employeeService,
		accessPolicy:    accessPolicy,
		userRepo:        userRepo,
	}
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	var req user.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	created, err := h.employeeService.Create(r.Context(), actor.ID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "User created", created)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	target, err := h.userRepo.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	ok, err := h.accessPolicy.CanManagerAccess(r.Context(), actor, target)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !ok {
		response.HandleError(w, user.ErrAccessDenied)
		return
	}

	response.Success(w, user.ToResponse(target))
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req user.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	updated, err := h.employeeService.Update(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "User updated", updated)
}

func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.employeeService.Deactivate(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "User deactivated", nil)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.employeeService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, users)
}

// Team lists the members under a manager. ?indirect=true expands the whole
// subtree instead of direct reports only.
func (h *UserHandler) Team(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	manager, err := h.userRepo.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	ok, err := h.accessPolicy.CanManagerAccess(r.Context(), actor, manager)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !ok {
		response.HandleError(w, user.ErrAccessDenied)
		return
	}

	includeIndirect, _ := strconv.ParseBool(r.URL.Query().Get("indirect"))
	team, err := h.employeeService.ResolveTeam(r.Context(), manager, includeIndirect)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	members := make([]user.UserResponse, 0, len(team))
	for _, member := range team {
		members = append(members, user.ToResponse(member))
	}
	response.Success(w, members)
}
