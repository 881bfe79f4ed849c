package employee

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/roplabs/payroll-backend-go/internal/domain/user"
)

type EmployeeServiceImpl struct {
	userRepo user.Repository
}

func NewEmployeeService(userRepo user.Repository) *EmployeeServiceImpl {
	return &EmployeeServiceImpl{userRepo: userRepo}
}

var _ user.Service = (*EmployeeServiceImpl)(nil)
var _ user.AccessPolicy = (*EmployeeServiceImpl)(nil)

// Create registers a new employee. The acting user becomes its manager,
// except when seeding a top manager (actorID empty and IsManager set).
func (s *EmployeeServiceImpl) Create(ctx context.Context, actorID string, req user.CreateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	u := user.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		CNP:          req.CNP,
		Email:        req.Email,
		PasswordHash: string(hash),
		IsManager:    req.IsManager,
		IsActive:     true,
	}
	if actorID != "" {
		u.ManagerID = &actorID
	}

	created, err := s.userRepo.Create(ctx, u)
	if err != nil {
		return user.UserResponse{}, err
	}

	slog.Info("User created", "user_id", created.ID, "manager_id", actorID, "is_manager", created.IsManager)
	return user.ToResponse(created), nil
}

func (s *EmployeeServiceImpl) GetByID(ctx context.Context, id string) (user.UserResponse, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.ToResponse(u), nil
}

func (s *EmployeeServiceImpl) Update(ctx context.Context, id string, req user.UpdateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	current, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}

	if req.FirstName != nil {
		current.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		current.LastName = *req.LastName
	}
	if req.Email != nil {
		current.Email = *req.Email
	}
	if req.IsManager != nil {
		current.IsManager = *req.IsManager
	}
	if req.ManagerID != nil {
		if *req.ManagerID == id {
			return user.UserResponse{}, user.ErrSelfManager
		}
		current.ManagerID = req.ManagerID
	}
	if req.IsActive != nil {
		current.IsActive = *req.IsActive
	}

	updated, err := s.userRepo.Update(ctx, current)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.ToResponse(updated), nil
}

func (s *EmployeeServiceImpl) Deactivate(ctx context.Context, id string) error {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.userRepo.SetActive(ctx, id, false)
}

func (s *EmployeeServiceImpl) List(ctx context.Context) ([]user.UserResponse, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, user.ToResponse(u))
	}
	return responses, nil
}

// ResolveTeam expands a manager's subordinates. Indirect expansion runs an
// iterative breadth-first walk over direct reports with a visited set, so an
// accidental cycle in manager links cannot loop forever.
func (s *EmployeeServiceImpl) ResolveTeam(ctx context.Context, manager user.User, includeIndirect bool) ([]user.User, error) {
	if !manager.IsManager {
		return []user.User{}, nil
	}

	direct, err := s.userRepo.ListDirectReports(ctx, manager.ID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list direct reports for %s: %w", manager.ID, err)
	}
	if !includeIndirect {
		return direct, nil
	}

	visited := make(map[string]bool, len(direct))
	team := make([]user.User, 0, len(direct))
	queue := append([]user.User(nil), direct...)

	for len(queue) > 0 {
		emp := queue[0]
		queue = queue[1:]
		if visited[emp.ID] {
			continue
		}
		visited[emp.ID] = true
		team = append(team, emp)

		reports, err := s.userRepo.ListDirectReports(ctx, emp.ID, true)
		if err != nil {
			return nil, fmt.Errorf("failed to list reports for %s: %w", emp.ID, err)
		}
		queue = append(queue, reports...)
	}

	return team, nil
}

// CanManagerAccess walks the target's manager chain upward looking for the
// actor. Users always have access to themselves.
func (s *EmployeeServiceImpl) CanManagerAccess(ctx context.Context, actor, target user.User) (bool, error) {
	if actor.ID == target.ID {
		return true, nil
	}
	if !actor.IsManager || !actor.IsActive {
		return false, nil
	}

	visited := make(map[string]bool)
	managerID := target.ManagerID
	for managerID != nil {
		if *managerID == actor.ID {
			return true, nil
		}
		if visited[*managerID] {
			return false, nil
		}
		visited[*managerID] = true

		parent, err := s.userRepo.GetByID(ctx, *managerID)
		if err != nil {
			return false, fmt.Errorf("failed to resolve manager chain at %s: %w", *managerID, err)
		}
		managerID = parent.ManagerID
	}
	return false, nil
}
