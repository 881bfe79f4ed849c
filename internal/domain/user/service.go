package user

import "context"

// Service defines the interface for user management and team resolution
type Service interface {
	Create(ctx context.Context, actorID string, req CreateUserRequest) (UserResponse, error)
	GetByID(ctx context.Context, id string) (UserResponse, error)
	Update(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error)
	Deactivate(ctx context.Context, id string) error
	List(ctx context.Context) ([]UserResponse, error)

	// ResolveTeam expands a manager's subordinates: direct active reports, or
	// all transitive active reports when includeIndirect is set. Returns an
	// empty slice when the user is not a manager.
	ResolveTeam(ctx context.Context, manager User, includeIndirect bool) ([]User, error)
}
