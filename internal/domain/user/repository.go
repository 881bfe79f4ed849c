package user

import "context"

// Repository defines the interface for user data access
type Repository interface {
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	Update(ctx context.Context, u User) (User, error)
	SetActive(ctx context.Context, id string, active bool) error
	List(ctx context.Context) ([]User, error)

	// ListDirectReports returns the users whose manager field points at
	// managerID, ordered by (last name, first name).
	ListDirectReports(ctx context.Context, managerID string, activeOnly bool) ([]User, error)
}
