package user

import "time"

// User is an employee in the manager hierarchy. A user with IsManager set and
// no manager of their own is a top manager, the root of the tree.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	CNP          string
	Email        string
	PasswordHash string
	IsManager    bool
	ManagerID    *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u User) IsTopManager() bool {
	return u.IsManager && u.ManagerID == nil
}

// CanCreateReports reports whether the user may trigger report generation.
func (u User) CanCreateReports() bool {
	return u.IsActive && u.IsManager
}
