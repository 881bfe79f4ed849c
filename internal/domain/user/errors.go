package user

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already registered")
	ErrCNPExists    = errors.New("CNP already registered")
	ErrSelfManager  = errors.New("user cannot be their own manager")
	ErrNotManager   = errors.New("user is not a manager")
	ErrUserInactive = errors.New("user is inactive")
	ErrAccessDenied = errors.New("manager has no access to this user")
)
