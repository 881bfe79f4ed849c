package user

import "context"

// AccessPolicy is the single authorization check for manager-scoped
// resources: every handler that exposes employee data consults it instead of
// carrying its own role logic.
type AccessPolicy interface {
	// CanManagerAccess reports whether actor may act on target's data.
	// Users always have access to themselves; managers have access to their
	// transitive subordinates.
	CanManagerAccess(ctx context.Context, actor, target User) (bool, error)
}
