package user

import "context"

// Access is the authorization state consulted on every protected request.
type Access struct {
	Role   Role
	Active bool
}

// RoleLookup resolves a user's current role and active flag from the store
// instead of trusting token claims, so role changes and deactivations take
// effect within the cache TTL rather than at token expiry.
type RoleLookup interface {
	Lookup(ctx context.Context, userID string) (Access, error)

	// Invalidate drops the cached entry so the next Lookup hits the store.
	Invalidate(userID string)
}

// UserService covers the profile, the manager directory and the owner's user
// administration.
type UserService interface {
	Profile(ctx context.Context, userID string) (ProfileResponse, error)

	// UpdateProfile lets the caller change their own in-game alias.
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (ProfileResponse, error)

	// Directory lists active staff for manager-facing filters.
	Directory(ctx context.Context) ([]DirectoryRow, error)

	// ListUsers returns every account for the owner's administration view.
	ListUsers(ctx context.Context) ([]AdminUserRow, error)

	// UpdateUser applies role/active/gameName edits. Demoting or deactivating
	// the last remaining owner fails with ErrLastOwner.
	UpdateUser(ctx context.Context, targetID string, req UpdateUserRequest) (AdminUserRow, error)
}
