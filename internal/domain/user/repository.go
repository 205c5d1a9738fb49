package user

import (
	"context"
	"time"
)

// UserRepository defines data access methods for user records.
type UserRepository interface {
	// Create inserts a new user and returns it with generated fields.
	Create(ctx context.Context, u User) (User, error)

	GetByID(ctx context.Context, id string) (User, error)

	// GetByDiscordID resolves a user from the external identity provider id.
	GetByDiscordID(ctx context.Context, discordID string) (User, error)

	// List returns all users ordered by creation time.
	List(ctx context.Context) ([]User, error)

	// ListActiveStaff returns active users excluding VISITANTE, ordered by name.
	ListActiveStaff(ctx context.Context) ([]User, error)

	// ListClockedIn returns active staff with an open shift started at or
	// before the given bound.
	ListClockedIn(ctx context.Context, startedBefore time.Time) ([]User, error)

	// Update persists role/active/gameName changes.
	Update(ctx context.Context, u User) error

	// CountOwnersExcept counts DUENO users other than the given id.
	// Used for last-owner protection.
	CountOwnersExcept(ctx context.Context, id string) (int64, error)

	// OwnerExists reports whether any DUENO user exists. Consulted inside
	// the signup transaction for the bootstrap invariant.
	OwnerExists(ctx context.Context) (bool, error)

	// LockOwnerElection serializes first-signup owner elections. The lock is
	// transaction-scoped and released at commit or rollback, so it must be
	// taken inside a transaction, before OwnerExists.
	LockOwnerElection(ctx context.Context) error

	// SetShiftStart conditionally opens a shift: it sets current_shift_start
	// only when none is set, returning false on a conflict.
	SetShiftStart(ctx context.Context, id string, startedAt time.Time) (bool, error)

	// ClearShiftStart conditionally closes a shift: it clears
	// current_shift_start and returns the previous value, or ok=false when
	// no shift was open.
	ClearShiftStart(ctx context.Context, id string) (startedAt time.Time, ok bool, err error)
}
