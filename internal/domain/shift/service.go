package shift

import "context"

// ShiftService drives the per-user clock state machine and the caller's
// live summary.
type ShiftService interface {
	// ClockIn opens a shift for the user. Fails with ErrAlreadyClockedIn
	// when a shift is already open and ErrUserInactive for disabled accounts.
	ClockIn(ctx context.Context, userID string, req ClockRequest) (ClockInResponse, error)

	// ClockOut closes the open shift, materializing exactly one WorkSession.
	// Fails with ErrNotClockedIn when no shift is open.
	ClockOut(ctx context.Context, userID string, req ClockRequest) (ClockOutResponse, error)

	// Status returns the open-shift start, recent logs and sessions, and the
	// clipped today/week/month totals including the open shift.
	Status(ctx context.Context, userID string) (StatusResponse, error)

	// RecordExternalPunch appends an audit TimeLog for the user bound to the
	// given Discord id. It does not drive the state machine.
	RecordExternalPunch(ctx context.Context, req ExternalPunchRequest) (TimeLogResponse, error)

	// LastPunch returns the newest TimeLog for the user bound to the Discord
	// id, or nil when none exists.
	LastPunch(ctx context.Context, discordID string) (*TimeLogResponse, error)
}
