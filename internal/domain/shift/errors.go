package shift

import "errors"

// Shift domain errors
var (
	ErrAlreadyClockedIn = errors.New("already clocked in")
	ErrNotClockedIn     = errors.New("not clocked in")
	ErrInvalidLogKind   = errors.New("log kind must be IN or OUT")
	ErrUserInactive     = errors.New("user account is inactive")
	ErrUnknownDiscordID = errors.New("no user bound to that discord id")
)
