package user

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUserDisabled          = errors.New("user account is disabled")
	ErrInvalidRole           = errors.New("invalid role")
	ErrLastOwner             = errors.New("at least one DUENO must remain")
	ErrOwnerAccessRequired   = errors.New("owner access required")
	ErrManagerAccessRequired = errors.New("manager access required")
	ErrGameNameTooLong       = errors.New("game name must be at most 64 characters")
)
