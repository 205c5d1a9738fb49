package auth

import "errors"

var (
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenRevoked = errors.New("refresh token revoked")
	ErrAccountDisabled     = errors.New("account disabled")
	ErrInvalidState        = errors.New("invalid oauth state")
	ErrInvalidAPIKey       = errors.New("invalid api key")
)
