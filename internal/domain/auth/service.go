package auth

import "context"

// AuthService handles the Discord OAuth2 flow and token lifecycle.
type AuthService interface {
	// LoginRedirect returns the provider authorization URL with a fresh state.
	LoginRedirect(ctx context.Context, userAgent string) (LoginRedirectResponse, error)

	// HandleCallback exchanges the code, upserts the user bound to the
	// Discord account (first user ever becomes DUENO, later signups
	// VISITANTE) and issues a token pair. Disabled accounts are rejected.
	HandleCallback(ctx context.Context, state, code string) (TokenPairResponse, error)

	// Refresh rotates the refresh token and issues a new access token.
	Refresh(ctx context.Context, refreshToken string) (TokenPairResponse, error)

	// Logout revokes the refresh token.
	Logout(ctx context.Context, refreshToken string) error
}
