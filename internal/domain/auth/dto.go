package auth

import "github.com/fichajeapp/fichaje-backend-go/internal/domain/user"

// LoginRedirectResponse points the client at the identity provider.
type LoginRedirectResponse struct {
	URL string `json:"url"`
}

// TokenPairResponse is issued after a successful OAuth callback or refresh.
type TokenPairResponse struct {
	AccessToken           string    `json:"accessToken"`
	AccessTokenExpiresAt  int64     `json:"accessTokenExpiresAt"`
	RefreshToken          string    `json:"refreshToken"`
	RefreshTokenExpiresAt int64     `json:"refreshTokenExpiresAt"`
	UserID                string    `json:"userId"`
	Role                  user.Role `json:"role"`
}

// RefreshRequest carries the refresh token when not sent as a cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}
