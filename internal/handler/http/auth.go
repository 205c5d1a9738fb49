package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/fichajeapp/fichaje-backend-go/internal/domain/auth"
	"github.com/fichajeapp/fichaje-backend-go/internal/handler/http/response"
	"github.com/fichajeapp/fichaje-backend-go/internal/pkg/jwt"
)

type AuthHandler interface {
	LoginWithDiscord(w http.ResponseWriter, r *http.Request)
	OAuthCallbackDiscord(w http.ResponseWriter, r *http.Request)
	RefreshToken(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	jwtService  jwt.Service
	authService auth.AuthService
	frontendURL string
}

func NewAuthHandler(jwtService jwt.Service, authService auth.AuthService, frontendURL string) AuthHandler {
	return &AuthHandlerImpl{
		jwtService:  jwtService,
		authService: authService,
		frontendURL: frontendURL,
	}
}

// LoginWithDiscord implements AuthHandler.
func (a *AuthHandlerImpl) LoginWithDiscord(w http.ResponseWriter, r *http.Request) {
	redirect, err := a.authService.LoginRedirect(r.Context(), r.UserAgent())
	if err != nil {
		slog.Error("Login redirect error", "error", err)
		response.HandleError(w, err)
		return
	}
	http.Redirect(w, r, redirect.URL, http.StatusTemporaryRedirect)
}

// OAuthCallbackDiscord implements AuthHandler.
func (a *AuthHandlerImpl) OAuthCallbackDiscord(w http.ResponseWriter, r *http.Request) {
	redirectWithError := func(errorMsg string) {
		redirectURL := fmt.Sprintf("%s/auth/callback?error=%s", a.frontendURL, url.QueryEscape(errorMsg))
		http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
	}

	if errorValue := r.URL.Query().Get("error"); errorValue != "" {
		slog.Error("Error in OAuth callback", "error", errorValue)
		redirectWithError(errorValue)
		return
	}

	state := r.URL.Query().Get("state")
	if state == "" {
		redirectWithError("state_param_empty")
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		redirectWithError("code_empty")
		return
	}

	tokenResponse, err := a.authService.HandleCallback(r.Context(), state, code)
	if err != nil {
		slog.Error("OAuth callback failed", "error", err)
		switch err {
		case auth.ErrInvalidState:
			redirectWithError("state_mismatch")
		case auth.ErrAccountDisabled:
			redirectWithError("account_disabled")
		default:
			redirectWithError("login_failed")
		}
		return
	}

	refreshTokenCookie := a.jwtService.RefreshTokenCookie(tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresAt)
	http.SetCookie(w, refreshTokenCookie)

	slog.Info("User logged in via Discord OAuth", "user_id", tokenResponse.UserID)

	redirectURL := fmt.Sprintf("%s/auth/callback?access_token=%s&expires_at=%d",
		a.frontendURL,
		url.QueryEscape(tokenResponse.AccessToken),
		tokenResponse.AccessTokenExpiresAt,
	)
	http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
}

// RefreshToken implements AuthHandler.
func (a *AuthHandlerImpl) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var refreshTokenReq auth.RefreshRequest

	// Prefer the cookie; fall back to the JSON body.
	refreshTokenCookie, err := r.Cookie("refresh_token")
	if err == nil && refreshTokenCookie.Value != "" {
		refreshTokenReq.RefreshToken = refreshTokenCookie.Value
	} else {
		if err := json.NewDecoder(r.Body).Decode(&refreshTokenReq); err != nil {
			slog.Error("Refresh token decode error", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	if refreshTokenReq.RefreshToken == "" {
		response.BadRequest(w, "Refresh token is required", nil)
		return
	}

	tokenResponse, err := a.authService.Refresh(r.Context(), refreshTokenReq.RefreshToken)
	if err != nil {
		slog.Error("Refresh service error", "error", err)
		response.HandleError(w, err)
		return
	}

	cookie := a.jwtService.RefreshTokenCookie(tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresAt)
	http.SetCookie(w, cookie)
	response.Success(w, tokenResponse)
}

// Logout implements AuthHandler.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	refreshTokenCookie, err := r.Cookie("refresh_token")
	if err != nil || refreshTokenCookie.Value == "" {
		response.BadRequest(w, "Refresh token cookie is required", nil)
		return
	}

	if err := a.authService.Logout(r.Context(), refreshTokenCookie.Value); err != nil {
		response.HandleError(w, err)
		return
	}

	clearedCookie := a.jwtService.RefreshTokenCookie("", 0)
	http.SetCookie(w, clearedCookie)
	response.SuccessWithMessage(w, "Logged out", nil)
}
