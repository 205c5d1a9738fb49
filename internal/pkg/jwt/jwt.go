package jwt

import (
	"net/http"
	"sync"
	"time"

	"github.com/fichajeapp/fichaje-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

type Service interface {
	GenerateAccessToken(userID string, name string, role user.Role) (token string, expiresAt int64, err error)
	GenerateRefreshToken(userID string) (token string, expiresAt int64, err error)
	// DecodeRefreshToken validates a refresh token and returns its subject
	// and expiry.
	DecodeRefreshToken(tokenString string) (userID string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
	RevokeToken(token string, expiresAt int64)
	IsTokenRevoked(token string) bool
	// SweepRevoked drops revocation entries whose tokens have expired anyway.
	// Run periodically from the maintenance scheduler.
	SweepRevoked(now time.Time) int
}

type JWTService struct {
	secretKey                  string
	accessTokenExpirationTime  string
	refreshTokenExpirationTime string
	tokenAuth                  *jwtauth.JWTAuth
	revokedTokens              map[string]int64 // token -> exp unix
	mu                         sync.RWMutex
}

func NewJWTService(secretKey string, accessTokenExpirationTime string, refreshTokenExpirationTime string) Service {
	return &JWTService{
		secretKey:                  secretKey,
		accessTokenExpirationTime:  accessTokenExpirationTime,
		refreshTokenExpirationTime: refreshTokenExpirationTime,
		tokenAuth:                  jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:              make(map[string]int64),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(userID string, name string, role user.Role) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"user_id": userID,
		"name":    name,
		"role":    string(role),
		"type":    "access",
		"exp":     expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) GenerateRefreshToken(userID string) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.refreshTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()
	// The jti makes every issued token distinct, so rotating within the same
	// second never revokes the replacement.
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"exp":     expiresAt,
		"type":    "refresh",
		"jti":     uuid.NewString(),
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) DecodeRefreshToken(tokenString string) (string, int64, error) {
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return "", 0, err
	}
	if err := jwt.Validate(token, jwt.WithAcceptableSkew(30*time.Second)); err != nil {
		return "", 0, err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != "refresh" {
		return "", 0, jwt.ErrInvalidJWT()
	}

	userIDVal, ok := token.Get("user_id")
	if !ok {
		return "", 0, jwt.ErrInvalidJWT()
	}
	userID, ok := userIDVal.(string)
	if !ok {
		return "", 0, jwt.ErrInvalidJWT()
	}
	return userID, token.Expiration().Unix(), nil
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/api/v1/auth",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteStrictMode,
	}
}

func (j *JWTService) RevokeToken(token string, expiresAt int64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.revokedTokens[token] = expiresAt
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}

func (j *JWTService) SweepRevoked(now time.Time) int {
	j.mu.Lock()
	defer j.mu.Unlock()
	removed := 0
	cutoff := now.Unix()
	for token, exp := range j.revokedTokens {
		if exp < cutoff {
			delete(j.revokedTokens, token)
			removed++
		}
	}
	return removed
}
