package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/fichajeapp/fichaje-backend-go/internal/domain/auth"
	"github.com/fichajeapp/fichaje-backend-go/internal/handler/http/response"
)

// APIKeyRequired guards the game-server integration endpoints with a shared
// key. An empty configured key disables the surface entirely.
func APIKeyRequired(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				response.HandleError(w, auth.ErrInvalidAPIKey)
				return
			}

			presented := r.Header.Get("X-API-Key")
			if subtle.ConstantTimeCompare([]byte(presented), []byte(key)) != 1 {
				response.HandleError(w, auth.ErrInvalidAPIKey)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
