package middleware

import (
	"context"
	"net/http"

	"github.com/fichajeapp/fichaje-backend-go/internal/domain/user"
	"github.com/fichajeapp/fichaje-backend-go/internal/handler/http/response"
)

type accessKey struct{}

// WithAccess resolves the caller's current role and active flag from the
// store (via the short-TTL role cache) instead of trusting the token's role
// claim, and rejects disabled accounts. Must run after AuthRequired.
func WithAccess(roles user.RoleLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserID(r)
			if !ok {
				response.Unauthorized(w, "Missing user id claim")
				return
			}

			access, err := roles.Lookup(r.Context(), userID)
			if err != nil {
				response.HandleError(w, err)
				return
			}
			if !access.Active {
				response.HandleError(w, user.ErrUserDisabled)
				return
			}

			ctx := context.WithValue(r.Context(), accessKey{}, access)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Access returns the resolved authorization state stored by WithAccess.
func Access(r *http.Request) (user.Access, bool) {
	access, ok := r.Context().Value(accessKey{}).(user.Access)
	return access, ok
}

// RequireOwner requires the DUENO role.
func RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		access, ok := Access(r)
		if !ok || access.Role != user.RoleDueno {
			response.HandleError(w, user.ErrOwnerAccessRequired)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireManager requires ENCARGADO or DUENO.
func RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		access, ok := Access(r)
		if !ok || (access.Role != user.RoleEncargado && access.Role != user.RoleDueno) {
			response.HandleError(w, user.ErrManagerAccessRequired)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireStaff rejects VISITANTE accounts, which cannot clock time.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		access, ok := Access(r)
		if !ok || access.Role == user.RoleVisitante {
			response.Forbidden(w, "Staff access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
