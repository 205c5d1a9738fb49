package response

import (
	"errors"
	"net/http"

	"github.com/fichajeapp/fichaje-backend-go/internal/domain/absence"
	"github.com/fichajeapp/fichaje-backend-go/internal/domain/auth"
	"github.com/fichajeapp/fichaje-backend-go/internal/domain/settings"
	"github.com/fichajeapp/fichaje-backend-go/internal/domain/shift"
	"github.com/fichajeapp/fichaje-backend-go/internal/domain/user"
	"github.com/fichajeapp/fichaje-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrInvalidState):
		Unauthorized(w, "Invalid OAuth state")
	case errors.Is(err, auth.ErrAccountDisabled):
		Forbidden(w, "Account disabled")
	case errors.Is(err, auth.ErrInvalidAPIKey):
		Unauthorized(w, "Invalid API key")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserDisabled):
		Forbidden(w, "Account disabled")
	case errors.Is(err, user.ErrInvalidRole):
		BadRequest(w, "Invalid role", nil)
	case errors.Is(err, user.ErrLastOwner):
		Conflict(w, "At least one DUENO must remain")
	case errors.Is(err, user.ErrOwnerAccessRequired):
		Forbidden(w, "Owner access required")
	case errors.Is(err, user.ErrManagerAccessRequired):
		Forbidden(w, "Manager access required")
	case errors.Is(err, user.ErrGameNameTooLong):
		BadRequest(w, "Game name too long", nil)

	// Shift domain errors
	case errors.Is(err, shift.ErrAlreadyClockedIn):
		Conflict(w, "Shift already open")
	case errors.Is(err, shift.ErrNotClockedIn):
		Conflict(w, "No open shift")
	case errors.Is(err, shift.ErrInvalidLogKind):
		BadRequest(w, "Type must be IN or OUT", nil)
	case errors.Is(err, shift.ErrUserInactive):
		Forbidden(w, "Account disabled")
	case errors.Is(err, shift.ErrUnknownDiscordID):
		NotFound(w, "No user bound to that Discord id")

	// Absence domain errors
	case errors.Is(err, absence.ErrAbsenceNotFound):
		NotFound(w, "Absence not found")
	case errors.Is(err, absence.ErrEndBeforeStart):
		BadRequest(w, "endAt must not precede startAt", nil)

	// Settings domain errors
	case errors.Is(err, settings.ErrNoFieldsToUpdate):
		BadRequest(w, "No fields to update", nil)
	case errors.Is(err, settings.ErrInvalidThreshold):
		BadRequest(w, "Bonus threshold must be a non-negative number", nil)
	case errors.Is(err, settings.ErrInvalidBonusAmount):
		BadRequest(w, "Bonus amount must be a non-negative number", nil)
	case errors.Is(err, settings.ErrUnsupportedFileType):
		BadRequest(w, "Logo must be an image", nil)
	case errors.Is(err, settings.ErrFileTooLarge):
		BadRequest(w, "Logo file exceeds the size limit", nil)

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
