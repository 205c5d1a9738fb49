package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/fichajeapp/fichaje-backend-go/internal/domain/user"
	"github.com/fichajeapp/fichaje-backend-go/internal/handler/http/middleware"
	"github.com/fichajeapp/fichaje-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type UserHandler interface {
	Me(w http.ResponseWriter, r *http.Request)
	UpdateMe(w http.ResponseWriter, r *http.Request)
	Directory(w http.ResponseWriter, r *http.Request)
	AdminList(w http.ResponseWriter, r *http.Request)
	AdminUpdate(w http.ResponseWriter, r *http.Request)
}

type UserHandlerImpl struct {
	userService user.UserService
}

func NewUserHandler(userService user.UserService) UserHandler {
	return &UserHandlerImpl{userService: userService}
}

// Me implements UserHandler.
func (h *UserHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		response.Unauthorized(w, "Missing user id claim")
		return
	}

	result, err := h.userService.Profile(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// UpdateMe implements UserHandler.
func (h *UserHandlerImpl) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		response.Unauthorized(w, "Missing user id claim")
		return
	}

	var req user.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.userService.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Directory implements UserHandler.
func (h *UserHandlerImpl) Directory(w http.ResponseWriter, r *http.Request) {
	result, err := h.userService.Directory(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// AdminList implements UserHandler.
func (h *UserHandlerImpl) AdminList(w http.ResponseWriter, r *http.Request) {
	result, err := h.userService.ListUsers(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// AdminUpdate implements UserHandler.
func (h *UserHandlerImpl) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "id")

	var req user.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.userService.UpdateUser(r.Context(), targetID, req)
	if err != nil {
		slog.Error("Admin user update failed", "target_id", targetID, "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
