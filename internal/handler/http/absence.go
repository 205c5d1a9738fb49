package http

import (
	"encoding/json"
	"net/http"

	"github.com/fichajeapp/fichaje-backend-go/internal/domain/absence"
	"github.com/fichajeapp/fichaje-backend-go/internal/handler/http/middleware"
	"github.com/fichajeapp/fichaje-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AbsenceHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type AbsenceHandlerImpl struct {
	absenceService absence.AbsenceService
}

func NewAbsenceHandler(absenceService absence.AbsenceService) AbsenceHandler {
	return &AbsenceHandlerImpl{absenceService: absenceService}
}

// List implements AbsenceHandler.
func (h *AbsenceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		response.Unauthorized(w, "Missing user id claim")
		return
	}

	result, err := h.absenceService.List(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Create implements AbsenceHandler.
func (h *AbsenceHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		response.Unauthorized(w, "Missing user id claim")
		return
	}

	var req absence.CreateAbsenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.absenceService.Create(r.Context(), userID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Absence created", result)
}

// Update implements AbsenceHandler.
func (h *AbsenceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		response.Unauthorized(w, "Missing user id claim")
		return
	}

	// Decode into a raw map first to tell "reason": null apart from an
	// absent field.
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	var req absence.UpdateAbsenceRequest
	if v, ok := raw["startAt"]; ok {
		if err := json.Unmarshal(v, &req.StartAt); err != nil {
			response.BadRequest(w, "Invalid startAt", nil)
			return
		}
	}
	if v, ok := raw["endAt"]; ok {
		if err := json.Unmarshal(v, &req.EndAt); err != nil {
			response.BadRequest(w, "Invalid endAt", nil)
			return
		}
	}
	if v, ok := raw["reason"]; ok {
		req.ReasonSet = true
		if err := json.Unmarshal(v, &req.Reason); err != nil {
			response.BadRequest(w, "Invalid reason", nil)
			return
		}
	}

	result, err := h.absenceService.Update(r.Context(), userID, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Delete implements AbsenceHandler.
func (h *AbsenceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		response.Unauthorized(w, "Missing user id claim")
		return
	}

	if err := h.absenceService.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Absence deleted", nil)
}
