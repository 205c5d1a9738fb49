package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/fichajeapp/fichaje-backend-go/internal/domain/shift"
	"github.com/fichajeapp/fichaje-backend-go/internal/handler/http/middleware"
	"github.com/fichajeapp/fichaje-backend-go/internal/handler/http/response"
)

type ClockHandler interface {
	Status(w http.ResponseWriter, r *http.Request)
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
}

type ClockHandlerImpl struct {
	shiftService shift.ShiftService
}

func NewClockHandler(shiftService shift.ShiftService) ClockHandler {
	return &ClockHandlerImpl{shiftService: shiftService}
}

// Status implements ClockHandler.
func (h *ClockHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		response.Unauthorized(w, "Missing user id claim")
		return
	}

	result, err := h.shiftService.Status(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// ClockIn implements ClockHandler.
func (h *ClockHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		response.Unauthorized(w, "Missing user id claim")
		return
	}

	req, ok := decodeClockRequest(w, r)
	if !ok {
		return
	}

	result, err := h.shiftService.ClockIn(r.Context(), userID, req)
	if err != nil {
		slog.Error("Clock in failed", "user_id", userID, "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Shift opened", result)
}

// ClockOut implements ClockHandler.
func (h *ClockHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		response.Unauthorized(w, "Missing user id claim")
		return
	}

	req, ok := decodeClockRequest(w, r)
	if !ok {
		return
	}

	result, err := h.shiftService.ClockOut(r.Context(), userID, req)
	if err != nil {
		slog.Error("Clock out failed", "user_id", userID, "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Shift closed", result)
}

// decodeClockRequest tolerates an empty body; the note is optional.
func decodeClockRequest(w http.ResponseWriter, r *http.Request) (shift.ClockRequest, bool) {
	var req shift.ClockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		response.BadRequest(w, "Invalid request format", nil)
		return shift.ClockRequest{}, false
	}
	return req, true
}
