package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/fichajeapp/fichaje-backend-go/internal/domain/shift"
	"github.com/fichajeapp/fichaje-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// FiveMHandler serves the game-server integration. Punches recorded here are
// audit-only TimeLogs; they never open or close shifts.
type FiveMHandler interface {
	Punch(w http.ResponseWriter, r *http.Request)
	LastPunch(w http.ResponseWriter, r *http.Request)
}

type FiveMHandlerImpl struct {
	shiftService shift.ShiftService
}

func NewFiveMHandler(shiftService shift.ShiftService) FiveMHandler {
	return &FiveMHandlerImpl{shiftService: shiftService}
}

// Punch implements FiveMHandler.
func (h *FiveMHandlerImpl) Punch(w http.ResponseWriter, r *http.Request) {
	var req shift.ExternalPunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.shiftService.RecordExternalPunch(r.Context(), req)
	if err != nil {
		slog.Error("External punch failed", "discord_id", req.DiscordID, "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Punch recorded", result)
}

// LastPunch implements FiveMHandler.
func (h *FiveMHandlerImpl) LastPunch(w http.ResponseWriter, r *http.Request) {
	result, err := h.shiftService.LastPunch(r.Context(), chi.URLParam(r, "discordId"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
