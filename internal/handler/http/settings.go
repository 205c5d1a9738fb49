package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/fichajeapp/fichaje-backend-go/internal/domain/settings"
	"github.com/fichajeapp/fichaje-backend-go/internal/handler/http/response"
)

type SettingsHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	UploadLogo(w http.ResponseWriter, r *http.Request)
	DeleteLogo(w http.ResponseWriter, r *http.Request)
}

type SettingsHandlerImpl struct {
	settingsService settings.SettingsService
}

func NewSettingsHandler(settingsService settings.SettingsService) SettingsHandler {
	return &SettingsHandlerImpl{settingsService: settingsService}
}

// Get implements SettingsHandler.
func (h *SettingsHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingsService.Get(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, settings.NewSettingsResponse(result))
}

// Update implements SettingsHandler.
func (h *SettingsHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	// Numeric fields may arrive as JSON numbers or strings; normalize through
	// a raw map.
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	var req settings.UpdateSettingsRequest
	if v, ok := raw["businessName"]; ok {
		if err := json.Unmarshal(v, &req.BusinessName); err != nil {
			response.BadRequest(w, "Invalid businessName", nil)
			return
		}
	}
	if v, ok := raw["logoUrl"]; ok {
		if err := json.Unmarshal(v, &req.LogoURL); err != nil {
			response.BadRequest(w, "Invalid logoUrl", nil)
			return
		}
	}
	if v, ok := raw["bonusThresholdHours"]; ok {
		s, valid := rawNumericString(v)
		if !valid {
			response.HandleError(w, settings.ErrInvalidThreshold)
			return
		}
		req.BonusThresholdHours = &s
	}
	if v, ok := raw["bonusAmount"]; ok {
		s, valid := rawNumericString(v)
		if !valid {
			response.HandleError(w, settings.ErrInvalidBonusAmount)
			return
		}
		req.BonusAmount = &s
	}

	result, err := h.settingsService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, settings.NewSettingsResponse(result))
}

// UploadLogo implements SettingsHandler.
func (h *SettingsHandlerImpl) UploadLogo(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(4 << 20); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	file, fileHeader, err := r.FormFile("logo")
	if err != nil {
		if err == http.ErrMissingFile {
			response.BadRequest(w, "Field 'logo' is required", nil)
			return
		}
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	defer file.Close()

	result, err := h.settingsService.UploadLogo(r.Context(), settings.LogoUpload{
		File:        file,
		Size:        fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Filename:    fileHeader.Filename,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Logo uploaded", result)
}

// DeleteLogo implements SettingsHandler.
func (h *SettingsHandlerImpl) DeleteLogo(w http.ResponseWriter, r *http.Request) {
	if err := h.settingsService.DeleteLogo(r.Context()); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Logo removed", nil)
}

// rawNumericString accepts a JSON number or a string containing one.
func rawNumericString(raw json.RawMessage) (string, bool) {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString, true
	}
	var asNumber json.Number
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return asNumber.String(), true
	}
	return "", false
}
