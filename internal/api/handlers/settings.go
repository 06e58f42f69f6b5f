package handlers

import (
	"fmt"
	"net/http"

	"github.com/ramonehamilton/riftbound-companion/internal/api/response"
	"github.com/ramonehamilton/riftbound-companion/internal/store"
)

// SettingsHandler handles settings API requests.
type SettingsHandler struct {
	settings *store.SettingsStore
}

// NewSettingsHandler creates a SettingsHandler.
func NewSettingsHandler(settings *store.SettingsStore) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// GetSettings returns the settings.
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.settings.Get())
}

// UpdateSettings merges a partial update. Invalid values are ignored.
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch store.SettingsPatch
	if err := response.Decode(r, &patch); err != nil {
		response.BadRequest(w, err)
		return
	}

	settings, err := h.settings.Update(r.Context(), patch)
	if err != nil {
		response.InternalError(w, fmt.Errorf("failed to save settings: %w", err))
		return
	}
	response.Success(w, settings)
}

// ResetSettings restores the defaults.
func (h *SettingsHandler) ResetSettings(w http.ResponseWriter, r *http.Request) {
	if err := h.settings.Reset(r.Context()); err != nil {
		response.InternalError(w, fmt.Errorf("failed to reset settings: %w", err))
		return
	}
	response.Success(w, h.settings.Get())
}
