package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"dashboard-backend/internal/application/services"
	"dashboard-backend/pkg/api"
)

// SettingsHandler serves /settings and /public-settings.
type SettingsHandler struct {
	settings *services.SettingsService
	logger   *zap.Logger
}

func NewSettingsHandler(settings *services.SettingsService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settings, logger: logger.Named("SettingsHandler")}
}

// GetSettings handles GET /settings
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.settings.Get(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, s)
}

// GetPublicSettings handles GET /public-settings
func (h *SettingsHandler) GetPublicSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.settings.Public(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, s)
}

// UpdateSettings handles PUT /settings. Success has an empty body.
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}
	var in services.UpdateSettingsInput
	if !decode(w, r, &in) {
		return
	}
	if _, err := h.settings.Update(r.Context(), in, user); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, nil)
}
