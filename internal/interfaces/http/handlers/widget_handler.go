package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"dashboard-backend/internal/application/services"
	"dashboard-backend/pkg/api"
)

// WidgetHandler serves the widgets of a dashboard.
type WidgetHandler struct {
	widgets *services.WidgetService
	logger  *zap.Logger
}

// NewWidgetHandler creates a new widget handler
func NewWidgetHandler(widgets *services.WidgetService, logger *zap.Logger) *WidgetHandler {
	return &WidgetHandler{widgets: widgets, logger: logger.Named("WidgetHandler")}
}

// CreateWidget handles POST /dashboard/{id}/widget
func (h *WidgetHandler) CreateWidget(w http.ResponseWriter, r *http.Request) {
	var in services.CreateWidgetInput
	if !decode(w, r, &in) {
		return
	}
	created, err := h.widgets.Create(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	api.Success(w, http.StatusCreated, created)
}

// GetWidget handles GET /dashboard/{id}/widget/{widgetId}
func (h *WidgetHandler) GetWidget(w http.ResponseWriter, r *http.Request) {
	found, err := h.widgets.Get(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "widgetId"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, found)
}

// UpdateWidget handles PUT /dashboard/{id}/widget/{widgetId}
func (h *WidgetHandler) UpdateWidget(w http.ResponseWriter, r *http.Request) {
	var in services.UpdateWidgetInput
	if !decode(w, r, &in) {
		return
	}
	updated, err := h.widgets.Update(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "widgetId"), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, updated)
}

// DeleteWidget handles DELETE /dashboard/{id}/widget/{widgetId}
func (h *WidgetHandler) DeleteWidget(w http.ResponseWriter, r *http.Request) {
	if err := h.widgets.Delete(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "widgetId")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	api.Success(w, http.StatusNoContent, nil)
}

// MoveWidget handles PUT /dashboard/{id}/widget/{widgetId}/move
func (h *WidgetHandler) MoveWidget(w http.ResponseWriter, r *http.Request) {
	var in services.MoveWidgetInput
	if !decode(w, r, &in) {
		return
	}
	ordered, err := h.widgets.Move(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "widgetId"), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, ordered)
}

// SetWidgetOrder handles PUT /dashboard/{id}/widgetorder
func (h *WidgetHandler) SetWidgetOrder(w http.ResponseWriter, r *http.Request) {
	var in services.SetOrderInput
	if !decode(w, r, &in) {
		return
	}
	ordered, err := h.widgets.SetOrder(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, ordered)
}
