package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"dashboard-backend/internal/application/services"
	"dashboard-backend/internal/domain/dashboard"
	"dashboard-backend/pkg/api"
)

// DashboardHandler serves /dashboard.
type DashboardHandler struct {
	dashboards *services.DashboardService
	logger     *zap.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboards *services.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards, logger: logger.Named("DashboardHandler")}
}

// ListDashboards handles GET /dashboard
func (h *DashboardHandler) ListDashboards(w http.ResponseWriter, r *http.Request) {
	list, err := h.dashboards.List(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, list)
}

// CreateDashboard handles POST /dashboard
func (h *DashboardHandler) CreateDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}
	var in services.CreateDashboardInput
	if !decode(w, r, &in) {
		return
	}

	d, err := h.dashboards.Create(r.Context(), in, user)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	api.Success(w, http.StatusCreated, d)
}

// GetDashboard handles GET /dashboard/{id}
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.dashboards.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, d)
}

// GetDashboardInTopicArea handles GET /dashboard/{topicAreaId}/{dashboardId}.
// The first segment shares the {id} parameter with the other dashboard routes.
func (h *DashboardHandler) GetDashboardInTopicArea(w http.ResponseWriter, r *http.Request) {
	d, err := h.dashboards.GetInTopicArea(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "dashboardId"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, d)
}

// UpdateDashboard handles PUT /dashboard/{id}
func (h *DashboardHandler) UpdateDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}
	var in services.UpdateDashboardInput
	if !decode(w, r, &in) {
		return
	}

	d, err := h.dashboards.Update(r.Context(), chi.URLParam(r, "id"), in, user)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, d)
}

// UpdateOverview handles PUT /dashboard/{id}/overview
func (h *DashboardHandler) UpdateOverview(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}
	var in services.OverviewInput
	if !decode(w, r, &in) {
		return
	}

	d, err := h.dashboards.UpdateOverview(r.Context(), chi.URLParam(r, "id"), in, user)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, d)
}

// PublishPending handles PUT /dashboard/{id}/publishpending
func (h *DashboardHandler) PublishPending(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.dashboards.PublishPending)
}

// Publish handles PUT /dashboard/{id}/publish
func (h *DashboardHandler) Publish(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.dashboards.Publish)
}

// Archive handles PUT /dashboard/{id}/archive
func (h *DashboardHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.dashboards.Archive)
}

// MoveToDraft handles PUT /dashboard/{id}/draft
func (h *DashboardHandler) MoveToDraft(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.dashboards.MoveToDraft)
}

// DeleteDashboard handles DELETE /dashboard/{id}
func (h *DashboardHandler) DeleteDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}
	if err := h.dashboards.Delete(r.Context(), chi.URLParam(r, "id"), user); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	api.Success(w, http.StatusNoContent, nil)
}

func (h *DashboardHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	op func(context.Context, string, services.TransitionInput, string) (*dashboard.Dashboard, error),
) {
	user, ok := caller(w, r)
	if !ok {
		return
	}
	var in services.TransitionInput
	if !decode(w, r, &in) {
		return
	}

	d, err := op(r.Context(), chi.URLParam(r, "id"), in, user)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, d)
}
