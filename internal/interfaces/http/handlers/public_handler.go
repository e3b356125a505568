package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"dashboard-backend/internal/application/services"
	"dashboard-backend/pkg/api"
)

// PublicHandler serves the unauthenticated /public routes.
type PublicHandler struct {
	public *services.PublicService
	logger *zap.Logger
}

func NewPublicHandler(public *services.PublicService, logger *zap.Logger) *PublicHandler {
	return &PublicHandler{public: public, logger: logger.Named("PublicHandler")}
}

// ListDashboards handles GET /public/dashboard
func (h *PublicHandler) ListDashboards(w http.ResponseWriter, r *http.Request) {
	list, err := h.public.ListDashboards(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, list)
}

// GetDashboard handles GET /public/dashboard/{id}
func (h *PublicHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.public.GetDashboard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, d)
}

// GetWidgetData handles GET /public/dashboard/{id}/widget/{widgetId}/data.
// ?formatted=true renders configured columns as display strings.
func (h *PublicHandler) GetWidgetData(w http.ResponseWriter, r *http.Request) {
	formatted, _ := strconv.ParseBool(r.URL.Query().Get("formatted"))
	rows, err := h.public.WidgetData(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "widgetId"), formatted)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, rows)
}
