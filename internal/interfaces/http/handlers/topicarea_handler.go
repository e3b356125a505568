package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"dashboard-backend/internal/application/services"
	"dashboard-backend/pkg/api"
)

// TopicAreaHandler serves /topicarea.
type TopicAreaHandler struct {
	topicAreas *services.TopicAreaService
	logger     *zap.Logger
}

func NewTopicAreaHandler(topicAreas *services.TopicAreaService, logger *zap.Logger) *TopicAreaHandler {
	return &TopicAreaHandler{topicAreas: topicAreas, logger: logger.Named("TopicAreaHandler")}
}

// ListTopicAreas handles GET /topicarea
func (h *TopicAreaHandler) ListTopicAreas(w http.ResponseWriter, r *http.Request) {
	list, err := h.topicAreas.List(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, list)
}

// CreateTopicArea handles POST /topicarea
func (h *TopicAreaHandler) CreateTopicArea(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}
	var in services.TopicAreaInput
	if !decode(w, r, &in) {
		return
	}
	ta, err := h.topicAreas.Create(r.Context(), in, user)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	api.Success(w, http.StatusCreated, ta)
}

// GetTopicArea handles GET /topicarea/{id}
func (h *TopicAreaHandler) GetTopicArea(w http.ResponseWriter, r *http.Request) {
	ta, err := h.topicAreas.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, ta)
}

// RenameTopicArea handles PUT /topicarea/{id}
func (h *TopicAreaHandler) RenameTopicArea(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}
	var in services.TopicAreaInput
	if !decode(w, r, &in) {
		return
	}
	ta, err := h.topicAreas.Rename(r.Context(), chi.URLParam(r, "id"), in, user)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, ta)
}

// DeleteTopicArea handles DELETE /topicarea/{id}
func (h *TopicAreaHandler) DeleteTopicArea(w http.ResponseWriter, r *http.Request) {
	if err := h.topicAreas.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	api.Success(w, http.StatusNoContent, nil)
}

// ListDashboards handles GET /topicarea/{id}/dashboards
func (h *TopicAreaHandler) ListDashboards(w http.ResponseWriter, r *http.Request) {
	list, err := h.topicAreas.Dashboards(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, list)
}
