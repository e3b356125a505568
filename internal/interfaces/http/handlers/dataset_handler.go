package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"dashboard-backend/internal/application/services"
	"dashboard-backend/internal/domain/dataset"
	"dashboard-backend/pkg/api"
)

// multipart parts beyond this are spooled to disk.
const uploadMemory = 10 << 20

// DatasetHandler serves /dataset.
type DatasetHandler struct {
	datasets *services.DatasetService
	logger   *zap.Logger
}

func NewDatasetHandler(datasets *services.DatasetService, logger *zap.Logger) *DatasetHandler {
	return &DatasetHandler{datasets: datasets, logger: logger.Named("DatasetHandler")}
}

// ListDatasets handles GET /dataset
func (h *DatasetHandler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	list, err := h.datasets.List(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, list)
}

// UploadDataset handles POST /dataset with a multipart "file" part and an
// optional "type" field.
func (h *DatasetHandler) UploadDataset(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(uploadMemory); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		api.Error(w, http.StatusBadRequest, "Missing required field `file`")
		return
	}
	if err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid multipart body")
		return
	}
	defer file.Close()

	result, err := h.datasets.Upload(r.Context(), header.Filename, file, dataset.Type(r.FormValue("type")), user)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	api.Success(w, http.StatusCreated, result)
}

// GetDataset handles GET /dataset/{id}
func (h *DatasetHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	d, err := h.datasets.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, d)
}

// DeleteDataset handles DELETE /dataset/{id}
func (h *DatasetHandler) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	if err := h.datasets.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	api.Success(w, http.StatusNoContent, nil)
}
