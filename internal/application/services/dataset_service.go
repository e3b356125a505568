package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"

	"dashboard-backend/internal/application/ports"
	"dashboard-backend/internal/domain/dataset"
	"dashboard-backend/internal/domain/shared"
	apperrors "dashboard-backend/internal/errors"
	"dashboard-backend/internal/repository"

	"go.uber.org/zap"
)

const (
	rawPrefix  = "raw/"
	jsonPrefix = "json/"
)

// UploadResult is returned after a CSV upload: the stored dataset plus the
// column metadata inferred from its contents.
type UploadResult struct {
	Dataset  *dataset.Dataset         `json:"dataset"`
	Columns  []dataset.ColumnMetadata `json:"columns"`
	RowCount int                      `json:"rowCount"`
}

// DatasetService stores uploaded CSV files and their parsed rows.
type DatasetService struct {
	datasets repository.DatasetRepository
	objects  ports.ObjectStore
	logger   *zap.Logger
	now      shared.Clock
	maxSize  int64
}

// NewDatasetService creates a dataset service. Uploads larger than maxSize
// bytes are rejected.
func NewDatasetService(
	datasets repository.DatasetRepository,
	objects ports.ObjectStore,
	logger *zap.Logger,
	clock shared.Clock,
	maxSize int64,
) *DatasetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = shared.SystemClock
	}
	return &DatasetService{
		datasets: datasets,
		objects:  objects,
		logger:   logger.Named("DatasetService"),
		now:      clock,
		maxSize:  maxSize,
	}
}

// Upload parses a CSV file, stores the raw file and its JSON rows, then
// records the dataset.
func (s *DatasetService) Upload(ctx context.Context, fileName string, body io.Reader, datasetType dataset.Type, user string) (*UploadResult, error) {
	if fileName == "" {
		return nil, apperrors.MissingField("file")
	}
	if !strings.EqualFold(path.Ext(fileName), ".csv") {
		return nil, apperrors.Validation(apperrors.CodeInvalidDataset, "Only CSV files are supported").
			WithResource(fileName).
			Build()
	}
	if datasetType != "" && datasetType != dataset.TypeStatic && datasetType != dataset.TypeDynamic {
		return nil, apperrors.Validation(apperrors.CodeInvalidFormat, "Invalid field `datasetType`").Build()
	}

	raw, err := io.ReadAll(io.LimitReader(body, s.maxSize+1))
	if err != nil {
		return nil, apperrors.Validation(apperrors.CodeInvalidDataset, "Cannot read upload").WithCause(err).Build()
	}
	if int64(len(raw)) > s.maxSize {
		return nil, apperrors.Validation(apperrors.CodeInvalidDataset,
			fmt.Sprintf("File exceeds %d bytes", s.maxSize)).Build()
	}

	headers, rows, err := dataset.ParseCSV(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	parsed, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("encode rows: %w", err)
	}

	objectID := shared.NewID()
	key := dataset.S3Key{Raw: rawPrefix + objectID + ".csv", JSON: jsonPrefix + objectID + ".json"}
	if err := s.objects.Put(ctx, key.Raw, raw, "text/csv"); err != nil {
		return nil, err
	}
	if err := s.objects.Put(ctx, key.JSON, parsed, "application/json"); err != nil {
		s.cleanup(ctx, key.Raw)
		return nil, err
	}

	d := dataset.New(fileName, key, datasetType, user, s.now())
	if err := s.datasets.Create(ctx, d); err != nil {
		s.cleanup(ctx, key.Raw, key.JSON)
		return nil, err
	}

	s.logger.Info("dataset uploaded",
		zap.String("datasetID", d.ID),
		zap.String("fileName", fileName),
		zap.Int("rows", len(rows)))
	return &UploadResult{Dataset: d, Columns: dataset.InferColumns(headers, rows), RowCount: len(rows)}, nil
}

func (s *DatasetService) List(ctx context.Context) ([]*dataset.Dataset, error) {
	return s.datasets.List(ctx)
}

func (s *DatasetService) Get(ctx context.Context, id string) (*dataset.Dataset, error) {
	return s.datasets.GetByID(ctx, id)
}

// Delete removes the dataset record and its files.
func (s *DatasetService) Delete(ctx context.Context, id string) error {
	d, err := s.datasets.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.datasets.Delete(ctx, id); err != nil {
		return err
	}
	s.cleanup(ctx, d.S3Key.Raw, d.S3Key.JSON)
	return nil
}

// Rows loads the parsed rows stored under jsonKey.
func (s *DatasetService) Rows(ctx context.Context, jsonKey string) ([]dataset.Row, error) {
	body, err := s.objects.Get(ctx, jsonKey)
	if err != nil {
		return nil, err
	}
	var rows []dataset.Row
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, apperrors.Internal(apperrors.CodeDataCorruption, "Stored dataset is not valid JSON").
			WithResource(jsonKey).
			WithCause(err).
			Build()
	}
	return rows, nil
}

func (s *DatasetService) cleanup(ctx context.Context, keys ...string) {
	for _, k := range keys {
		if k == "" {
			continue
		}
		if err := s.objects.Delete(ctx, k); err != nil {
			s.logger.Warn("failed to delete dataset file", zap.String("key", k), zap.Error(err))
		}
	}
}
