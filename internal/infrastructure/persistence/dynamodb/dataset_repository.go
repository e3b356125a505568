package dynamodb

import (
	"context"
	"fmt"

	"dashboard-backend/internal/domain/dataset"
	"dashboard-backend/internal/repository"

	"go.uber.org/zap"
)

// DatasetRepository stores dataset metadata. File contents live in object
// storage.
type DatasetRepository struct {
	base
}

var _ repository.DatasetRepository = (*DatasetRepository)(nil)

// NewDatasetRepository creates a dataset repository on table.
func NewDatasetRepository(client Client, table TableConfig, logger *zap.Logger, opts ...Option) *DatasetRepository {
	return &DatasetRepository{base: newBase(client, table, logger, "DatasetRepository", opts)}
}

func (r *DatasetRepository) Create(ctx context.Context, d *dataset.Dataset) error {
	item, err := marshalDataset(d)
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}
	return r.putNew(ctx, item, typeDataset)
}

func (r *DatasetRepository) GetByID(ctx context.Context, id string) (*dataset.Dataset, error) {
	item, err := r.getItem(ctx, entityKey(typeDataset, id), typeDataset)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, repository.DatasetNotFound(id)
	}
	return unmarshalDataset(item)
}

func (r *DatasetRepository) List(ctx context.Context) ([]*dataset.Dataset, error) {
	items, err := r.queryByType(ctx, typeDataset, nil)
	if err != nil {
		return nil, err
	}
	out := make([]*dataset.Dataset, 0, len(items))
	for _, item := range items {
		d, err := unmarshalDataset(item)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *DatasetRepository) Delete(ctx context.Context, id string) error {
	return r.deleteItem(ctx, entityKey(typeDataset, id), typeDataset)
}
