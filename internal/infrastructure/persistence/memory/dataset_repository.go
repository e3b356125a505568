package memory

import (
	"context"
	"sort"

	"dashboard-backend/internal/domain/dataset"
	"dashboard-backend/internal/repository"
)

type DatasetRepository struct {
	store *Store
}

var _ repository.DatasetRepository = (*DatasetRepository)(nil)

func (r *DatasetRepository) Create(_ context.Context, d *dataset.Dataset) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.datasets[d.ID]; ok {
		return repository.AlreadyExists(d.ID)
	}
	r.store.datasets[d.ID] = *d
	return nil
}

func (r *DatasetRepository) GetByID(_ context.Context, id string) (*dataset.Dataset, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	d, ok := r.store.datasets[id]
	if !ok {
		return nil, repository.DatasetNotFound(id)
	}
	return &d, nil
}

func (r *DatasetRepository) List(_ context.Context) ([]*dataset.Dataset, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*dataset.Dataset, 0, len(r.store.datasets))
	for _, d := range r.store.datasets {
		d := d
		out = append(out, &d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *DatasetRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.datasets, id)
	return nil
}
