package memory

import (
	"context"
	"sort"

	"dashboard-backend/internal/domain/topicarea"
	"dashboard-backend/internal/repository"
)

type TopicAreaRepository struct {
	store *Store
}

var _ repository.TopicAreaRepository = (*TopicAreaRepository)(nil)

func (r *TopicAreaRepository) Create(_ context.Context, t *topicarea.TopicArea) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.topicAreas[t.ID]; ok {
		return repository.AlreadyExists(t.ID)
	}
	r.store.topicAreas[t.ID] = *t
	return nil
}

func (r *TopicAreaRepository) GetByID(_ context.Context, id string) (*topicarea.TopicArea, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	t, ok := r.store.topicAreas[id]
	if !ok {
		return nil, repository.TopicAreaNotFound(id)
	}
	return &t, nil
}

func (r *TopicAreaRepository) List(_ context.Context) ([]*topicarea.TopicArea, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*topicarea.TopicArea, 0, len(r.store.topicAreas))
	for _, t := range r.store.topicAreas {
		t := t
		out = append(out, &t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *TopicAreaRepository) Rename(_ context.Context, id, name, _ string) (*topicarea.TopicArea, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	t, ok := r.store.topicAreas[id]
	if !ok {
		return nil, repository.TopicAreaNotFound(id)
	}
	t.Name = name
	t.UpdatedAt = r.store.timestamp()
	r.store.topicAreas[id] = t
	return &t, nil
}

func (r *TopicAreaRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.topicAreas, id)
	return nil
}
