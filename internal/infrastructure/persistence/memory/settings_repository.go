package memory

import (
	"context"
	"time"

	"dashboard-backend/internal/domain/settings"
	"dashboard-backend/internal/domain/shared"
	"dashboard-backend/internal/repository"
)

type SettingsRepository struct {
	store *Store
}

var _ repository.SettingsRepository = (*SettingsRepository)(nil)

func (r *SettingsRepository) Get(_ context.Context) (*settings.Settings, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if r.store.settings == nil {
		return settings.Default(r.store.timestamp()), nil
	}
	cp := *r.store.settings
	return &cp, nil
}

func (r *SettingsRepository) Update(_ context.Context, u settings.Update, expectedUpdatedAt time.Time, user string) (time.Time, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current := r.store.settings
	if current == nil {
		current = settings.Default(time.Time{})
	} else if !current.UpdatedAt.Equal(shared.Normalize(expectedUpdatedAt)) {
		return time.Time{}, repository.ConcurrencyConflict("Settings")
	}
	next := *current
	now := r.store.stampAfter(current.UpdatedAt)
	next.Apply(u, user, now)
	r.store.settings = &next
	return now, nil
}
