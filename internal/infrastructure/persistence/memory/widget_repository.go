package memory

import (
	"context"
	"time"

	"dashboard-backend/internal/domain/shared"
	"dashboard-backend/internal/domain/widget"
	"dashboard-backend/internal/repository"
)

type WidgetRepository struct {
	store *Store
}

var _ repository.WidgetRepository = (*WidgetRepository)(nil)

func (r *WidgetRepository) Create(_ context.Context, w *widget.Widget) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	partition, ok := r.store.widgets[w.DashboardID]
	if !ok {
		partition = make(map[string]widget.Widget)
		r.store.widgets[w.DashboardID] = partition
	}
	if _, exists := partition[w.ID]; exists {
		return repository.AlreadyExists(w.ID)
	}
	partition[w.ID] = *w
	return nil
}

func (r *WidgetRepository) GetByID(_ context.Context, dashboardID, widgetID string) (*widget.Widget, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	w, ok := r.store.widgets[dashboardID][widgetID]
	if !ok {
		return nil, repository.WidgetNotFound(widgetID)
	}
	return &w, nil
}

func (r *WidgetRepository) ListByDashboard(_ context.Context, dashboardID string) ([]widget.Widget, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.widgetsOf(dashboardID), nil
}

func (r *WidgetRepository) Update(_ context.Context, w *widget.Widget, expectedUpdatedAt time.Time) (*widget.Widget, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.widgets[w.DashboardID][w.ID]
	if !ok || !stored.UpdatedAt.Equal(shared.Normalize(expectedUpdatedAt)) {
		return nil, repository.ConcurrencyConflict("Widget")
	}
	next := *w
	next.UpdatedAt = r.store.stampAfter(stored.UpdatedAt)
	r.store.widgets[w.DashboardID][w.ID] = next
	return &next, nil
}

func (r *WidgetRepository) Delete(_ context.Context, dashboardID, widgetID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.widgets[dashboardID], widgetID)
	return nil
}

// SetOrder validates every placement before applying any of them.
func (r *WidgetRepository) SetOrder(_ context.Context, dashboardID string, placements []widget.Placement) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	partition := r.store.widgets[dashboardID]
	previous := make([]time.Time, 0, len(placements))
	for _, p := range placements {
		stored, ok := partition[p.ID]
		if !ok || !stored.UpdatedAt.Equal(shared.Normalize(p.UpdatedAt)) {
			return repository.ConcurrencyConflict("Widget")
		}
		previous = append(previous, stored.UpdatedAt)
	}
	now := r.store.stampAfter(previous...)
	for _, p := range placements {
		stored := partition[p.ID]
		stored.Order = p.Order
		stored.UpdatedAt = now
		partition[p.ID] = stored
	}
	return nil
}
