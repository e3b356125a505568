package memory

import (
	"context"
	"sort"
	"time"

	"dashboard-backend/internal/domain/dashboard"
	"dashboard-backend/internal/domain/shared"
	"dashboard-backend/internal/domain/widget"
	"dashboard-backend/internal/repository"
)

type DashboardRepository struct {
	store *Store
}

var _ repository.DashboardRepository = (*DashboardRepository)(nil)

func (r *DashboardRepository) Create(_ context.Context, d *dashboard.Dashboard) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.dashboards[d.ID]; ok {
		return repository.AlreadyExists(d.ID)
	}
	cp := *d
	cp.Widgets = nil
	r.store.dashboards[d.ID] = cp
	return nil
}

func (r *DashboardRepository) GetByID(_ context.Context, id string) (*dashboard.Dashboard, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	d, ok := r.store.dashboards[id]
	if !ok {
		return nil, repository.DashboardNotFound(id)
	}
	return &d, nil
}

func (r *DashboardRepository) GetWithWidgets(_ context.Context, id string) (*dashboard.Dashboard, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	d, ok := r.store.dashboards[id]
	if !ok {
		return nil, repository.DashboardNotFound(id)
	}
	d.Widgets = r.store.widgetsOf(id)
	return &d, nil
}

func (r *DashboardRepository) ListAll(_ context.Context) ([]*dashboard.Dashboard, error) {
	return r.filter(func(*dashboard.Dashboard) bool { return true }), nil
}

func (r *DashboardRepository) ListByTopicArea(_ context.Context, topicAreaID string) ([]*dashboard.Dashboard, error) {
	return r.filter(func(d *dashboard.Dashboard) bool { return d.TopicAreaID == topicAreaID }), nil
}

func (r *DashboardRepository) ListPublished(_ context.Context) ([]*dashboard.Dashboard, error) {
	return r.filter(func(d *dashboard.Dashboard) bool { return d.State == dashboard.StatePublished }), nil
}

func (r *DashboardRepository) filter(keep func(*dashboard.Dashboard) bool) []*dashboard.Dashboard {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := []*dashboard.Dashboard{}
	for _, d := range r.store.dashboards {
		d := d
		if keep(&d) {
			out = append(out, &d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *DashboardRepository) Update(_ context.Context, id string, changes dashboard.Changes, expectedUpdatedAt time.Time, user string) (*dashboard.Dashboard, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	d, ok := r.store.dashboards[id]
	if !ok || !d.UpdatedAt.Equal(shared.Normalize(expectedUpdatedAt)) {
		return nil, repository.ConcurrencyConflict("Dashboard")
	}
	d.Apply(changes, user, r.store.stampAfter(d.UpdatedAt))
	r.store.dashboards[id] = d
	return &d, nil
}

func (r *DashboardRepository) Publish(ctx context.Context, id string, expectedUpdatedAt time.Time, user string) (*dashboard.Dashboard, error) {
	state := dashboard.StatePublished
	return r.Update(ctx, id, dashboard.Changes{State: &state}, expectedUpdatedAt, user)
}

func (r *DashboardRepository) RefreshTopicAreaName(_ context.Context, id, topicAreaName string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	d, ok := r.store.dashboards[id]
	if !ok {
		return repository.ConcurrencyConflict("Dashboard")
	}
	d.TopicAreaName = topicAreaName
	r.store.dashboards[id] = d
	return nil
}

func (r *DashboardRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.dashboards[id]; !ok {
		return repository.DashboardNotFound(id)
	}
	delete(r.store.dashboards, id)
	delete(r.store.widgets, id)
	return nil
}

// widgetsOf must be called with the lock held.
func (s *Store) widgetsOf(dashboardID string) []widget.Widget {
	out := make([]widget.Widget, 0, len(s.widgets[dashboardID]))
	for _, w := range s.widgets[dashboardID] {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	widget.SortByOrder(out)
	return out
}
