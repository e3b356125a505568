// Package repository defines the persistence contracts of the dashboard
// backend. Implementations live under internal/infrastructure/persistence
// (DynamoDB for deployments, memory for local runs and tests) and under
// internal/infrastructure/identity for users.
//
// Every mutating call that takes an expectedUpdatedAt is an optimistic-lock
// write: it succeeds only if the stored updatedAt still equals the value the
// caller read, and otherwise fails with a CONCURRENCY_CONFLICT error.
package repository

import (
	"context"
	"time"

	"dashboard-backend/internal/domain/dashboard"
	"dashboard-backend/internal/domain/dataset"
	"dashboard-backend/internal/domain/settings"
	"dashboard-backend/internal/domain/topicarea"
	"dashboard-backend/internal/domain/user"
	"dashboard-backend/internal/domain/widget"
)

// DashboardRepository persists dashboards.
type DashboardRepository interface {
	Create(ctx context.Context, d *dashboard.Dashboard) error
	GetByID(ctx context.Context, id string) (*dashboard.Dashboard, error)
	// GetWithWidgets returns the dashboard with its widgets sorted by order.
	GetWithWidgets(ctx context.Context, id string) (*dashboard.Dashboard, error)
	ListAll(ctx context.Context) ([]*dashboard.Dashboard, error)
	ListByTopicArea(ctx context.Context, topicAreaID string) ([]*dashboard.Dashboard, error)
	ListPublished(ctx context.Context) ([]*dashboard.Dashboard, error)
	// Update writes the non-nil fields of changes, stamps updatedAt/updatedBy,
	// increments the version and returns the stored dashboard.
	Update(ctx context.Context, id string, changes dashboard.Changes, expectedUpdatedAt time.Time, user string) (*dashboard.Dashboard, error)
	// Publish is Update with the state set to Published.
	Publish(ctx context.Context, id string, expectedUpdatedAt time.Time, user string) (*dashboard.Dashboard, error)
	// RefreshTopicAreaName rewrites the denormalized topic area name without
	// counting as an edit.
	RefreshTopicAreaName(ctx context.Context, id, topicAreaName string) error
	// Delete removes the dashboard and every widget under it.
	Delete(ctx context.Context, id string) error
}

// WidgetRepository persists widgets inside their dashboard's partition.
type WidgetRepository interface {
	Create(ctx context.Context, w *widget.Widget) error
	GetByID(ctx context.Context, dashboardID, widgetID string) (*widget.Widget, error)
	ListByDashboard(ctx context.Context, dashboardID string) ([]widget.Widget, error)
	Update(ctx context.Context, w *widget.Widget, expectedUpdatedAt time.Time) (*widget.Widget, error)
	Delete(ctx context.Context, dashboardID, widgetID string) error
	// SetOrder applies all placements atomically; each is conditional on the
	// widget's updatedAt.
	SetOrder(ctx context.Context, dashboardID string, placements []widget.Placement) error
}

// TopicAreaRepository persists topic areas.
type TopicAreaRepository interface {
	Create(ctx context.Context, t *topicarea.TopicArea) error
	GetByID(ctx context.Context, id string) (*topicarea.TopicArea, error)
	List(ctx context.Context) ([]*topicarea.TopicArea, error)
	Rename(ctx context.Context, id, name, user string) (*topicarea.TopicArea, error)
	Delete(ctx context.Context, id string) error
}

// DatasetRepository persists dataset metadata.
type DatasetRepository interface {
	Create(ctx context.Context, d *dataset.Dataset) error
	GetByID(ctx context.Context, id string) (*dataset.Dataset, error)
	List(ctx context.Context) ([]*dataset.Dataset, error)
	Delete(ctx context.Context, id string) error
}

// SettingsRepository persists the settings singleton.
type SettingsRepository interface {
	// Get returns stored settings merged over the defaults.
	Get(ctx context.Context) (*settings.Settings, error)
	// Update applies every present field in one conditional write and
	// returns the new updatedAt.
	Update(ctx context.Context, update settings.Update, expectedUpdatedAt time.Time, user string) (time.Time, error)
}

// UserRepository manages accounts in the identity provider.
type UserRepository interface {
	List(ctx context.Context) ([]*user.User, error)
	Add(ctx context.Context, emails []string, role user.Role) error
	Remove(ctx context.Context, userIDs []string) error
	ResendInvite(ctx context.Context, userIDs []string) error
	ChangeRole(ctx context.Context, userIDs []string, role user.Role) error
}
