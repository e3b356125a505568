// Package memory implements the repository contracts in process memory.
// It backs STORAGE_DRIVER=memory for local runs and the service and handler
// tests, and enforces the same optimistic-lock rules as the DynamoDB driver.
package memory

import (
	"sync"
	"time"

	"dashboard-backend/internal/domain/dashboard"
	"dashboard-backend/internal/domain/dataset"
	"dashboard-backend/internal/domain/settings"
	"dashboard-backend/internal/domain/shared"
	"dashboard-backend/internal/domain/topicarea"
	"dashboard-backend/internal/domain/user"
	"dashboard-backend/internal/domain/widget"
)

// Store holds every entity. Repositories obtained from one Store share it,
// so deleting a dashboard also drops its widgets.
type Store struct {
	mu         sync.RWMutex
	now        shared.Clock
	dashboards map[string]dashboard.Dashboard
	widgets    map[string]map[string]widget.Widget
	topicAreas map[string]topicarea.TopicArea
	datasets   map[string]dataset.Dataset
	settings   *settings.Settings
	objects    map[string]object
	users      map[string]user.User
}

type object struct {
	body        []byte
	contentType string
}

// NewStore creates an empty store. A nil clock means the system clock.
func NewStore(clock shared.Clock) *Store {
	if clock == nil {
		clock = shared.SystemClock
	}
	return &Store{
		now:        clock,
		dashboards: make(map[string]dashboard.Dashboard),
		widgets:    make(map[string]map[string]widget.Widget),
		topicAreas: make(map[string]topicarea.TopicArea),
		datasets:   make(map[string]dataset.Dataset),
		objects:    make(map[string]object),
		users:      make(map[string]user.User),
	}
}

func (s *Store) timestamp() time.Time {
	return shared.Normalize(s.now())
}

func (s *Store) stampAfter(previous ...time.Time) time.Time {
	return shared.NextTimestamp(s.now(), previous...)
}

func (s *Store) Dashboards() *DashboardRepository { return &DashboardRepository{store: s} }
func (s *Store) Widgets() *WidgetRepository       { return &WidgetRepository{store: s} }
func (s *Store) TopicAreas() *TopicAreaRepository { return &TopicAreaRepository{store: s} }
func (s *Store) Datasets() *DatasetRepository     { return &DatasetRepository{store: s} }
func (s *Store) Settings() *SettingsRepository    { return &SettingsRepository{store: s} }
func (s *Store) Objects() *ObjectStore            { return &ObjectStore{store: s} }
func (s *Store) Users() *UserRepository           { return &UserRepository{store: s} }
