package services

import (
	"context"
	"testing"
	"time"

	"dashboard-backend/internal/application/ports"
	"dashboard-backend/internal/domain/dashboard"
	"dashboard-backend/internal/domain/topicarea"
	apperrors "dashboard-backend/internal/errors"
	"dashboard-backend/internal/infrastructure/persistence/memory"
	"dashboard-backend/pkg/validation"

	"github.com/stretchr/testify/require"
)

type tickingClock struct{ t time.Time }

func (c *tickingClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

type recordingPublisher struct {
	events []ports.DashboardEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e ports.DashboardEvent) error {
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) types() []ports.EventType {
	out := make([]ports.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type countingMetrics struct {
	created   int
	published int
	conflicts int
}

func (m *countingMetrics) DashboardCreated()          { m.created++ }
func (m *countingMetrics) DashboardPublished()        { m.published++ }
func (m *countingMetrics) ConcurrencyConflict(string) { m.conflicts++ }

type fixture struct {
	ctx        context.Context
	store      *memory.Store
	events     *recordingPublisher
	metrics    *countingMetrics
	dashboards *DashboardService
	widgets    *WidgetService
	topicAreas *TopicAreaService
	datasets   *DatasetService
	settings   *SettingsService
	users      *UserService
	public     *PublicService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := &tickingClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	store := memory.NewStore(clock.Now)
	v := validation.New()
	f := &fixture{
		ctx:     context.Background(),
		store:   store,
		events:  &recordingPublisher{},
		metrics: &countingMetrics{},
	}
	f.dashboards = NewDashboardService(store.Dashboards(), store.TopicAreas(), f.events, f.metrics, v, nil, clock.Now)
	f.widgets = NewWidgetService(store.Dashboards(), store.Widgets(), v, nil, clock.Now)
	f.topicAreas = NewTopicAreaService(store.TopicAreas(), store.Dashboards(), v, nil, clock.Now)
	f.datasets = NewDatasetService(store.Datasets(), store.Objects(), nil, clock.Now, 1<<20)
	f.settings = NewSettingsService(store.Settings(), nil)
	f.users = NewUserService(store.Users(), v, nil)
	f.public = NewPublicService(store.Dashboards(), store.Widgets(), f.datasets, f.settings, nil)
	return f
}

func (f *fixture) topicArea(t *testing.T, name string) *topicarea.TopicArea {
	t.Helper()
	ta, err := f.topicAreas.Create(f.ctx, TopicAreaInput{Name: name}, "alice")
	require.NoError(t, err)
	return ta
}

func (f *fixture) draft(t *testing.T, topicAreaID, name string) *dashboard.Dashboard {
	t.Helper()
	d, err := f.dashboards.Create(f.ctx, CreateDashboardInput{
		TopicAreaID: topicAreaID,
		Name:        name,
		Description: "About " + name,
	}, "alice")
	require.NoError(t, err)
	return d
}

func errorCode(t *testing.T, err error) apperrors.ErrorCode {
	t.Helper()
	require.Error(t, err)
	ue, ok := apperrors.As(err)
	require.True(t, ok, "expected UnifiedError, got %v", err)
	return apperrors.ErrorCode(ue.Code)
}

func errorMessage(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	ue, ok := apperrors.As(err)
	require.True(t, ok, "expected UnifiedError, got %v", err)
	return ue.Message
}
