package services

import (
	"context"
	"time"

	"dashboard-backend/internal/application/ports"
	"dashboard-backend/internal/domain/dashboard"
	"dashboard-backend/internal/domain/shared"
	apperrors "dashboard-backend/internal/errors"
	"dashboard-backend/internal/repository"
	"dashboard-backend/pkg/validation"

	"go.uber.org/zap"
)

// CreateDashboardInput is the body of POST /dashboard.
type CreateDashboardInput struct {
	TopicAreaID string `json:"topicAreaId" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// UpdateDashboardInput is the body of PUT /dashboard/{id}.
type UpdateDashboardInput struct {
	Name        string    `json:"name" validate:"required"`
	TopicAreaID string    `json:"topicAreaId" validate:"required"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updatedAt" validate:"required"`
}

// OverviewInput is the body of PUT /dashboard/{id}/overview.
type OverviewInput struct {
	Overview  string    `json:"overview"`
	UpdatedAt time.Time `json:"updatedAt" validate:"required"`
}

// TransitionInput is the body of the lifecycle endpoints.
type TransitionInput struct {
	UpdatedAt    time.Time `json:"updatedAt" validate:"required"`
	ReleaseNotes string    `json:"releaseNotes"`
}

// DashboardService manages dashboards and their lifecycle.
type DashboardService struct {
	dashboards repository.DashboardRepository
	topicAreas repository.TopicAreaRepository
	events     ports.EventPublisher
	metrics    ports.MetricsRecorder
	validate   *validation.Validator
	logger     *zap.Logger
	now        shared.Clock
}

// NewDashboardService creates a dashboard service.
func NewDashboardService(
	dashboards repository.DashboardRepository,
	topicAreas repository.TopicAreaRepository,
	events ports.EventPublisher,
	metrics ports.MetricsRecorder,
	validate *validation.Validator,
	logger *zap.Logger,
	clock shared.Clock,
) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = shared.SystemClock
	}
	return &DashboardService{
		dashboards: dashboards,
		topicAreas: topicAreas,
		events:     events,
		metrics:    metrics,
		validate:   validate,
		logger:     logger.Named("DashboardService"),
		now:        clock,
	}
}

// Create stores a new draft dashboard in the given topic area.
func (s *DashboardService) Create(ctx context.Context, in CreateDashboardInput, user string) (*dashboard.Dashboard, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	topicArea, err := s.topicAreas.GetByID(ctx, in.TopicAreaID)
	if err != nil {
		return nil, err
	}

	d := dashboard.New(in.Name, topicArea.ID, topicArea.Name, in.Description, user, s.now())
	if err := s.dashboards.Create(ctx, d); err != nil {
		return nil, err
	}

	s.logger.Info("dashboard created",
		zap.String("dashboardID", d.ID),
		zap.String("topicAreaID", d.TopicAreaID),
		zap.String("user", user))
	s.metrics.DashboardCreated()
	s.emit(ctx, ports.EventDashboardCreated, d, user)
	return d, nil
}

// List returns every dashboard without widgets.
func (s *DashboardService) List(ctx context.Context) ([]*dashboard.Dashboard, error) {
	return s.dashboards.ListAll(ctx)
}

// ListByTopicArea returns the dashboards filed under topicAreaID.
func (s *DashboardService) ListByTopicArea(ctx context.Context, topicAreaID string) ([]*dashboard.Dashboard, error) {
	return s.dashboards.ListByTopicArea(ctx, topicAreaID)
}

// Get returns a dashboard with its widgets in display order.
func (s *DashboardService) Get(ctx context.Context, id string) (*dashboard.Dashboard, error) {
	return s.dashboards.GetWithWidgets(ctx, id)
}

// GetInTopicArea returns the dashboard only if it belongs to topicAreaID.
func (s *DashboardService) GetInTopicArea(ctx context.Context, topicAreaID, id string) (*dashboard.Dashboard, error) {
	d, err := s.dashboards.GetWithWidgets(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.TopicAreaID != topicAreaID {
		return nil, repository.DashboardNotFound(id)
	}
	return d, nil
}

// Update edits the name, description and topic area of a draft.
func (s *DashboardService) Update(ctx context.Context, id string, in UpdateDashboardInput, user string) (*dashboard.Dashboard, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	current, err := s.editable(ctx, id, in.UpdatedAt)
	if err != nil {
		return nil, err
	}

	changes := dashboard.Changes{Name: &in.Name, Description: &in.Description}
	if in.TopicAreaID != current.TopicAreaID {
		topicArea, err := s.topicAreas.GetByID(ctx, in.TopicAreaID)
		if err != nil {
			return nil, err
		}
		changes.TopicAreaID = &topicArea.ID
		changes.TopicAreaName = &topicArea.Name
	}

	return s.write(ctx, id, changes, in.UpdatedAt, user)
}

// UpdateOverview replaces the overview markdown of a draft.
func (s *DashboardService) UpdateOverview(ctx context.Context, id string, in OverviewInput, user string) (*dashboard.Dashboard, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	if _, err := s.editable(ctx, id, in.UpdatedAt); err != nil {
		return nil, err
	}
	return s.write(ctx, id, dashboard.Changes{Overview: &in.Overview}, in.UpdatedAt, user)
}

// PublishPending submits a draft for review, recording release notes.
func (s *DashboardService) PublishPending(ctx context.Context, id string, in TransitionInput, user string) (*dashboard.Dashboard, error) {
	return s.transition(ctx, id, dashboard.StatePublishPending, in, user)
}

// Publish makes the dashboard visible on the public site.
func (s *DashboardService) Publish(ctx context.Context, id string, in TransitionInput, user string) (*dashboard.Dashboard, error) {
	return s.transition(ctx, id, dashboard.StatePublished, in, user)
}

// Archive withdraws a published dashboard.
func (s *DashboardService) Archive(ctx context.Context, id string, in TransitionInput, user string) (*dashboard.Dashboard, error) {
	return s.transition(ctx, id, dashboard.StateArchived, in, user)
}

// MoveToDraft returns a pending dashboard to editing.
func (s *DashboardService) MoveToDraft(ctx context.Context, id string, in TransitionInput, user string) (*dashboard.Dashboard, error) {
	return s.transition(ctx, id, dashboard.StateDraft, in, user)
}

// Delete removes the dashboard and its widgets.
func (s *DashboardService) Delete(ctx context.Context, id, user string) error {
	d, err := s.dashboards.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.dashboards.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("dashboard deleted", zap.String("dashboardID", id), zap.String("user", user))
	s.emit(ctx, ports.EventDashboardDeleted, d, user)
	return nil
}

func (s *DashboardService) transition(ctx context.Context, id string, next dashboard.State, in TransitionInput, user string) (*dashboard.Dashboard, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	current, err := s.dashboards.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := current.EnsureTransition(next); err != nil {
		return nil, err
	}
	if err := current.EnsureCurrent(in.UpdatedAt); err != nil {
		s.metrics.ConcurrencyConflict("Dashboard")
		return nil, err
	}

	var updated *dashboard.Dashboard
	switch next {
	case dashboard.StatePublished:
		updated, err = s.dashboards.Publish(ctx, id, in.UpdatedAt, user)
	case dashboard.StatePublishPending:
		changes := dashboard.Changes{State: &next}
		if in.ReleaseNotes != "" {
			changes.ReleaseNotes = &in.ReleaseNotes
		}
		updated, err = s.dashboards.Update(ctx, id, changes, in.UpdatedAt, user)
	default:
		updated, err = s.dashboards.Update(ctx, id, dashboard.Changes{State: &next}, in.UpdatedAt, user)
	}
	if err != nil {
		return nil, s.recordConflict(err)
	}

	s.logger.Info("dashboard state changed",
		zap.String("dashboardID", id),
		zap.String("from", string(current.State)),
		zap.String("to", string(next)),
		zap.String("user", user))

	switch next {
	case dashboard.StatePublished:
		s.metrics.DashboardPublished()
		s.emit(ctx, ports.EventDashboardPublished, updated, user)
	case dashboard.StateArchived:
		s.emit(ctx, ports.EventDashboardArchived, updated, user)
	}
	return updated, nil
}

// editable loads the dashboard and checks it is a draft read at expected.
func (s *DashboardService) editable(ctx context.Context, id string, expected time.Time) (*dashboard.Dashboard, error) {
	current, err := s.dashboards.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := current.EnsureEditable(); err != nil {
		return nil, err
	}
	if err := current.EnsureCurrent(expected); err != nil {
		s.metrics.ConcurrencyConflict("Dashboard")
		return nil, err
	}
	return current, nil
}

func (s *DashboardService) write(ctx context.Context, id string, changes dashboard.Changes, expected time.Time, user string) (*dashboard.Dashboard, error) {
	updated, err := s.dashboards.Update(ctx, id, changes, expected, user)
	if err != nil {
		return nil, s.recordConflict(err)
	}
	return updated, nil
}

func (s *DashboardService) recordConflict(err error) error {
	if apperrors.IsConcurrencyConflict(err) {
		s.metrics.ConcurrencyConflict("Dashboard")
	}
	return err
}

// emit publishes a lifecycle event. Delivery failures never fail the request.
func (s *DashboardService) emit(ctx context.Context, eventType ports.EventType, d *dashboard.Dashboard, user string) {
	event := ports.DashboardEvent{
		Type:        eventType,
		DashboardID: d.ID,
		TopicAreaID: d.TopicAreaID,
		Actor:       user,
		OccurredAt:  shared.Normalize(s.now()),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish dashboard event",
			zap.String("type", string(eventType)),
			zap.String("dashboardID", d.ID),
			zap.Error(err))
	}
}
