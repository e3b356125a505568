package services

import (
	"context"
	"fmt"

	"dashboard-backend/internal/domain/dashboard"
	"dashboard-backend/internal/domain/shared"
	"dashboard-backend/internal/domain/topicarea"
	apperrors "dashboard-backend/internal/errors"
	"dashboard-backend/internal/repository"
	"dashboard-backend/pkg/validation"

	"go.uber.org/zap"
)

// TopicAreaInput is the body of POST /topicarea and PUT /topicarea/{id}.
type TopicAreaInput struct {
	Name string `json:"name" validate:"required"`
}

// TopicAreaService manages topic areas.
type TopicAreaService struct {
	topicAreas repository.TopicAreaRepository
	dashboards repository.DashboardRepository
	validate   *validation.Validator
	logger     *zap.Logger
	now        shared.Clock
}

// NewTopicAreaService creates a topic area service.
func NewTopicAreaService(
	topicAreas repository.TopicAreaRepository,
	dashboards repository.DashboardRepository,
	validate *validation.Validator,
	logger *zap.Logger,
	clock shared.Clock,
) *TopicAreaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = shared.SystemClock
	}
	return &TopicAreaService{
		topicAreas: topicAreas,
		dashboards: dashboards,
		validate:   validate,
		logger:     logger.Named("TopicAreaService"),
		now:        clock,
	}
}

func (s *TopicAreaService) Create(ctx context.Context, in TopicAreaInput, user string) (*topicarea.TopicArea, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	t := topicarea.New(in.Name, user, s.now())
	if err := s.topicAreas.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TopicAreaService) Get(ctx context.Context, id string) (*topicarea.TopicArea, error) {
	return s.topicAreas.GetByID(ctx, id)
}

func (s *TopicAreaService) List(ctx context.Context) ([]*topicarea.TopicArea, error) {
	return s.topicAreas.List(ctx)
}

// Rename changes the name and refreshes the copy held by each dashboard.
func (s *TopicAreaService) Rename(ctx context.Context, id string, in TopicAreaInput, user string) (*topicarea.TopicArea, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	t, err := s.topicAreas.Rename(ctx, id, in.Name, user)
	if err != nil {
		return nil, err
	}

	dashboards, err := s.dashboards.ListByTopicArea(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, d := range dashboards {
		if err := s.dashboards.RefreshTopicAreaName(ctx, d.ID, t.Name); err != nil {
			return nil, fmt.Errorf("refresh topic area name on dashboard %s: %w", d.ID, err)
		}
	}
	s.logger.Info("topic area renamed",
		zap.String("topicAreaID", id),
		zap.Int("dashboards", len(dashboards)))
	return t, nil
}

// Delete removes an unused topic area.
func (s *TopicAreaService) Delete(ctx context.Context, id string) error {
	if _, err := s.topicAreas.GetByID(ctx, id); err != nil {
		return err
	}
	dashboards, err := s.dashboards.ListByTopicArea(ctx, id)
	if err != nil {
		return err
	}
	if len(dashboards) > 0 {
		return apperrors.Conflict(apperrors.CodeTopicAreaInUse,
			fmt.Sprintf("Topic area still has %d dashboards", len(dashboards))).
			WithResource(id).
			Build()
	}
	return s.topicAreas.Delete(ctx, id)
}

// Dashboards lists the dashboards filed under the topic area.
func (s *TopicAreaService) Dashboards(ctx context.Context, id string) ([]*dashboard.Dashboard, error) {
	if _, err := s.topicAreas.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.dashboards.ListByTopicArea(ctx, id)
}
