package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dashboard-backend/internal/domain/dashboard"
	"dashboard-backend/internal/domain/shared"
	"dashboard-backend/internal/domain/widget"
	apperrors "dashboard-backend/internal/errors"
	"dashboard-backend/internal/repository"
	"dashboard-backend/pkg/validation"

	"go.uber.org/zap"
)

// CreateWidgetInput is the body of POST /dashboard/{id}/widget.
type CreateWidgetInput struct {
	Name       string          `json:"name" validate:"required"`
	WidgetType widget.Type     `json:"widgetType" validate:"required"`
	ShowTitle  *bool           `json:"showTitle"`
	Content    json.RawMessage `json:"content"`
}

// UpdateWidgetInput is the body of PUT /dashboard/{id}/widget/{widgetId}.
// The widget type cannot change.
type UpdateWidgetInput struct {
	Name      string          `json:"name" validate:"required"`
	ShowTitle *bool           `json:"showTitle"`
	Content   json.RawMessage `json:"content"`
	UpdatedAt time.Time       `json:"updatedAt" validate:"required"`
}

// MoveWidgetInput is the body of PUT /dashboard/{id}/widget/{widgetId}/move.
type MoveWidgetInput struct {
	NewIndex *int `json:"newIndex" validate:"required"`
}

// SetOrderInput is the body of PUT /dashboard/{id}/widgetorder.
type SetOrderInput struct {
	Widgets []widget.Placement `json:"widgets" validate:"required,max=100,dive"`
}

const maxSettleAttempts = 3

// WidgetService manages the widgets of draft dashboards.
type WidgetService struct {
	dashboards repository.DashboardRepository
	widgets    repository.WidgetRepository
	validate   *validation.Validator
	logger     *zap.Logger
	now        shared.Clock
}

// NewWidgetService creates a widget service.
func NewWidgetService(
	dashboards repository.DashboardRepository,
	widgets repository.WidgetRepository,
	validate *validation.Validator,
	logger *zap.Logger,
	clock shared.Clock,
) *WidgetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = shared.SystemClock
	}
	return &WidgetService{
		dashboards: dashboards,
		widgets:    widgets,
		validate:   validate,
		logger:     logger.Named("WidgetService"),
		now:        clock,
	}
}

// Create appends a widget to the end of the dashboard.
func (s *WidgetService) Create(ctx context.Context, dashboardID string, in CreateWidgetInput) (*widget.Widget, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	if _, err := s.draft(ctx, dashboardID); err != nil {
		return nil, err
	}

	content, err := s.content(in.WidgetType, in.Content)
	if err != nil {
		return nil, err
	}

	existing, err := s.widgets.ListByDashboard(ctx, dashboardID)
	if err != nil {
		return nil, err
	}

	w := widget.New(dashboardID, in.Name, showTitle(in.ShowTitle, true), content, len(existing), s.now())
	if err := s.widgets.Create(ctx, w); err != nil {
		return nil, err
	}
	if w, err = s.settleOrder(ctx, w); err != nil {
		return nil, err
	}
	s.logger.Info("widget created",
		zap.String("dashboardID", dashboardID),
		zap.String("widgetID", w.ID),
		zap.String("widgetType", string(w.WidgetType)))
	return w, nil
}

// settleOrder renumbers the dashboard when creates that listed it at the
// same time claimed one position, and returns w as stored afterwards. Every
// listing sorts by order then ID, so concurrent renumbers agree and the loser
// only rereads.
func (s *WidgetService) settleOrder(ctx context.Context, w *widget.Widget) (*widget.Widget, error) {
	for attempt := 0; ; attempt++ {
		current, err := s.widgets.ListByDashboard(ctx, w.DashboardID)
		if err != nil {
			return nil, err
		}
		placements := widget.Renumber(current)
		if len(placements) == 0 {
			if i := widget.IndexOf(current, w.ID); i >= 0 {
				return &current[i], nil
			}
			return w, nil
		}
		if attempt == maxSettleAttempts {
			s.logger.Warn("widget order left unsettled",
				zap.String("dashboardID", w.DashboardID),
				zap.Int("pending", len(placements)))
			return w, nil
		}
		if err := s.widgets.SetOrder(ctx, w.DashboardID, placements); err != nil && !apperrors.IsConcurrencyConflict(err) {
			return nil, err
		}
	}
}

// Get returns one widget.
func (s *WidgetService) Get(ctx context.Context, dashboardID, widgetID string) (*widget.Widget, error) {
	return s.widgets.GetByID(ctx, dashboardID, widgetID)
}

// Update replaces the name, title flag and content of a widget.
func (s *WidgetService) Update(ctx context.Context, dashboardID, widgetID string, in UpdateWidgetInput) (*widget.Widget, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	if _, err := s.draft(ctx, dashboardID); err != nil {
		return nil, err
	}

	current, err := s.widgets.GetByID(ctx, dashboardID, widgetID)
	if err != nil {
		return nil, err
	}
	if err := current.EnsureCurrent(in.UpdatedAt); err != nil {
		return nil, err
	}

	next := *current
	next.Name = in.Name
	next.ShowTitle = showTitle(in.ShowTitle, current.ShowTitle)
	if len(in.Content) > 0 {
		content, err := s.content(current.WidgetType, in.Content)
		if err != nil {
			return nil, err
		}
		next.Content = content
	}
	return s.widgets.Update(ctx, &next, in.UpdatedAt)
}

// Delete removes a widget and closes the gap it leaves in the ordering.
func (s *WidgetService) Delete(ctx context.Context, dashboardID, widgetID string) error {
	if _, err := s.draft(ctx, dashboardID); err != nil {
		return err
	}
	if _, err := s.widgets.GetByID(ctx, dashboardID, widgetID); err != nil {
		return err
	}
	if err := s.widgets.Delete(ctx, dashboardID, widgetID); err != nil {
		return err
	}

	remaining, err := s.widgets.ListByDashboard(ctx, dashboardID)
	if err != nil {
		return err
	}
	if placements := widget.Renumber(remaining); len(placements) > 0 {
		return s.widgets.SetOrder(ctx, dashboardID, placements)
	}
	return nil
}

// Move relocates a widget to newIndex and renumbers the rest. An
// out-of-range index leaves the order untouched.
func (s *WidgetService) Move(ctx context.Context, dashboardID, widgetID string, in MoveWidgetInput) ([]widget.Widget, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	if _, err := s.draft(ctx, dashboardID); err != nil {
		return nil, err
	}

	current, err := s.widgets.ListByDashboard(ctx, dashboardID)
	if err != nil {
		return nil, err
	}
	index := widget.IndexOf(current, widgetID)
	if index < 0 {
		return nil, repository.WidgetNotFound(widgetID)
	}

	before := make(map[string]int, len(current))
	for _, w := range current {
		before[w.ID] = w.Order
	}

	moved := widget.Move(current, index, *in.NewIndex)
	var placements []widget.Placement
	for _, w := range moved {
		if before[w.ID] != w.Order {
			placements = append(placements, widget.Placement{ID: w.ID, Order: w.Order, UpdatedAt: w.UpdatedAt})
		}
	}
	if len(placements) == 0 {
		return current, nil
	}
	if err := s.widgets.SetOrder(ctx, dashboardID, placements); err != nil {
		return nil, err
	}
	return s.widgets.ListByDashboard(ctx, dashboardID)
}

// SetOrder applies a full client-side reorder in one atomic write.
func (s *WidgetService) SetOrder(ctx context.Context, dashboardID string, in SetOrderInput) ([]widget.Widget, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	seen := make(map[int]bool, len(in.Widgets))
	for _, p := range in.Widgets {
		if seen[p.Order] {
			return nil, apperrors.Validation(apperrors.CodeInvalidFormat,
				fmt.Sprintf("Duplicate widget order %d", p.Order)).Build()
		}
		seen[p.Order] = true
	}
	if _, err := s.draft(ctx, dashboardID); err != nil {
		return nil, err
	}
	if err := s.widgets.SetOrder(ctx, dashboardID, in.Widgets); err != nil {
		return nil, err
	}
	return s.widgets.ListByDashboard(ctx, dashboardID)
}

func (s *WidgetService) draft(ctx context.Context, dashboardID string) (*dashboard.Dashboard, error) {
	d, err := s.dashboards.GetByID(ctx, dashboardID)
	if err != nil {
		return nil, err
	}
	if err := d.EnsureEditable(); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *WidgetService) content(t widget.Type, raw json.RawMessage) (widget.Content, error) {
	content, err := widget.DecodeContent(t, raw)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Struct(content); err != nil {
		return nil, err
	}
	return content, nil
}

func showTitle(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
