package services

import (
	"context"

	"dashboard-backend/internal/domain/dashboard"
	"dashboard-backend/internal/domain/dataset"
	"dashboard-backend/internal/domain/settings"
	"dashboard-backend/internal/domain/widget"
	apperrors "dashboard-backend/internal/errors"
	"dashboard-backend/internal/repository"

	"go.uber.org/zap"
)

// PublicService serves the anonymous read API of the public site. Only
// published dashboards are visible.
type PublicService struct {
	dashboards      repository.DashboardRepository
	widgets         repository.WidgetRepository
	datasets        *DatasetService
	settingsService *SettingsService
	logger          *zap.Logger
}

func NewPublicService(
	dashboards repository.DashboardRepository,
	widgets repository.WidgetRepository,
	datasets *DatasetService,
	settingsService *SettingsService,
	logger *zap.Logger,
) *PublicService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PublicService{
		dashboards:      dashboards,
		widgets:         widgets,
		datasets:        datasets,
		settingsService: settingsService,
		logger:          logger.Named("PublicService"),
	}
}

// ListDashboards returns the published dashboards without audit fields.
func (s *PublicService) ListDashboards(ctx context.Context) ([]*dashboard.Dashboard, error) {
	published, err := s.dashboards.ListPublished(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dashboard.Dashboard, len(published))
	for i, d := range published {
		out[i] = d.Public()
	}
	return out, nil
}

// GetDashboard returns a published dashboard with its widgets.
func (s *PublicService) GetDashboard(ctx context.Context, id string) (*dashboard.Dashboard, error) {
	d, err := s.dashboards.GetWithWidgets(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.State != dashboard.StatePublished {
		return nil, repository.DashboardNotFound(id)
	}
	return d.Public(), nil
}

// Settings returns the redacted settings view.
func (s *PublicService) Settings(ctx context.Context) (settings.PublicSettings, error) {
	return s.settingsService.Public(ctx)
}

// WidgetData returns the rows a chart, table or metrics widget renders:
// sorted by its sort column and stripped of hidden columns. With formatted
// set, configured columns are rendered as display strings.
func (s *PublicService) WidgetData(ctx context.Context, dashboardID, widgetID string, formatted bool) ([]dataset.Row, error) {
	if _, err := s.GetDashboard(ctx, dashboardID); err != nil {
		return nil, err
	}
	w, err := s.widgets.GetByID(ctx, dashboardID, widgetID)
	if err != nil {
		return nil, err
	}
	dc, ok := w.Content.(widget.DataContent)
	if !ok {
		return nil, apperrors.Validation(apperrors.CodeInvalidWidgetType,
			"Widget `"+string(w.WidgetType)+"` has no dataset").
			WithResource(widgetID).
			Build()
	}

	src := dc.DataSource()
	key := src.JSONKey
	if key == "" {
		d, err := s.datasets.Get(ctx, src.DatasetID)
		if err != nil {
			return nil, err
		}
		key = d.S3Key.JSON
	}

	rows, err := s.datasets.Rows(ctx, key)
	if err != nil {
		return nil, err
	}
	rows = dataset.Prepare(rows, src.ColumnsMetadata, src.SortByColumn, src.SortByDesc)
	if formatted {
		rows = dataset.FormatRows(rows, src.ColumnsMetadata)
	}
	return rows, nil
}
