package dynamodb

import (
	"context"
	"fmt"
	"time"

	"dashboard-backend/internal/domain/dashboard"
	"dashboard-backend/internal/domain/widget"
	apperrors "dashboard-backend/internal/errors"
	"dashboard-backend/internal/repository"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

const (
	batchWriteLimit   = 25
	batchWriteRetries = 5
)

// DashboardRepository stores dashboards and cascades deletes to their widgets.
type DashboardRepository struct {
	base
}

var _ repository.DashboardRepository = (*DashboardRepository)(nil)

// NewDashboardRepository creates a dashboard repository on table.
func NewDashboardRepository(client Client, table TableConfig, logger *zap.Logger, opts ...Option) *DashboardRepository {
	return &DashboardRepository{base: newBase(client, table, logger, "DashboardRepository", opts)}
}

// Create stores a new dashboard.
func (r *DashboardRepository) Create(ctx context.Context, d *dashboard.Dashboard) error {
	item, err := marshalDashboard(d)
	if err != nil {
		return fmt.Errorf("marshal dashboard: %w", err)
	}
	if err := r.putNew(ctx, item, typeDashboard); err != nil {
		return err
	}
	r.logger.Debug("dashboard created", zap.String("dashboardID", d.ID))
	return nil
}

// GetByID loads the dashboard row only.
func (r *DashboardRepository) GetByID(ctx context.Context, id string) (*dashboard.Dashboard, error) {
	item, err := r.getItem(ctx, entityKey(typeDashboard, id), typeDashboard)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, repository.DashboardNotFound(id)
	}
	return unmarshalDashboard(item)
}

// GetWithWidgets loads the dashboard partition in one query.
func (r *DashboardRepository) GetWithWidgets(ctx context.Context, id string) (*dashboard.Dashboard, error) {
	items, err := r.queryPartition(ctx, ItemID(typeDashboard, id), "", typeDashboard)
	if err != nil {
		return nil, err
	}

	var d *dashboard.Dashboard
	widgets := []widget.Widget{}
	for _, item := range items {
		switch itemType(item) {
		case typeDashboard:
			if d, err = unmarshalDashboard(item); err != nil {
				return nil, err
			}
		case typeWidget:
			w, err := unmarshalWidget(item)
			if err != nil {
				return nil, err
			}
			widgets = append(widgets, *w)
		}
	}
	if d == nil {
		return nil, repository.DashboardNotFound(id)
	}

	widget.SortByOrder(widgets)
	d.Widgets = widgets
	return d, nil
}

// ListAll returns every dashboard.
func (r *DashboardRepository) ListAll(ctx context.Context) ([]*dashboard.Dashboard, error) {
	return r.list(ctx, nil)
}

// ListByTopicArea returns the dashboards filed under topicAreaID.
func (r *DashboardRepository) ListByTopicArea(ctx context.Context, topicAreaID string) ([]*dashboard.Dashboard, error) {
	filter := expression.Name("topicAreaId").Equal(expression.Value(ItemID(typeTopicArea, topicAreaID)))
	return r.list(ctx, &filter)
}

// ListPublished returns the dashboards visible on the public site.
func (r *DashboardRepository) ListPublished(ctx context.Context) ([]*dashboard.Dashboard, error) {
	filter := expression.Name(attrState).Equal(expression.Value(string(dashboard.StatePublished)))
	return r.list(ctx, &filter)
}

func (r *DashboardRepository) list(ctx context.Context, filter *expression.ConditionBuilder) ([]*dashboard.Dashboard, error) {
	items, err := r.queryByType(ctx, typeDashboard, filter)
	if err != nil {
		return nil, err
	}
	dashboards := make([]*dashboard.Dashboard, 0, len(items))
	for _, item := range items {
		d, err := unmarshalDashboard(item)
		if err != nil {
			return nil, err
		}
		dashboards = append(dashboards, d)
	}
	return dashboards, nil
}

// Update applies changes if the stored updatedAt still equals expectedUpdatedAt.
func (r *DashboardRepository) Update(ctx context.Context, id string, changes dashboard.Changes, expectedUpdatedAt time.Time, user string) (*dashboard.Dashboard, error) {
	_, now := r.stampAfter(expectedUpdatedAt)

	upd := expression.Set(expression.Name(attrUpdatedAt), expression.Value(now)).
		Set(expression.Name(attrUpdatedBy), expression.Value(user)).
		Set(expression.Name(attrVersion), expression.Name(attrVersion).Plus(expression.Value(1)))
	if changes.Name != nil {
		upd = upd.Set(expression.Name("dashboardName"), expression.Value(*changes.Name))
	}
	if changes.TopicAreaID != nil {
		upd = upd.Set(expression.Name("topicAreaId"), expression.Value(ItemID(typeTopicArea, *changes.TopicAreaID)))
	}
	if changes.TopicAreaName != nil {
		upd = upd.Set(expression.Name("topicAreaName"), expression.Value(*changes.TopicAreaName))
	}
	if changes.Description != nil {
		upd = upd.Set(expression.Name("description"), expression.Value(*changes.Description))
	}
	if changes.Overview != nil {
		upd = upd.Set(expression.Name("overview"), expression.Value(*changes.Overview))
	}
	if changes.ReleaseNotes != nil {
		upd = upd.Set(expression.Name("releaseNotes"), expression.Value(*changes.ReleaseNotes))
	}
	if changes.State != nil {
		upd = upd.Set(expression.Name(attrState), expression.Value(string(*changes.State)))
	}

	item, err := r.update(ctx, entityKey(typeDashboard, id), upd, conditionCurrent(expectedUpdatedAt), typeDashboard)
	if err != nil {
		if apperrors.IsConcurrencyConflict(err) {
			r.logger.Info("stale dashboard update rejected", zap.String("dashboardID", id))
		}
		return nil, err
	}
	return unmarshalDashboard(item)
}

// Publish flips the dashboard to Published under the same optimistic lock.
func (r *DashboardRepository) Publish(ctx context.Context, id string, expectedUpdatedAt time.Time, user string) (*dashboard.Dashboard, error) {
	state := dashboard.StatePublished
	return r.Update(ctx, id, dashboard.Changes{State: &state}, expectedUpdatedAt, user)
}

// RefreshTopicAreaName rewrites the denormalized topic area name.
func (r *DashboardRepository) RefreshTopicAreaName(ctx context.Context, id, topicAreaName string) error {
	upd := expression.Set(expression.Name("topicAreaName"), expression.Value(topicAreaName))
	cond := expression.AttributeExists(expression.Name(attrPK))
	_, err := r.update(ctx, entityKey(typeDashboard, id), upd, cond, typeDashboard)
	return err
}

// Delete removes the dashboard row and every widget in its partition.
func (r *DashboardRepository) Delete(ctx context.Context, id string) error {
	items, err := r.queryPartition(ctx, ItemID(typeDashboard, id), "", typeDashboard)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return repository.DashboardNotFound(id)
	}

	requests := make([]types.WriteRequest, 0, len(items))
	for _, item := range items {
		requests = append(requests, types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{
				Key: map[string]types.AttributeValue{attrPK: item[attrPK], attrSK: item[attrSK]},
			},
		})
	}

	for start := 0; start < len(requests); start += batchWriteLimit {
		end := min(start+batchWriteLimit, len(requests))
		if err := r.batchWrite(ctx, requests[start:end]); err != nil {
			return err
		}
	}
	r.logger.Debug("dashboard deleted", zap.String("dashboardID", id), zap.Int("items", len(requests)))
	return nil
}

// batchWrite retries unprocessed items with exponential backoff.
func (r *DashboardRepository) batchWrite(ctx context.Context, requests []types.WriteRequest) error {
	pending := map[string][]types.WriteRequest{r.table.TableName: requests}
	backoff := 50 * time.Millisecond

	for attempt := 0; attempt < batchWriteRetries; attempt++ {
		out, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
		if err != nil {
			return apperrors.FromAWS(err, "BatchWriteItem", typeDashboard)
		}
		if len(out.UnprocessedItems) == 0 {
			return nil
		}
		pending = out.UnprocessedItems
		r.logger.Warn("retrying unprocessed deletes",
			zap.Int("attempt", attempt+1),
			zap.Int("remaining", len(pending[r.table.TableName])))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return apperrors.Internal(apperrors.CodeDatabaseError, "Could not delete every dashboard item").
		WithOperation("BatchWriteItem").
		WithDetails(r.table.TableName).
		Build()
}
