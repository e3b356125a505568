package dynamodb

import (
	"context"
	"fmt"
	"time"

	"dashboard-backend/internal/domain/widget"
	apperrors "dashboard-backend/internal/errors"
	"dashboard-backend/internal/repository"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// maxTransactItems is the DynamoDB limit on items per transaction.
const maxTransactItems = 100

// WidgetRepository stores widgets in their dashboard's partition.
type WidgetRepository struct {
	base
}

var _ repository.WidgetRepository = (*WidgetRepository)(nil)

// NewWidgetRepository creates a widget repository on table.
func NewWidgetRepository(client Client, table TableConfig, logger *zap.Logger, opts ...Option) *WidgetRepository {
	return &WidgetRepository{base: newBase(client, table, logger, "WidgetRepository", opts)}
}

// Create stores a new widget.
func (r *WidgetRepository) Create(ctx context.Context, w *widget.Widget) error {
	item, err := marshalWidget(w)
	if err != nil {
		return fmt.Errorf("marshal widget: %w", err)
	}
	return r.putNew(ctx, item, typeWidget)
}

// GetByID loads one widget.
func (r *WidgetRepository) GetByID(ctx context.Context, dashboardID, widgetID string) (*widget.Widget, error) {
	item, err := r.getItem(ctx, widgetKey(dashboardID, widgetID), typeWidget)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, repository.WidgetNotFound(widgetID)
	}
	return unmarshalWidget(item)
}

// ListByDashboard returns a dashboard's widgets sorted by order.
func (r *WidgetRepository) ListByDashboard(ctx context.Context, dashboardID string) ([]widget.Widget, error) {
	items, err := r.queryPartition(ctx, ItemID(typeDashboard, dashboardID), typeWidget+"#", typeWidget)
	if err != nil {
		return nil, err
	}
	widgets := make([]widget.Widget, 0, len(items))
	for _, item := range items {
		w, err := unmarshalWidget(item)
		if err != nil {
			return nil, err
		}
		widgets = append(widgets, *w)
	}
	widget.SortByOrder(widgets)
	return widgets, nil
}

// Update replaces the widget if the stored updatedAt still equals
// expectedUpdatedAt. The stored copy gets a fresh updatedAt.
func (r *WidgetRepository) Update(ctx context.Context, w *widget.Widget, expectedUpdatedAt time.Time) (*widget.Widget, error) {
	now, _ := r.stampAfter(expectedUpdatedAt)
	next := *w
	next.UpdatedAt = now

	item, err := marshalWidget(&next)
	if err != nil {
		return nil, fmt.Errorf("marshal widget: %w", err)
	}
	expr, err := expression.NewBuilder().WithCondition(conditionCurrent(expectedUpdatedAt)).Build()
	if err != nil {
		return nil, fmt.Errorf("build widget condition: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(r.table.TableName),
		Item:                      item,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, apperrors.FromAWS(err, "PutItem", typeWidget)
	}
	return &next, nil
}

// Delete removes a widget. Deleting a missing widget is not an error.
func (r *WidgetRepository) Delete(ctx context.Context, dashboardID, widgetID string) error {
	return r.deleteItem(ctx, widgetKey(dashboardID, widgetID), typeWidget)
}

// SetOrder writes every placement in one transaction.
func (r *WidgetRepository) SetOrder(ctx context.Context, dashboardID string, placements []widget.Placement) error {
	if len(placements) == 0 {
		return nil
	}
	if len(placements) > maxTransactItems {
		return apperrors.Validation(apperrors.CodeValidationFailed,
			fmt.Sprintf("Cannot reorder more than %d widgets at once", maxTransactItems)).Build()
	}

	previous := make([]time.Time, 0, len(placements))
	for _, p := range placements {
		previous = append(previous, p.UpdatedAt)
	}
	_, now := r.stampAfter(previous...)
	items := make([]types.TransactWriteItem, 0, len(placements))
	for _, p := range placements {
		upd := expression.Set(expression.Name(attrOrder), expression.Value(p.Order)).
			Set(expression.Name(attrUpdatedAt), expression.Value(now))
		expr, err := expression.NewBuilder().
			WithUpdate(upd).
			WithCondition(conditionCurrent(p.UpdatedAt)).
			Build()
		if err != nil {
			return fmt.Errorf("build order update: %w", err)
		}
		items = append(items, types.TransactWriteItem{
			Update: &types.Update{
				TableName:                 aws.String(r.table.TableName),
				Key:                       widgetKey(dashboardID, p.ID),
				UpdateExpression:          expr.Update(),
				ConditionExpression:       expr.Condition(),
				ExpressionAttributeNames:  expr.Names(),
				ExpressionAttributeValues: expr.Values(),
			},
		})
	}

	if _, err := r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items}); err != nil {
		return apperrors.FromAWS(err, "TransactWriteItems", typeWidget)
	}
	r.logger.Debug("widget order saved", zap.String("dashboardID", dashboardID), zap.Int("widgets", len(items)))
	return nil
}
