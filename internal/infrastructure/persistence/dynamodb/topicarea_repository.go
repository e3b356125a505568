package dynamodb

import (
	"context"
	"fmt"

	"dashboard-backend/internal/domain/topicarea"
	"dashboard-backend/internal/repository"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"go.uber.org/zap"
)

// TopicAreaRepository stores topic areas.
type TopicAreaRepository struct {
	base
}

var _ repository.TopicAreaRepository = (*TopicAreaRepository)(nil)

// NewTopicAreaRepository creates a topic area repository on table.
func NewTopicAreaRepository(client Client, table TableConfig, logger *zap.Logger, opts ...Option) *TopicAreaRepository {
	return &TopicAreaRepository{base: newBase(client, table, logger, "TopicAreaRepository", opts)}
}

func (r *TopicAreaRepository) Create(ctx context.Context, t *topicarea.TopicArea) error {
	item, err := marshalTopicArea(t)
	if err != nil {
		return fmt.Errorf("marshal topic area: %w", err)
	}
	return r.putNew(ctx, item, typeTopicArea)
}

func (r *TopicAreaRepository) GetByID(ctx context.Context, id string) (*topicarea.TopicArea, error) {
	item, err := r.getItem(ctx, entityKey(typeTopicArea, id), typeTopicArea)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, repository.TopicAreaNotFound(id)
	}
	return unmarshalTopicArea(item)
}

func (r *TopicAreaRepository) List(ctx context.Context) ([]*topicarea.TopicArea, error) {
	items, err := r.queryByType(ctx, typeTopicArea, nil)
	if err != nil {
		return nil, err
	}
	out := make([]*topicarea.TopicArea, 0, len(items))
	for _, item := range items {
		t, err := unmarshalTopicArea(item)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Rename changes the name of an existing topic area.
func (r *TopicAreaRepository) Rename(ctx context.Context, id, name, user string) (*topicarea.TopicArea, error) {
	_, now := r.timestamp()
	upd := expression.Set(expression.Name("name"), expression.Value(name)).
		Set(expression.Name(attrUpdatedAt), expression.Value(now)).
		Set(expression.Name(attrUpdatedBy), expression.Value(user))
	item, err := r.update(ctx, entityKey(typeTopicArea, id), upd, expression.AttributeExists(expression.Name(attrPK)), typeTopicArea)
	if err != nil {
		return nil, err
	}
	return unmarshalTopicArea(item)
}

func (r *TopicAreaRepository) Delete(ctx context.Context, id string) error {
	return r.deleteItem(ctx, entityKey(typeTopicArea, id), typeTopicArea)
}
