package dynamodb

import (
	"context"
	"fmt"
	"time"

	"dashboard-backend/internal/domain/shared"
	apperrors "dashboard-backend/internal/errors"
	"dashboard-backend/internal/repository"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// Client is the subset of the DynamoDB API the repositories call.
type Client interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

var _ Client = (*dynamodb.Client)(nil)

// TableConfig names the table and its type index.
type TableConfig struct {
	TableName     string
	TypeIndexName string
}

// Option customizes a repository.
type Option func(*base)

// WithClock replaces the clock used to stamp updatedAt.
func WithClock(clock shared.Clock) Option {
	return func(b *base) { b.now = clock }
}

// base holds what every repository shares: the client, table names and the
// helpers for the access patterns of the single-table layout.
type base struct {
	client Client
	table  TableConfig
	logger *zap.Logger
	now    shared.Clock
}

func newBase(client Client, table TableConfig, logger *zap.Logger, name string, opts []Option) base {
	if logger == nil {
		logger = zap.NewNop()
	}
	if table.TypeIndexName == "" {
		table.TypeIndexName = DefaultTypeIndex
	}
	b := base{
		client: client,
		table:  table,
		logger: logger.Named(name),
		now:    shared.SystemClock,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b *base) timestamp() (time.Time, string) {
	now := shared.Normalize(b.now())
	return now, shared.FormatTimestamp(now)
}

// stampAfter is timestamp for a write conditioned on the previous stamps.
func (b *base) stampAfter(previous ...time.Time) (time.Time, string) {
	next := shared.NextTimestamp(b.now(), previous...)
	return next, shared.FormatTimestamp(next)
}

// getItem returns nil without error when the key does not exist.
func (b *base) getItem(ctx context.Context, key map[string]types.AttributeValue, resource string) (map[string]types.AttributeValue, error) {
	out, err := b.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(b.table.TableName),
		Key:       key,
	})
	if err != nil {
		return nil, apperrors.FromAWS(err, "GetItem", resource)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	return out.Item, nil
}

// putNew writes item only if no item with its key exists yet.
func (b *base) putNew(ctx context.Context, item map[string]types.AttributeValue, resource string) error {
	cond := expression.AttributeNotExists(expression.Name(attrPK))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("build put condition: %w", err)
	}
	_, err = b.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(b.table.TableName),
		Item:                      item,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if apperrors.IsConcurrencyConflict(apperrors.FromAWS(err, "PutItem", resource)) {
			return repository.AlreadyExists(resource)
		}
		return apperrors.FromAWS(err, "PutItem", resource)
	}
	return nil
}

// update runs a conditional UpdateItem and returns the new item image.
func (b *base) update(ctx context.Context, key map[string]types.AttributeValue, upd expression.UpdateBuilder, cond expression.ConditionBuilder, resource string) (map[string]types.AttributeValue, error) {
	expr, err := expression.NewBuilder().WithUpdate(upd).WithCondition(cond).Build()
	if err != nil {
		return nil, fmt.Errorf("build update expression: %w", err)
	}
	out, err := b.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(b.table.TableName),
		Key:                       key,
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, apperrors.FromAWS(err, "UpdateItem", resource)
	}
	return out.Attributes, nil
}

func (b *base) deleteItem(ctx context.Context, key map[string]types.AttributeValue, resource string) error {
	_, err := b.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(b.table.TableName),
		Key:       key,
	})
	return apperrors.FromAWS(err, "DeleteItem", resource)
}

// query follows every page of input.
func (b *base) query(ctx context.Context, input *dynamodb.QueryInput, resource string) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	paginator := dynamodb.NewQueryPaginator(b.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, apperrors.FromAWS(err, "Query", resource)
		}
		items = append(items, page.Items...)
	}
	return items, nil
}

// queryPartition returns every item stored under pk.
func (b *base) queryPartition(ctx context.Context, pk string, skPrefix string, resource string) ([]map[string]types.AttributeValue, error) {
	keyCond := expression.Key(attrPK).Equal(expression.Value(pk))
	if skPrefix != "" {
		keyCond = keyCond.And(expression.Key(attrSK).BeginsWith(skPrefix))
	}
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("build partition query: %w", err)
	}
	return b.query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(b.table.TableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}, resource)
}

// queryByType lists items of itemType through the type index, optionally
// filtered.
func (b *base) queryByType(ctx context.Context, itemType string, filter *expression.ConditionBuilder) ([]map[string]types.AttributeValue, error) {
	builder := expression.NewBuilder().
		WithKeyCondition(expression.Key(attrType).Equal(expression.Value(itemType)))
	if filter != nil {
		builder = builder.WithFilter(*filter)
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("build type query: %w", err)
	}
	return b.query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(b.table.TableName),
		IndexName:                 aws.String(b.table.TypeIndexName),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}, itemType)
}

// conditionCurrent matches an existing item whose updatedAt is expected.
func conditionCurrent(expected time.Time) expression.ConditionBuilder {
	return expression.AttributeExists(expression.Name(attrPK)).
		And(expression.Name(attrUpdatedAt).Equal(expression.Value(shared.FormatTimestamp(expected))))
}

func corrupt(resource string, err error) error {
	return apperrors.Internal(apperrors.CodeDataCorruption, "Stored item cannot be decoded").
		WithResource(resource).
		WithCause(err).
		Build()
}

func unmarshalItem(item map[string]types.AttributeValue, out any, resource string) error {
	if err := attributevalue.UnmarshalMap(item, out); err != nil {
		return corrupt(resource, err)
	}
	return nil
}
