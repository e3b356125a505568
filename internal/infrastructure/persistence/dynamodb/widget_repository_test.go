package dynamodb

import (
	"context"
	"testing"
	"time"

	"dashboard-backend/internal/domain/dataset"
	"dashboard-backend/internal/domain/widget"
	apperrors "dashboard-backend/internal/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func chartWidget() *widget.Widget {
	return &widget.Widget{
		ID:          "w1",
		DashboardID: "123",
		Name:        "Cases chart",
		WidgetType:  widget.TypeChart,
		Order:       2,
		ShowTitle:   true,
		UpdatedAt:   fixedNow,
		Content: &widget.ChartContent{
			Title:        "Cases",
			ChartType:    widget.BarChart,
			DatasetID:    "ds1",
			S3Key:        dataset.S3Key{Raw: "raw/a.csv", JSON: "json/a.json"},
			SummaryBelow: true,
			ColumnsMetadata: []dataset.ColumnMetadata{
				{ColumnName: "Week", Hidden: true, DataType: dataset.DataTypeText},
				{ColumnName: "Cost", DataType: dataset.DataTypeNumber, NumberType: dataset.NumberTypeCurrency, CurrencyType: "$"},
			},
			SortByColumn: "Cost",
			SortByDesc:   true,
		},
	}
}

func TestWidgetItem_RoundTrip(t *testing.T) {
	original := chartWidget()

	item, err := marshalWidget(original)
	require.NoError(t, err)

	assert.Equal(t, strAttr("Dashboard#123"), item["pk"])
	assert.Equal(t, strAttr("Widget#w1"), item["sk"])
	assert.Equal(t, strAttr("Chart"), item["widgetType"])
	content := item["content"].(*types.AttributeValueMemberM).Value
	assert.Equal(t, strAttr("BarChart"), content["chartType"])
	assert.Equal(t, strAttr("json/a.json"), content["s3Key"].(*types.AttributeValueMemberM).Value["json"])

	decoded, err := unmarshalWidget(item)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestWidgetItem_UnknownType(t *testing.T) {
	item, err := marshalWidget(chartWidget())
	require.NoError(t, err)
	item["widgetType"] = strAttr("Video")

	_, err = unmarshalWidget(item)
	assert.Error(t, err)
}

func TestWidgetRepository_ListByDashboard(t *testing.T) {
	client := new(mockClient)
	repo := NewWidgetRepository(client, testTable, nil)
	item, err := marshalWidget(chartWidget())
	require.NoError(t, err)
	client.On("Query", mock.Anything, mock.Anything).Return(&dynamodb.QueryOutput{
		Items: []map[string]types.AttributeValue{item},
	}, nil)

	widgets, err := repo.ListByDashboard(context.Background(), "123")
	require.NoError(t, err)
	require.Len(t, widgets, 1)
	assert.Equal(t, "w1", widgets[0].ID)

	in := client.call("Query", 0).(*dynamodb.QueryInput)
	keyCond := resolve(in.KeyConditionExpression, in.ExpressionAttributeNames, in.ExpressionAttributeValues)
	assert.Contains(t, keyCond, "pk = 'Dashboard#123'")
	assert.Contains(t, keyCond, "begins_with (sk, 'Widget#')")
}

func TestWidgetRepository_Update(t *testing.T) {
	expected := fixedNow
	later := fixedNow.Add(time.Minute)

	t.Run("Should replace the widget behind an updatedAt condition", func(t *testing.T) {
		client := new(mockClient)
		repo := NewWidgetRepository(client, testTable, nil, WithClock(func() time.Time { return later }))
		client.On("PutItem", mock.Anything, mock.Anything).Return(&dynamodb.PutItemOutput{}, nil)

		w := chartWidget()
		w.Name = "Renamed"
		updated, err := repo.Update(context.Background(), w, expected)
		require.NoError(t, err)
		assert.Equal(t, later, updated.UpdatedAt)
		assert.Equal(t, fixedNow, w.UpdatedAt, "caller's widget must not be mutated")

		in := client.call("PutItem", 0).(*dynamodb.PutItemInput)
		assert.Equal(t, strAttr("Renamed"), in.Item["name"])
		assert.Equal(t, strAttr("2026-10-15T12:01:00.000Z"), in.Item["updatedAt"])
		cond := resolve(in.ConditionExpression, in.ExpressionAttributeNames, in.ExpressionAttributeValues)
		assert.Contains(t, cond, "updatedAt = '2026-10-15T12:00:00.000Z'")
	})

	t.Run("Should reject stale writes", func(t *testing.T) {
		client := new(mockClient)
		repo := NewWidgetRepository(client, testTable, nil)
		client.On("PutItem", mock.Anything, mock.Anything).
			Return(nil, &types.ConditionalCheckFailedException{Message: aws.String("failed")})

		_, err := repo.Update(context.Background(), chartWidget(), expected)
		assert.True(t, apperrors.IsConcurrencyConflict(err))
	})
}

func TestWidgetRepository_SetOrder(t *testing.T) {
	t.Run("Should write all placements in one transaction", func(t *testing.T) {
		client := new(mockClient)
		repo := NewWidgetRepository(client, testTable, nil, WithClock(fixedClock))
		client.On("TransactWriteItems", mock.Anything, mock.Anything).Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		placements := []widget.Placement{
			{ID: "a", Order: 1, UpdatedAt: fixedNow.Add(-time.Hour)},
			{ID: "b", Order: 0, UpdatedAt: fixedNow.Add(-2 * time.Hour)},
		}
		require.NoError(t, repo.SetOrder(context.Background(), "123", placements))

		in := client.call("TransactWriteItems", 0).(*dynamodb.TransactWriteItemsInput)
		require.Len(t, in.TransactItems, 2)
		upd := in.TransactItems[1].Update
		assert.Equal(t, strAttr("Widget#b"), upd.Key["sk"])
		assert.Contains(t, resolve(upd.UpdateExpression, upd.ExpressionAttributeNames, upd.ExpressionAttributeValues), "order = 0")
		assert.Contains(t, resolve(upd.ConditionExpression, upd.ExpressionAttributeNames, upd.ExpressionAttributeValues),
			"updatedAt = '2026-10-15T10:00:00.000Z'")
	})

	t.Run("Should map a cancelled transaction to a conflict", func(t *testing.T) {
		client := new(mockClient)
		repo := NewWidgetRepository(client, testTable, nil)
		client.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, &types.TransactionCanceledException{
			CancellationReasons: []types.CancellationReason{{Code: aws.String("ConditionalCheckFailed")}},
		})

		err := repo.SetOrder(context.Background(), "123", []widget.Placement{{ID: "a", Order: 0, UpdatedAt: fixedNow}})
		assert.True(t, apperrors.IsConcurrencyConflict(err))
	})

	t.Run("Should skip empty reorders", func(t *testing.T) {
		client := new(mockClient)
		repo := NewWidgetRepository(client, testTable, nil)

		require.NoError(t, repo.SetOrder(context.Background(), "123", nil))
		client.AssertNotCalled(t, "TransactWriteItems", mock.Anything, mock.Anything)
	})
}
