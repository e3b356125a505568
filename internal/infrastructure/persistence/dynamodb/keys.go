package dynamodb

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DefaultTypeIndex is the name of the global secondary index keyed on type.
const DefaultTypeIndex = "byType"

const (
	attrPK        = "pk"
	attrSK        = "sk"
	attrType      = "type"
	attrUpdatedAt = "updatedAt"
	attrUpdatedBy = "updatedBy"
	attrVersion   = "version"
	attrState     = "state"
	attrOrder     = "order"

	typeDashboard = "Dashboard"
	typeWidget    = "Widget"
	typeTopicArea = "TopicArea"
	typeDataset   = "Dataset"
	typeSettings  = "Settings"

	settingsKey = "Settings"
)

// ItemID builds the storage identifier "<Type>#<id>".
func ItemID(itemType, id string) string {
	return itemType + "#" + id
}

// StripItemID returns the id part of an item identifier. Values without a
// type prefix are returned unchanged.
func StripItemID(itemID string) string {
	if i := strings.IndexByte(itemID, '#'); i >= 0 {
		return itemID[i+1:]
	}
	return itemID
}

func key(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrPK: &types.AttributeValueMemberS{Value: pk},
		attrSK: &types.AttributeValueMemberS{Value: sk},
	}
}

// entityKey is the key of a top-level entity whose pk and sk are equal.
func entityKey(itemType, id string) map[string]types.AttributeValue {
	itemID := ItemID(itemType, id)
	return key(itemID, itemID)
}

func widgetKey(dashboardID, widgetID string) map[string]types.AttributeValue {
	return key(ItemID(typeDashboard, dashboardID), ItemID(typeWidget, widgetID))
}

func itemType(item map[string]types.AttributeValue) string {
	if v, ok := item[attrType].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}
