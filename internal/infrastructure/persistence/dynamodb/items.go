package dynamodb

import (
	"fmt"

	"dashboard-backend/internal/domain/dashboard"
	"dashboard-backend/internal/domain/dataset"
	"dashboard-backend/internal/domain/settings"
	"dashboard-backend/internal/domain/shared"
	"dashboard-backend/internal/domain/topicarea"
	"dashboard-backend/internal/domain/widget"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Item factories translate between domain values and stored items. Ids are
// stored with their type prefix and stripped again on the way out.

type dashboardItem struct {
	PK                string `dynamodbav:"pk"`
	SK                string `dynamodbav:"sk"`
	Type              string `dynamodbav:"type"`
	DashboardName     string `dynamodbav:"dashboardName"`
	TopicAreaID       string `dynamodbav:"topicAreaId"`
	TopicAreaName     string `dynamodbav:"topicAreaName"`
	Description       string `dynamodbav:"description"`
	Overview          string `dynamodbav:"overview,omitempty"`
	State             string `dynamodbav:"state"`
	Version           int    `dynamodbav:"version"`
	ParentDashboardID string `dynamodbav:"parentDashboardId,omitempty"`
	ReleaseNotes      string `dynamodbav:"releaseNotes,omitempty"`
	CreatedBy         string `dynamodbav:"createdBy"`
	UpdatedBy         string `dynamodbav:"updatedBy,omitempty"`
	UpdatedAt         string `dynamodbav:"updatedAt"`
}

func marshalDashboard(d *dashboard.Dashboard) (map[string]types.AttributeValue, error) {
	itemID := ItemID(typeDashboard, d.ID)
	return attributevalue.MarshalMap(dashboardItem{
		PK:                itemID,
		SK:                itemID,
		Type:              typeDashboard,
		DashboardName:     d.Name,
		TopicAreaID:       ItemID(typeTopicArea, d.TopicAreaID),
		TopicAreaName:     d.TopicAreaName,
		Description:       d.Description,
		Overview:          d.Overview,
		State:             string(d.State),
		Version:           d.Version,
		ParentDashboardID: d.ParentDashboardID,
		ReleaseNotes:      d.ReleaseNotes,
		CreatedBy:         d.CreatedBy,
		UpdatedBy:         d.UpdatedBy,
		UpdatedAt:         shared.FormatTimestamp(d.UpdatedAt),
	})
}

func unmarshalDashboard(item map[string]types.AttributeValue) (*dashboard.Dashboard, error) {
	var it dashboardItem
	if err := unmarshalItem(item, &it, typeDashboard); err != nil {
		return nil, err
	}
	updatedAt, err := shared.ParseTimestamp(it.UpdatedAt)
	if err != nil {
		return nil, corrupt(it.PK, err)
	}
	return &dashboard.Dashboard{
		ID:                StripItemID(it.PK),
		Name:              it.DashboardName,
		TopicAreaID:       StripItemID(it.TopicAreaID),
		TopicAreaName:     it.TopicAreaName,
		Description:       it.Description,
		Overview:          it.Overview,
		State:             dashboard.State(it.State),
		Version:           it.Version,
		ParentDashboardID: it.ParentDashboardID,
		ReleaseNotes:      it.ReleaseNotes,
		CreatedBy:         it.CreatedBy,
		UpdatedBy:         it.UpdatedBy,
		UpdatedAt:         updatedAt,
	}, nil
}

type widgetItem struct {
	PK         string `dynamodbav:"pk"`
	SK         string `dynamodbav:"sk"`
	Type       string `dynamodbav:"type"`
	Name       string `dynamodbav:"name"`
	WidgetType string `dynamodbav:"widgetType"`
	Order      int    `dynamodbav:"order"`
	ShowTitle  bool   `dynamodbav:"showTitle"`
	UpdatedAt  string `dynamodbav:"updatedAt"`
}

const attrContent = "content"

// contentTag makes content maps use the same attribute names as the API.
func contentTag(o *attributevalue.EncoderOptions) { o.TagKey = "json" }

func contentDecodeTag(o *attributevalue.DecoderOptions) { o.TagKey = "json" }

func marshalWidget(w *widget.Widget) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(widgetItem{
		PK:         ItemID(typeDashboard, w.DashboardID),
		SK:         ItemID(typeWidget, w.ID),
		Type:       typeWidget,
		Name:       w.Name,
		WidgetType: string(w.WidgetType),
		Order:      w.Order,
		ShowTitle:  w.ShowTitle,
		UpdatedAt:  shared.FormatTimestamp(w.UpdatedAt),
	})
	if err != nil {
		return nil, err
	}
	if w.Content == nil {
		return nil, fmt.Errorf("widget %s has no content", w.ID)
	}
	content, err := attributevalue.MarshalMapWithOptions(w.Content, contentTag)
	if err != nil {
		return nil, fmt.Errorf("marshal widget content: %w", err)
	}
	item[attrContent] = &types.AttributeValueMemberM{Value: content}
	return item, nil
}

func unmarshalWidget(item map[string]types.AttributeValue) (*widget.Widget, error) {
	var it widgetItem
	if err := unmarshalItem(item, &it, typeWidget); err != nil {
		return nil, err
	}
	updatedAt, err := shared.ParseTimestamp(it.UpdatedAt)
	if err != nil {
		return nil, corrupt(it.SK, err)
	}

	widgetType := widget.Type(it.WidgetType)
	content, err := widget.NewContent(widgetType)
	if err != nil {
		return nil, corrupt(it.SK, err)
	}
	if m, ok := item[attrContent].(*types.AttributeValueMemberM); ok {
		if err := attributevalue.UnmarshalMapWithOptions(m.Value, content, contentDecodeTag); err != nil {
			return nil, corrupt(it.SK, err)
		}
	}

	return &widget.Widget{
		ID:          StripItemID(it.SK),
		DashboardID: StripItemID(it.PK),
		Name:        it.Name,
		WidgetType:  widgetType,
		Order:       it.Order,
		ShowTitle:   it.ShowTitle,
		UpdatedAt:   updatedAt,
		Content:     content,
	}, nil
}

type topicAreaItem struct {
	PK        string `dynamodbav:"pk"`
	SK        string `dynamodbav:"sk"`
	Type      string `dynamodbav:"type"`
	Name      string `dynamodbav:"name"`
	CreatedBy string `dynamodbav:"createdBy"`
	UpdatedAt string `dynamodbav:"updatedAt"`
}

func marshalTopicArea(t *topicarea.TopicArea) (map[string]types.AttributeValue, error) {
	itemID := ItemID(typeTopicArea, t.ID)
	return attributevalue.MarshalMap(topicAreaItem{
		PK:        itemID,
		SK:        itemID,
		Type:      typeTopicArea,
		Name:      t.Name,
		CreatedBy: t.CreatedBy,
		UpdatedAt: shared.FormatTimestamp(t.UpdatedAt),
	})
}

func unmarshalTopicArea(item map[string]types.AttributeValue) (*topicarea.TopicArea, error) {
	var it topicAreaItem
	if err := unmarshalItem(item, &it, typeTopicArea); err != nil {
		return nil, err
	}
	updatedAt, err := shared.ParseTimestamp(it.UpdatedAt)
	if err != nil {
		return nil, corrupt(it.PK, err)
	}
	return &topicarea.TopicArea{
		ID:        StripItemID(it.PK),
		Name:      it.Name,
		CreatedBy: it.CreatedBy,
		UpdatedAt: updatedAt,
	}, nil
}

type s3KeyItem struct {
	Raw  string `dynamodbav:"raw"`
	JSON string `dynamodbav:"json,omitempty"`
}

type datasetItem struct {
	PK          string    `dynamodbav:"pk"`
	SK          string    `dynamodbav:"sk"`
	Type        string    `dynamodbav:"type"`
	FileName    string    `dynamodbav:"fileName"`
	S3Key       s3KeyItem `dynamodbav:"s3Key"`
	DatasetType string    `dynamodbav:"datasetType"`
	CreatedBy   string    `dynamodbav:"createdBy"`
	UpdatedAt   string    `dynamodbav:"updatedAt"`
}

func marshalDataset(d *dataset.Dataset) (map[string]types.AttributeValue, error) {
	itemID := ItemID(typeDataset, d.ID)
	return attributevalue.MarshalMap(datasetItem{
		PK:          itemID,
		SK:          itemID,
		Type:        typeDataset,
		FileName:    d.FileName,
		S3Key:       s3KeyItem{Raw: d.S3Key.Raw, JSON: d.S3Key.JSON},
		DatasetType: string(d.DatasetType),
		CreatedBy:   d.CreatedBy,
		UpdatedAt:   shared.FormatTimestamp(d.UpdatedAt),
	})
}

func unmarshalDataset(item map[string]types.AttributeValue) (*dataset.Dataset, error) {
	var it datasetItem
	if err := unmarshalItem(item, &it, typeDataset); err != nil {
		return nil, err
	}
	updatedAt, err := shared.ParseTimestamp(it.UpdatedAt)
	if err != nil {
		return nil, corrupt(it.PK, err)
	}
	return &dataset.Dataset{
		ID:          StripItemID(it.PK),
		FileName:    it.FileName,
		S3Key:       dataset.S3Key{Raw: it.S3Key.Raw, JSON: it.S3Key.JSON},
		DatasetType: dataset.Type(it.DatasetType),
		CreatedBy:   it.CreatedBy,
		UpdatedAt:   updatedAt,
	}, nil
}

type dateTimeFormatItem struct {
	Date string `dynamodbav:"date"`
	Time string `dynamodbav:"time"`
}

type topicAreaLabelsItem struct {
	Singular string `dynamodbav:"singular"`
	Plural   string `dynamodbav:"plural"`
}

type settingsItem struct {
	PublishingGuidance string               `dynamodbav:"publishingGuidance"`
	DateTimeFormat     *dateTimeFormatItem  `dynamodbav:"dateTimeFormat"`
	NavbarTitle        string               `dynamodbav:"navbarTitle"`
	TopicAreaLabels    *topicAreaLabelsItem `dynamodbav:"topicAreaLabels"`
	UpdatedAt          string               `dynamodbav:"updatedAt"`
	UpdatedBy          string               `dynamodbav:"updatedBy"`
}

func unmarshalSettings(item map[string]types.AttributeValue) (*settings.Settings, error) {
	var it settingsItem
	if err := unmarshalItem(item, &it, typeSettings); err != nil {
		return nil, err
	}
	s := &settings.Settings{
		PublishingGuidance: it.PublishingGuidance,
		NavbarTitle:        it.NavbarTitle,
		UpdatedBy:          it.UpdatedBy,
	}
	if it.DateTimeFormat != nil {
		s.DateTimeFormat = settings.DateTimeFormat{Date: it.DateTimeFormat.Date, Time: it.DateTimeFormat.Time}
	}
	if it.TopicAreaLabels != nil {
		s.TopicAreaLabels = settings.TopicAreaLabels{Singular: it.TopicAreaLabels.Singular, Plural: it.TopicAreaLabels.Plural}
	}
	if it.UpdatedAt != "" {
		updatedAt, err := shared.ParseTimestamp(it.UpdatedAt)
		if err != nil {
			return nil, corrupt(settingsKey, err)
		}
		s.UpdatedAt = updatedAt
	}
	return s.WithDefaults(), nil
}
