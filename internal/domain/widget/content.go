package widget

import (
	"encoding/json"

	"dashboard-backend/internal/domain/dataset"
	apperrors "dashboard-backend/internal/errors"
)

// ChartType selects the chart rendering of a chart widget.
type ChartType string

const (
	LineChart      ChartType = "LineChart"
	BarChart       ChartType = "BarChart"
	ColumnChart    ChartType = "ColumnChart"
	PartWholeChart ChartType = "PartWholeChart"
	PieChart       ChartType = "PieChart"
	DonutChart     ChartType = "DonutChart"
)

// Content is the variant payload of a widget.
type Content interface {
	WidgetType() Type
}

// DataSource describes the dataset a data-backed widget renders.
type DataSource struct {
	DatasetID       string
	JSONKey         string
	ColumnsMetadata []dataset.ColumnMetadata
	SortByColumn    string
	SortByDesc      bool
}

// DataContent is implemented by content backed by a dataset.
type DataContent interface {
	Content
	DataSource() DataSource
}

type TextContent struct {
	Text string `json:"text" validate:"required"`
}

func (*TextContent) WidgetType() Type { return TypeText }

type ChartContent struct {
	Title           string                   `json:"title" validate:"required"`
	ChartType       ChartType                `json:"chartType" validate:"required,oneof=LineChart BarChart ColumnChart PartWholeChart PieChart DonutChart"`
	DatasetID       string                   `json:"datasetId" validate:"required"`
	S3Key           dataset.S3Key            `json:"s3Key"`
	FileName        string                   `json:"fileName,omitempty"`
	DatasetType     dataset.Type             `json:"datasetType,omitempty"`
	Summary         string                   `json:"summary,omitempty"`
	SummaryBelow    bool                     `json:"summaryBelow"`
	ColumnsMetadata []dataset.ColumnMetadata `json:"columnsMetadata,omitempty" validate:"dive"`
	SortByColumn    string                   `json:"sortByColumn,omitempty"`
	SortByDesc      bool                     `json:"sortByDesc"`
}

func (*ChartContent) WidgetType() Type { return TypeChart }

func (c *ChartContent) DataSource() DataSource {
	return DataSource{
		DatasetID:       c.DatasetID,
		JSONKey:         c.S3Key.JSON,
		ColumnsMetadata: c.ColumnsMetadata,
		SortByColumn:    c.SortByColumn,
		SortByDesc:      c.SortByDesc,
	}
}

type TableContent struct {
	Title           string                   `json:"title" validate:"required"`
	DatasetID       string                   `json:"datasetId" validate:"required"`
	S3Key           dataset.S3Key            `json:"s3Key"`
	FileName        string                   `json:"fileName,omitempty"`
	DatasetType     dataset.Type             `json:"datasetType,omitempty"`
	Summary         string                   `json:"summary,omitempty"`
	SummaryBelow    bool                     `json:"summaryBelow"`
	ColumnsMetadata []dataset.ColumnMetadata `json:"columnsMetadata,omitempty" validate:"dive"`
	SortByColumn    string                   `json:"sortByColumn,omitempty"`
	SortByDesc      bool                     `json:"sortByDesc"`
}

func (*TableContent) WidgetType() Type { return TypeTable }

func (c *TableContent) DataSource() DataSource {
	return DataSource{
		DatasetID:       c.DatasetID,
		JSONKey:         c.S3Key.JSON,
		ColumnsMetadata: c.ColumnsMetadata,
		SortByColumn:    c.SortByColumn,
		SortByDesc:      c.SortByDesc,
	}
}

type ImageContent struct {
	Title        string        `json:"title" validate:"required"`
	ImageAltText string        `json:"imageAltText" validate:"required"`
	S3Key        dataset.S3Key `json:"s3Key"`
	FileName     string        `json:"fileName,omitempty"`
	Summary      string        `json:"summary,omitempty"`
	SummaryBelow bool          `json:"summaryBelow"`
	ScalePct     string        `json:"scalePct,omitempty"`
}

func (*ImageContent) WidgetType() Type { return TypeImage }

type MetricsContent struct {
	Title                  string        `json:"title" validate:"required"`
	DatasetID              string        `json:"datasetId" validate:"required"`
	S3Key                  dataset.S3Key `json:"s3Key"`
	OneMetricPerRow        bool          `json:"oneMetricPerRow"`
	SignificantDigitLabels bool          `json:"significantDigitLabels"`
	MetricsCenterAlign     bool          `json:"metricsCenterAlign"`
}

func (*MetricsContent) WidgetType() Type { return TypeMetrics }

func (c *MetricsContent) DataSource() DataSource {
	return DataSource{DatasetID: c.DatasetID, JSONKey: c.S3Key.JSON}
}

// NewContent returns an empty content value for t.
func NewContent(t Type) (Content, error) {
	switch t {
	case TypeText:
		return &TextContent{}, nil
	case TypeChart:
		return &ChartContent{}, nil
	case TypeTable:
		return &TableContent{}, nil
	case TypeImage:
		return &ImageContent{}, nil
	case TypeMetrics:
		return &MetricsContent{}, nil
	default:
		return nil, invalidType(t)
	}
}

// DecodeContent parses raw JSON into the content variant for t.
func DecodeContent(t Type, raw []byte) (Content, error) {
	content, err := NewContent(t)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return content, nil
	}
	if err := json.Unmarshal(raw, content); err != nil {
		return nil, apperrors.Validation(apperrors.CodeInvalidFormat, "Invalid widget content").
			WithCause(err).
			Build()
	}
	return content, nil
}
