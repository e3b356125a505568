// Package dataset models uploaded tabular data and the transforms applied
// before it is rendered: column filtering, sorting and value formatting.
package dataset

import (
	"time"

	"dashboard-backend/internal/domain/shared"
)

// Type distinguishes one-off uploads from reusable datasets.
type Type string

const (
	TypeStatic  Type = "StaticDataset"
	TypeDynamic Type = "DynamicDataset"
)

// S3Key locates the raw upload and its parsed JSON form.
type S3Key struct {
	Raw  string `json:"raw"`
	JSON string `json:"json,omitempty"`
}

// Dataset is the metadata record of an uploaded file.
type Dataset struct {
	ID          string    `json:"id"`
	FileName    string    `json:"fileName"`
	S3Key       S3Key     `json:"s3Key"`
	DatasetType Type      `json:"datasetType"`
	CreatedBy   string    `json:"createdBy"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// New builds a dataset record for files already stored under key.
func New(fileName string, key S3Key, datasetType Type, user string, now time.Time) *Dataset {
	if datasetType == "" {
		datasetType = TypeStatic
	}
	return &Dataset{
		ID:          shared.NewID(),
		FileName:    fileName,
		S3Key:       key,
		DatasetType: datasetType,
		CreatedBy:   user,
		UpdatedAt:   shared.Normalize(now),
	}
}
