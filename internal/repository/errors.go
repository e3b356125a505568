package repository

import (
	apperrors "dashboard-backend/internal/errors"
)

// Not-found constructors shared by every implementation so callers see
// the same codes regardless of the storage driver.

func DashboardNotFound(id string) error {
	return apperrors.NotFound(apperrors.CodeDashboardNotFound, "Dashboard not found").WithResource(id).Build()
}

func WidgetNotFound(id string) error {
	return apperrors.NotFound(apperrors.CodeWidgetNotFound, "Widget not found").WithResource(id).Build()
}

func TopicAreaNotFound(id string) error {
	return apperrors.NotFound(apperrors.CodeTopicAreaNotFound, "Topic area not found").WithResource(id).Build()
}

func DatasetNotFound(id string) error {
	return apperrors.NotFound(apperrors.CodeDatasetNotFound, "Dataset not found").WithResource(id).Build()
}

func AlreadyExists(resource string) error {
	return apperrors.Conflict(apperrors.CodeAlreadyExists, "Item already exists").WithResource(resource).Build()
}

// ConcurrencyConflict is returned by optimistic-lock writes on stale input.
func ConcurrencyConflict(resource string) error {
	return apperrors.Conflict(apperrors.CodeConcurrencyConflict,
		"The item has been modified by another request").
		WithResource(resource).
		Build()
}
