package errors

import "net/http"

// ErrorCode represents a unique error code for specific error scenarios
type ErrorCode string

const (
	// Dashboard
	CodeDashboardNotFound    ErrorCode = "DASHBOARD_NOT_FOUND"
	CodeDashboardNotEditable ErrorCode = "DASHBOARD_NOT_EDITABLE"
	CodeInvalidTransition    ErrorCode = "INVALID_STATE_TRANSITION"

	// Widget
	CodeWidgetNotFound    ErrorCode = "WIDGET_NOT_FOUND"
	CodeInvalidWidgetType ErrorCode = "INVALID_WIDGET_TYPE"

	// Topic area
	CodeTopicAreaNotFound ErrorCode = "TOPIC_AREA_NOT_FOUND"
	CodeTopicAreaInUse    ErrorCode = "TOPIC_AREA_IN_USE"

	// Dataset
	CodeDatasetNotFound ErrorCode = "DATASET_NOT_FOUND"
	CodeInvalidDataset  ErrorCode = "INVALID_DATASET"

	// Users
	CodeUserNotFound ErrorCode = "USER_NOT_FOUND"
	CodeUserExists   ErrorCode = "USER_ALREADY_EXISTS"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"

	// Validation
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeMissingField     ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat    ErrorCode = "INVALID_FORMAT"

	// Persistence
	CodeConcurrencyConflict ErrorCode = "CONCURRENCY_CONFLICT"
	CodeAlreadyExists       ErrorCode = "ALREADY_EXISTS"
	CodeDataCorruption      ErrorCode = "DATA_CORRUPTION"
	CodeDatabaseError       ErrorCode = "DATABASE_ERROR"
	CodeRateLimitExceeded   ErrorCode = "RATE_LIMIT_EXCEEDED"

	// Infrastructure
	CodeInternalError    ErrorCode = "INTERNAL_ERROR"
	CodeStorageError     ErrorCode = "STORAGE_ERROR"
	CodeIdentityError    ErrorCode = "IDENTITY_PROVIDER_ERROR"
	CodeEventPublishFail ErrorCode = "EVENT_PUBLISH_FAILED"
)

// String returns the string representation of the error code
func (c ErrorCode) String() string {
	return string(c)
}

// httpStatus maps the codes whose status differs from their error type's.
func (c ErrorCode) httpStatus() (int, bool) {
	switch c {
	case CodeValidationFailed, CodeMissingField, CodeInvalidFormat,
		CodeInvalidWidgetType, CodeInvalidDataset:
		return http.StatusBadRequest, true
	case CodeUnauthorized:
		return http.StatusUnauthorized, true
	case CodeForbidden:
		return http.StatusForbidden, true
	case CodeDashboardNotFound, CodeWidgetNotFound, CodeTopicAreaNotFound,
		CodeDatasetNotFound, CodeUserNotFound:
		return http.StatusNotFound, true
	case CodeConcurrencyConflict, CodeAlreadyExists, CodeDashboardNotEditable,
		CodeInvalidTransition, CodeTopicAreaInUse, CodeUserExists:
		return http.StatusConflict, true
	case CodeRateLimitExceeded:
		return http.StatusTooManyRequests, true
	default:
		return 0, false
	}
}
