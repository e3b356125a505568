package errors

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// FromAWS converts an AWS SDK error into a UnifiedError. Errors that are
// already unified pass through untouched; nil stays nil.
func FromAWS(err error, operation, resource string) error {
	if err == nil {
		return nil
	}
	if _, ok := As(err); ok {
		return err
	}

	var canceled *types.TransactionCanceledException
	if errors.As(err, &canceled) {
		for _, reason := range canceled.CancellationReasons {
			if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
				return concurrencyConflict(err, operation, resource)
			}
		}
	}

	var ae smithy.APIError
	if !errors.As(err, &ae) {
		return Internal(CodeInternalError, fmt.Sprintf("%s failed", operation)).
			WithOperation(operation).
			WithResource(resource).
			WithCause(err).
			Build()
	}

	switch ae.ErrorCode() {
	case "ConditionalCheckFailedException":
		return concurrencyConflict(err, operation, resource)
	case "ProvisionedThroughputExceededException", "ThrottlingException",
		"RequestLimitExceeded", "TooManyRequestsException", "LimitExceededException":
		return NewError(ErrorTypeExternal, CodeRateLimitExceeded, "Request rate exceeded").
			WithOperation(operation).
			WithResource(resource).
			WithCause(err).
			Build()
	case "UsernameExistsException":
		return Conflict(CodeUserExists, "User already exists").
			WithOperation(operation).
			WithResource(resource).
			WithCause(err).
			Build()
	case "UserNotFoundException":
		return NotFound(CodeUserNotFound, "User not found").
			WithOperation(operation).
			WithResource(resource).
			WithCause(err).
			Build()
	case "NoSuchKey", "NotFound":
		return NotFound(CodeStorageError, "Object not found").
			WithOperation(operation).
			WithResource(resource).
			WithCause(err).
			Build()
	default:
		return External(CodeDatabaseError, fmt.Sprintf("%s failed", operation)).
			WithOperation(operation).
			WithResource(resource).
			WithDetails(ae.ErrorCode()).
			WithCause(err).
			Build()
	}
}

func concurrencyConflict(err error, operation, resource string) *UnifiedError {
	return Conflict(CodeConcurrencyConflict, "The item has been modified by another request").
		WithOperation(operation).
		WithResource(resource).
		WithCause(err).
		Build()
}
