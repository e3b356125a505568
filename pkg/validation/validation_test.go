package validation

import (
	"testing"

	apperrors "dashboard-backend/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createRequest struct {
	TopicAreaID string `json:"topicAreaId" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Role        string `json:"role" validate:"omitempty,oneof=Admin Editor"`
	Count       int    `json:"count" validate:"gte=0"`
}

func TestStruct_FirstMissingFieldUsesJSONName(t *testing.T) {
	err := New().Struct(createRequest{})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "Missing required field `topicAreaId`", mustUnified(t, err).Message)
}

func TestStruct_OneOf(t *testing.T) {
	err := New().Struct(createRequest{TopicAreaID: "t", Name: "n", Role: "Root"})
	require.Error(t, err)
	assert.Equal(t, "Invalid field `role`: must be one of Admin Editor", mustUnified(t, err).Message)
}

func TestStruct_OtherTag(t *testing.T) {
	err := New().Struct(createRequest{TopicAreaID: "t", Name: "n", Count: -1})
	require.Error(t, err)
	assert.Equal(t, "Invalid field `count`", mustUnified(t, err).Message)
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, New().Struct(createRequest{TopicAreaID: "t", Name: "n", Role: "Admin"}))
}

func mustUnified(t *testing.T, err error) *apperrors.UnifiedError {
	t.Helper()
	ue, ok := apperrors.As(err)
	require.True(t, ok)
	return ue
}
