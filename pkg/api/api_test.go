package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	Success(w, http.StatusCreated, map[string]string{"id": "1"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"1"}`, w.Body.String())
}

func TestSuccess_NilBody(t *testing.T) {
	w := httptest.NewRecorder()
	Success(w, http.StatusOK, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, http.StatusBadRequest, "Missing required field `name`")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing required field `name`", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}
