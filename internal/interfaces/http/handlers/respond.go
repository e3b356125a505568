// Package handlers adapts the application services to HTTP. Handlers decode
// the request, call exactly one service operation and render the result; all
// failures go through writeError.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	apperrors "dashboard-backend/internal/errors"
	"dashboard-backend/internal/interfaces/http/middleware"
	"dashboard-backend/pkg/api"
	"dashboard-backend/pkg/auth"
)

const maxBodyBytes = 1 << 20

// decode reads a JSON body into dst. An empty body decodes as {} so that
// validation can name the first missing field.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	api.Error(w, http.StatusBadRequest, "Invalid request body")
	return false
}

// caller returns the authenticated username or answers 401.
func caller(w http.ResponseWriter, r *http.Request) (string, bool) {
	c, ok := auth.CallerFrom(r.Context())
	if !ok {
		api.Error(w, http.StatusUnauthorized, "Unauthorized")
		return "", false
	}
	return c.Username, true
}

// writeError renders err with the status its classification maps to. Client
// errors carry their message; server errors are logged and rendered
// generically.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"
	if ue, ok := apperrors.As(err); ok {
		status = ue.HTTPStatus()
		if status < http.StatusInternalServerError {
			message = ue.Message
		}
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("requestID", middleware.GetRequestID(r.Context())),
		)
	}
	api.Error(w, status, message)
}
