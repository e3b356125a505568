package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"dashboard-backend/pkg/api"
)

// Timeout bounds every request with a deadline. The handler runs on the
// request goroutine and observes the deadline through its context; when it
// gives up without writing a response, a 504 is sent on its behalf.
func Timeout(timeout time.Duration, logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logger.Named("Timeout")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			if errors.Is(ctx.Err(), context.DeadlineExceeded) && ww.Status() == 0 {
				logger.Warn("request timed out",
					zap.String("requestID", GetRequestID(r.Context())),
					zap.String("path", r.URL.Path),
					zap.Duration("timeout", timeout),
				)
				api.Error(w, http.StatusGatewayTimeout, "Request timeout")
			}
		})
	}
}
