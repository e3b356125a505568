package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/awslabs/aws-lambda-go-api-proxy/core"
	"go.uber.org/zap"

	"dashboard-backend/pkg/api"
	"dashboard-backend/pkg/auth"
)

// TokenValidator verifies bearer tokens outside API Gateway.
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// Authenticator resolves the caller of admin requests. Behind API Gateway the
// authorizer has already verified the Cognito token and its claims are taken
// from the proxied request context; otherwise the Authorization header is
// verified with the configured validator.
type Authenticator struct {
	validator TokenValidator
	logger    *zap.Logger
}

// NewAuthenticator creates an Authenticator. validator may be nil, in which
// case only API Gateway claims are accepted.
func NewAuthenticator(validator TokenValidator, logger *zap.Logger) *Authenticator {
	return &Authenticator{validator: validator, logger: logger.Named("Authenticator")}
}

// Authenticate rejects requests without a caller with 401.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := a.fromGateway(r)
		if !ok {
			caller, ok = a.fromBearer(r)
		}
		if !ok {
			api.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithCaller(r.Context(), caller)))
	})
}

func (a *Authenticator) fromGateway(r *http.Request) (*auth.Caller, bool) {
	proxyCtx, ok := core.GetAPIGatewayV2ContextFromContext(r.Context())
	if !ok || proxyCtx.Authorizer == nil {
		return nil, false
	}
	if jwt := proxyCtx.Authorizer.JWT; jwt != nil && len(jwt.Claims) > 0 {
		return auth.CallerFromClaims(jwt.Claims)
	}
	if len(proxyCtx.Authorizer.Lambda) > 0 {
		claims := make(map[string]string, len(proxyCtx.Authorizer.Lambda))
		for k, v := range proxyCtx.Authorizer.Lambda {
			claims[k] = fmt.Sprint(v)
		}
		return auth.CallerFromClaims(claims)
	}
	return nil, false
}

func (a *Authenticator) fromBearer(r *http.Request) (*auth.Caller, bool) {
	if a.validator == nil {
		return nil, false
	}
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return nil, false
	}
	claims, err := a.validator.ValidateToken(token)
	if err != nil {
		a.logger.Debug("rejected bearer token",
			zap.Error(err),
			zap.String("requestID", GetRequestID(r.Context())),
		)
		return nil, false
	}
	return claims.Caller(), true
}

// RequireRole answers 403 unless the caller holds one of roles. It must run
// after Authenticate.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := auth.CallerFrom(r.Context())
			if !ok {
				api.Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			if !caller.HasRole(roles...) {
				api.Error(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
