// Package auth resolves the identity of API callers from Cognito tokens,
// either verified here or already verified by the API Gateway authorizer.
package auth

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
)

// Caller is the authenticated user of a request.
type Caller struct {
	Username string
	Email    string
	Roles    []string
}

// HasRole reports whether the caller holds any of roles.
func (c *Caller) HasRole(roles ...string) bool {
	for _, r := range roles {
		if slices.Contains(c.Roles, r) {
			return true
		}
	}
	return false
}

type contextKey struct{}

// WithCaller stores caller in ctx.
func WithCaller(ctx context.Context, caller *Caller) context.Context {
	return context.WithValue(ctx, contextKey{}, caller)
}

// CallerFrom returns the caller stored in ctx.
func CallerFrom(ctx context.Context) (*Caller, bool) {
	c, ok := ctx.Value(contextKey{}).(*Caller)
	return c, ok && c != nil
}

// CallerFromClaims builds a caller from authorizer claims, where every value
// has been flattened to a string. Returns false without a subject.
func CallerFromClaims(claims map[string]string) (*Caller, bool) {
	username := claims["cognito:username"]
	if username == "" {
		username = claims["username"]
	}
	if username == "" {
		username = claims["sub"]
	}
	if username == "" {
		return nil, false
	}
	return &Caller{
		Username: username,
		Email:    claims["email"],
		Roles:    ParseRoles(claims["custom:roles"], parseList(claims["cognito:groups"])),
	}, true
}

// ParseRoles prefers the custom:roles JSON array and falls back to groups.
func ParseRoles(rolesAttr string, groups []string) []string {
	if rolesAttr != "" {
		var roles []string
		if err := json.Unmarshal([]byte(rolesAttr), &roles); err == nil {
			return roles
		}
	}
	if groups == nil {
		return []string{}
	}
	return groups
}

// parseList accepts "[a b]", "[\"a\",\"b\"]" and "a,b".
func parseList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err == nil {
		return out
	}
	s = strings.Trim(s, "[]")
	return strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' })
}
