// Package user models the administrators of the dashboard site.
package user

import (
	"slices"
	"time"
)

// Role grants a set of admin capabilities.
type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleEditor    Role = "Editor"
	RolePublisher Role = "Publisher"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RolePublisher:
		return true
	}
	return false
}

// User is an account in the identity provider.
type User struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Roles     []Role    `json:"roles"`
	Status    string    `json:"userStatus,omitempty"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// HasRole reports whether u holds any of roles.
func (u *User) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if slices.Contains(u.Roles, r) {
			return true
		}
	}
	return false
}
