package services

import (
	"testing"

	"dashboard-backend/internal/domain/user"
	apperrors "dashboard-backend/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_InviteAndChangeRole(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.users.Invite(f.ctx, InviteUsersInput{
		Emails: []string{"a@example.com", "b@example.com"},
		Role:   user.RoleEditor,
	}))
	require.NoError(t, f.users.ChangeRole(f.ctx, ChangeRoleInput{
		Usernames: []string{"b@example.com"},
		Role:      user.RolePublisher,
	}, "admin@example.com"))

	users, err := f.users.List(f.ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, []user.Role{user.RoleEditor}, users[0].Roles)
	assert.Equal(t, []user.Role{user.RolePublisher}, users[1].Roles)

	err = f.users.Invite(f.ctx, InviteUsersInput{Emails: []string{"a@example.com"}, Role: user.RoleEditor})
	assert.True(t, apperrors.IsConflict(err))
}

func TestUserService_Validation(t *testing.T) {
	f := newFixture(t)

	err := f.users.Invite(f.ctx, InviteUsersInput{Emails: []string{"not-an-email"}, Role: user.RoleAdmin})
	assert.True(t, apperrors.IsValidation(err))

	err = f.users.Invite(f.ctx, InviteUsersInput{Emails: []string{"a@example.com"}, Role: "Root"})
	assert.True(t, apperrors.IsValidation(err))

	err = f.users.Remove(f.ctx, UsersInput{}, "admin@example.com")
	assert.Equal(t, "Missing required field `usernames`", errorMessage(t, err))
}

func TestUserService_CannotRemoveSelf(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.users.Invite(f.ctx, InviteUsersInput{Emails: []string{"admin@example.com"}, Role: user.RoleAdmin}))

	err := f.users.Remove(f.ctx, UsersInput{Usernames: []string{"admin@example.com"}}, "admin@example.com")
	assert.True(t, apperrors.IsValidation(err))

	users, _ := f.users.List(f.ctx)
	assert.Len(t, users, 1)
}
