package cognito

import (
	"context"
	"testing"
	"time"

	"dashboard-backend/internal/domain/user"
	apperrors "dashboard-backend/internal/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) ListUsers(ctx context.Context, in *cip.ListUsersInput, _ ...func(*cip.Options)) (*cip.ListUsersOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*cip.ListUsersOutput)
	return out, args.Error(1)
}

func (m *mockClient) AdminCreateUser(ctx context.Context, in *cip.AdminCreateUserInput, _ ...func(*cip.Options)) (*cip.AdminCreateUserOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*cip.AdminCreateUserOutput)
	return out, args.Error(1)
}

func (m *mockClient) AdminDeleteUser(ctx context.Context, in *cip.AdminDeleteUserInput, _ ...func(*cip.Options)) (*cip.AdminDeleteUserOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*cip.AdminDeleteUserOutput)
	return out, args.Error(1)
}

func (m *mockClient) AdminUpdateUserAttributes(ctx context.Context, in *cip.AdminUpdateUserAttributesInput, _ ...func(*cip.Options)) (*cip.AdminUpdateUserAttributesOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*cip.AdminUpdateUserAttributesOutput)
	return out, args.Error(1)
}

func attr(name, value string) types.AttributeType {
	return types.AttributeType{Name: aws.String(name), Value: aws.String(value)}
}

func TestUserRepository_List(t *testing.T) {
	client := new(mockClient)
	repo := NewUserRepository(client, "pool-1", nil)
	created := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	client.On("ListUsers", mock.Anything, mock.Anything).Return(&cip.ListUsersOutput{
		Users: []types.UserType{{
			Username:       aws.String("alice@example.com"),
			Enabled:        true,
			UserStatus:     types.UserStatusTypeConfirmed,
			UserCreateDate: &created,
			Attributes: []types.AttributeType{
				attr("email", "alice@example.com"),
				attr("custom:roles", `["Admin","Janitor"]`),
			},
		}},
	}, nil)

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)

	assert.Equal(t, "alice@example.com", users[0].Email)
	assert.Equal(t, []user.Role{user.RoleAdmin}, users[0].Roles)
	assert.Equal(t, "CONFIRMED", users[0].Status)
	assert.Equal(t, created, users[0].CreatedAt)

	in := client.Calls[0].Arguments.Get(1).(*cip.ListUsersInput)
	assert.Equal(t, "pool-1", aws.ToString(in.UserPoolId))
}

func TestUserRepository_Add(t *testing.T) {
	client := new(mockClient)
	repo := NewUserRepository(client, "pool-1", nil)
	client.On("AdminCreateUser", mock.Anything, mock.Anything).Return(&cip.AdminCreateUserOutput{}, nil)

	require.NoError(t, repo.Add(context.Background(), []string{"a@example.com", "b@example.com"}, user.RoleEditor))

	client.AssertNumberOfCalls(t, "AdminCreateUser", 2)
	in := client.Calls[1].Arguments.Get(1).(*cip.AdminCreateUserInput)
	assert.Equal(t, "b@example.com", aws.ToString(in.Username))
	assert.Contains(t, in.UserAttributes, attr("custom:roles", `["Editor"]`))
	assert.Empty(t, in.MessageAction)
}

func TestUserRepository_Add_Existing(t *testing.T) {
	client := new(mockClient)
	repo := NewUserRepository(client, "pool-1", nil)
	client.On("AdminCreateUser", mock.Anything, mock.Anything).
		Return(nil, &smithy.GenericAPIError{Code: "UsernameExistsException"})

	err := repo.Add(context.Background(), []string{"a@example.com"}, user.RoleEditor)
	assert.True(t, apperrors.IsConflict(err))
}

func TestUserRepository_IdentityProviderFailure(t *testing.T) {
	client := new(mockClient)
	repo := NewUserRepository(client, "pool-1", nil)
	client.On("AdminDeleteUser", mock.Anything, mock.Anything).
		Return(nil, &smithy.GenericAPIError{Code: "InternalErrorException"})

	err := repo.Remove(context.Background(), []string{"a"})
	ue, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeIdentityError.String(), ue.Code)
	assert.Equal(t, "InternalErrorException", ue.Details)
}

func TestUserRepository_ResendInvite(t *testing.T) {
	client := new(mockClient)
	repo := NewUserRepository(client, "pool-1", nil)
	client.On("AdminCreateUser", mock.Anything, mock.Anything).Return(&cip.AdminCreateUserOutput{}, nil)

	require.NoError(t, repo.ResendInvite(context.Background(), []string{"a@example.com"}))

	in := client.Calls[0].Arguments.Get(1).(*cip.AdminCreateUserInput)
	assert.Equal(t, types.MessageActionTypeResend, in.MessageAction)
}

func TestUserRepository_ChangeRoleAndRemove(t *testing.T) {
	client := new(mockClient)
	repo := NewUserRepository(client, "pool-1", nil)
	client.On("AdminUpdateUserAttributes", mock.Anything, mock.Anything).Return(&cip.AdminUpdateUserAttributesOutput{}, nil)
	client.On("AdminDeleteUser", mock.Anything, mock.Anything).Return(&cip.AdminDeleteUserOutput{}, nil)

	require.NoError(t, repo.ChangeRole(context.Background(), []string{"a"}, user.RolePublisher))
	require.NoError(t, repo.Remove(context.Background(), []string{"a", "b"}))

	upd := client.Calls[0].Arguments.Get(1).(*cip.AdminUpdateUserAttributesInput)
	assert.Equal(t, []types.AttributeType{attr("custom:roles", `["Publisher"]`)}, upd.UserAttributes)
	client.AssertNumberOfCalls(t, "AdminDeleteUser", 2)
}

func TestParseRoles(t *testing.T) {
	assert.Equal(t, []user.Role{user.RoleAdmin, user.RoleEditor}, ParseRoles(`["Admin","Editor"]`))
	assert.Empty(t, ParseRoles("not json"))
}
