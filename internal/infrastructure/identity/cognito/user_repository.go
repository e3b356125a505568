// Package cognito implements the user repository on a Cognito user pool.
// Roles are kept in the custom:roles attribute as a JSON array.
package cognito

import (
	"context"
	"encoding/json"
	"fmt"

	"dashboard-backend/internal/domain/user"
	apperrors "dashboard-backend/internal/errors"
	"dashboard-backend/internal/repository"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"go.uber.org/zap"
)

const (
	attrEmail         = "email"
	attrEmailVerified = "email_verified"
	attrRoles         = "custom:roles"
)

// Client is the subset of the Cognito admin API used here.
type Client interface {
	ListUsers(ctx context.Context, params *cip.ListUsersInput, optFns ...func(*cip.Options)) (*cip.ListUsersOutput, error)
	AdminCreateUser(ctx context.Context, params *cip.AdminCreateUserInput, optFns ...func(*cip.Options)) (*cip.AdminCreateUserOutput, error)
	AdminDeleteUser(ctx context.Context, params *cip.AdminDeleteUserInput, optFns ...func(*cip.Options)) (*cip.AdminDeleteUserOutput, error)
	AdminUpdateUserAttributes(ctx context.Context, params *cip.AdminUpdateUserAttributesInput, optFns ...func(*cip.Options)) (*cip.AdminUpdateUserAttributesOutput, error)
}

var _ Client = (*cip.Client)(nil)

// UserRepository manages the accounts of one user pool.
type UserRepository struct {
	client     Client
	userPoolID string
	logger     *zap.Logger
}

var _ repository.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates a repository for userPoolID.
func NewUserRepository(client Client, userPoolID string, logger *zap.Logger) *UserRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserRepository{client: client, userPoolID: userPoolID, logger: logger.Named("CognitoUserRepository")}
}

// List returns every user in the pool.
func (r *UserRepository) List(ctx context.Context) ([]*user.User, error) {
	users := []*user.User{}
	paginator := cip.NewListUsersPaginator(r.client, &cip.ListUsersInput{UserPoolId: aws.String(r.userPoolID)})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, identityError(err, "ListUsers", "User")
		}
		for _, u := range page.Users {
			users = append(users, toUser(u))
		}
	}
	return users, nil
}

// Add invites each email address with role. Cognito sends the invitation.
func (r *UserRepository) Add(ctx context.Context, emails []string, role user.Role) error {
	roles, err := encodeRoles(role)
	if err != nil {
		return err
	}
	for _, email := range emails {
		_, err := r.client.AdminCreateUser(ctx, &cip.AdminCreateUserInput{
			UserPoolId:             aws.String(r.userPoolID),
			Username:               aws.String(email),
			DesiredDeliveryMediums: []types.DeliveryMediumType{types.DeliveryMediumTypeEmail},
			UserAttributes: []types.AttributeType{
				{Name: aws.String(attrEmail), Value: aws.String(email)},
				{Name: aws.String(attrEmailVerified), Value: aws.String("true")},
				{Name: aws.String(attrRoles), Value: aws.String(roles)},
			},
		})
		if err != nil {
			return identityError(err, "AdminCreateUser", email)
		}
		r.logger.Info("user invited", zap.String("email", email), zap.String("role", string(role)))
	}
	return nil
}

// Remove deletes each user.
func (r *UserRepository) Remove(ctx context.Context, userIDs []string) error {
	for _, id := range userIDs {
		_, err := r.client.AdminDeleteUser(ctx, &cip.AdminDeleteUserInput{
			UserPoolId: aws.String(r.userPoolID),
			Username:   aws.String(id),
		})
		if err != nil {
			return identityError(err, "AdminDeleteUser", id)
		}
	}
	return nil
}

// ResendInvite re-sends the invitation email of users who never signed in.
func (r *UserRepository) ResendInvite(ctx context.Context, userIDs []string) error {
	for _, id := range userIDs {
		_, err := r.client.AdminCreateUser(ctx, &cip.AdminCreateUserInput{
			UserPoolId:             aws.String(r.userPoolID),
			Username:               aws.String(id),
			MessageAction:          types.MessageActionTypeResend,
			DesiredDeliveryMediums: []types.DeliveryMediumType{types.DeliveryMediumTypeEmail},
		})
		if err != nil {
			return identityError(err, "AdminCreateUser", id)
		}
	}
	return nil
}

// ChangeRole replaces the role of each user.
func (r *UserRepository) ChangeRole(ctx context.Context, userIDs []string, role user.Role) error {
	roles, err := encodeRoles(role)
	if err != nil {
		return err
	}
	for _, id := range userIDs {
		_, err := r.client.AdminUpdateUserAttributes(ctx, &cip.AdminUpdateUserAttributesInput{
			UserPoolId:     aws.String(r.userPoolID),
			Username:       aws.String(id),
			UserAttributes: []types.AttributeType{{Name: aws.String(attrRoles), Value: aws.String(roles)}},
		})
		if err != nil {
			return identityError(err, "AdminUpdateUserAttributes", id)
		}
	}
	return nil
}

func encodeRoles(role user.Role) (string, error) {
	b, err := json.Marshal([]user.Role{role})
	if err != nil {
		return "", fmt.Errorf("encode roles: %w", err)
	}
	return string(b), nil
}

func toUser(u types.UserType) *user.User {
	out := &user.User{
		UserID:  aws.ToString(u.Username),
		Status:  string(u.UserStatus),
		Enabled: u.Enabled,
		Roles:   []user.Role{},
	}
	if u.UserCreateDate != nil {
		out.CreatedAt = *u.UserCreateDate
	}
	for _, attr := range u.Attributes {
		switch aws.ToString(attr.Name) {
		case attrEmail:
			out.Email = aws.ToString(attr.Value)
		case attrRoles:
			out.Roles = ParseRoles(aws.ToString(attr.Value))
		}
	}
	return out
}

// ParseRoles decodes a custom:roles value, ignoring unknown roles.
func ParseRoles(raw string) []user.Role {
	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return []user.Role{}
	}
	roles := make([]user.Role, 0, len(names))
	for _, n := range names {
		if r := user.Role(n); r.Valid() {
			roles = append(roles, r)
		}
	}
	return roles
}

// identityError converts a Cognito failure. Errors without a more specific
// mapping are reported as identity provider errors.
func identityError(err error, operation, resource string) error {
	converted := apperrors.FromAWS(err, operation, resource)
	if ue, ok := apperrors.As(converted); ok && ue.Code == apperrors.CodeDatabaseError.String() {
		ue.Code = apperrors.CodeIdentityError.String()
	}
	return converted
}
