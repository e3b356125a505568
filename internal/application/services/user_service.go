package services

import (
	"context"
	"slices"

	"dashboard-backend/internal/domain/user"
	apperrors "dashboard-backend/internal/errors"
	"dashboard-backend/internal/repository"
	"dashboard-backend/pkg/validation"

	"go.uber.org/zap"
)

// InviteUsersInput is the body of POST /user.
type InviteUsersInput struct {
	Emails []string  `json:"emails" validate:"required,min=1,dive,required,email"`
	Role   user.Role `json:"role" validate:"required,oneof=Admin Editor Publisher"`
}

// UsersInput names existing users by username.
type UsersInput struct {
	Usernames []string `json:"usernames" validate:"required,min=1,dive,required"`
}

// ChangeRoleInput is the body of PUT /user/role.
type ChangeRoleInput struct {
	Usernames []string  `json:"usernames" validate:"required,min=1,dive,required"`
	Role      user.Role `json:"role" validate:"required,oneof=Admin Editor Publisher"`
}

// UserService administers accounts in the identity provider.
type UserService struct {
	users    repository.UserRepository
	validate *validation.Validator
	logger   *zap.Logger
}

func NewUserService(users repository.UserRepository, validate *validation.Validator, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, validate: validate, logger: logger.Named("UserService")}
}

func (s *UserService) List(ctx context.Context) ([]*user.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Invite(ctx context.Context, in InviteUsersInput) error {
	if err := s.validate.Struct(in); err != nil {
		return err
	}
	return s.users.Add(ctx, in.Emails, in.Role)
}

// Remove deletes users. Callers cannot remove their own account.
func (s *UserService) Remove(ctx context.Context, in UsersInput, caller string) error {
	if err := s.validate.Struct(in); err != nil {
		return err
	}
	if slices.Contains(in.Usernames, caller) {
		return apperrors.Validation(apperrors.CodeValidationFailed, "Cannot remove the current user").Build()
	}
	if err := s.users.Remove(ctx, in.Usernames); err != nil {
		return err
	}
	s.logger.Info("users removed", zap.Strings("usernames", in.Usernames), zap.String("by", caller))
	return nil
}

func (s *UserService) ResendInvite(ctx context.Context, in UsersInput) error {
	if err := s.validate.Struct(in); err != nil {
		return err
	}
	return s.users.ResendInvite(ctx, in.Usernames)
}

// ChangeRole replaces the role of users. Callers cannot change their own role.
func (s *UserService) ChangeRole(ctx context.Context, in ChangeRoleInput, caller string) error {
	if err := s.validate.Struct(in); err != nil {
		return err
	}
	if slices.Contains(in.Usernames, caller) {
		return apperrors.Validation(apperrors.CodeValidationFailed, "Cannot change the role of the current user").Build()
	}
	return s.users.ChangeRole(ctx, in.Usernames, in.Role)
}
