package memory

import (
	"context"
	"sort"

	"dashboard-backend/internal/domain/user"
	apperrors "dashboard-backend/internal/errors"
	"dashboard-backend/internal/repository"
)

// UserRepository is a local stand-in for the identity provider.
type UserRepository struct {
	store *Store
}

var _ repository.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) List(_ context.Context) ([]*user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*user.User, 0, len(r.store.users))
	for _, u := range r.store.users {
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *UserRepository) Add(_ context.Context, emails []string, role user.Role) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, email := range emails {
		if _, ok := r.store.users[email]; ok {
			return apperrors.Conflict(apperrors.CodeUserExists, "User already exists").WithResource(email).Build()
		}
	}
	for _, email := range emails {
		r.store.users[email] = user.User{
			UserID:    email,
			Email:     email,
			Roles:     []user.Role{role},
			Status:    "FORCE_CHANGE_PASSWORD",
			Enabled:   true,
			CreatedAt: r.store.timestamp(),
		}
	}
	return nil
}

func (r *UserRepository) Remove(_ context.Context, userIDs []string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, id := range userIDs {
		delete(r.store.users, id)
	}
	return nil
}

func (r *UserRepository) ResendInvite(_ context.Context, userIDs []string) error {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, id := range userIDs {
		if _, ok := r.store.users[id]; !ok {
			return apperrors.NotFound(apperrors.CodeUserNotFound, "User not found").WithResource(id).Build()
		}
	}
	return nil
}

func (r *UserRepository) ChangeRole(_ context.Context, userIDs []string, role user.Role) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, id := range userIDs {
		u, ok := r.store.users[id]
		if !ok {
			return apperrors.NotFound(apperrors.CodeUserNotFound, "User not found").WithResource(id).Build()
		}
		u.Roles = []user.Role{role}
		r.store.users[id] = u
	}
	return nil
}
