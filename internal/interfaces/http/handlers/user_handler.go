package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"dashboard-backend/internal/application/services"
	"dashboard-backend/pkg/api"
)

// UserHandler serves /user. Every route requires the Admin role.
type UserHandler struct {
	users  *services.UserService
	logger *zap.Logger
}

func NewUserHandler(users *services.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger.Named("UserHandler")}
}

// ListUsers handles GET /user
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	list, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, list)
}

// InviteUsers handles POST /user
func (h *UserHandler) InviteUsers(w http.ResponseWriter, r *http.Request) {
	var in services.InviteUsersInput
	if !decode(w, r, &in) {
		return
	}
	if err := h.users.Invite(r.Context(), in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	api.Success(w, http.StatusCreated, nil)
}

// RemoveUsers handles DELETE /user
func (h *UserHandler) RemoveUsers(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}
	var in services.UsersInput
	if !decode(w, r, &in) {
		return
	}
	if err := h.users.Remove(r.Context(), in, user); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	api.Success(w, http.StatusNoContent, nil)
}

// ResendInvite handles POST /user/invite
func (h *UserHandler) ResendInvite(w http.ResponseWriter, r *http.Request) {
	var in services.UsersInput
	if !decode(w, r, &in) {
		return
	}
	if err := h.users.ResendInvite(r.Context(), in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, nil)
}

// ChangeRole handles PUT /user/role
func (h *UserHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}
	var in services.ChangeRoleInput
	if !decode(w, r, &in) {
		return
	}
	if err := h.users.ChangeRole(r.Context(), in, user); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, nil)
}
