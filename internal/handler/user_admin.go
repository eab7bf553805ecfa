package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gearguard/gearguard/internal/model"
	"github.com/gearguard/gearguard/internal/repository"
)

// UserAdminHandler implements the admin-only user management endpoints:
// listing accounts, approving or rejecting signups, promoting roles, and
// deleting accounts.
type UserAdminHandler struct {
	Users *repository.UserRepo
	Log   zerolog.Logger
}

func NewUserAdminHandler(u *repository.UserRepo, log zerolog.Logger) *UserAdminHandler {
	return &UserAdminHandler{Users: u, Log: log}
}

type adminUserPart struct {
	ID        uint64 `json:"id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Status    string `json:"account_status"`
	CreatedAt string `json:"created_at"`
}

func toAdminUserPart(u model.User) adminUserPart {
	return adminUserPart{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      string(u.Role),
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// List returns all accounts, sanitized.
func (h *UserAdminHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		h.Log.Error().Err(err).Msg("list users failed")
		return internalError(c, "server error")
	}
	out := make([]adminUserPart, 0, len(users))
	for _, u := range users {
		out = append(out, toAdminUserPart(u))
	}
	return c.JSON(http.StatusOK, out)
}

type updateUserReq struct {
	Role   string `json:"role"`
	Status string `json:"account_status"`
}

// Update changes role and/or account status. This is how pending admin
// and technician signups get approved.
func (h *UserAdminHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	role := model.Role(req.Role)
	if req.Role != "" && !role.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be admin, technician or user"})
	}
	status := model.AccountStatus(req.Status)
	if req.Status != "" && !status.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "account_status must be pending, active or rejected"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		h.Log.Error().Err(err).Msg("load user failed")
		return internalError(c, "server error")
	}
	if err := h.Users.Update(ctx, id, role, status); err != nil {
		h.Log.Error().Err(err).Msg("update user failed")
		return internalError(c, "server error")
	}
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		h.Log.Error().Err(err).Msg("reload user failed")
		return internalError(c, "server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user updated successfully", "user": toAdminUserPart(u)})
}

// Delete removes an account. An admin cannot delete their own account;
// locking every admin out by accident is unrecoverable.
func (h *UserAdminHandler) Delete(c echo.Context) error {
	callerID, _, ok := identity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		h.Log.Error().Err(err).Msg("load user failed")
		return internalError(c, "server error")
	}
	if u.Role == model.RoleAdmin && u.ID == callerID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "you cannot delete your own admin account"})
	}
	if err := h.Users.Delete(ctx, id); err != nil {
		h.Log.Error().Err(err).Msg("delete user failed")
		return internalError(c, "server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted successfully"})
}
