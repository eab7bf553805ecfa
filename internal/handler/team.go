package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gearguard/gearguard/internal/model"
	"github.com/gearguard/gearguard/internal/repository"
)

// TeamHandler implements the admin-only team management endpoints.
type TeamHandler struct {
	Teams *repository.TeamRepo
	Users *repository.UserRepo
	Log   zerolog.Logger
}

func NewTeamHandler(t *repository.TeamRepo, u *repository.UserRepo, log zerolog.Logger) *TeamHandler {
	return &TeamHandler{Teams: t, Users: u, Log: log}
}

type teamReq struct {
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
}

func (h *TeamHandler) Create(c echo.Context) error {
	var req teamReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Teams.Create(ctx, strings.TrimSpace(req.Name), req.Specialization)
	if err != nil {
		h.Log.Error().Err(err).Msg("create team failed")
		return internalError(c, "server error")
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "name": req.Name, "specialization": req.Specialization})
}

func (h *TeamHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	teams, err := h.Teams.List(ctx)
	if err != nil {
		h.Log.Error().Err(err).Msg("list teams failed")
		return internalError(c, "server error")
	}
	return c.JSON(http.StatusOK, teams)
}

func (h *TeamHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req teamReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Teams.Update(ctx, id, strings.TrimSpace(req.Name), req.Specialization); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "team not found"})
		}
		h.Log.Error().Err(err).Msg("update team failed")
		return internalError(c, "server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "team updated"})
}

func (h *TeamHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Teams.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "team not found"})
		}
		h.Log.Error().Err(err).Msg("delete team failed")
		return internalError(c, "server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "team deleted successfully"})
}

type addMemberReq struct {
	UserID uint64 `json:"user_id"`
	Role   string `json:"role"`
}

// AddMember links a technician to a team. Only users holding the
// technician role qualify.
func (h *TeamHandler) AddMember(c echo.Context) error {
	teamID, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req addMemberReq
	if err := c.Bind(&req); err != nil || req.UserID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Teams.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "team not found"})
		}
		h.Log.Error().Err(err).Msg("load team failed")
		return internalError(c, "server error")
	}

	u, err := h.Users.GetByID(ctx, req.UserID)
	if err != nil || u.Role != model.RoleTechnician {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user must be a technician"})
	}

	memberRole := req.Role
	if memberRole == "" {
		memberRole = "member"
	}
	id, err := h.Teams.AddMember(ctx, teamID, req.UserID, memberRole)
	if err != nil {
		h.Log.Error().Err(err).Msg("add team member failed")
		return internalError(c, "server error")
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "member added", "id": id})
}
