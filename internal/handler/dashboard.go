package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gearguard/gearguard/internal/model"
	"github.com/gearguard/gearguard/internal/repository"
)

// DashboardHandler aggregates the admin landing page: the signup approval
// queue, all open work, and headline counts. The route sits behind the
// Redis response cache since every admin page load hits it.
type DashboardHandler struct {
	Users    *repository.UserRepo
	Requests *repository.RequestRepo
	Log      zerolog.Logger
}

func NewDashboardHandler(u *repository.UserRepo, r *repository.RequestRepo, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{Users: u, Requests: r, Log: log}
}

func (h *DashboardHandler) Admin(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	pending, err := h.Users.ListByStatus(ctx, model.StatusPending)
	if err != nil {
		h.Log.Error().Err(err).Msg("dashboard: pending users failed")
		return internalError(c, "server error fetching dashboard")
	}
	signups := make([]adminUserPart, 0, len(pending))
	for _, u := range pending {
		signups = append(signups, toAdminUserPart(u))
	}

	requests, err := h.Requests.List(ctx, repository.RequestFilter{})
	if err != nil {
		h.Log.Error().Err(err).Msg("dashboard: requests failed")
		return internalError(c, "server error fetching dashboard")
	}

	pendingCount, err := h.Users.CountByStatus(ctx, model.StatusPending)
	if err != nil {
		h.Log.Error().Err(err).Msg("dashboard: pending count failed")
		return internalError(c, "server error fetching dashboard")
	}
	openCount, err := h.Requests.CountOpen(ctx)
	if err != nil {
		h.Log.Error().Err(err).Msg("dashboard: open count failed")
		return internalError(c, "server error fetching dashboard")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"stats": echo.Map{
			"pending_users_count":       pendingCount,
			"open_maintenance_requests": openCount,
		},
		"signup_requests":      signups,
		"maintenance_requests": requests,
	})
}
