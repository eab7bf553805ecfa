package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gearguard/gearguard/internal/middleware"
	"github.com/gearguard/gearguard/internal/model"
)

// dbTimeout bounds every store call made from a handler.
const dbTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// identity reads the {id, role} pair Authenticate attached to the context.
func identity(c echo.Context) (uint64, model.Role, bool) {
	id, ok := c.Get(middleware.CtxUserID).(uint64)
	if !ok {
		return 0, "", false
	}
	role, ok := c.Get(middleware.CtxRole).(model.Role)
	if !ok {
		return 0, "", false
	}
	return id, role, true
}

func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// validEmail is a deliberately loose shape check; the unique constraint
// and the signup flow are the real gatekeepers.
func validEmail(s string) bool {
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	dot := strings.LastIndex(s, ".")
	return dot > at+1 && dot < len(s)-1 && !strings.ContainsAny(s, " \t")
}

func internalError(c echo.Context, msg string) error {
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": msg})
}
