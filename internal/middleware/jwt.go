package middleware // reusable HTTP middleware for the request gate

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gearguard/gearguard/internal/utils"
)

// Context keys set by Authenticate and read by RequireRole and handlers.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// Authenticate returns an Echo middleware that validates a Bearer access
// token and injects the asserted identity into the request context.
// Missing header, malformed header and failed verification are all plain
// 401s with no further detail. This is the first stage of the request
// gate; RequireRole must run after it.
func Authenticate(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no token, authorization denied"})
			}
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token format incorrect"})
			}
			id, err := utils.VerifyAccessToken(secret, parts[1])
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token is not valid"})
			}
			c.Set(CtxUserID, id.UserID)
			c.Set(CtxRole, id.Role)
			return next(c)
		}
	}
}
