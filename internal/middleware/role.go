package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gearguard/gearguard/internal/model"
)

// RequireRole returns a middleware enforcing that the authenticated user
// holds one of the given roles. It assumes Authenticate already ran and
// stored the role in context; it does not re-verify the token. A missing
// or disallowed role is a 403, distinct from the 401 of a failed
// authentication.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxRole).(model.Role)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "you do not have permission to perform this action"})
			}
			return next(c)
		}
	}
}
