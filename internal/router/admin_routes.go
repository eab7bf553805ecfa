package router

import (
	"github.com/labstack/echo/v4"

	"github.com/gearguard/gearguard/internal/middleware"
	"github.com/gearguard/gearguard/internal/model"
)

// RegisterAdmin wires the admin-only group: the dashboard, user approval
// and deletion, and team management. The whole group authenticates and
// then requires the admin role.
func RegisterAdmin(e *echo.Echo, d Deps) {
	g := e.Group("/api/admin",
		middleware.Authenticate(d.JWTSecret),
		middleware.RequireRole(model.RoleAdmin))

	g.GET("/dashboard", d.Dashboard.Admin, middleware.NewRedisCache(d.CacheCfg, d.Redis))

	g.GET("/users", d.Users.List)
	g.PUT("/users/:id", d.Users.Update)
	g.DELETE("/users/:id", d.Users.Delete)

	g.GET("/teams", d.Teams.List)
	g.POST("/teams", d.Teams.Create)
	g.PUT("/teams/:id", d.Teams.Update)
	g.DELETE("/teams/:id", d.Teams.Delete)
	g.POST("/teams/:id/members", d.Teams.AddMember)
}
