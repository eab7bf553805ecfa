package router

import (
	"github.com/labstack/echo/v4"

	"github.com/gearguard/gearguard/internal/middleware"
	"github.com/gearguard/gearguard/internal/model"
)

// RegisterBusiness wires the protected business endpoints. Every route
// goes through Authenticate first; role gates come from RequireRole on
// specific routes, and the handlers do any per-row visibility filtering
// with the identity the guard attached.
func RegisterBusiness(e *echo.Echo, d Deps) {
	authn := middleware.Authenticate(d.JWTSecret)
	cache := middleware.NewRedisCache(d.CacheCfg, d.Redis)
	adminOnly := middleware.RequireRole(model.RoleAdmin)
	adminOrTech := middleware.RequireRole(model.RoleAdmin, model.RoleTechnician)

	// Equipment registry.
	eq := e.Group("/api/equipment", authn)
	eq.GET("", d.Equipment.List, cache)
	eq.GET("/:id", d.Equipment.Get)
	eq.POST("", d.Equipment.Create, adminOnly)
	eq.PUT("/:id/status", d.Equipment.UpdateStatus, adminOrTech)

	// Maintenance request ticketing.
	mr := e.Group("/api/maintenance", authn)
	mr.POST("/requests", d.Requests.Create)
	mr.GET("/requests", d.Requests.List)
	mr.GET("/requests/:id", d.Requests.Get)
	mr.PUT("/requests/:id", d.Requests.Update)
	mr.DELETE("/requests/:id", d.Requests.Delete, adminOnly)

	// Master data: reads for any authenticated user, writes admin-only.
	res := e.Group("/api/resources", authn)
	res.GET("/:type", d.Resources.List, cache)
	res.POST("/companies", d.Resources.CreateCompany, adminOnly)
	res.POST("/departments", d.Resources.CreateDepartment, adminOnly)
	res.POST("/work-centers", d.Resources.CreateWorkCenter, adminOnly)
	res.POST("/categories", d.Resources.CreateCategory, adminOnly)
}
