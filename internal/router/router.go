package router // route registration for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/gearguard/gearguard/internal/config"
	"github.com/gearguard/gearguard/internal/handler"
	"github.com/gearguard/gearguard/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the auth endpoints. The unauthenticated group
// sits behind the Redis rate limiter: signup and login pay a bcrypt per
// call and are the natural target for brute forcing. Only profile needs
// the access guard.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, rl echo.MiddlewareFunc) {
	g := e.Group("/api/auth")
	if rl != nil {
		g.Use(rl)
	}
	g.POST("/signup", a.Signup)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
	g.POST("/google", a.GoogleLogin)
	g.GET("/profile", a.Profile, middleware.Authenticate(jwtSecret))
}

// Deps bundles the handlers and infrastructure the protected routes need.
type Deps struct {
	JWTSecret string
	Redis     *redis.Client
	CacheCfg  config.CacheConfig

	Equipment *handler.EquipmentHandler
	Requests  *handler.RequestHandler
	Teams     *handler.TeamHandler
	Users     *handler.UserAdminHandler
	Resources *handler.ResourceHandler
	Dashboard *handler.DashboardHandler
}
