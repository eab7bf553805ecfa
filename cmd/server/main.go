package main // entry point

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/gearguard/gearguard/internal/auth"
	"github.com/gearguard/gearguard/internal/config"
	"github.com/gearguard/gearguard/internal/database"
	"github.com/gearguard/gearguard/internal/handler"
	"github.com/gearguard/gearguard/internal/logger"
	"github.com/gearguard/gearguard/internal/middleware"
	"github.com/gearguard/gearguard/internal/model"
	"github.com/gearguard/gearguard/internal/queue"
	"github.com/gearguard/gearguard/internal/repository"
	"github.com/gearguard/gearguard/internal/router"
	"github.com/gearguard/gearguard/internal/utils"
	"github.com/gearguard/gearguard/internal/verifier"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly

	cfg := config.Load()
	zl := logger.New(cfg.Env)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil when unreachable; limiter and cache degrade to no-ops
	if rdb == nil {
		zl.Warn().Msg("redis unavailable, rate limiting and caching disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	equipment := repository.NewEquipmentRepo(db)
	teams := repository.NewTeamRepo(db)
	resources := repository.NewResourceRepo(db)
	requests := repository.NewRequestRepo(db)

	authSvc := auth.NewService(auth.Config{
		AccessSecret:   cfg.JWTSecret,
		RefreshSecret:  cfg.RefreshSecret,
		AccessTTLMin:   cfg.AccessTTLMin,
		RefreshTTLDays: cfg.RefreshTTLDays,
		BcryptCost:     cfg.BcryptCost,
	}, users, tokens, verifier.NewGoogle(cfg.GoogleClientID))

	if err := seedAdmin(users, cfg); err != nil {
		zl.Error().Err(err).Msg("admin seeding failed")
	}

	go func() {
		if err := queue.StartRequestConsumer(); err != nil {
			zl.Error().Err(err).Msg("request consumer stopped")
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI: true, LogStatus: true, LogMethod: true, LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			zl.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))

	rl := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(authSvc, zl), cfg.JWTSecret, rl)

	deps := router.Deps{
		JWTSecret: cfg.JWTSecret,
		Redis:     rdb,
		CacheCfg:  config.LoadCacheConfig(),
		Equipment: handler.NewEquipmentHandler(equipment, requests, zl),
		Requests:  handler.NewRequestHandler(requests, zl),
		Teams:     handler.NewTeamHandler(teams, users, zl),
		Users:     handler.NewUserAdminHandler(users, zl),
		Resources: handler.NewResourceHandler(resources, zl),
		Dashboard: handler.NewDashboardHandler(users, requests, zl),
	}
	router.RegisterBusiness(e, deps)
	router.RegisterAdmin(e, deps)

	addr := ":" + cfg.Port
	zl.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// seedAdmin creates a default administrator when the users table has none,
// so a fresh install can log in and approve other accounts. Controlled by
// ADMIN_EMAIL and ADMIN_PASSWORD; skipped when either is unset.
func seedAdmin(users *repository.UserRepo, cfg config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	n, err := users.CountByRole(ctx, model.RoleAdmin)
	if err != nil || n > 0 {
		return err
	}
	hash, err := utils.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		return err
	}
	_, err = users.Create(ctx, model.User{
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		FullName:     "System Administrator",
		Role:         model.RoleAdmin,
		Status:       model.StatusActive,
	})
	if errors.Is(err, repository.ErrEmailExists) {
		return nil // already seeded by a previous run
	}
	return err
}
