package api

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/OluRemiFour/OctoOps-backend/internal/app"
	iauth "github.com/OluRemiFour/OctoOps-backend/internal/auth"
	"github.com/OluRemiFour/OctoOps-backend/internal/handlers"
	"github.com/OluRemiFour/OctoOps-backend/internal/middleware"
	"github.com/OluRemiFour/OctoOps-backend/internal/services"
	"github.com/OluRemiFour/OctoOps-backend/internal/store"
)

// NewRouter builds the Gin engine, wires middleware and registers every route
// under /api. CORS is applied by the caller around the returned handler.
func NewRouter(st store.Store, jwt *iauth.JWTService, cfg *app.Config) (*gin.Engine, error) {
	if st == nil {
		return nil, fmt.Errorf("store must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	cancelPolicy, err := services.ParseCancelPolicy(cfg.Invites.CancelPolicy)
	if err != nil {
		return nil, err
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.OptionalAuth(jwt))

	registerHealthRoutes(r, st)

	api := r.Group("/api")

	authHandler, err := handlers.NewAuthHandler(st, jwt)
	if err != nil {
		return nil, err
	}
	registerAuthRoutes(api, authHandler)

	userHandler, err := handlers.NewUserHandler(st)
	if err != nil {
		return nil, err
	}
	registerUserRoutes(api, userHandler)

	projectHandler, err := handlers.NewProjectHandler(st)
	if err != nil {
		return nil, err
	}
	registerProjectRoutes(api, projectHandler)

	taskHandler, err := handlers.NewTaskHandler(st,
		services.WithEnforceTransitions(cfg.Tasks.EnforceTransitions),
		services.WithCascadeDependencies(cfg.Tasks.CascadeDependencies),
	)
	if err != nil {
		return nil, err
	}
	registerTaskRoutes(api, taskHandler)

	teamHandler, err := handlers.NewTeamHandler(st,
		services.WithInviteExpiry(cfg.Invites.Expiry),
		services.WithCancelPolicy(cancelPolicy),
	)
	if err != nil {
		return nil, err
	}
	registerTeamRoutes(api, teamHandler)

	settingsHandler, err := handlers.NewSettingsHandler(st)
	if err != nil {
		return nil, err
	}
	registerSettingsRoutes(api, settingsHandler)

	registerMonitoringRoutes(r, cfg.Monitoring.Prometheus)

	// NotFound fallback
	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
