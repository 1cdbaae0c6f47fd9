package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/OluRemiFour/OctoOps-backend/internal/api"
	"github.com/OluRemiFour/OctoOps-backend/internal/app"
	"github.com/OluRemiFour/OctoOps-backend/internal/app/maintenance"
	iauth "github.com/OluRemiFour/OctoOps-backend/internal/auth"
	"github.com/OluRemiFour/OctoOps-backend/internal/database"
	"github.com/OluRemiFour/OctoOps-backend/internal/mongostore"
	"github.com/OluRemiFour/OctoOps-backend/internal/store"
)

const driverMongo = "mongodb"

// runtimeStack bundles long-lived services used by the HTTP server.
type runtimeStack struct {
	Store   store.Store
	Cleaner *maintenance.Cleaner
	Router  *gin.Engine
}

// bootstrapRuntime opens the store, starts maintenance and builds the HTTP router.
func bootstrapRuntime(ctx context.Context, cfg *app.Config, log *zap.Logger) (*runtimeStack, error) {
	stack := &runtimeStack{}
	var err error
	success := false

	defer func() {
		if !success {
			stack.Shutdown(context.Background(), log)
		}
	}()

	// enable gin debug mode
	if debug, _ := os.LookupEnv("GIN_DEBUG"); debug != "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	stack.Store, err = openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	jwtSvc, err := iauth.NewJWTService(cfg.Auth.JWTServiceConfig())
	if err != nil {
		return nil, fmt.Errorf("initialise jwt service: %w", err)
	}

	if cfg.Maintenance.Enabled {
		stack.Cleaner = maintenance.NewCleaner(stack.Store.Invites(),
			maintenance.WithSchedule(cfg.Maintenance.Schedule),
			maintenance.WithInviteRetention(cfg.Maintenance.InviteRetention),
		)
		if err := stack.Cleaner.Start(); err != nil {
			return nil, fmt.Errorf("start maintenance jobs: %w", err)
		}
	}

	stack.Router, err = api.NewRouter(stack.Store, jwtSvc, cfg)
	if err != nil {
		return nil, fmt.Errorf("build api router: %w", err)
	}

	success = true
	return stack, nil
}

// Shutdown gracefully stops background jobs and releases resources.
func (s *runtimeStack) Shutdown(ctx context.Context, log *zap.Logger) {
	if s == nil {
		return
	}

	if s.Cleaner != nil {
		<-s.Cleaner.Stop().Done()
	}

	if s.Store != nil {
		if err := s.Store.Close(ctx); err != nil {
			log.Warn("failed to close store", zap.Error(err))
		}
	}
}

// openStore selects the persistence backend from database.driver.
func openStore(ctx context.Context, cfg *app.Config, log *zap.Logger) (store.Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Database.Driver))

	if driver == driverMongo || driver == "mongo" {
		mongoCfg := cfg.Database.MongoDB
		st, err := mongostore.Open(ctx, mongostore.Config{
			URI:      strings.TrimSpace(mongoCfg.URI),
			Database: strings.TrimSpace(mongoCfg.Database),
			Timeout:  mongoCfg.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("open mongodb store: %w", err)
		}
		log.Info("database connected", zap.String("driver", driverMongo), zap.String("database", mongoCfg.Database))
		return st, nil
	}

	dbCfg := convertDatabaseConfig(cfg)
	st, err := database.OpenStore(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	log.Info("database connected", zap.String("driver", dbCfg.Driver))
	return st, nil
}

func convertDatabaseConfig(cfg *app.Config) database.Config {
	dbCfg := database.Config{
		Driver: strings.ToLower(strings.TrimSpace(cfg.Database.Driver)),
		Path:   strings.TrimSpace(cfg.Database.Path),
		DSN:    strings.TrimSpace(cfg.Database.DSN),
	}

	switch dbCfg.Driver {
	case "", "sqlite":
		dbCfg.Driver = "sqlite"
	case "postgres", "postgresql":
		dbCfg.Driver = "postgres"
		dbCfg.Host = strings.TrimSpace(cfg.Database.Postgres.Host)
		dbCfg.Port = cfg.Database.Postgres.Port
		dbCfg.Name = strings.TrimSpace(cfg.Database.Postgres.Database)
		dbCfg.User = strings.TrimSpace(cfg.Database.Postgres.Username)
		dbCfg.Password = strings.TrimSpace(cfg.Database.Postgres.Password)
	case "mysql":
		dbCfg.Host = strings.TrimSpace(cfg.Database.MySQL.Host)
		dbCfg.Port = cfg.Database.MySQL.Port
		dbCfg.Name = strings.TrimSpace(cfg.Database.MySQL.Database)
		dbCfg.User = strings.TrimSpace(cfg.Database.MySQL.Username)
		dbCfg.Password = strings.TrimSpace(cfg.Database.MySQL.Password)
	default:
		// Leave driver as-is to surface unsupported driver error during open.
	}

	return dbCfg
}
