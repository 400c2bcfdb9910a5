package app

import (
	"context"
	"fmt"

	"github.com/upb/rag-gateway/auth"
	"github.com/upb/rag-gateway/config"
	"github.com/upb/rag-gateway/handlers"
	"github.com/upb/rag-gateway/middleware"
	"github.com/upb/rag-gateway/rag"
	"github.com/upb/rag-gateway/repositories"
	"github.com/upb/rag-gateway/repositories/postgres"
	"github.com/upb/rag-gateway/services"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repositories
	Users repositories.UserRepository

	// Services
	AuthService  *services.AuthService
	QueryService *services.QueryService

	// Middleware
	AuthMiddleware *middleware.AuthMiddleware

	// Handlers
	AuthHandler   *handlers.AuthHandler
	UserHandler   *handlers.UserHandler
	QueryHandler  *handlers.QueryHandler
	HealthHandler *handlers.HealthHandler
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps.initServices(cfg)
	deps.initHandlers(cfg)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase opens the PostgreSQL connection and ensures the schema exists
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	db, err := postgres.NewDB(cfg.Database, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	d.DB = db

	if err := db.InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	d.Users = postgres.NewUserRepository(db, d.Logger)

	d.Logger.Info("database connection established",
		zap.String("connection", cfg.Database.LogString()))

	return nil
}

// initServices wires the auth gateway and the query router
func (d *Dependencies) initServices(cfg *config.Config) {
	hasher := auth.NewPasswordHasher()
	tokens := auth.NewTokenService([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenLifetime)

	d.AuthService = services.NewAuthService(d.Users, hasher, tokens, d.Logger)
	d.AuthMiddleware = middleware.NewAuthMiddleware(d.AuthService, d.Logger)

	ragClient := rag.NewHTTPClient(cfg.RAG)
	d.QueryService = services.NewQueryService(ragClient, d.Logger)

	d.Logger.Info("services initialized",
		zap.String("rag_base_url", cfg.RAG.BaseURL),
		zap.Duration("token_lifetime", cfg.Auth.TokenLifetime))
}

func (d *Dependencies) initHandlers(cfg *config.Config) {
	d.AuthHandler = handlers.NewAuthHandler(d.AuthService, cfg.Auth.ExposeResetCodes, d.Logger)
	d.UserHandler = handlers.NewUserHandler(d.Logger)
	d.QueryHandler = handlers.NewQueryHandler(d.QueryService, d.Logger)
	d.HealthHandler = handlers.NewHealthHandler(d.DB, d.Logger)
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
