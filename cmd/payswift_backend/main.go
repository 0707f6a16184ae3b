package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/payswift/payswift_backend/internal/core/services"
	"github.com/payswift/payswift_backend/internal/dto"
	"github.com/payswift/payswift_backend/internal/handlers"
	"github.com/payswift/payswift_backend/internal/middleware"
	"github.com/payswift/payswift_backend/internal/platform/config"
	"github.com/payswift/payswift_backend/internal/platform/events"
	kvsqlite "github.com/payswift/payswift_backend/internal/repositories/kv/sqlite"
	"github.com/payswift/payswift_backend/pkg/database"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	// Open the on-device store
	db, err := database.NewSQLiteDB(ctx, cfg.DatabasePath)
	if err != nil {
		logger.Error("Failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.CloseSQLiteDB(db)

	broker := events.NewBroker()

	store, err := kvsqlite.NewStore(ctx, db, broker)
	if err != nil {
		logger.Error("Failed to initialize key-value store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	repos := kvsqlite.NewRepositoryProvider(store, logger)

	serviceContainer, err := services.NewContainer(cfg, repos)
	if err != nil {
		logger.Error("Failed to initialize services", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Seed first-run state (default aggregate, balance, demo history)
	if err := serviceContainer.Ledger.Bootstrap(ctx); err != nil {
		logger.Error("Failed to bootstrap ledger state", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Ledger state ready.")

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	dto.RegisterCustomValidators()

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, broker)

	logger.Info("Starting server", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
