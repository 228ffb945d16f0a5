package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/goldenlabs/golden_gold_app/internal/adapters/assistant"
	"github.com/goldenlabs/golden_gold_app/internal/adapters/storage/filestore"
	portsrepo "github.com/goldenlabs/golden_gold_app/internal/core/ports/repositories"
	"github.com/goldenlabs/golden_gold_app/internal/core/services"
	"github.com/goldenlabs/golden_gold_app/internal/handlers"
	"github.com/goldenlabs/golden_gold_app/internal/middleware"
	"github.com/goldenlabs/golden_gold_app/pkg/config"
	"github.com/gin-gonic/gin"
)

// @title Golden Digital Gold API
// @version 1.0
// @description Demo digital gold ledger: conversions, transfers, withdrawals and collateralized loans over a simulated price feed.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := filestore.Open(cfg.SnapshotPath)
	if err != nil {
		logger.Error("Failed to open snapshot store", slog.String("path", cfg.SnapshotPath), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := filestore.SeedIfEmpty(ctx, store, logger); err != nil {
		logger.Error("Failed to seed demo identities", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := portsrepo.RepositoryProvider{
		UserRepo:        filestore.NewUserRepository(store),
		TransactionRepo: filestore.NewTransactionRepository(store),
	}

	assistantClient := assistant.NewHTTPClient(cfg)
	serviceContainer := services.NewServiceContainer(cfg, repos, assistantClient, logger)

	// The price walk runs for the life of the process.
	go serviceContainer.Price.Start(ctx)

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger))
	r.Use(gin.Recovery())
	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to configure trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Starting server", slog.String("port", cfg.Port), slog.Bool("production", cfg.IsProduction))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
