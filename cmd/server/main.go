package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jyhwang/matzip-backend/config"
	"github.com/jyhwang/matzip-backend/internal/app/controller"
	"github.com/jyhwang/matzip-backend/internal/app/repository"
	"github.com/jyhwang/matzip-backend/internal/app/service"
	"github.com/jyhwang/matzip-backend/internal/db"
	"github.com/jyhwang/matzip-backend/internal/middleware"
	"github.com/jyhwang/matzip-backend/internal/router"
	"github.com/jyhwang/matzip-backend/internal/scheduler"
	"github.com/jyhwang/matzip-backend/internal/storage"
	"github.com/jyhwang/matzip-backend/pkg/logger"
	"github.com/jyhwang/matzip-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting MATZIP Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize Redis (token blacklist)
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable - token revocation disabled", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer redis.Close()
	}

	// Select photo storage backend
	var photoStorage storage.PhotoStorage
	switch cfg.Upload.Backend {
	case "s3":
		photoStorage = storage.NewS3Storage(&cfg.S3)
	default:
		photoStorage, err = storage.NewLocalStorage(cfg.Upload.LocalDir)
		if err != nil {
			logger.Fatal("Failed to initialize local photo storage", err)
		}
	}
	photoProcessor := storage.NewPhotoProcessor(photoStorage, cfg.Upload.MaxWidth, cfg.Upload.MaxSizeBytes)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	storeRepo := repository.NewStoreRepository(db.GetDB())
	reviewRepo := repository.NewReviewRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.JWT)
	storeService := service.NewStoreService(storeRepo)
	discoveryService := service.NewDiscoveryService(storeRepo, cfg.Search)
	tagService := service.NewTagService(storeRepo)
	heartService := service.NewHeartService(userRepo, storeRepo)
	reviewService := service.NewReviewService(reviewRepo, storeRepo)
	rankingService := service.NewRankingService(storeRepo, cfg.Ranking)

	// Initialize controllers
	authController := controller.NewAuthController(authService, cfg.JWT)
	storeController := controller.NewStoreController(storeService, photoProcessor)
	searchController := controller.NewSearchController(discoveryService)
	tagController := controller.NewTagController(tagService)
	heartController := controller.NewHeartController(heartService)
	reviewController := controller.NewReviewController(reviewService)
	rankingController := controller.NewRankingController(rankingService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Start orphan photo cleanup scheduler
	cleanupScheduler := scheduler.NewPhotoCleanupScheduler(storeRepo, photoStorage)
	if err := cleanupScheduler.Start(); err != nil {
		logger.Warn("Photo cleanup scheduler not started", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer cleanupScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		storeController,
		searchController,
		tagController,
		heartController,
		reviewController,
		rankingController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
