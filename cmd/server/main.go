package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/application"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/cleanup"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/config"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/database"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/filestore"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/handler"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/logger"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/media"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/middleware"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/repository"
)

const serviceName = "service-pawconnect"

func main() {
	// Load configuration
	cfg, err := config.Load("PAWCONNECT")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting "+serviceName,
		zap.String("addr", cfg.HTTPAddr),
		zap.String("data_dir", cfg.DataDir),
		zap.String("db_driver", cfg.DBConfig.Driver),
	)

	// Connect to database
	db, err := database.Open(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Run database migrations
	if cfg.IsDevelopment() {
		if err := repository.AutoMigrate(db); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(ctx, db, log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize media storage
	files, err := filestore.NewLocal(cfg.DataDir)
	if err != nil {
		log.Fatal("failed to prepare media directories", zap.Error(err))
	}
	processor := media.NewProcessor(cfg.MediaConfig.ImageMaxSize, cfg.MediaConfig.ImageQuality)

	// Initialize repositories
	photoRepo := repository.NewGormPhotoRepository(db, log)
	videoRepo := repository.NewGormVideoRepository(db, log)
	bookmarkRepo := repository.NewGormBookmarkRepository(db, log)
	profileRepo := repository.NewGormProfileRepository(db, log)
	closeFeeds := func() {
		photoRepo.Close()
		videoRepo.Close()
		bookmarkRepo.Close()
		profileRepo.Close()
	}

	// Initialize application services
	photoService := application.NewPhotoService(photoRepo, files, log)
	videoService := application.NewVideoService(videoRepo, files, media.DurationLabel, log)
	bookmarkService := application.NewBookmarkService(bookmarkRepo, log)
	profileService := application.NewProfileService(profileRepo, files, processor, log)
	libraryService := application.NewLibraryService(photoRepo, videoRepo, bookmarkRepo, profileRepo)

	// Start the orphan file sweeper
	sweeper := cleanup.NewSweeper(libraryService, files, cfg.SweepConfig.TTL, log.Named("cleanup"))
	go sweeper.RunPeriodic(ctx, cfg.SweepConfig.Interval)

	// Setup Gin router
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())

	// Register health check routes
	handler.NewHealthHandler(db, serviceName).RegisterRoutes(router)

	// Register routes
	handler.NewPhotoHandler(photoService).RegisterRoutes(&router.RouterGroup)
	handler.NewVideoHandler(videoService).RegisterRoutes(&router.RouterGroup)
	handler.NewBookmarkHandler(bookmarkService).RegisterRoutes(&router.RouterGroup)
	handler.NewProfileHandler(profileService).RegisterRoutes(&router.RouterGroup)
	handler.NewStatsHandler(libraryService).RegisterRoutes(&router.RouterGroup)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down " + serviceName + "...")

	// Stop the sweeper. Closing the feeds ends every open event stream so
	// Shutdown only waits on ordinary requests.
	cancel()
	closeFeeds()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info(serviceName + " stopped")
}
