package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bcvictoria/tournament-system/config"
	"github.com/bcvictoria/tournament-system/db"
	"github.com/bcvictoria/tournament-system/handlers"
	"github.com/bcvictoria/tournament-system/live"
	"github.com/bcvictoria/tournament-system/middleware"
	"github.com/bcvictoria/tournament-system/repositories"
	"github.com/bcvictoria/tournament-system/routes"
	"github.com/bcvictoria/tournament-system/services"
	"github.com/bcvictoria/tournament-system/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		uploader = storage.NewDisabledUploader()
		logger.Warn("object storage not configured, results archiving disabled")
	}

	hub := live.NewHub(logger)
	go hub.Run()
	logger.Info("websocket hub started")

	entrantRepo := repositories.NewPostgresEntrantRepository(dbConn)
	poolRepo := repositories.NewPostgresPoolRepository(dbConn)
	knockoutRepo := repositories.NewPostgresKnockoutRepository(dbConn)
	userRepo := repositories.NewPostgresUserRepository(dbConn)

	seedingService := services.NewSeedingService(dbConn, entrantRepo, logger)
	poolService := services.NewPoolService(dbConn, entrantRepo, poolRepo, knockoutRepo, hub, logger)
	standingService := services.NewStandingService(entrantRepo, poolRepo)
	knockoutService := services.NewKnockoutService(dbConn, entrantRepo, poolRepo, knockoutRepo, uploader, hub, logger)
	scheduleService := services.NewScheduleService(entrantRepo, poolRepo, hub, logger)
	authService := services.NewAuthService(userRepo, cfg.JWTSecretKey, logger)

	router := routes.SetupRoutes(routes.Handlers{
		Auth:      handlers.NewAuthHandler(authService),
		Entrant:   handlers.NewEntrantHandler(seedingService),
		Pool:      handlers.NewPoolHandler(poolService, standingService),
		Knockout:  handlers.NewKnockoutHandler(knockoutService),
		Schedule:  handlers.NewScheduleHandler(scheduleService),
		WebSocket: handlers.NewWebSocketHandler(hub, logger),
	}, middleware.NewAuthenticator(cfg.JWTSecretKey))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  time.Minute,
	}

	shutdownErr := make(chan error)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit
		logger.Info("shutting down server", slog.String("signal", s.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		shutdownErr <- server.Shutdown(ctx)
	}()

	logger.Info("starting server", slog.String("addr", server.Addr))
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}
	if err := <-shutdownErr; err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
