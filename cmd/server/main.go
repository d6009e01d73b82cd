// Package main initializes and starts the camera surveillance API server,
// setting up configuration, logging, database connections, repositories,
// services, the worker client, the alert hub, and handlers.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/camwarden/camwarden/internal/auth"
	"github.com/camwarden/camwarden/internal/config"
	"github.com/camwarden/camwarden/internal/db"
	"github.com/camwarden/camwarden/internal/logger"
	"github.com/camwarden/camwarden/internal/notify"
	"github.com/camwarden/camwarden/internal/repository"
	"github.com/camwarden/camwarden/internal/server/handler/http"
	"github.com/camwarden/camwarden/internal/service"
	"github.com/camwarden/camwarden/internal/worker"
	"go.uber.org/zap"
)

// tokenValidity matches the 7-day expiry the frontend's session handling
// assumes.
const tokenValidity = 7 * 24 * time.Hour

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()
	addr := options.Port

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	if options.JWTSecret == "" {
		zapLogger.Fatal("JWT secret is not configured")
	}

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Prune old alerts in the background.
	db.StartAlertRetentionCleaner(context.Background(), postgresDB,
		time.Hour,       // interval
		30*24*time.Hour, // retention: 30 days
		zapLogger,
	)

	// Initialize repositories.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	cameraRepo := repository.NewPostgresCameraRepository(postgresDB)
	alertRepo := repository.NewPostgresAlertRepository(postgresDB)

	// Token manager and worker client.
	tokens := auth.NewJWTManager([]byte(options.JWTSecret), tokenValidity)
	workerClient := worker.NewClient(options.WorkerURL)

	// Initialize business-logic services.
	authService := service.NewAuthService(userRepo, tokens)
	cameraService := service.NewCameraService(cameraRepo)
	streamService := service.NewStreamService(cameraRepo, workerClient)
	alertService := service.NewAlertService(alertRepo, cameraRepo)

	// Alert notification hub.
	hub := notify.NewHub(zapLogger)
	go hub.Run(context.Background())

	// Create HTTP handlers.
	authHandler := &http.AuthHandler{AuthService: authService, Log: zapLogger}
	cameraHandler := &http.CameraHandler{Cameras: cameraService, Streams: streamService, Log: zapLogger}
	alertHandler := &http.AlertHandler{Alerts: alertService, Notifier: hub, Log: zapLogger}
	wsHandler := http.NewWSHandler(hub, zapLogger)

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, cameraHandler, alertHandler, wsHandler, tokens, zapLogger)

	server := &nethttp.Server{
		Addr:    addr,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
