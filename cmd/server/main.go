// Package main initializes and starts the MediaKeeper HTTP server,
// setting up configuration, logging, the database connection, the file
// store, repositories, services, and handlers.
package main

import (
	"cmp"
	"fmt"

	nethttp "net/http"

	"github.com/atinyakov/MediaKeeper/internal/config"
	"github.com/atinyakov/MediaKeeper/internal/db"
	"github.com/atinyakov/MediaKeeper/internal/filestore"
	"github.com/atinyakov/MediaKeeper/internal/logger"
	"github.com/atinyakov/MediaKeeper/internal/middleware"
	"github.com/atinyakov/MediaKeeper/internal/repository"
	"github.com/atinyakov/MediaKeeper/internal/server/handler/http"
	"github.com/atinyakov/MediaKeeper/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Distinct signing secrets keep a leaked access token from minting
	// refresh tokens and vice versa.
	if options.AccessSecret == "" || options.RefreshSecret == "" {
		zapLogger.Fatal("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must be set")
	}
	if options.AccessSecret == options.RefreshSecret {
		zapLogger.Fatal("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Initialize the blob store, creating the upload directory if absent.
	blobs, err := filestore.New(options.UploadDir)
	if err != nil {
		zapLogger.Fatal("cannot init file store", zap.Error(err))
	}

	// Initialize repositories for users and media records.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	mediaRepo := repository.NewPostgresMediaRepository(postgresDB)

	// Initialize business-logic services.
	tokenService := service.NewTokenService(
		[]byte(options.AccessSecret), []byte(options.RefreshSecret),
		options.AccessTokenTTL, options.RefreshTokenTTL,
	)
	authService := service.NewAuthService(userRepo, tokenService)
	mediaService := service.NewMediaService(mediaRepo, blobs, options.MaxFileSize)

	// Create HTTP handlers for auth, profile, and media endpoints.
	authHandler := &http.AuthHandler{AuthService: authService, Logger: zapLogger}
	userHandler := &http.UserHandler{}
	mediaHandler := &http.MediaHandler{
		MediaService: mediaService,
		MaxFileSize:  options.MaxFileSize,
		Logger:       zapLogger,
	}

	// Build the router with middleware and routes.
	router := http.NewRouter(
		authHandler,
		userHandler,
		mediaHandler,
		middleware.BearerAuth(tokenService, authService),
		zapLogger,
	)

	server := &nethttp.Server{
		Addr:    options.Port,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Port))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
