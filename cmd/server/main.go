package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"treatment_tracker/internal/config"
	"treatment_tracker/internal/handler"
	"treatment_tracker/internal/logging"
	"treatment_tracker/internal/repository"
	"treatment_tracker/internal/service"
	"treatment_tracker/internal/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	// --- Configuration ---
	cfg, dotenv, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	if !dotenv {
		logger.Info("no .env file found, relying on environment variables")
	}
	gin.SetMode(cfg.GinMode)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("server exiting")
}

// run owns every resource that needs cleanup, so all exits go through its defers
func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database Connection ---
	dbPool, err := config.ConnectDB(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer dbPool.Close()

	if err := config.RunMigrations(ctx, dbPool); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	// --- Wiring ---
	jwtUtil := utils.NewJWTUtil(cfg.JWTSecret, cfg.JWTExpiration)
	logger.Info("token issuer ready", "ttl", jwtUtil.TTL())

	userRepo := repository.NewUserRepository(dbPool)
	treatmentRepo := repository.NewTreatmentRepository(dbPool)

	authService := service.NewAuthService(userRepo, jwtUtil)
	treatmentService := service.NewTreatmentService(treatmentRepo)

	router := handler.NewRouter(handler.RouterConfig{
		Auth:           handler.NewAuthHandler(authService),
		Treatments:     handler.NewTreatmentHandler(treatmentService),
		JWT:            jwtUtil,
		DB:             dbPool,
		Logger:         logger,
		AllowedOrigins: []string{cfg.CORSOrigin},
		RequestTimeout: cfg.RequestTimeout,
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	logger.Info("server starting", "port", cfg.Port, "mode", cfg.GinMode)
	return serve(ctx, srv, cfg.ShutdownTimeout)
}

// serve runs srv until ctx is cancelled or the listener fails, then shuts it
// down within shutdownTimeout.
func serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration) error {
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// --- Graceful Shutdown ---
	select {
	case <-ctx.Done():
		slog.Info("shutting down server")
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
