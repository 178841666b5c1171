package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rafael/central-backend/internal/api"
	"github.com/rafael/central-backend/internal/config"
	"github.com/rafael/central-backend/internal/gateway"
	"github.com/rafael/central-backend/internal/repository/postgres"
	"github.com/rafael/central-backend/internal/service"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env if present; real environments set variables directly
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logger := newLogger(cfg.Environment)

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	// Initialize payment gateway client
	gatewayClient := gateway.NewPaymentGatewayClient(
		cfg.PaymentGatewayURL,
		cfg.PaymentGatewayInternalSecret,
		cfg.PaymentGatewayValidateTimeout,
		cfg.PaymentGatewayRegisterTimeout,
		logger,
	)

	// Initialize services
	services := service.NewServices(repos, gatewayClient, cfg, logger)

	// Initialize router
	router := api.NewRouter(services)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}

func newLogger(environment string) zerolog.Logger {
	if environment == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
