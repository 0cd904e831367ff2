// Package main is the entry point for the stock chart and indicator dashboard.
// It serves the dashboard page together with the REST and WebSocket API that
// computes charts, smoothed trends and fundamental metrics per ticker.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/togu6669/Nasdaq-Charts-and-analysis/internal/clients/yahoo"
	"github.com/togu6669/Nasdaq-Charts-and-analysis/internal/config"
	"github.com/togu6669/Nasdaq-Charts-and-analysis/internal/domain"
	"github.com/togu6669/Nasdaq-Charts-and-analysis/internal/modules/dashboard"
	"github.com/togu6669/Nasdaq-Charts-and-analysis/internal/server"
	"github.com/togu6669/Nasdaq-Charts-and-analysis/pkg/logger"
)

func main() {
	// Load configuration first to get log level
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Int("port", cfg.Port).
		Str("default_ticker", cfg.Dashboard.DefaultTicker).
		Dur("provider_timeout", cfg.ProviderTimeout).
		Msg("Starting dashboard")

	provider := yahoo.NewClient(yahoo.Config{
		TimeseriesURL: cfg.TimeseriesURL,
		Timeout:       cfg.ProviderTimeout,
	}, log)

	dashboardService := dashboard.NewService(provider, dashboard.Defaults{
		Ticker: cfg.Dashboard.DefaultTicker,
		Period: domain.Period(cfg.Dashboard.DefaultPeriod),
		Window: cfg.Dashboard.DefaultWindow,
	}, log)

	srv := server.New(server.Config{
		Log:            log,
		Port:           cfg.Port,
		DevMode:        cfg.DevMode,
		AllowedOrigins: cfg.AllowedOrigins,
		Dashboard:      dashboardService,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
