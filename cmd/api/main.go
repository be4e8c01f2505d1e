package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/dental-directory/internal/api/router"
	"github.com/wolfman30/dental-directory/internal/app/bootstrap"
	"github.com/wolfman30/dental-directory/internal/appointments"
	appconfig "github.com/wolfman30/dental-directory/internal/config"
	"github.com/wolfman30/dental-directory/internal/directory"
	"github.com/wolfman30/dental-directory/internal/observability/metrics"
	"github.com/wolfman30/dental-directory/pkg/logging"
)

func main() {
	// A missing .env is fine outside local development.
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting dental directory API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	srv, cleanup, err := buildServer(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to build server", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// setupMetrics creates a dedicated registry with process collectors and the
// application metrics.
func setupMetrics() (http.Handler, *metrics.AppointmentMetrics, *metrics.DirectoryMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	handler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	return handler, metrics.NewAppointmentMetrics(reg), metrics.NewDirectoryMetrics(reg)
}

// buildServer wires every dependency into an http.Server. cleanup releases
// the Redis connection when one was opened.
func buildServer(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*http.Server, func(), error) {
	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	cleanup := func() {
		if redisClient != nil {
			_ = redisClient.Close()
		}
	}

	catalog, err := bootstrap.BuildCatalog(ctx, cfg, redisClient, logger)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	siteConfig := bootstrap.BuildSiteConfig(ctx, cfg, logger)
	metricsHandler, appointmentMetrics, directoryMetrics := setupMetrics()

	r := router.New(&router.Config{
		Logger:               logger,
		DirectoryHandler:     directory.NewHandler(catalog, directoryMetrics, logger),
		AppointmentsHandler:  appointments.NewHandler(appointments.NewValidator(), appointmentMetrics, logger),
		SiteConfig:           siteConfig,
		MetricsHandler:       metricsHandler,
		CORSAllowedOrigins:   cfg.CORSAllowedOrigins,
		AppointmentRateLimit: cfg.AppointmentRateLimit,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return srv, cleanup, nil
}
