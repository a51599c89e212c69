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

	"github.com/rs/zerolog"

	pavegin "go.pavemaster.dev/integrations/api/gin"
	"go.pavemaster.dev/integrations/config"
	"go.pavemaster.dev/integrations/internal/app"
	"go.pavemaster.dev/integrations/internal/server"
	"go.pavemaster.dev/integrations/internal/telemetry"
	"go.pavemaster.dev/integrations/log"
	"go.pavemaster.dev/integrations/tracing"
)

func main() {
	cfg, err := config.LoadConfig(os.Getenv("PAVE_CONFIG_FILE"))
	if err != nil {
		stdLog := zerolog.New(os.Stdout).With().Timestamp().Logger()
		stdLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logLevel, parseErr := log.ParseLevel(cfg.LogLevel)
	if parseErr != nil {
		stdLog := zerolog.New(os.Stdout).With().Timestamp().Logger()
		stdLog.Warn().
			Str("configured_log_level", cfg.LogLevel).
			Err(parseErr).
			Msg("Invalid log_level configured, defaulting to 'info'")
	}
	appLogger := log.NewZerologAdapter(logLevel, cfg.LogPretty)

	ctx := context.Background()
	appLogger.Info(ctx, "Starting PaveMaster integration service", log.Fields{
		"http_addr":       cfg.HTTPAddr,
		"storage_backend": string(cfg.StorageBackend),
		"log_level":       cfg.LogLevel,
		"otel_service":    cfg.OtelServiceName,
		"tracing":         cfg.TracingEnabled,
	})

	tp, err := tracing.InitTracerProvider(ctx, cfg.OtelServiceName, os.Stdout, cfg.TracingEnabled)
	if err != nil {
		appLogger.Fatal(ctx, "Failed to initialize TracerProvider", err)
	}

	a, err := app.New(ctx, cfg, appLogger, app.Options{AuditOutput: os.Stdout})
	if err != nil {
		appLogger.Fatal(ctx, "Failed to initialize application", err)
	}

	mp, err := telemetry.InitMeterProvider(ctx, cfg.OtelServiceName, a.Registry)
	if err != nil {
		appLogger.Fatal(ctx, "Failed to initialize MeterProvider", err)
	}

	a.Broker.Start()

	api := pavegin.NewIntegrationAPI(a.Manager, a.Broker)
	httpServer := server.NewHTTPServer(cfg, appLogger, api, a.Registry, a.Store.Ping)

	go func() {
		appLogger.Info(ctx, fmt.Sprintf("HTTP server listening on %s", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal(ctx, "HTTP server failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	appLogger.Info(ctx, fmt.Sprintf("Received signal: %v. Shutting down server...", receivedSignal))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(shutdownCtx, "HTTP server shutdown error", err)
	}
	a.Broker.Stop()
	if err := a.Close(shutdownCtx); err != nil {
		appLogger.Error(shutdownCtx, "Failed to close store", err)
	}
	telemetry.Shutdown(shutdownCtx, appLogger, tp, mp)

	appLogger.Info(shutdownCtx, "Server exited gracefully")
}
