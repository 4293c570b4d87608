package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	server "todolist/internal/adapter/http"
	"todolist/internal/adapter/telemetry"
	"todolist/pkg/config"
)

func main() {
	cfg, err := config.Load("")

	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	logger, err := config.NewAppLogger(cfg)

	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}

	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := telemetry.NewContainer(ctx, telemetry.Config{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: "1.0.0",
		Environment:    cfg.Environment,
		MetricsPort:    cfg.Telemetry.MetricsPort,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		RuntimeMetrics: true,
	}, logger.Zap())

	if err != nil {
		logger.Zap().Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := container.Shutdown(shutdownCtx); err != nil {
			logger.Zap().Error("Failed to shut down telemetry", zap.Error(err))
		}
	}()

	container.StartMetricsServer()
	container.AppMetrics.StartSystemMetrics(ctx)

	if err := server.StartServer(ctx, cfg, logger, container.AppMetrics, container.NewTelemetryProbe()); err != nil {
		logger.Zap().Error("Server stopped with error", zap.Error(err))
		return
	}

	logger.Zap().Info("Shut down gracefully")
}
