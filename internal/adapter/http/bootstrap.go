package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"todolist/internal/core/port"
	"todolist/internal/core/telemetry"
	"todolist/pkg/config"
)

// StartServer serves the list until ctx is cancelled, then drains open
// requests and closes the repository.
func StartServer(ctx context.Context, cfg *config.AppConfig, logger *config.AppLogger, metrics *telemetry.AppMetrics, probe port.Telemetry) error {
	container, err := NewContainer(ctx, cfg, logger, probe)

	if err != nil {
		return err
	}

	defer container.Close()

	router := SetupRouter(container.Handlers(), cfg, metrics, logger)

	logger.InfoWithTrace(ctx, "Server starting",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("storage", cfg.Storage.Driver),
		zap.Bool("rate_limit_enabled", cfg.RateLimitEnabled),
		zap.Bool("https_enforced", cfg.EnforceHTTPS))

	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	serveErr := make(chan error, 1)

	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err

	case <-ctx.Done():
		logger.InfoWithTrace(context.Background(), "Server shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	}
}
