package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"todolist/internal/core/telemetry"
	"todolist/pkg/config"
)

// Setup installs the middleware chain in order: HTTPS redirect, tracing,
// request id, access log, metrics, rate limiter, response cache.
func Setup(router *gin.Engine, cfg *config.AppConfig, metrics *telemetry.AppMetrics, logger *config.AppLogger) {
	router.Use(HTTPSRedirect(cfg.EnforceHTTPS, logger.Zap()))
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(RequestIDMiddleware())
	router.Use(LoggingMiddleware(logger))

	if metrics != nil {
		router.Use(MetricsMiddleware(metrics))
	}

	if cfg.RateLimitEnabled {
		router.Use(NewRateLimiter(cfg.RateLimitConfigs, logger.Zap(), metrics).RateLimitMiddleware())
	}

	if cfg.CacheEnabled {
		router.Use(NewResponseCache(cfg.CacheConfigs, logger.Zap(), metrics).CacheMiddleware())
	}

	router.Use(gin.Recovery())
	router.Use(CORSMiddleware())
}
