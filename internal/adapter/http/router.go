package http

import (
	"github.com/gin-gonic/gin"

	"todolist/internal/adapter/http/handler"
	"todolist/internal/adapter/http/middleware"
	"todolist/internal/adapter/http/view"
	"todolist/internal/core/telemetry"
	"todolist/pkg/config"
)

func SetupRouter(handlers handler.Handlers, cfg *config.AppConfig, metrics *telemetry.AppMetrics, logger *config.AppLogger) *gin.Engine {
	gin.SetMode(cfg.GinMode)

	router := gin.New()
	router.SetHTMLTemplate(view.Templates())

	middleware.Setup(router, cfg, metrics, logger)
	handler.RegisterRoutes(router, handlers)

	return router
}
