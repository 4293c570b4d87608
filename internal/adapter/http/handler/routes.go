package handler

import "github.com/gin-gonic/gin"

type Handlers struct {
	TodoHandler *TodoHandler
	PageHandler *PageHandler
}

func RegisterRoutes(router *gin.Engine, handlers Handlers) {
	if handlers.PageHandler != nil {
		setupPageRoutes(router, handlers.PageHandler)
	}

	if handlers.TodoHandler != nil {
		router.GET("/healthz", handlers.TodoHandler.Health)
		setupAPIRoutes(router, handlers.TodoHandler)
	}
}

func setupPageRoutes(router *gin.Engine, pageHandler *PageHandler) {
	pages := router.Group("/")
	{
		pages.GET("/", pageHandler.Index)
		pages.POST("/items", pageHandler.CreateItem)
		pages.POST("/items/:id/toggle", pageHandler.ToggleItem)
		pages.POST("/items/:id/delete", pageHandler.DeleteItem)
		pages.POST("/clear-completed", pageHandler.ClearCompleted)
	}
}

func setupAPIRoutes(router *gin.Engine, todoHandler *TodoHandler) {
	api := router.Group("/api/todos")
	{
		api.GET("", todoHandler.GetAllTodos)
		api.POST("", todoHandler.CreateTodo)
		api.POST("/clear-completed", todoHandler.ClearCompleted)
		api.GET("/:id", todoHandler.GetTodo)
		api.PUT("/:id", todoHandler.UpdateTodo)
		api.PATCH("/:id/toggle", todoHandler.ToggleTodo)
		api.DELETE("/:id", todoHandler.DeleteTodo)
	}
}
