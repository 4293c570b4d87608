package http

import (
	"context"
	"fmt"
	"os"

	"todolist/internal/adapter/database"
	"todolist/internal/adapter/http/handler"
	"todolist/internal/core/domain"
	"todolist/internal/core/port"
	"todolist/internal/core/service"
	"todolist/pkg/config"
	"todolist/pkg/db/cursor"
)

type Container struct {
	TodoRepo  port.TodoRepository
	TodoStore *service.TodoStore
	Formatter domain.Formatter

	TodoHandler *handler.TodoHandler
	PageHandler *handler.PageHandler
}

func NewContainer(ctx context.Context, cfg *config.AppConfig, logger *config.AppLogger, telemetry port.Telemetry) (*Container, error) {
	todoRepo, err := database.NewRepository(ctx, cfg.Storage, telemetry, os.Stderr)

	if err != nil {
		return nil, fmt.Errorf("container: open %s storage: %w", cfg.Storage.Driver, err)
	}

	opts := []service.Option{service.WithTelemetry(telemetry)}

	if todoRepo != nil {
		opts = append(opts, service.WithRepository(todoRepo))
	}

	todoStore, err := service.NewTodoStore(ctx, opts...)

	if err != nil {
		if todoRepo != nil {
			todoRepo.Close()
		}

		return nil, err
	}

	formatter := domain.NewDefaultFormatter()

	todoHandler := handler.NewTodoHandler(todoStore, formatter, logger)
	todoHandler.Cursors = cursor.NewCodec(cfg.CursorSecret)

	return &Container{
		TodoRepo:  todoRepo,
		TodoStore: todoStore,
		Formatter: formatter,

		TodoHandler: todoHandler,
		PageHandler: handler.NewPageHandler(todoStore, formatter, cfg, logger),
	}, nil
}

func (c *Container) Handlers() handler.Handlers {
	return handler.Handlers{
		TodoHandler: c.TodoHandler,
		PageHandler: c.PageHandler,
	}
}

func (c *Container) Close() error {
	if c.TodoRepo == nil {
		return nil
	}

	return c.TodoRepo.Close()
}
