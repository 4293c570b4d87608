package database

import (
	"context"
	"fmt"
	"io"

	"todolist/internal/adapter/database/postgres"
	pgrepository "todolist/internal/adapter/database/postgres/repository"
	"todolist/internal/adapter/database/redis"
	"todolist/internal/adapter/database/sqlite"
	sqliterepository "todolist/internal/adapter/database/sqlite/repository"
	"todolist/internal/core/port"
	"todolist/pkg/config"
)

// NewRepository opens the repository selected by cfg.Driver. The memory
// driver returns nil: the store then keeps its list in process memory only.
// With cfg.LogSQL set, sqlite statements are logged to sqlLog; a nil sqlLog
// keeps them silent.
func NewRepository(ctx context.Context, cfg config.StorageConfig, telemetry port.Telemetry, sqlLog io.Writer) (port.TodoRepository, error) {
	switch cfg.Driver {
	case config.DriverMemory, "":
		return nil, nil

	case config.DriverSQLite:
		opts := sqlite.Options{Path: cfg.Path}

		if cfg.LogSQL {
			opts.LogWriter = sqlLog
		}

		db, err := sqlite.NewDB(opts)

		if err != nil {
			return nil, err
		}

		return sqliterepository.NewTodoRepository(db, telemetry), nil

	case config.DriverPostgres:
		db, err := postgres.NewDB(ctx, cfg.URL)

		if err != nil {
			return nil, err
		}

		return pgrepository.NewTodoRepository(db, telemetry), nil

	case config.DriverRedis:
		client, err := redis.NewClient(ctx, cfg.RedisURL)

		if err != nil {
			return nil, err
		}

		return redis.NewTodoRepository(client, cfg.RedisKey, telemetry), nil

	default:
		return nil, fmt.Errorf("database: unknown storage driver %q", cfg.Driver)
	}
}
