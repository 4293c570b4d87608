package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"todolist/internal/adapter/database/postgres"
	"todolist/internal/core/domain"
	"todolist/internal/core/port"
	tel "todolist/internal/core/telemetry"
)

const table = "todos"

var columns = []string{"id", "text", "completed", "sequence", "created_at", "updated_at"}

type TodoRepository struct {
	db        *postgres.DB
	telemetry port.Telemetry
}

func NewTodoRepository(db *postgres.DB, telemetry port.Telemetry) port.TodoRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TodoRepository{db: db, telemetry: telemetry}
}

func (tr *TodoRepository) LoadAll(ctx context.Context) (todos []domain.Todo, err error) {
	ctx, done := tr.observe(ctx, "LoadAll", nil)
	defer func() { done(err) }()

	query, args, err := tr.db.QueryBuilder.Select(columns...).
		From(table).
		OrderBy("sequence ASC").
		ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := tr.db.Query(ctx, query, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	todos = make([]domain.Todo, 0)

	for rows.Next() {
		var (
			id   string
			todo domain.Todo
		)

		if err = rows.Scan(&id, &todo.Text, &todo.Completed, &todo.Sequence, &todo.CreatedAt, &todo.UpdatedAt); err != nil {
			return nil, err
		}

		if todo.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("postgres: invalid todo id %q: %w", id, err)
		}

		todos = append(todos, todo)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return todos, nil
}

func (tr *TodoRepository) Save(ctx context.Context, todo domain.Todo) (err error) {
	ctx, done := tr.observe(ctx, "Save", map[string]interface{}{"todo.id": todo.ID.String()})
	defer func() { done(err) }()

	query, args, err := tr.db.QueryBuilder.Insert(table).
		Columns(columns...).
		Values(todo.ID.String(), todo.Text, todo.Completed, todo.Sequence, todo.CreatedAt, todo.UpdatedAt).
		Suffix("ON CONFLICT (id) DO UPDATE SET text = EXCLUDED.text, completed = EXCLUDED.completed, updated_at = EXCLUDED.updated_at").
		ToSql()

	if err != nil {
		return err
	}

	_, err = tr.db.Exec(ctx, query, args...)

	return err
}

func (tr *TodoRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (err error) {
	ctx, done := tr.observe(ctx, "DeleteByIDs", map[string]interface{}{"todo.count": len(ids)})
	defer func() { done(err) }()

	if len(ids) == 0 {
		return nil
	}

	values := make([]string, 0, len(ids))

	for _, id := range ids {
		values = append(values, id.String())
	}

	query, args, err := tr.db.QueryBuilder.Delete(table).
		Where(sq.Eq{"id": values}).
		ToSql()

	if err != nil {
		return err
	}

	tx, err := tr.db.Begin(ctx)

	if err != nil {
		return err
	}

	defer tx.Rollback(ctx)

	if _, err = tx.Exec(ctx, query, args...); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (tr *TodoRepository) Close() error {
	tr.db.Close()
	return nil
}

func (tr *TodoRepository) observe(ctx context.Context, operation string, attrs map[string]interface{}) (context.Context, func(error)) {
	if attrs == nil {
		attrs = map[string]interface{}{}
	}

	attrs["db.system"] = "postgresql"
	attrs["db.table"] = table

	ctx, span := tr.telemetry.StartRepositorySpan(ctx, operation, "todo", attrs)
	start := time.Now()

	return ctx, func(err error) {
		tr.telemetry.RecordRepositoryOperation(ctx, operation, "todo", time.Since(start), err)
		span.End()
	}
}
