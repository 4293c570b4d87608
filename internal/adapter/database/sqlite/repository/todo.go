package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"todolist/internal/adapter/database/sqlite"
	"todolist/internal/core/domain"
	"todolist/internal/core/port"
	tel "todolist/internal/core/telemetry"
)

const table = "todos"

var columns = []string{"id", "text", "completed", "sequence", "created_at", "updated_at"}

type TodoRepository struct {
	db        *sqlite.DB
	telemetry port.Telemetry
}

func NewTodoRepository(db *sqlite.DB, telemetry port.Telemetry) port.TodoRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TodoRepository{
		db:        db,
		telemetry: telemetry,
	}
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

	rows, err := tr.db.QueryContext(ctx, query, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	todos = make([]domain.Todo, 0)

	for rows.Next() {
		var (
			id, text             string
			completed            bool
			sequence             int64
			createdAt, updatedAt string
		)

		if err = rows.Scan(&id, &text, &completed, &sequence, &createdAt, &updatedAt); err != nil {
			return nil, err
		}

		todo, err := toDomain(id, text, completed, sequence, createdAt, updatedAt)

		if err != nil {
			return nil, err
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
		Values(
			todo.ID.String(),
			todo.Text,
			todo.Completed,
			todo.Sequence,
			todo.CreatedAt.UTC().Format(time.RFC3339Nano),
			todo.UpdatedAt.UTC().Format(time.RFC3339Nano),
		).
		Suffix("ON CONFLICT(id) DO UPDATE SET text = excluded.text, completed = excluded.completed, updated_at = excluded.updated_at").
		ToSql()

	if err != nil {
		return err
	}

	_, err = tr.db.ExecContext(ctx, query, args...)

	return err
}

// DeleteByIDs removes all ids inside one transaction.
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

	tx, err := tr.db.BeginTx(ctx, nil)

	if err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (tr *TodoRepository) Close() error {
	return tr.db.Close()
}

func (tr *TodoRepository) observe(ctx context.Context, operation string, attrs map[string]interface{}) (context.Context, func(error)) {
	if attrs == nil {
		attrs = map[string]interface{}{}
	}

	attrs["db.system"] = "sqlite"
	attrs["db.table"] = table

	ctx, span := tr.telemetry.StartRepositorySpan(ctx, operation, "todo", attrs)
	start := time.Now()

	return ctx, func(err error) {
		tr.telemetry.RecordRepositoryOperation(ctx, operation, "todo", time.Since(start), err)
		span.End()
	}
}

func toDomain(id, text string, completed bool, sequence int64, createdAt, updatedAt string) (domain.Todo, error) {
	uid, err := uuid.Parse(id)

	if err != nil {
		return domain.Todo{}, fmt.Errorf("sqlite: invalid todo id %q: %w", id, err)
	}

	created, err := time.Parse(time.RFC3339Nano, createdAt)

	if err != nil {
		return domain.Todo{}, fmt.Errorf("sqlite: invalid created_at %q: %w", createdAt, err)
	}

	updated, err := time.Parse(time.RFC3339Nano, updatedAt)

	if err != nil {
		return domain.Todo{}, fmt.Errorf("sqlite: invalid updated_at %q: %w", updatedAt, err)
	}

	return domain.Todo{
		ID:        uid,
		Text:      text,
		Completed: completed,
		Sequence:  sequence,
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}
