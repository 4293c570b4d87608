package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"todolist/internal/core/domain"
	"todolist/internal/core/port"
	tel "todolist/internal/core/telemetry"
)

// record is the JSON value stored per hash field.
type record struct {
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	Sequence  int64     `json:"sequence"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TodoRepository keeps every todo as one field of a single hash, keyed by id.
type TodoRepository struct {
	client    *goredis.Client
	key       string
	telemetry port.Telemetry
}

func NewTodoRepository(client *goredis.Client, key string, telemetry port.Telemetry) port.TodoRepository {
	if key == "" {
		key = DefaultKey
	}

	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TodoRepository{client: client, key: key, telemetry: telemetry}
}

func (r *TodoRepository) LoadAll(ctx context.Context) (todos []domain.Todo, err error) {
	ctx, done := r.observe(ctx, "LoadAll", nil)
	defer func() { done(err) }()

	fields, err := r.client.HGetAll(ctx, r.key).Result()

	if err != nil {
		return nil, err
	}

	todos = make([]domain.Todo, 0, len(fields))

	for field, value := range fields {
		id, err := uuid.Parse(field)

		if err != nil {
			return nil, fmt.Errorf("redis: invalid todo id %q: %w", field, err)
		}

		var rec record

		if err := json.Unmarshal([]byte(value), &rec); err != nil {
			return nil, fmt.Errorf("redis: decode todo %s: %w", id, err)
		}

		todos = append(todos, domain.Todo{
			ID:        id,
			Text:      rec.Text,
			Completed: rec.Completed,
			Sequence:  rec.Sequence,
			CreatedAt: rec.CreatedAt,
			UpdatedAt: rec.UpdatedAt,
		})
	}

	sort.Slice(todos, func(i, j int) bool {
		return todos[i].Sequence < todos[j].Sequence
	})

	return todos, nil
}

func (r *TodoRepository) Save(ctx context.Context, todo domain.Todo) (err error) {
	ctx, done := r.observe(ctx, "Save", map[string]interface{}{"todo.id": todo.ID.String()})
	defer func() { done(err) }()

	value, err := json.Marshal(record{
		Text:      todo.Text,
		Completed: todo.Completed,
		Sequence:  todo.Sequence,
		CreatedAt: todo.CreatedAt,
		UpdatedAt: todo.UpdatedAt,
	})

	if err != nil {
		return err
	}

	return r.client.HSet(ctx, r.key, todo.ID.String(), value).Err()
}

// DeleteByIDs issues a single HDEL, which redis applies atomically.
func (r *TodoRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (err error) {
	ctx, done := r.observe(ctx, "DeleteByIDs", map[string]interface{}{"todo.count": len(ids)})
	defer func() { done(err) }()

	if len(ids) == 0 {
		return nil
	}

	fields := make([]string, 0, len(ids))

	for _, id := range ids {
		fields = append(fields, id.String())
	}

	return r.client.HDel(ctx, r.key, fields...).Err()
}

func (r *TodoRepository) Close() error {
	return r.client.Close()
}

func (r *TodoRepository) observe(ctx context.Context, operation string, attrs map[string]interface{}) (context.Context, func(error)) {
	if attrs == nil {
		attrs = map[string]interface{}{}
	}

	attrs["db.system"] = "redis"
	attrs["db.key"] = r.key

	ctx, span := r.telemetry.StartRepositorySpan(ctx, operation, "todo", attrs)
	start := time.Now()

	return ctx, func(err error) {
		r.telemetry.RecordRepositoryOperation(ctx, operation, "todo", time.Since(start), err)
		span.End()
	}
}
