package port

import (
	"context"

	"github.com/google/uuid"

	"todolist/internal/core/domain"
)

// TodoRepository persists snapshots of the todo list. LoadAll must return
// items ordered by Sequence.
type TodoRepository interface {
	LoadAll(ctx context.Context) ([]domain.Todo, error)
	Save(ctx context.Context, todo domain.Todo) error
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) error
	Close() error
}

type TodoStore interface {
	Add(ctx context.Context, text string) (domain.Todo, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Todo, error)
	Edit(ctx context.Context, id uuid.UUID, text string) (domain.Todo, error)
	Toggle(ctx context.Context, id uuid.UUID) (domain.Todo, error)
	DeleteCompleted(ctx context.Context) (int, error)
	DeleteByID(ctx context.Context, id uuid.UUID) (bool, error)
	Filter(ctx context.Context, filter domain.Filter) []domain.Todo
	List(ctx context.Context) []domain.Todo
	Counts(ctx context.Context) domain.Counts
}
