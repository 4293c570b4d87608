package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"todolist/internal/core/domain"
	"todolist/internal/core/port"
)

// memoryRepository keeps the snapshot in process memory. The store tests use
// it to check rehydration without a database.
type memoryRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]domain.Todo
}

func NewMemoryRepository() port.TodoRepository {
	return &memoryRepository{
		items: make(map[uuid.UUID]domain.Todo),
	}
}

func (r *memoryRepository) LoadAll(ctx context.Context) ([]domain.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	todos := make([]domain.Todo, 0, len(r.items))

	for _, todo := range r.items {
		todos = append(todos, todo)
	}

	sort.Slice(todos, func(i, j int) bool {
		return todos[i].Sequence < todos[j].Sequence
	})

	return todos, nil
}

func (r *memoryRepository) Save(ctx context.Context, todo domain.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[todo.ID] = todo

	return nil
}

func (r *memoryRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		delete(r.items, id)
	}

	return nil
}

func (r *memoryRepository) Close() error {
	return nil
}
