package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"todolist/internal/core/domain"
	"todolist/internal/core/port"
	tel "todolist/internal/core/telemetry"
)

const serviceName = "todo_store"

// TodoStore owns the ordered todo list. Every operation holds mu for its whole
// duration, so callers observe a single-threaded sequence of state changes.
type TodoStore struct {
	mu        sync.Mutex
	items     []domain.Todo
	nextSeq   int64
	repo      port.TodoRepository
	telemetry port.Telemetry
	now       func() time.Time
}

type Option func(*TodoStore)

// WithRepository enables write-through persistence.
func WithRepository(repo port.TodoRepository) Option {
	return func(s *TodoStore) {
		s.repo = repo
	}
}

func WithTelemetry(telemetry port.Telemetry) Option {
	return func(s *TodoStore) {
		if telemetry != nil {
			s.telemetry = telemetry
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *TodoStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewTodoStore builds a store and, when a repository is configured,
// rehydrates it from the persisted snapshot.
func NewTodoStore(ctx context.Context, opts ...Option) (*TodoStore, error) {
	s := &TodoStore{
		items:     make([]domain.Todo, 0),
		nextSeq:   1,
		telemetry: tel.NewNoOpProbe(),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.repo == nil {
		return s, nil
	}

	items, err := s.repo.LoadAll(ctx)

	if err != nil {
		return nil, fmt.Errorf("store: load todos: %w", err)
	}

	for _, item := range items {
		if item.Sequence >= s.nextSeq {
			s.nextSeq = item.Sequence + 1
		}
	}

	s.items = append(s.items, items...)
	s.recordCounts(ctx)

	return s, nil
}

func (s *TodoStore) Add(ctx context.Context, text string) (todo domain.Todo, err error) {
	ctx, done := s.observe(ctx, "add", nil)
	defer func() { done(err) }()

	text, err = domain.NormalizeText(text)

	if err != nil {
		return domain.Todo{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	todo = domain.Todo{
		ID:        uuid.New(),
		Text:      text,
		Completed: false,
		Sequence:  s.nextSeq,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err = s.persist(ctx, todo); err != nil {
		return domain.Todo{}, err
	}

	s.items = append(s.items, todo)
	s.nextSeq++

	s.telemetry.RecordBusinessEvent(ctx, "todo.created", "todo", todo.ID.String(), map[string]interface{}{
		"sequence": todo.Sequence,
	})
	s.recordCounts(ctx)

	return todo, nil
}

func (s *TodoStore) Get(ctx context.Context, id uuid.UUID) (domain.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.indexOf(id)

	if index < 0 {
		return domain.Todo{}, notFound(id)
	}

	return s.items[index], nil
}

func (s *TodoStore) Edit(ctx context.Context, id uuid.UUID, text string) (todo domain.Todo, err error) {
	ctx, done := s.observe(ctx, "edit", map[string]interface{}{"todo.id": id.String()})
	defer func() { done(err) }()

	text, err = domain.NormalizeText(text)

	if err != nil {
		return domain.Todo{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.indexOf(id)

	if index < 0 {
		return domain.Todo{}, notFound(id)
	}

	todo = s.items[index]
	todo.Text = text
	todo.UpdatedAt = s.now()

	if err = s.persist(ctx, todo); err != nil {
		return domain.Todo{}, err
	}

	s.items[index] = todo

	return todo, nil
}

func (s *TodoStore) Toggle(ctx context.Context, id uuid.UUID) (todo domain.Todo, err error) {
	ctx, done := s.observe(ctx, "toggle", map[string]interface{}{"todo.id": id.String()})
	defer func() { done(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.indexOf(id)

	if index < 0 {
		return domain.Todo{}, notFound(id)
	}

	todo = s.items[index]
	todo.Completed = !todo.Completed
	todo.UpdatedAt = s.now()

	if err = s.persist(ctx, todo); err != nil {
		return domain.Todo{}, err
	}

	s.items[index] = todo

	s.telemetry.RecordBusinessEvent(ctx, "todo.toggled", "todo", todo.ID.String(), map[string]interface{}{
		"completed": todo.Completed,
	})
	s.recordCounts(ctx)

	return todo, nil
}

// DeleteCompleted removes every completed item. The remaining list is built
// aside and only swapped in after the repository accepted the deletion, so a
// failure leaves the list untouched.
func (s *TodoStore) DeleteCompleted(ctx context.Context) (removed int, err error) {
	ctx, done := s.observe(ctx, "delete_completed", nil)
	defer func() { done(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	remaining := make([]domain.Todo, 0, len(s.items))
	ids := make([]uuid.UUID, 0)

	for _, item := range s.items {
		if item.Completed {
			ids = append(ids, item.ID)
			continue
		}

		remaining = append(remaining, item)
	}

	if len(ids) == 0 {
		return 0, nil
	}

	if err = s.remove(ctx, ids); err != nil {
		return 0, err
	}

	s.items = remaining

	s.telemetry.RecordBusinessEvent(ctx, "todo.completed_cleared", "todo", "", map[string]interface{}{
		"removed": len(ids),
	})
	s.recordCounts(ctx)

	return len(ids), nil
}

func (s *TodoStore) DeleteByID(ctx context.Context, id uuid.UUID) (found bool, err error) {
	ctx, done := s.observe(ctx, "delete", map[string]interface{}{"todo.id": id.String()})
	defer func() { done(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.indexOf(id)

	if index < 0 {
		return false, nil
	}

	if err = s.remove(ctx, []uuid.UUID{id}); err != nil {
		return false, err
	}

	remaining := make([]domain.Todo, 0, len(s.items)-1)
	remaining = append(remaining, s.items[:index]...)
	remaining = append(remaining, s.items[index+1:]...)
	s.items = remaining

	s.telemetry.RecordBusinessEvent(ctx, "todo.deleted", "todo", id.String(), nil)
	s.recordCounts(ctx)

	return true, nil
}

// Filter returns a copy of the items matching filter, in insertion order.
func (s *TodoStore) Filter(ctx context.Context, filter domain.Filter) []domain.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := make([]domain.Todo, 0, len(s.items))

	for _, item := range s.items {
		if item.Matches(filter) {
			view = append(view, item)
		}
	}

	return view
}

func (s *TodoStore) List(ctx context.Context) []domain.Todo {
	return s.Filter(ctx, domain.FilterAll)
}

func (s *TodoStore) Counts(ctx context.Context) domain.Counts {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.counts()
}

func (s *TodoStore) counts() domain.Counts {
	counts := domain.Counts{All: len(s.items)}

	for _, item := range s.items {
		if item.Completed {
			counts.Completed++
		} else {
			counts.Pending++
		}
	}

	return counts
}

func (s *TodoStore) indexOf(id uuid.UUID) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}

	return -1
}

func (s *TodoStore) persist(ctx context.Context, todo domain.Todo) error {
	if s.repo == nil {
		return nil
	}

	if err := s.repo.Save(ctx, todo); err != nil {
		return fmt.Errorf("store: persist todo %s: %w", todo.ID, err)
	}

	return nil
}

func (s *TodoStore) remove(ctx context.Context, ids []uuid.UUID) error {
	if s.repo == nil {
		return nil
	}

	if err := s.repo.DeleteByIDs(ctx, ids); err != nil {
		return fmt.Errorf("store: delete %d todos: %w", len(ids), err)
	}

	return nil
}

func (s *TodoStore) observe(ctx context.Context, operation string, attrs map[string]interface{}) (context.Context, func(error)) {
	ctx, span := s.telemetry.StartServiceSpan(ctx, serviceName, operation, attrs)
	start := time.Now()

	return ctx, func(err error) {
		s.telemetry.RecordServiceOperation(ctx, serviceName, operation, time.Since(start), err)

		if err != nil {
			span.SetStatus("error", err.Error())
			span.RecordError(err)
		}

		span.End()
	}
}

// recordCounts must be called with mu held.
func (s *TodoStore) recordCounts(ctx context.Context) {
	counts := s.counts()
	s.telemetry.RecordTodoCounts(ctx, counts.Pending, counts.Completed)
}

func notFound(id uuid.UUID) error {
	return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
}

var _ port.TodoStore = (*TodoStore)(nil)
