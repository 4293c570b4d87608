package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	. "todolist/pkg/test"

	"todolist/internal/adapter/database/sqlite"
	"todolist/internal/adapter/database/sqlite/repository"
	"todolist/internal/core/domain"
	"todolist/internal/core/port"
	"todolist/internal/core/service"

	factory "todolist/pkg/test/factory"
)

var ctx = context.Background()

type TodoRepositoryTestSuite struct {
	suite.Suite
	DB       *sqlite.DB
	TodoRepo port.TodoRepository
}

func (s *TodoRepositoryTestSuite) SetupTest() {
	s.DB = InitTestDB()
	s.TodoRepo = repository.NewTodoRepository(s.DB, nil)
}

func (s *TodoRepositoryTestSuite) TearDownTest() {
	s.TodoRepo.Close()
}

func TestTodoRepositoryTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TodoRepositoryTestSuite))
}

func (s *TodoRepositoryTestSuite) TestRepository_LoadAll_Empty() {
	todos, err := s.TodoRepo.LoadAll(ctx)

	Expect(err).To(BeNil())
	Expect(todos).To(BeEmpty())
}

func (s *TodoRepositoryTestSuite) TestRepository_Save_InsertsAndLoadsInSequenceOrder() {
	second := factory.NewTodo[domain.Todo](map[string]any{"Text": "drink some milk", "Sequence": int64(2)})
	first := factory.NewTodo[domain.Todo](map[string]any{"Text": "buy some cheese", "Sequence": int64(1)})

	Expect(s.TodoRepo.Save(ctx, second)).To(Succeed())
	Expect(s.TodoRepo.Save(ctx, first)).To(Succeed())

	todos, err := s.TodoRepo.LoadAll(ctx)

	Expect(err).To(BeNil())
	Expect(todos).To(HaveLen(2))
	Expect(todos[0].ID).To(Equal(first.ID))
	Expect(todos[0].Text).To(Equal("buy some cheese"))
	Expect(todos[1].ID).To(Equal(second.ID))
	Expect(todos[0].CreatedAt.Equal(first.CreatedAt)).To(BeTrue())
}

func (s *TodoRepositoryTestSuite) TestRepository_Save_Upserts() {
	todo := factory.NewTodo[domain.Todo](map[string]any{"Text": "buy cheese"})
	s.TodoRepo.Save(ctx, todo)

	todo.Text = "buy some cheese"
	todo.Completed = true
	Expect(s.TodoRepo.Save(ctx, todo)).To(Succeed())

	todos, _ := s.TodoRepo.LoadAll(ctx)

	Expect(todos).To(HaveLen(1))
	Expect(todos[0].Text).To(Equal("buy some cheese"))
	Expect(todos[0].Completed).To(BeTrue())
}

func (s *TodoRepositoryTestSuite) TestRepository_DeleteByIDs() {
	a := factory.NewTodo[domain.Todo](map[string]any{"Text": "a"})
	b := factory.NewTodo[domain.Todo](map[string]any{"Text": "b"})
	c := factory.NewTodo[domain.Todo](map[string]any{"Text": "c"})

	for _, todo := range []domain.Todo{a, b, c} {
		s.TodoRepo.Save(ctx, todo)
	}

	err := s.TodoRepo.DeleteByIDs(ctx, []uuid.UUID{a.ID, c.ID, uuid.New()})
	assert.NoError(s.T(), err)

	todos, _ := s.TodoRepo.LoadAll(ctx)

	Expect(todos).To(HaveLen(1))
	Expect(todos[0].ID).To(Equal(b.ID))

	assert.NoError(s.T(), s.TodoRepo.DeleteByIDs(ctx, nil))
}

func (s *TodoRepositoryTestSuite) TestRepository_BacksTodoStore() {
	store, err := service.NewTodoStore(ctx, service.WithRepository(s.TodoRepo))
	s.Require().NoError(err)

	cheese, _ := store.Add(ctx, "buy some cheese")
	store.Add(ctx, "drink some milk")
	store.Toggle(ctx, cheese.ID)

	removed, err := store.DeleteCompleted(ctx)
	Expect(err).To(BeNil())
	Expect(removed).To(Equal(1))

	reloaded, err := service.NewTodoStore(ctx, service.WithRepository(s.TodoRepo))
	s.Require().NoError(err)

	list := reloaded.List(ctx)
	Expect(list).To(HaveLen(1))
	Expect(list[0].Text).To(Equal("drink some milk"))
	Expect(list[0].Completed).To(BeFalse())
}

func (s *TodoRepositoryTestSuite) TestRepository_CleanDB() {
	s.TodoRepo.Save(ctx, factory.NewTodo[domain.Todo](map[string]any{"Text": "a"}))

	Expect(CleanDB(s.DB)).To(Succeed())

	todos, _ := s.TodoRepo.LoadAll(ctx)
	Expect(todos).To(BeEmpty())
}
