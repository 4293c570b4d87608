package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	. "todolist/internal/adapter/http/helper"
	. "todolist/internal/adapter/http/validation"
	"todolist/internal/core/domain"
	"todolist/internal/core/model/request"
	"todolist/internal/core/model/response"
	"todolist/internal/core/port"
	"todolist/internal/core/util"
	"todolist/pkg/config"
	"todolist/pkg/db/cursor"
	. "todolist/pkg/tracing"
)

const defaultPageSize = 20

type TodoHandler struct {
	store     port.TodoStore
	formatter domain.Formatter
	Logger    *config.AppLogger
	Cursors   cursor.Codec
}

func NewTodoHandler(store port.TodoStore, formatter domain.Formatter, logger *config.AppLogger) *TodoHandler {
	if formatter == nil {
		formatter = domain.NewDefaultFormatter()
	}

	if logger == nil {
		logger = config.NewNopLogger()
	}

	return &TodoHandler{
		store:     store,
		formatter: formatter,
		Logger:    logger,
		Cursors:   cursor.NewCodec(""),
	}
}

func (t *TodoHandler) GetAllTodos(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.todo.GetAllTodos", []attribute.KeyValue{
		attribute.String("handler.operation", "GetAllTodos"),
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
	})

	defer span.End()

	var query request.ListTodosQuery

	if err := c.ShouldBindQuery(&query); err != nil {
		SendBadRequestError(c, "status", "Invalid query parameters")
		return
	}

	if err := Validator.Struct(query); err != nil {
		SendValidationError(c, err)
		return
	}

	filter, err := domain.ParseFilter(query.Status)

	if err != nil {
		SendDomainError(c, "status", err)
		return
	}

	span.SetAttributes(attribute.String("todo.filter", filter.String()))

	todos := t.store.Filter(ctx, filter)
	counts := t.store.Counts(ctx)

	var pagination *response.Pagination

	if query.Limit > 0 || query.Cursor != "" {
		todos, pagination, err = t.page(todos, filter, query)

		if err != nil {
			SendBadRequestError(c, "cursor", "Invalid cursor")
			return
		}
	}

	span.SetAttributes(attribute.Int("todo.size", len(todos)))
	AddHTTPAttributes(span, c.Request.Method, c.FullPath(), http.StatusOK)

	body := response.NewTodoListResponse(todos, counts, t.formatter)
	body.Pagination = pagination

	c.JSON(http.StatusOK, body)
}

// page cuts the window that follows the cursor position. A cursor issued for
// another filter is rejected.
func (t *TodoHandler) page(todos []domain.Todo, filter domain.Filter, query request.ListTodosQuery) ([]domain.Todo, *response.Pagination, error) {
	limit := query.Limit

	if limit == 0 {
		limit = defaultPageSize
	}

	start := 0

	if query.Cursor != "" {
		position, err := t.Cursors.Decode(query.Cursor)

		if err != nil {
			return nil, nil, err
		}

		if position.Filter != filter.String() {
			return nil, nil, cursor.ErrInvalidFormat
		}

		for start < len(todos) && todos[start].Sequence <= position.Sequence {
			start++
		}
	}

	end := min(start+limit, len(todos))
	window := todos[start:end]
	pagination := &response.Pagination{HasNext: end < len(todos)}

	if pagination.HasNext {
		pagination.NextCursor = t.Cursors.Encode(cursor.CursorData{
			Sequence: window[len(window)-1].Sequence,
			Filter:   filter.String(),
		})
	}

	return window, pagination, nil
}

func (t *TodoHandler) GetTodo(c *gin.Context) {
	id, ok := parseID(c)

	if !ok {
		return
	}

	todo, err := t.store.Get(c.Request.Context(), id)

	if err != nil {
		t.sendError(c, "id", "Error getting todo", err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewTodoResponse(todo, t.formatter))
}

func (t *TodoHandler) CreateTodo(c *gin.Context) {
	params, err := util.ParamsToMap[request.TodoRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	var todo domain.Todo

	err = HandlerSpanWrapper(c.Request.Context(), "todo", "CreateTodo", func(ctx context.Context) error {
		todo, err = t.store.Add(ctx, params.Text)
		return err
	})

	if err != nil {
		t.sendError(c, "text", "Error creating todo", err)
		return
	}

	SendSuccess(c, http.StatusCreated, response.NewTodoResponse(todo, t.formatter))
}

func (t *TodoHandler) UpdateTodo(c *gin.Context) {
	id, ok := parseID(c)

	if !ok {
		return
	}

	params, err := util.ParamsToMap[request.TodoRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	todo, err := t.store.Edit(c.Request.Context(), id, params.Text)

	if err != nil {
		t.sendError(c, "text", "Error updating todo", err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewTodoResponse(todo, t.formatter))
}

func (t *TodoHandler) ToggleTodo(c *gin.Context) {
	id, ok := parseID(c)

	if !ok {
		return
	}

	ctx, span := CreateChildSpan(c.Request.Context(), "handler.todo.ToggleTodo", nil)
	defer span.End()

	AddTodoAttributes(span, id.String(), "toggle")

	todo, err := t.store.Toggle(ctx, id)

	if err != nil {
		AddSpanError(span, err)
		t.sendError(c, "id", "Error toggling todo", err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewTodoResponse(todo, t.formatter))
}

func (t *TodoHandler) DeleteTodo(c *gin.Context) {
	id, ok := parseID(c)

	if !ok {
		return
	}

	ctx, span := CreateChildSpan(c.Request.Context(), "handler.todo.DeleteTodo", nil)
	defer span.End()

	AddTodoAttributes(span, id.String(), "delete")

	found, err := t.store.DeleteByID(ctx, id)

	if err != nil {
		AddSpanError(span, err)
		t.sendError(c, "id", "Error deleting todo", err)
		return
	}

	if !found {
		SendNotFoundError(c, "todo "+id.String()+" not found")
		return
	}

	SendSuccess(c, http.StatusOK, gin.H{"id": id})
}

func (t *TodoHandler) ClearCompleted(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.todo.ClearCompleted", nil)
	defer span.End()

	removed, err := t.store.DeleteCompleted(ctx)

	if err != nil {
		AddSpanError(span, err)
		t.sendError(c, "todos", "Error clearing completed todos", err)
		return
	}

	AddSpanEvent(span, "todos.cleared", []attribute.KeyValue{attribute.Int("todo.removed", removed)})

	SendSuccess(c, http.StatusOK, response.ClearCompletedResponse{Removed: removed})
}

func (t *TodoHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"counts": t.store.Counts(c.Request.Context()),
	})
}

func (t *TodoHandler) sendError(c *gin.Context, field string, message string, err error) {
	if SendDomainError(c, field, err) {
		return
	}

	t.Logger.ErrorWithTrace(c.Request.Context(), message, zap.Error(err))
	SendInternalError(c, message)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))

	if err != nil {
		SendBadRequestError(c, "id", "Invalid todo id")
		return uuid.Nil, false
	}

	return id, true
}
