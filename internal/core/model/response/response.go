package response

import (
	"time"

	"github.com/google/uuid"

	"todolist/internal/core/domain"
)

type TodoResponse struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	Label     string    `json:"label"`
	Style     string    `json:"style"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewTodoResponse(todo domain.Todo, formatter domain.Formatter) TodoResponse {
	presentation := formatter.Format(todo)

	return TodoResponse{
		ID:        todo.ID,
		Text:      todo.Text,
		Completed: todo.Completed,
		Label:     presentation.Label,
		Style:     string(presentation.StyleTag),
		CreatedAt: todo.CreatedAt,
		UpdatedAt: todo.UpdatedAt,
	}
}

func NewTodoListResponse(todos []domain.Todo, counts domain.Counts, formatter domain.Formatter) TodoListResponse {
	data := make([]TodoResponse, 0, len(todos))

	for _, todo := range todos {
		data = append(data, NewTodoResponse(todo, formatter))
	}

	return TodoListResponse{
		Data:   data,
		Size:   len(data),
		Counts: counts,
	}
}

type TodoListResponse struct {
	Data       []TodoResponse `json:"data"`
	Size       int            `json:"size"`
	Counts     domain.Counts  `json:"counts"`
	Pagination *Pagination    `json:"pagination,omitempty"`
}

type Pagination struct {
	HasNext    bool   `json:"has_next"`
	NextCursor string `json:"next_cursor,omitempty"`
}

type ClearCompletedResponse struct {
	Removed int `json:"removed"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ResponseError struct {
	Code    string            `json:"code"`
	Errors  []ValidationError `json:"errors"`
	Details any               `json:"details,omitempty"`
}

type SuccessResponse struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error ResponseError `json:"error"`
}
