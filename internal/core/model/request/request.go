package request

type TodoRequest struct {
	Text string `json:"text" form:"text" validate:"required,max=500"`
}

// ListTodosQuery pages the list only when Limit or Cursor is given.
type ListTodosQuery struct {
	Status string `form:"status"`
	Limit  int    `form:"limit" validate:"omitempty,min=1,max=100"`
	Cursor string `form:"cursor"`
}
