package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("todo not found")
)

type Todo struct {
	ID        uuid.UUID
	Text      string
	Completed bool
	Sequence  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeText trims the text and rejects blank values.
func NormalizeText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)

	if trimmed == "" {
		return "", fmt.Errorf("%w: text must not be empty", ErrInvalidInput)
	}

	return trimmed, nil
}

func (t *Todo) Matches(filter Filter) bool {
	switch filter {
	case FilterAll:
		return true
	case FilterPending:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return false
	}
}

type Filter int

const (
	FilterAll Filter = iota
	FilterPending
	FilterCompleted
)

var filterNames = []string{"all", "pending", "completed"}

func (f Filter) String() string {
	if f < FilterAll || f > FilterCompleted {
		return "unknown"
	}

	return filterNames[f]
}

// Filters lists every filter in display order.
func Filters() []Filter {
	return []Filter{FilterAll, FilterPending, FilterCompleted}
}

func ParseFilter(status string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "all", "":
		return FilterAll, nil
	case "pending":
		return FilterPending, nil
	case "completed":
		return FilterCompleted, nil
	default:
		return FilterAll, fmt.Errorf("%w: unknown filter %q", ErrInvalidInput, status)
	}
}

type Counts struct {
	All       int `json:"all"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
}
