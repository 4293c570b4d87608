package factory

import (
	"time"

	fab "github.com/Goldziher/fabricator"
	"github.com/google/uuid"
)

var sequence int64

// NewTodo builds a T with random values. Unless overridden, ID, Sequence and
// timestamps are set to valid, increasing values so the result can be persisted.
func NewTodo[T any](customData ...map[string]any) T {
	instance := fab.New(*new(T))

	sequence++
	now := time.Now().UTC()

	defaults := map[string]any{
		"ID":        uuid.New(),
		"Sequence":  sequence,
		"Completed": false,
		"CreatedAt": now,
		"UpdatedAt": now,
	}

	return instance.Build(append([]map[string]any{defaults}, customData...)...)
}
