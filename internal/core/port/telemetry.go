package port

import (
	"context"
	"time"
)

type Span interface {
	End()
	SetAttributes(attrs map[string]interface{})
	SetStatus(code string, message string)
	RecordError(err error)
}

// Telemetry lets the core emit spans, metrics and business events without
// knowing the backend.
type Telemetry interface {
	StartServiceSpan(ctx context.Context, service string, operation string, attrs map[string]interface{}) (context.Context, Span)
	StartRepositorySpan(ctx context.Context, operation string, entity string, attrs map[string]interface{}) (context.Context, Span)

	RecordServiceOperation(ctx context.Context, service string, operation string, duration time.Duration, err error)
	RecordRepositoryOperation(ctx context.Context, operation string, entity string, duration time.Duration, err error)

	RecordTodoCounts(ctx context.Context, pending int, completed int)

	RecordBusinessEvent(ctx context.Context, event string, entity string, entityID string, metadata map[string]interface{})
	RecordError(ctx context.Context, operation string, err error, metadata map[string]interface{})
}
