package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

func TestOTELProbe_RecordsTodoOperations(t *testing.T) {
	RegisterTestingT(t)

	ctx := context.Background()
	metrics := NewAppMetrics(prometheus.NewRegistry())
	probe := NewOTELProbe(zap.NewNop(), metrics)

	spanCtx, span := probe.StartServiceSpan(ctx, "todo_store", "add", map[string]interface{}{"todo.id": "x"})
	probe.RecordServiceOperation(spanCtx, "todo_store", "add", time.Millisecond, nil)
	probe.RecordServiceOperation(spanCtx, "todo_store", "add", time.Millisecond, errors.New("boom"))
	span.End()

	Expect(testutil.ToFloat64(metrics.todoOperations.WithLabelValues("add", "ok"))).To(Equal(1.0))
	Expect(testutil.ToFloat64(metrics.todoOperations.WithLabelValues("add", "error"))).To(Equal(1.0))
}

func TestOTELProbe_RecordsCountsAndRepositoryOperations(t *testing.T) {
	RegisterTestingT(t)

	ctx := context.Background()
	metrics := NewAppMetrics(prometheus.NewRegistry())
	probe := NewOTELProbe(nil, metrics)

	probe.RecordTodoCounts(ctx, 3, 2)
	probe.RecordRepositoryOperation(ctx, "save", "todo", time.Millisecond, nil)

	Expect(testutil.ToFloat64(metrics.todoItems.WithLabelValues("pending"))).To(Equal(3.0))
	Expect(testutil.ToFloat64(metrics.todoItems.WithLabelValues("completed"))).To(Equal(2.0))
	Expect(testutil.ToFloat64(metrics.repositoryOperations.WithLabelValues("save", "todo", "ok"))).To(Equal(1.0))
}

func TestNoOpProbe(t *testing.T) {
	RegisterTestingT(t)

	ctx := context.Background()
	probe := NewNoOpProbe()

	spanCtx, span := probe.StartServiceSpan(ctx, "todo_store", "add", nil)
	span.SetAttributes(map[string]interface{}{"a": 1})
	span.SetStatus("error", "boom")
	span.End()

	Expect(spanCtx).To(Equal(ctx))
}

func TestToAttributes(t *testing.T) {
	RegisterTestingT(t)

	attrs := toAttributes(map[string]interface{}{
		"s": "x",
		"i": 1,
		"b": true,
		"d": time.Second,
	})

	Expect(attrs).To(HaveLen(4))
}
