package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

func TestNewContainer_WithoutExporter(t *testing.T) {
	RegisterTestingT(t)

	ctx := context.Background()

	container, err := NewContainer(ctx, Config{
		ServiceName:    "todolist",
		ServiceVersion: "test",
		Environment:    "test",
	}, zap.NewNop())

	Expect(err).To(BeNil())
	Expect(container.MetricsServer).To(BeNil())
	Expect(container.AppMetrics).ToNot(BeNil())

	container.StartMetricsServer()

	probe := container.NewTelemetryProbe()
	probe.RecordTodoCounts(ctx, 2, 1)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	container.MetricsHandler().ServeHTTP(w, req)

	Expect(w.Code).To(Equal(http.StatusOK))
	Expect(w.Body.String()).To(ContainSubstring(`todo_items{status="pending"} 2`))
	Expect(w.Body.String()).To(ContainSubstring("go_goroutines"))

	Expect(container.Shutdown(ctx)).To(Succeed())
}

func TestNewContainer_MetricsServer(t *testing.T) {
	RegisterTestingT(t)

	container, err := NewContainer(context.Background(), Config{ServiceName: "todolist", MetricsPort: "0"}, nil)

	Expect(err).To(BeNil())
	Expect(container.MetricsServer).ToNot(BeNil())
	Expect(container.MetricsServer.Addr).To(Equal(":0"))
	Expect(container.Shutdown(context.Background())).To(Succeed())
}
