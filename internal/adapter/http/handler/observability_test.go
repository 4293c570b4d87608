package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"todolist/internal/core/service"
	"todolist/pkg/config"
)

func TestTodoHandlerSpans(t *testing.T) {
	RegisterTestingT(t)

	recorder := tracetest.NewSpanRecorder()
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	store, err := service.NewTodoStore(ctx)
	Expect(err).To(BeNil())

	router := setupTodoTestRouter(NewTodoHandler(store, nil, nil))
	todo, _ := store.Add(ctx, "buy some cheese")
	path := "/api/todos/" + todo.ID.String()

	for _, call := range []struct{ method, path string }{
		{"PATCH", path + "/toggle"},
		{"POST", "/api/todos/clear-completed"},
		{"GET", "/api/todos"},
	} {
		req, _ := http.NewRequest(call.method, call.path, nil)
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	other, _ := store.Add(ctx, "drink some milk")
	req, _ := http.NewRequest("DELETE", "/api/todos/"+other.ID.String(), nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	byName := map[string]sdktrace.ReadOnlySpan{}
	for _, span := range recorder.Ended() {
		byName[span.Name()] = span
	}

	Expect(byName).To(HaveKey("handler.todo.ToggleTodo"))
	Expect(byName["handler.todo.ToggleTodo"].Attributes()).To(ContainElements(
		attribute.String("todo.id", todo.ID.String()),
		attribute.String("operation", "toggle"),
	))

	Expect(byName).To(HaveKey("handler.todo.DeleteTodo"))
	Expect(byName["handler.todo.DeleteTodo"].Attributes()).To(ContainElement(attribute.String("operation", "delete")))

	Expect(byName).To(HaveKey("handler.todo.ClearCompleted"))
	events := byName["handler.todo.ClearCompleted"].Events()
	Expect(events).To(HaveLen(1))
	Expect(events[0].Attributes).To(ContainElement(attribute.Int("todo.removed", 1)))

	Expect(byName).To(HaveKey("handler.todo.GetAllTodos"))
	Expect(byName["handler.todo.GetAllTodos"].Attributes()).To(ContainElements(
		attribute.String("http.route", "/api/todos"),
		attribute.Int("http.status_code", http.StatusOK),
	))
}

func TestPageHandlerWarnsOnRejectedInput(t *testing.T) {
	RegisterTestingT(t)

	core, logs := observer.New(zap.WarnLevel)
	logger := config.WrapLogger(zap.New(core), "todolist")

	store, err := service.NewTodoStore(ctx)
	Expect(err).To(BeNil())

	router := setupPageTestRouter(NewPageHandler(store, nil, config.GetDefaultConfig(), logger))

	send := func(method, path string, form url.Values) int {
		req, _ := http.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		return rr.Code
	}

	Expect(send("GET", "/?filter=archived", nil)).To(Equal(http.StatusBadRequest))
	Expect(send("POST", "/items", url.Values{"text": {"   "}})).To(Equal(http.StatusBadRequest))
	Expect(send("POST", "/items/"+uuid.NewString()+"/toggle", url.Values{})).To(Equal(http.StatusNotFound))

	messages := make([]string, 0, logs.Len())
	for _, entry := range logs.All() {
		Expect(entry.Level).To(Equal(zap.WarnLevel))
		messages = append(messages, entry.Message)
	}

	Expect(messages).To(Equal([]string{"Unknown filter requested", "Rejected empty todo", "Todo not found"}))
	Expect(logs.All()[0].ContextMap()).To(HaveKeyWithValue("filter", "archived"))
}
