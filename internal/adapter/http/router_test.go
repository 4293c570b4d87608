package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"todolist/internal/core/telemetry"
	"todolist/pkg/config"
)

type RouterSuite struct {
	suite.Suite
	Container *Container
	Server    *httptest.Server
}

func (s *RouterSuite) SetupTest() {
	cfg := config.GetDefaultConfig()
	cfg.GinMode = "test"

	logger := config.NewNopLogger()
	metrics := telemetry.NewAppMetrics(prometheus.NewRegistry())

	container, err := NewContainer(context.Background(), cfg, logger, telemetry.NewOTELProbe(nil, metrics))
	s.Require().NoError(err)

	s.Container = container
	s.Server = httptest.NewServer(SetupRouter(container.Handlers(), cfg, metrics, logger))
}

func (s *RouterSuite) TearDownTest() {
	s.Server.Close()
	s.Container.Close()
}

func TestRouterSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) client() *http.Client {
	return &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (s *RouterSuite) TestPageAndAPIShareTheStore() {
	res, err := s.client().PostForm(s.Server.URL+"/items", url.Values{"text": {"buy some cheese"}})
	Expect(err).To(BeNil())
	res.Body.Close()
	Expect(res.StatusCode).To(Equal(http.StatusSeeOther))

	res, err = http.Get(s.Server.URL + "/api/todos")
	Expect(err).To(BeNil())
	defer res.Body.Close()

	Expect(res.StatusCode).To(Equal(http.StatusOK))
	Expect(res.Header.Get("X-Request-ID")).ToNot(BeEmpty())
	Expect(res.Header.Get("X-RateLimit-Limit")).To(BeEmpty())
	Expect(s.Container.TodoStore.List(context.Background())).To(HaveLen(1))
}

func (s *RouterSuite) TestCacheIsInvalidatedByMutations() {
	get := func() string {
		res, err := http.Get(s.Server.URL + "/api/todos")
		Expect(err).To(BeNil())
		res.Body.Close()
		return res.Header.Get("X-Cache")
	}

	Expect(get()).To(Equal("MISS"))
	Expect(get()).To(Equal("HIT"))

	res, err := http.Post(s.Server.URL+"/api/todos", "application/json", strings.NewReader(`{"text":"drink some milk"}`))
	Expect(err).To(BeNil())
	res.Body.Close()
	Expect(res.StatusCode).To(Equal(http.StatusCreated))

	Expect(get()).To(Equal("MISS"))
}

func (s *RouterSuite) TestHomePage() {
	res, err := http.Get(s.Server.URL + "/")
	Expect(err).To(BeNil())
	defer res.Body.Close()

	Expect(res.StatusCode).To(Equal(http.StatusOK))
	Expect(res.Header.Get("Content-Type")).To(ContainSubstring("text/html"))
}

func (s *RouterSuite) TestDefaultConfigAcceptsABurstOfAdds() {
	for i := 0; i < 40; i++ {
		res, err := s.client().PostForm(s.Server.URL+"/items", url.Values{"text": {fmt.Sprintf("todo %d", i)}})
		Expect(err).To(BeNil())
		res.Body.Close()

		Expect(res.StatusCode).To(Equal(http.StatusSeeOther), "add #%d", i+1)
	}

	for i := 0; i < 70; i++ {
		res, err := http.Get(s.Server.URL + "/")
		Expect(err).To(BeNil())
		res.Body.Close()

		Expect(res.StatusCode).To(Equal(http.StatusOK), "GET / #%d", i+1)
	}

	Expect(s.Container.TodoStore.List(context.Background())).To(HaveLen(40))
}

func (s *RouterSuite) TestProductionThrottlesPagesWithPlainText() {
	cfg := config.GetDefaultConfig()
	cfg.GinMode = "test"
	cfg.RateLimitEnabled = true
	cfg.RateLimitConfigs = map[string]config.RateLimitConfig{
		"POST /items": {Requests: 2, Window: time.Minute},
	}

	logger := config.NewNopLogger()
	metrics := telemetry.NewAppMetrics(prometheus.NewRegistry())
	server := httptest.NewServer(SetupRouter(s.Container.Handlers(), cfg, metrics, logger))
	defer server.Close()

	var last *http.Response

	for i := 0; i < 3; i++ {
		res, err := s.client().PostForm(server.URL+"/items", url.Values{"text": {"buy some cheese"}})
		Expect(err).To(BeNil())
		res.Body.Close()
		last = res
	}

	Expect(last.StatusCode).To(Equal(http.StatusTooManyRequests))
	Expect(last.Header.Get("Content-Type")).To(ContainSubstring("text/plain"))
	Expect(s.Container.TodoStore.List(context.Background())).To(HaveLen(2))
}
