package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"todolist/internal/core/telemetry"
	"todolist/pkg/config"
)

func newCacheRouter(cache *ResponseCache, callCount *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(cache.CacheMiddleware())

	router.GET("/api/todos", func(c *gin.Context) {
		*callCount++
		c.JSON(200, gin.H{"count": *callCount})
	})

	router.POST("/api/todos", func(c *gin.Context) {
		c.JSON(201, gin.H{})
	})

	router.POST("/api/fail", func(c *gin.Context) {
		c.JSON(400, gin.H{})
	})

	return router
}

func serve(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestNewResponseCache(t *testing.T) {
	RegisterTestingT(t)

	cache := NewResponseCache(config.GetDefaultConfig().CacheConfigs, zap.NewNop(), nil)

	Expect(cache.config).To(HaveKey("/api/todos"))
	Expect(cache.config).To(HaveKey("default"))
	Expect(cache.config["/api/todos"].TTL).To(Equal(3 * time.Second))
}

func TestResponseCacheMiddleware_HitAndMiss(t *testing.T) {
	RegisterTestingT(t)

	registry := prometheus.NewRegistry()
	cache := NewResponseCache(map[string]config.CacheConfig{
		"/api/todos": {TTL: time.Minute, Enabled: true},
	}, nil, telemetry.NewAppMetrics(registry))

	callCount := 0
	router := newCacheRouter(cache, &callCount)

	first := serve(router, "GET", "/api/todos")
	Expect(first.Header().Get("X-Cache")).To(Equal("MISS"))
	Expect(first.Body.String()).To(MatchJSON(`{"count":1}`))

	second := serve(router, "GET", "/api/todos")
	Expect(second.Header().Get("X-Cache")).To(Equal("HIT"))
	Expect(second.Header().Get("Content-Type")).To(ContainSubstring("application/json"))
	Expect(second.Body.String()).To(MatchJSON(`{"count":1}`))
	Expect(callCount).To(Equal(1))

	// different query, different entry
	third := serve(router, "GET", "/api/todos?status=pending")
	Expect(third.Header().Get("X-Cache")).To(Equal("MISS"))
	Expect(callCount).To(Equal(2))

	hits, _ := testutil.GatherAndCount(registry, "cache_hits_total")
	Expect(hits).To(Equal(1))
}

func TestResponseCacheMiddleware_MutationInvalidates(t *testing.T) {
	RegisterTestingT(t)

	cache := NewResponseCache(map[string]config.CacheConfig{
		"/api/todos": {TTL: time.Minute, Enabled: true},
	}, nil, nil)

	callCount := 0
	router := newCacheRouter(cache, &callCount)

	serve(router, "GET", "/api/todos")
	Expect(cache.GetStats()["active_entries"]).To(Equal(1))

	serve(router, "POST", "/api/fail")
	Expect(cache.GetStats()["active_entries"]).To(Equal(1))

	serve(router, "POST", "/api/todos")
	Expect(cache.GetStats()["active_entries"]).To(Equal(0))

	w := serve(router, "GET", "/api/todos")
	Expect(w.Header().Get("X-Cache")).To(Equal("MISS"))
	Expect(callCount).To(Equal(2))
}

func TestResponseCacheMiddleware_Disabled(t *testing.T) {
	RegisterTestingT(t)

	cache := NewResponseCache(nil, nil, nil)
	cache.SetConfig("/api/todos", config.CacheConfig{TTL: time.Minute, Enabled: false})

	callCount := 0
	router := newCacheRouter(cache, &callCount)

	Expect(serve(router, "GET", "/api/todos").Header().Get("X-Cache")).To(BeEmpty())
	Expect(serve(router, "GET", "/api/todos").Header().Get("X-Cache")).To(BeEmpty())
	Expect(callCount).To(Equal(2))
}

func TestResponseCacheMiddleware_Expiry(t *testing.T) {
	RegisterTestingT(t)

	cache := NewResponseCache(map[string]config.CacheConfig{
		"/api/todos": {TTL: 20 * time.Millisecond, Enabled: true},
	}, nil, nil)

	callCount := 0
	router := newCacheRouter(cache, &callCount)

	serve(router, "GET", "/api/todos")
	time.Sleep(50 * time.Millisecond)
	serve(router, "GET", "/api/todos")

	Expect(callCount).To(Equal(2))
}

func TestResponseCacheMiddleware_MutationDuringReadIsNotCached(t *testing.T) {
	RegisterTestingT(t)

	cache := NewResponseCache(map[string]config.CacheConfig{
		"/api/todos": {TTL: time.Minute, Enabled: true},
	}, nil, nil)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(cache.CacheMiddleware())

	calls := 0
	router.GET("/api/todos", func(c *gin.Context) {
		calls++
		c.JSON(200, gin.H{"count": calls})

		// a write lands after this list was read but before it is stored
		if calls == 1 {
			cache.InvalidateAllCache()
		}
	})

	first := serve(router, "GET", "/api/todos")
	Expect(first.Header().Get("X-Cache")).To(Equal("MISS"))
	Expect(cache.GetStats()["active_entries"]).To(Equal(0))

	second := serve(router, "GET", "/api/todos")
	Expect(second.Header().Get("X-Cache")).To(Equal("MISS"))
	Expect(second.Body.String()).To(MatchJSON(`{"count":2}`))

	third := serve(router, "GET", "/api/todos")
	Expect(third.Header().Get("X-Cache")).To(Equal("HIT"))
	Expect(calls).To(Equal(2))
}
