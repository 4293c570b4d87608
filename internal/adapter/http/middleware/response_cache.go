package middleware

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"todolist/internal/core/telemetry"
	"todolist/pkg/config"
	"todolist/pkg/tracing"
)

type CachedResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
	Timestamp   time.Time
}

// ResponseCache serves repeated GETs from memory. Every successful
// non-GET request flushes it, since any mutation changes the shared list.
type ResponseCache struct {
	// generation moves on every flush; a response read before a flush is
	// not stored after it.
	generation atomic.Uint64

	cache   *cache.Cache
	config  map[string]config.CacheConfig
	logger  *zap.Logger
	metrics *telemetry.AppMetrics
}

func NewResponseCache(configs map[string]config.CacheConfig, logger *zap.Logger, metrics *telemetry.AppMetrics) *ResponseCache {
	if logger == nil {
		logger = zap.NewNop()
	}

	routes := map[string]config.CacheConfig{
		"default": {
			TTL:     time.Second,
			Enabled: false,
		},
	}

	for route, cfg := range configs {
		routes[route] = cfg
	}

	return &ResponseCache{
		cache:   cache.New(5*time.Minute, 10*time.Minute),
		config:  routes,
		logger:  logger,
		metrics: metrics,
	}
}

func (rc *ResponseCache) CacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()

			if c.Writer.Status() < http.StatusBadRequest {
				rc.InvalidateAllCache()
			}

			return
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		cfg, exists := rc.config[path]
		if !exists {
			cfg = rc.config["default"]
		}

		if !cfg.Enabled {
			c.Next()
			return
		}

		cacheKey := rc.generateCacheKey(c, path)

		if item, found := rc.cache.Get(cacheKey); found {
			cached := item.(CachedResponse)

			_, span := tracing.CreateChildSpan(c.Request.Context(), "cache.response.hit", []attribute.KeyValue{
				attribute.String("cache.key", cacheKey),
				attribute.String("cache.path", path),
				attribute.String("cache.age", time.Since(cached.Timestamp).String()),
			})
			defer span.End()

			if rc.metrics != nil {
				rc.metrics.RecordCacheHit(c.Request.Context(), path)
			}

			rc.logger.Debug("Cache hit",
				zap.String("path", path),
				zap.String("cache_key", cacheKey),
				zap.Duration("age", time.Since(cached.Timestamp)))

			c.Header("X-Cache", "HIT")
			c.Header("X-Cache-Age", fmt.Sprintf("%.0f", time.Since(cached.Timestamp).Seconds()))

			c.Data(cached.StatusCode, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		if rc.metrics != nil {
			rc.metrics.RecordCacheMiss(c.Request.Context(), path)
		}

		generation := rc.generation.Load()

		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer
		c.Header("X-Cache", "MISS")

		c.Next()

		status := writer.Status()

		if status >= 200 && status < 300 && rc.generation.Load() == generation {
			rc.cache.Set(cacheKey, CachedResponse{
				StatusCode:  status,
				ContentType: writer.Header().Get("Content-Type"),
				Body:        writer.body.Bytes(),
				Timestamp:   time.Now(),
			}, cfg.TTL)
		}
	}
}

func (rc *ResponseCache) generateCacheKey(c *gin.Context, path string) string {
	keyParts := []string{path}

	if c.Request.URL.RawQuery != "" {
		keyParts = append(keyParts, c.Request.URL.RawQuery)
	}

	hash := md5.Sum([]byte(strings.Join(keyParts, "|")))

	return fmt.Sprintf("cache:%s:%x", path, hash)
}

func (rc *ResponseCache) InvalidateAllCache() {
	rc.generation.Add(1)

	if rc.cache.ItemCount() == 0 {
		return
	}

	rc.cache.Flush()
	rc.logger.Debug("Response cache invalidated")
}

func (rc *ResponseCache) SetConfig(path string, cfg config.CacheConfig) {
	rc.config[path] = cfg
}

func (rc *ResponseCache) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"active_entries": rc.cache.ItemCount(),
		"configs":        len(rc.config),
	}
}

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
