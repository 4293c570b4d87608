package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"todolist/internal/core/telemetry"
	"todolist/pkg/config"
)

type RateLimitEndpointConfig struct {
	Requests int
	Window   time.Duration
	KeyFunc  func(*gin.Context) string
}

type RateLimiter struct {
	cache   *cache.Cache
	config  map[string]RateLimitEndpointConfig
	logger  *zap.Logger
	metrics *telemetry.AppMetrics
	mutex   sync.RWMutex
}

type RateLimitEntry struct {
	Count     int
	ResetTime time.Time
}

// NewRateLimiter builds a fixed-window limiter per client IP and route. Routes
// are looked up as "METHOD /route", then "/route", then "default".
func NewRateLimiter(configs map[string]config.RateLimitConfig, logger *zap.Logger, metrics *telemetry.AppMetrics) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}

	endpoints := map[string]RateLimitEndpointConfig{
		"default": {
			Requests: 60,
			Window:   time.Minute,
			KeyFunc:  GetClientIP,
		},
	}

	for route, cfg := range configs {
		endpoints[route] = RateLimitEndpointConfig{
			Requests: cfg.Requests,
			Window:   cfg.Window,
			KeyFunc:  GetClientIP,
		}
	}

	return &RateLimiter{
		cache:   cache.New(5*time.Minute, 10*time.Minute),
		config:  endpoints,
		logger:  logger,
		metrics: metrics,
	}
}

func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		methodPath := c.Request.Method + " " + path
		endpoint := rl.endpointFor(methodPath, path)
		key := fmt.Sprintf("rate_limit:%s:%s", methodPath, endpoint.KeyFunc(c))

		allowed, remaining, resetTime := rl.checkRateLimit(key, endpoint)

		c.Header("X-RateLimit-Limit", strconv.Itoa(endpoint.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(c.Request.Context(), path)
			}

			rl.logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.String("path", path),
				zap.Int("limit", endpoint.Requests),
				zap.Duration("window", endpoint.Window))

			message := fmt.Sprintf("Too many requests. Limit: %d per %v", endpoint.Requests, endpoint.Window)

			c.Header("Retry-After", strconv.Itoa(int(time.Until(resetTime).Seconds())))

			// page routes are read by browsers, not API clients
			if !strings.HasPrefix(c.Request.URL.Path, "/api/") {
				c.String(http.StatusTooManyRequests, message)
				c.Abort()
				return
			}

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code": "RATE_LIMITED",
					"errors": []gin.H{
						{
							"field":   "request",
							"message": message,
						},
					},
				},
			})
			c.Abort()
			return
		}

		if rl.metrics != nil {
			rl.metrics.RecordRateLimitAllowed(c.Request.Context(), path)
		}

		c.Next()
	}
}

func (rl *RateLimiter) endpointFor(methodPath, path string) RateLimitEndpointConfig {
	rl.mutex.RLock()
	defer rl.mutex.RUnlock()

	if endpoint, ok := rl.config[methodPath]; ok {
		return endpoint
	}

	if endpoint, ok := rl.config[path]; ok {
		return endpoint
	}

	return rl.config["default"]
}

func (rl *RateLimiter) checkRateLimit(key string, endpoint RateLimitEndpointConfig) (bool, int, time.Time) {
	now := time.Now()

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if entry, found := rl.cache.Get(key); found {
		rateLimitEntry := entry.(RateLimitEntry)

		if now.After(rateLimitEntry.ResetTime) {
			resetTime := now.Add(endpoint.Window)
			rl.cache.Set(key, RateLimitEntry{Count: 1, ResetTime: resetTime}, endpoint.Window)
			return true, endpoint.Requests - 1, resetTime
		}

		if rateLimitEntry.Count >= endpoint.Requests {
			return false, 0, rateLimitEntry.ResetTime
		}

		rateLimitEntry.Count++
		rl.cache.Set(key, rateLimitEntry, time.Until(rateLimitEntry.ResetTime))

		return true, endpoint.Requests - rateLimitEntry.Count, rateLimitEntry.ResetTime
	}

	resetTime := now.Add(endpoint.Window)
	rl.cache.Set(key, RateLimitEntry{Count: 1, ResetTime: resetTime}, endpoint.Window)

	return true, endpoint.Requests - 1, resetTime
}

func (rl *RateLimiter) SetConfig(path string, endpoint RateLimitEndpointConfig) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if endpoint.KeyFunc == nil {
		endpoint.KeyFunc = GetClientIP
	}

	rl.config[path] = endpoint
}

func (rl *RateLimiter) GetStats() map[string]interface{} {
	rl.mutex.RLock()
	defer rl.mutex.RUnlock()

	return map[string]interface{}{
		"active_entries": rl.cache.ItemCount(),
		"configs":        len(rl.config),
	}
}
