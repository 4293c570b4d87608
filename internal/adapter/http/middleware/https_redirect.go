package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HTTPSRedirect sends plain-HTTP requests to the https:// URL. Requests that
// arrived over TLS, through a TLS-terminating proxy, or on a loopback host
// pass through. Non-GET requests get a 308 so browsers repeat the POST.
func HTTPSRedirect(enabled bool, logger *zap.Logger) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		if isSecure(c.Request) || isLoopback(c.Request.Host) {
			c.Next()
			return
		}

		target := "https://" + c.Request.Host + c.Request.URL.RequestURI()

		status := http.StatusPermanentRedirect
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			status = http.StatusMovedPermanently
		}

		logger.Info("Redirecting to HTTPS",
			zap.String("method", c.Request.Method),
			zap.String("target", target))

		c.Redirect(status, target)
		c.Abort()
	}
}

func isSecure(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

func isLoopback(host string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	if host == "localhost" {
		return true
	}

	ip := net.ParseIP(host)

	return ip != nil && ip.IsLoopback()
}
