package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samvad-hq/samvad-news-gateway/internal/logger"
)

// HTTPObserver counts served requests.
type HTTPObserver interface {
	ObserveHTTP(method, route, status string)
}

// RequestLogger logs every /api request with its status and duration.
func RequestLogger(log logger.Logger, obs HTTPObserver) gin.HandlerFunc {
	log = logger.Ensure(log)
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		if obs != nil {
			obs.ObserveHTTP(c.Request.Method, route, strconv.Itoa(status))
		}

		if !strings.HasPrefix(path, "/api") {
			return
		}
		log.InfoObj("http request", "http_request", map[string]any{
			"method":      c.Request.Method,
			"path":        path,
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
			"client_ip":   c.ClientIP(),
		})
	}
}
