package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"fulfilment/pkg/logger"
)

// Logger logs every request with timing and status once it completes.
// Requests under skipPrefixes (probes, scrapes) are logged at debug level.
func Logger(log *logger.Logger, skipPrefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		entry := log.WithContext(c.Request.Context())
		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"route", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "error", c.Errors.Last().Error())
		}

		for _, prefix := range skipPrefixes {
			if strings.HasPrefix(path, prefix) {
				entry.Debugw("http request", fields...)
				return
			}
		}
		entry.Infow("http request", fields...)
	}
}
