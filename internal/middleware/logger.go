package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"bank-recon/pkg/logger"
)

// Logger emits one structured entry per request. Health probes are skipped to
// keep the log stream focused on API traffic.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		if c.Request.URL.Path == "/health" {
			return
		}

		entry := logger.GetLogger().WithFields(map[string]interface{}{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"ip":         c.ClientIP(),
			"latency_ms": time.Since(start).Milliseconds(),
		})

		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}

		entry.Info("Request processed")
	}
}
