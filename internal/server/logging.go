package server

import (
	"time"

	"pgms/internal/auth"
	"pgms/internal/logger"

	"github.com/gin-gonic/gin"
)

// RequestLoggingMiddleware logs one line per request. Server errors are
// logged at error level with the handler's last gin error attached.
func RequestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		}
		if adminID, ok := auth.GetAdminID(c); ok {
			attrs = append(attrs, "admin_id", adminID)
		}

		if c.Writer.Status() >= 500 {
			if last := c.Errors.Last(); last != nil {
				attrs = append(attrs, "error", last.Error())
			}
			logger.Error("HTTP request", attrs...)
			return
		}
		logger.Info("HTTP request", attrs...)
	}
}
