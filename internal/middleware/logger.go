package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gutcheck-app/gutcheck/backend/internal/logger"
)

// Logger middleware for logging HTTP requests
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		log := logger.Ctx(c.Request.Context())
		fields := []logger.Field{
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status", statusCode),
			logger.Duration("latency", latency),
			logger.String("client_ip", c.ClientIP()),
			logger.Int("bytes", c.Writer.Size()),
		}

		switch {
		case statusCode >= 500:
			log.Error("request failed", fields...)
		case statusCode >= 400:
			log.Warn("request rejected", fields...)
		case path == "/health":
			log.Debug("request completed", fields...)
		default:
			log.Info("request completed", fields...)
		}
	}
}
