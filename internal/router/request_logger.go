package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ItumelengS/linac-qa-app-sub000/internal/models"
)

// RequestLogger creates a gin middleware for logging requests using zap.
// When a session user was loaded, the entry names them, which ties the
// access log to the audit trail.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if v, ok := c.Get("user"); ok {
			if user, ok := v.(*models.User); ok {
				fields = append(fields, zap.String("username", user.Username))
			}
		}

		switch {
		case status >= 500:
			log.Error("Server error", fields...)
		case status >= 400:
			log.Warn("Client error", fields...)
		default:
			// Log successful requests at the Debug level to reduce noise
			log.Debug("Request processed", fields...)
		}
	}
}
