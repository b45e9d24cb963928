package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/vidrios-leads-api/pkg/logger"
	"github.com/noah-isme/vidrios-leads-api/pkg/middleware/requestid"
)

// Audit records successful administrator mutations in the audit log stream.
func Audit(l *zap.Logger, action string) gin.HandlerFunc {
	auditLog := l.Named("audit")
	return func(c *gin.Context) {
		start := time.Now().UTC()
		c.Next()

		if c.Writer.Status() >= 400 {
			return
		}

		auditLog.Info(action,
			zap.String("actor", logger.Actor(c)),
			zap.String("resource_id", c.Param("id")),
			zap.String("path", c.FullPath()),
			zap.String("method", c.Request.Method),
			zap.Int("status", c.Writer.Status()),
			zap.Int64("latency_ms", time.Since(start).Milliseconds()),
			zap.String("ip", c.ClientIP()),
			zap.String("user_agent", c.GetHeader("User-Agent")),
			zap.String("request_id", requestid.Value(c)),
		)
	}
}
