package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/OluRemiFour/OctoOps-backend/pkg/logger"
)

// Logger writes one access log entry per request through the global http
// module logger. Health probes are logged at debug level.
func Logger() gin.HandlerFunc {
	return accessLog(func() *zap.Logger { return logger.WithModule("http") })
}

// LoggerWith is Logger bound to a specific zap logger.
func LoggerWith(log *zap.Logger) gin.HandlerFunc {
	return accessLog(func() *zap.Logger { return log })
}

func accessLog(current func() *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("route", routeLabel(c)),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if id := RequestIDFrom(c); id != "" {
			fields = append(fields, zap.String("request_id", id))
		}
		if userID := CallerID(c); userID != "" {
			fields = append(fields, zap.String("user_id", userID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		current().Check(accessLevel(c.FullPath(), status), "request").Write(fields...)
	}
}

func accessLevel(route string, status int) zapcore.Level {
	switch {
	case status >= 500:
		return zapcore.ErrorLevel
	case status >= 400:
		return zapcore.WarnLevel
	case route == "/health" || route == "/api/health":
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}
