package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	applog "github.com/DennisSalmasz/dev-ticketing-rest/internal/infra/logger"
)

// Logger emits one access-log line per request. Client IPs are masked before
// logging; the subject id is present only once the authentication gate has
// identified the caller.
func Logger(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		scope := ScopeFrom(c)
		fields := []zap.Field{
			zap.String("request_id", scope.RequestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", applog.MaskIP(scope.ClientIP)),
		}
		if scope.SubjectID != "" {
			fields = append(fields, zap.String("subject_id", scope.SubjectID))
		}
		if scope.UserAgent != "" {
			fields = append(fields, zap.String("user_agent", scope.UserAgent))
		}

		if len(c.Errors) > 0 {
			log.Error("request failed", append(fields, zap.String("errors", c.Errors.String()))...)
			return
		}

		log.Info("request completed", fields...)
	}
}
