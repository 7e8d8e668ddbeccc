package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/DennisSalmasz/dev-ticketing-rest/internal/infra/logger"
)

// RequestIDHeader carries the correlation identifier on requests and responses.
const RequestIDHeader = "X-Request-ID"

const scopeKey = "ticketing/request-scope"

// RequestScope holds per-request correlation data read by the access logger
// and the rate limiter. The authentication gate fills in SubjectID once the
// caller is identified.
type RequestScope struct {
	RequestID string
	SubjectID string
	ClientIP  string
	UserAgent string
}

// Correlate assigns each request an identifier, honouring an inbound
// X-Request-ID, and installs the request scope. It also threads the
// identifier through the request context so every log line emitted further
// down carries it.
func Correlate() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Writer.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey{}, id)
		c.Request = c.Request.WithContext(ctx)

		c.Set(scopeKey, &RequestScope{
			RequestID: id,
			ClientIP:  c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})

		c.Next()
	}
}

// ScopeFrom returns the request scope installed by Correlate. It never
// returns nil so callers can read fields without guarding.
func ScopeFrom(c *gin.Context) *RequestScope {
	if v, ok := c.Get(scopeKey); ok {
		if scope, ok := v.(*RequestScope); ok {
			return scope
		}
	}
	return &RequestScope{}
}
