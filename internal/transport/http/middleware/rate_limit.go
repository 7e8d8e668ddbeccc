package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DennisSalmasz/dev-ticketing-rest/internal/core/port"
)

// IdentifierFunc extracts the identity a rate limit is keyed by. Returning
// false skips the limit for this request.
type IdentifierFunc func(*gin.Context) (string, bool)

// ClientIPIdentifier keys limits by the request's client IP.
func ClientIPIdentifier() IdentifierFunc {
	return func(c *gin.Context) (string, bool) {
		ip := c.ClientIP()
		return ip, ip != ""
	}
}

// RateLimitRule declares one sliding-window quota.
type RateLimitRule struct {
	Name       string
	Limit      int
	Window     time.Duration
	Identifier IdentifierFunc
}

// RateLimiter applies RateLimitRule quotas backed by a shared attempt store.
// Store failures fail open: an unreachable store must not take the public
// endpoints down with it.
type RateLimiter struct {
	store  port.RateLimitStore
	logger *zap.Logger
	now    func() time.Time
}

func NewRateLimiter(store port.RateLimitStore, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimiter{store: store, logger: logger, now: time.Now}
}

// WithClock injects a custom clock, primarily for testing.
func (rl *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	if now != nil {
		rl.now = now
	}
	return rl
}

// RateLimit returns a middleware enforcing the given rule.
func (rl *RateLimiter) RateLimit(rule RateLimitRule) gin.HandlerFunc {
	name := rule.Name
	if name == "" {
		name = "default"
	}

	return func(c *gin.Context) {
		if rl.store == nil || rule.Identifier == nil || rule.Limit <= 0 || rule.Window <= 0 {
			c.Next()
			return
		}

		identifier, ok := rule.Identifier(c)
		if !ok {
			c.Next()
			return
		}

		now := rl.now()
		decision, err := rl.store.TakeAttempt(c.Request.Context(), name+":"+identifier, rule.Limit, rule.Window, now)
		if err != nil {
			rl.logger.Warn("rate limit check failed, allowing request",
				zap.String("rule", name),
				zap.Error(err),
			)
			c.Next()
			return
		}

		reset := now.Add(rule.Window)
		if !decision.OldestAttempt.IsZero() {
			reset = decision.OldestAttempt.Add(rule.Window)
		}

		remaining := rule.Limit - decision.Count
		if remaining < 0 {
			remaining = 0
		}

		headers := c.Writer.Header()
		headers.Set("X-RateLimit-Limit", strconv.Itoa(rule.Limit))
		headers.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		headers.Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if decision.Allowed {
			c.Next()
			return
		}

		retryAfter := int(math.Ceil(reset.Sub(now).Seconds()))
		if retryAfter < 0 {
			retryAfter = 0
		}
		headers.Set("Retry-After", strconv.Itoa(retryAfter))

		c.AbortWithStatusJSON(http.StatusTooManyRequests, newGateResponse(
			http.StatusTooManyRequests,
			fmt.Sprintf("too many requests; retry in %d seconds", retryAfter),
		))
	}
}
