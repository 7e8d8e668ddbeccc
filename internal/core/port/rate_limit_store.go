package port

import (
	"context"
	"time"
)

// RateLimitDecision reports the outcome of one attempt against a sliding
// window.
type RateLimitDecision struct {
	// Allowed is false when the window already holds the full quota.
	Allowed bool
	// Count is the number of attempts inside the window, including this one
	// when it was allowed.
	Count int
	// OldestAttempt anchors the window reset time. Zero when the window was
	// empty before this attempt.
	OldestAttempt time.Time
}

// RateLimitStore enforces sliding-window attempt quotas keyed by caller
// identity. Implementations prune attempts older than the window, record the
// new attempt when the quota allows it, and report the resulting state.
type RateLimitStore interface {
	TakeAttempt(ctx context.Context, key string, limit int, window time.Duration, at time.Time) (RateLimitDecision, error)
}
