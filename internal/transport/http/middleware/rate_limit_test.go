package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap/zaptest"

	"github.com/DennisSalmasz/dev-ticketing-rest/internal/core/port"
)

type memoryAttemptStore struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	err      error
}

func newMemoryAttemptStore() *memoryAttemptStore {
	return &memoryAttemptStore{attempts: make(map[string][]time.Time)}
}

func (s *memoryAttemptStore) TakeAttempt(_ context.Context, key string, limit int, window time.Duration, at time.Time) (port.RateLimitDecision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return port.RateLimitDecision{}, s.err
	}

	kept := s.attempts[key][:0]
	for _, t := range s.attempts[key] {
		if !t.Before(at.Add(-window)) {
			kept = append(kept, t)
		}
	}
	s.attempts[key] = kept

	decision := port.RateLimitDecision{Count: len(kept)}
	if len(kept) > 0 {
		decision.OldestAttempt = kept[0]
	}
	if len(kept) >= limit {
		return decision, nil
	}

	s.attempts[key] = append(kept, at)
	decision.Allowed = true
	decision.Count++
	if decision.OldestAttempt.IsZero() {
		decision.OldestAttempt = at
	}
	return decision, nil
}

func newLimitedRouter(t *testing.T, store port.RateLimitStore, limit int, window time.Duration, now func() time.Time) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	limiter := NewRateLimiter(store, zaptest.NewLogger(t)).WithClock(now)
	rule := RateLimitRule{
		Name:       "login_ip",
		Limit:      limit,
		Window:     window,
		Identifier: ClientIPIdentifier(),
	}

	r := gin.New()
	r.POST("/authenticate", limiter.RateLimit(rule), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func performRequest(router *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/authenticate", nil)
	req.RemoteAddr = "203.0.113.9:51000"
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestRateLimitBlocksAfterQuota(t *testing.T) {
	current := time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)
	router := newLimitedRouter(t, newMemoryAttemptStore(), 2, time.Minute, func() time.Time { return current })

	for i := 0; i < 2; i++ {
		if rr := performRequest(router); rr.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rr.Code)
		}
		current = current.Add(time.Second)
	}

	rr := performRequest(router)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after quota, got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header on rejection")
	}
	if got := rr.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Fatalf("expected zero remaining, got %q", got)
	}
}

func TestRateLimitWindowSlides(t *testing.T) {
	current := time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)
	router := newLimitedRouter(t, newMemoryAttemptStore(), 1, time.Minute, func() time.Time { return current })

	if rr := performRequest(router); rr.Code != http.StatusOK {
		t.Fatalf("first request: got %d", rr.Code)
	}
	if rr := performRequest(router); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second request inside window: got %d", rr.Code)
	}

	current = current.Add(61 * time.Second)
	if rr := performRequest(router); rr.Code != http.StatusOK {
		t.Fatalf("request after window expired: got %d", rr.Code)
	}
}

func TestRateLimitFailsOpenOnStoreError(t *testing.T) {
	store := newMemoryAttemptStore()
	store.err = context.DeadlineExceeded
	router := newLimitedRouter(t, store, 1, time.Minute, time.Now)

	if rr := performRequest(router); rr.Code != http.StatusOK {
		t.Fatalf("expected fail-open 200 on store error, got %d", rr.Code)
	}
}

func TestRateLimitSetsQuotaHeaders(t *testing.T) {
	current := time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)
	router := newLimitedRouter(t, newMemoryAttemptStore(), 5, time.Minute, func() time.Time { return current })

	rr := performRequest(router)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := rr.Header().Get("X-RateLimit-Limit"); got != "5" {
		t.Fatalf("expected limit header 5, got %q", got)
	}
	if got := rr.Header().Get("X-RateLimit-Remaining"); got != "4" {
		t.Fatalf("expected remaining header 4, got %q", got)
	}
}
