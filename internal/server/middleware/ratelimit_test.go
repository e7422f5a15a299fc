package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gridlot/mastermatch/pkg/logging"
)

func fixedLimiter(perMinute int) (*RateLimiter, *time.Time) {
	rl := NewRateLimiter(perMinute, logging.NewNopLogger())
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestRateLimiterAllow(t *testing.T) {
	rl, now := fixedLimiter(5)

	for i := range 5 {
		assert.True(t, rl.Allow("10.0.0.1"), "request %d", i)
	}
	assert.False(t, rl.Allow("10.0.0.1"))

	// other IPs have their own bucket
	assert.True(t, rl.Allow("10.0.0.2"))

	// one token refills every 12s at 5/min
	*now = now.Add(12 * time.Second)
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
}

func TestRateLimiterEvict(t *testing.T) {
	rl, now := fixedLimiter(5)
	rl.Allow("10.0.0.1")
	*now = now.Add(5 * time.Minute)
	rl.Allow("10.0.0.2")

	*now = now.Add(6 * time.Minute)
	rl.evict()

	assert.Equal(t, 1, rl.Visitors())
}

func TestRateLimitMiddleware(t *testing.T) {
	rl, _ := fixedLimiter(2)
	h := RateLimit(rl)(http.HandlerFunc(ok))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/makes", nil)
		req.RemoteAddr = "192.0.2.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:5555"
	assert.Equal(t, "192.0.2.1", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", clientIP(req))
}
