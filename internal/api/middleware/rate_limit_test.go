package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	rl := NewRateLimiter(60)
	rl.now = func() time.Time { return now }

	for i := 0; i < 60; i++ {
		assert.True(t, rl.Allow("1.2.3.4"), "request %d", i)
	}
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"), "buckets are per client")

	// One token per second at 60/min.
	now = now.Add(time.Second)
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := NewRateLimiter(0)
	for i := 0; i < 1000; i++ {
		if !rl.Allow("k") {
			t.Fatal("disabled limiter rejected a request")
		}
	}
}

func TestRateLimiter_EvictIdle(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	rl := NewRateLimiter(1)
	rl.now = func() time.Time { return now }

	rl.Allow("k")
	now = now.Add(bucketIdleTTL + time.Second)
	rl.evictIdle()

	_, ok := rl.store.Load("k")
	assert.False(t, ok)
}

func TestRateLimiter_Handle(t *testing.T) {
	rl := NewRateLimiter(1)
	handler := rl.Handle(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"

	rr := httptest.NewRecorder()
	handler(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	req.RemoteAddr = "10.0.0.1:6666"
	rr = httptest.NewRecorder()
	handler(rr, req)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}
