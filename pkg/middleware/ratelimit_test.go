package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
}

func hit(h http.Handler, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/search", nil)
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit_BurstThen429(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := RateLimit(ctx, RateLimitConfig{RPS: 0.5, Burst: 2}, discardLogger())(okHandler())

	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1").Code)
	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:2").Code)

	rec := hit(h, "10.0.0.1:3")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "RATE_LIMITED")
}

func TestRateLimit_KeysAreIndependent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := RateLimit(ctx, RateLimitConfig{RPS: 1, Burst: 1}, discardLogger())(okHandler())

	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.1:1").Code)
	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.2:1").Code)
}

func TestRateLimit_CustomKey(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	key := func(r *http.Request) string { return "shared" }
	h := RateLimit(ctx, RateLimitConfig{RPS: 1, Burst: 1, Key: key}, discardLogger())(okHandler())

	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.2:1").Code)
}

func TestRateLimit_DisabledWhenRPSZero(t *testing.T) {
	h := RateLimit(context.Background(), RateLimitConfig{}, discardLogger())(okHandler())
	for i := 0; i < 50; i++ {
		assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1").Code)
	}
}

func TestVisitorStore_CleanupEvictsIdle(t *testing.T) {
	store := newVisitorStore(1, 1, time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.limiter("a")
	now = now.Add(30 * time.Second)
	store.limiter("b")

	now = now.Add(45 * time.Second)
	store.cleanup()

	assert.Equal(t, 1, store.len())
	store.mu.Lock()
	_, kept := store.visitors["b"]
	store.mu.Unlock()
	assert.True(t, kept)
}

func TestRemoteHost(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "[2001:db8::1]:443"
	assert.Equal(t, "2001:db8::1", RemoteHost(req))

	req.RemoteAddr = "no-port"
	assert.Equal(t, "no-port", RemoteHost(req))
}
