package middleware

import (
	"context"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/logger"
)

// KeyFunc derives the rate-limit bucket key for a request.
type KeyFunc func(r *http.Request) string

// RemoteHost keys on the host part of the socket address.
func RemoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitorStore holds one token bucket per key and evicts idle keys.
type visitorStore struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time
}

func newVisitorStore(rps float64, burst int, ttl time.Duration) *visitorStore {
	return &visitorStore{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(rps),
		burst:    burst,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *visitorStore) limiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.visitors[key] = v
	}
	v.lastSeen = s.now()
	return v.limiter
}

func (s *visitorStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, v := range s.visitors {
		if now.Sub(v.lastSeen) > s.ttl {
			delete(s.visitors, key)
		}
	}
}

func (s *visitorStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visitors)
}

func (s *visitorStore) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

// RateLimitConfig configures RateLimit.
type RateLimitConfig struct {
	RPS   float64
	Burst int
	// Key defaults to RemoteHost.
	Key KeyFunc
	// IdleTTL is how long an idle bucket is kept. Defaults to 3 minutes.
	IdleTTL time.Duration
}

// RateLimit enforces a per-key token bucket and answers 429 with a
// Retry-After header when it is exhausted. The idle-bucket sweeper stops
// when ctx is cancelled. A non-positive RPS disables limiting.
func RateLimit(ctx context.Context, cfg RateLimitConfig, l *slog.Logger) func(http.Handler) http.Handler {
	if cfg.RPS <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.Key == nil {
		cfg.Key = RemoteHost
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 3 * time.Minute
	}

	store := newVisitorStore(cfg.RPS, cfg.Burst, cfg.IdleTTL)
	go store.cleanupLoop(ctx)

	return rateLimitWith(store, cfg.Key, l)
}

func rateLimitWith(store *visitorStore, key KeyFunc, l *slog.Logger) func(http.Handler) http.Handler {
	retryAfter := "1"
	if store.limit < 1 {
		retryAfter = strconv.Itoa(int(math.Ceil(1 / float64(store.limit))))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if store.limiter(k).Allow() {
				next.ServeHTTP(w, r)
				return
			}

			l.WarnContext(r.Context(), "rate limit exceeded",
				slog.String("key", k),
				slog.String("path", r.URL.Path),
			)
			w.Header().Set("Retry-After", retryAfter)
			httputil.WriteJSON(w, http.StatusTooManyRequests, httputil.ErrorResponse{
				Error:     "too many requests",
				Code:      "RATE_LIMITED",
				RequestID: logger.CorrelationIDFromContext(r.Context()),
			})
		})
	}
}
