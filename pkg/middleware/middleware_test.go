package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/pkg/logger"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

func lastLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &out))
	return out
}

// --- RequestLogging ---

func TestRequestLogging_GeneratesCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	var seen string
	h := RequestLogging(logger.NewWithWriter("storefront", "info", &buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.CorrelationIDFromContext(r.Context())
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cart", nil))

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(CorrelationIDHeader))

	line := lastLogLine(t, &buf)
	assert.Equal(t, seen, line["correlation_id"])
	assert.EqualValues(t, http.StatusCreated, line["status"])
	assert.Equal(t, "/cart", line["path"])
}

func TestRequestLogging_CorrelationIDHeader(t *testing.T) {
	tests := []struct {
		name    string
		inbound string
		reused  bool
	}{
		{"well formed", "req-42.a_b", true},
		{"injection attempt", "abc\ninjected", false},
		{"too long", strings.Repeat("x", 200), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := RequestLogging(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(CorrelationIDHeader, tt.inbound)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			got := rec.Header().Get(CorrelationIDHeader)
			if tt.reused {
				assert.Equal(t, tt.inbound, got)
			} else {
				assert.NotEqual(t, tt.inbound, got)
				assert.NotEmpty(t, got)
			}
		})
	}
}

func TestRequestLogging_ServerErrorsLoggedAtError(t *testing.T) {
	var buf bytes.Buffer
	h := RequestLogging(logger.NewWithWriter("storefront", "info", &buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "ERROR", lastLogLine(t, &buf)["level"])
}

// --- RequestLogger ---

func TestRequestLogger_EnrichesScopedLogger(t *testing.T) {
	var buf bytes.Buffer
	base := logger.NewWithWriter("storefront", "info", &buf)

	h := RequestLogger(base, func(*http.Request) string { return "198.51.100.4" })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("inside")
	}))

	ctx := logger.WithCorrelationID(context.Background(), "corr-9")
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))

	line := lastLogLine(t, &buf)
	assert.Equal(t, "corr-9", line["correlation_id"])
	assert.Equal(t, "198.51.100.4", line["buyer_ip"])
}

func TestRequestLogger_NilResolver(t *testing.T) {
	var buf bytes.Buffer
	h := RequestLogger(logger.NewWithWriter("storefront", "info", &buf), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("inside")
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotContains(t, lastLogLine(t, &buf), "buyer_ip")
}

// --- Recovery ---

func TestRecovery_ReturnsGenericBody(t *testing.T) {
	var buf bytes.Buffer
	h := Recovery(logger.NewWithWriter("storefront", "info", &buf))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("token abc leaked")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "token abc")
	assert.Contains(t, rec.Body.String(), `"error":"Internal server error"`)
	assert.Contains(t, buf.String(), "panic recovered")
}

func TestRecovery_ReraisesAbortHandler(t *testing.T) {
	h := Recovery(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

// --- CacheControl / NoStore ---

func TestCacheControl(t *testing.T) {
	ok := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

	rec := httptest.NewRecorder()
	CacheControl(90*time.Second)(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
	assert.Equal(t, "public, max-age=90", rec.Header().Get("Cache-Control"))

	rec = httptest.NewRecorder()
	CacheControl(90*time.Second)(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/search", nil))
	assert.Empty(t, rec.Header().Get("Cache-Control"))

	rec = httptest.NewRecorder()
	CacheControl(0)(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	rec = httptest.NewRecorder()
	NoStore(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))
	assert.Equal(t, "private, no-store", rec.Header().Get("Cache-Control"))
}

// --- statusRecorder ---

func TestStatusRecorder_FirstStatusWins(t *testing.T) {
	rec := newStatusRecorder(httptest.NewRecorder())
	rec.WriteHeader(http.StatusAccepted)
	rec.WriteHeader(http.StatusTeapot)
	_, _ = rec.Write([]byte("abc"))

	assert.Equal(t, http.StatusAccepted, rec.status)
	assert.Equal(t, 3, rec.bytes)
}

func TestStatusRecorder_ImplicitOK(t *testing.T) {
	rec := newStatusRecorder(httptest.NewRecorder())
	_, _ = rec.Write([]byte("hello"))
	assert.Equal(t, http.StatusOK, rec.status)
}

func TestStatusRecorder_ReusesExisting(t *testing.T) {
	rec := newStatusRecorder(httptest.NewRecorder())
	assert.Same(t, rec, newStatusRecorder(rec))
}

func TestStatusRecorder_Delegates(t *testing.T) {
	inner := httptest.NewRecorder()
	rec := newStatusRecorder(inner)

	var _ http.Flusher = rec
	var _ http.Hijacker = rec

	rec.Flush()
	assert.True(t, inner.Flushed)

	_, _, err := rec.Hijack()
	assert.Error(t, err)
	assert.Same(t, inner, rec.Unwrap())
}
