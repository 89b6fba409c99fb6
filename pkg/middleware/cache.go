package middleware

import (
	"fmt"
	"net/http"
	"time"
)

// CacheControl marks successful-path GET responses as publicly cacheable for
// maxAge. A zero maxAge disables caching.
func CacheControl(maxAge time.Duration) func(http.Handler) http.Handler {
	value := "no-store"
	if secs := int(maxAge / time.Second); secs > 0 {
		value = fmt.Sprintf("public, max-age=%d", secs)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				w.Header().Set("Cache-Control", value)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// NoStore forbids caching of responses that carry per-buyer state, such as carts.
func NoStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "private, no-store")
		next.ServeHTTP(w, r)
	})
}
