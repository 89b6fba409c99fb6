package middleware

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/storefront/pkg/logger"
)

// BuyerIPFunc resolves the buyer address of a request.
type BuyerIPFunc func(r *http.Request) string

// RequestLogger stores a request-scoped logger in the context, enriched with
// correlation_id, buyer_ip, trace_id and span_id. Handlers read it back with
// logger.FromContext. Mount it after RequestLogging and Tracing.
func RequestLogger(base *slog.Logger, buyerIP BuyerIPFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if buyerIP != nil {
				if ip := buyerIP(r); ip != "" {
					ctx = logger.WithBuyerIP(ctx, ip)
				}
			}

			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
