package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/middleware"
)

const serviceName = "storefront"

// RouterConfig holds the tunables of the HTTP surface.
type RouterConfig struct {
	RequestTimeout time.Duration
	CORS           middleware.CORSConfig
	RateLimit      middleware.RateLimitConfig
	ProductMaxAge  time.Duration
	PprofCIDRs     []string
}

// NewRouter creates a chi router with all storefront routes registered. The
// rate limiter's idle-bucket sweeper stops when ctx is cancelled.
func NewRouter(
	ctx context.Context,
	cfg RouterConfig,
	storefront *StorefrontHandler,
	contact *ContactHandler,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(cfg.RequestTimeout))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(logger, buyerIP))
	r.Use(middleware.PrometheusMetrics(serviceName))

	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)

	limited := middleware.RateLimit(ctx, cfg.RateLimit, logger)

	r.Route("/products", func(r chi.Router) {
		r.Use(middleware.CacheControl(cfg.ProductMaxAge))
		r.Get("/", storefront.ListProducts)
		r.Get("/recommendations", storefront.Recommendations)
		r.Get("/{handle}", storefront.ProductByHandle)
	})

	r.With(limited).Post("/search", storefront.Search)
	r.With(limited).Post("/email", contact.Submit)

	r.Route("/cart", func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Get("/", storefront.GetCart)

		r.Group(func(r chi.Router) {
			r.Use(limited)
			r.Post("/", storefront.CreateCart)
			r.Post("/lines", storefront.AddCartLines)
			r.Put("/lines", storefront.UpdateCartLines)
			r.Post("/lines/remove", storefront.RemoveCartLines)
		})
	})

	return r
}
