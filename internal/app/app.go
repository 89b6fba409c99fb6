package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/utafrali/storefront/internal/config"
	handler "github.com/utafrali/storefront/internal/handler/http"
	"github.com/utafrali/storefront/internal/mailer"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/internal/shopify"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/httpclient"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
	"github.com/utafrali/storefront/pkg/middleware"
	"github.com/utafrali/storefront/pkg/tracing"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	httpServer     *http.Server
	producer       *pkgkafka.Producer
	stopBackground context.CancelFunc
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance: upstream client, contact sender,
// services, health checks and the HTTP router.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tracerShutdown, err := tracing.InitTracer(initCtx, cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Shopify client behind a circuit breaker. Retries are opt-in via SHOPIFY_MAX_RETRIES.
	shopifyHTTP := httpclient.New(httpclient.Config{
		Timeout:         cfg.ShopifyTimeout,
		MaxRetries:      cfg.ShopifyMaxRetries,
		RetryWaitMin:    200 * time.Millisecond,
		RetryWaitMax:    2 * time.Second,
		MaxConnsPerHost: 100,
		UserAgent:       "storefront/1.0",
	})
	shopifyBreaker := httpclient.NewCircuitBreakerClient(shopifyHTTP, httpclient.DefaultCircuitBreakerConfig("shopify"), logger)
	shopifyClient, err := shopify.NewClient(cfg.Shopify(), shopifyBreaker, shopify.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("create shopify client: %w", err)
	}

	sender, producer, err := newSender(cfg, logger)
	if err != nil {
		return nil, err
	}

	storefrontSvc := service.NewStorefrontService(shopifyClient, logger)
	contactSvc := service.NewContactService(sender, logger)

	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("shopify", shopifyClient.Ping)
	if producer != nil {
		healthHandler.RegisterNonCritical("kafka", producer.Ping)
	}

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.CORSAllowedOrigins

	bgCtx, stopBackground := context.WithCancel(context.Background())
	router := handler.NewRouter(bgCtx, handler.RouterConfig{
		RequestTimeout: cfg.RequestTimeout,
		CORS:           cors,
		RateLimit: middleware.RateLimitConfig{
			RPS:   cfg.RateLimitRPS,
			Burst: cfg.RateLimitBurst,
		},
		ProductMaxAge: cfg.ProductMaxAge,
		PprofCIDRs:    cfg.PprofAllowedCIDRs,
	},
		handler.NewStorefrontHandler(storefrontSvc, logger),
		handler.NewContactHandler(contactSvc, logger),
		healthHandler,
		logger,
	)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		httpServer:     httpServer,
		producer:       producer,
		stopBackground: stopBackground,
		tracerShutdown: tracerShutdown,
	}, nil
}

// newSender builds the contact sender selected by EMAIL_SENDER. The producer
// is non-nil only for the kafka sender and must be closed on shutdown.
func newSender(cfg *config.Config, logger *slog.Logger) (service.Sender, *pkgkafka.Producer, error) {
	switch cfg.EmailSender {
	case config.SenderResend:
		resendBreaker := httpclient.NewCircuitBreakerClient(
			httpclient.New(httpclient.DefaultConfig()),
			httpclient.DefaultCircuitBreakerConfig("resend"),
			logger,
		)
		sender, err := mailer.NewResendSender(mailer.ResendConfig{
			APIKey: cfg.ResendAPIKey,
			From:   cfg.EmailFrom,
			To:     cfg.EmailRecipients(),
		}, resendBreaker)
		if err != nil {
			return nil, nil, fmt.Errorf("create resend sender: %w", err)
		}
		return sender, nil, nil
	case config.SenderKafka:
		producer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		return mailer.NewKafkaSender(producer), producer, nil
	case config.SenderLog:
		return mailer.NewLogSender(logger), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown email sender %q", cfg.EmailSender)
	}
}

// Handler returns the HTTP handler served by the application.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown stops the application in order:
// 1. HTTP server (drain in-flight requests)
// 2. Background workers and the Kafka producer
// 3. Tracer (flush spans of drained requests)
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.stopBackground()

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
