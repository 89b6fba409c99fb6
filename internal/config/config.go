// Package config loads the storefront service configuration from the environment.
package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/utafrali/storefront/internal/shopify"
	pkgconfig "github.com/utafrali/storefront/pkg/config"
	"github.com/utafrali/storefront/pkg/tracing"
)

// Contact form delivery backends.
const (
	SenderResend = "resend"
	SenderKafka  = "kafka"
	SenderLog    = "log"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPPort    int    `env:"STOREFRONT_HTTP_PORT" envDefault:"3000"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	RequestTimeout  time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"25s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	// Shopify storefront API
	ShopifyShop               string        `env:"SHOPIFY_SHOP,required,notEmpty"`
	ShopifyAPIVersion         string        `env:"SHOPIFY_API_VERSION,required,notEmpty"`
	ShopifyPublicAccessToken  string        `env:"SHOPIFY_PUBLIC_ACCESS_TOKEN,required,notEmpty"`
	ShopifyPrivateAccessToken string        `env:"SHOPIFY_PRIVATE_ACCESS_TOKEN,required,notEmpty"`
	ShopifyEndpoint           string        `env:"SHOPIFY_ENDPOINT"`
	ShopifyTimeout            time.Duration `env:"SHOPIFY_TIMEOUT" envDefault:"10s"`
	ShopifyMaxRetries         int           `env:"SHOPIFY_MAX_RETRIES" envDefault:"0"`

	// Contact form delivery
	EmailSender  string   `env:"EMAIL_SENDER" envDefault:"resend"`
	ResendAPIKey string   `env:"RESEND_API_KEY"`
	EmailFrom    string   `env:"EMAIL_FROM" envDefault:"Contact Form <onboarding@resend.dev>"`
	EmailTo      []string `env:"EMAIL_TO" envSeparator:","`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:"," envDefault:"localhost:9092"`

	// HTTP surface
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	RateLimitRPS       float64       `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst     int           `env:"RATE_LIMIT_BURST" envDefault:"10"`
	ProductMaxAge      time.Duration `env:"PRODUCT_CACHE_MAX_AGE" envDefault:"60s"`
	PprofAllowedCIDRs  []string      `env:"PPROF_ALLOWED_CIDRS" envSeparator:","`

	Tracing tracing.Config
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	return load(nil)
}

// LoadFrom reads configuration from environ instead of the process environment.
func LoadFrom(environ map[string]string) (*Config, error) {
	return load(environ)
}

func load(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.LoadWithEnvironment(cfg, environ); err != nil {
		if missing := pkgconfig.MissingVars(err); len(missing) > 0 {
			return nil, fmt.Errorf("load storefront config: missing %s", strings.Join(missing, ", "))
		}
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks invariants the env tags cannot express.
func (c *Config) validate() error {
	if err := c.Shopify().Validate(); err != nil {
		return err
	}

	switch c.EmailSender {
	case SenderResend:
		if c.ResendAPIKey == "" {
			return fmt.Errorf("RESEND_API_KEY is required when EMAIL_SENDER=%s", SenderResend)
		}
		if len(c.emailTo()) == 0 {
			return fmt.Errorf("EMAIL_TO is required when EMAIL_SENDER=%s", SenderResend)
		}
	case SenderKafka:
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS is required when EMAIL_SENDER=%s", SenderKafka)
		}
	case SenderLog:
		if c.Environment == "production" {
			return fmt.Errorf("EMAIL_SENDER=%s is not allowed in production", SenderLog)
		}
	default:
		return fmt.Errorf("EMAIL_SENDER must be one of %s, %s, %s; got %q", SenderResend, SenderKafka, SenderLog, c.EmailSender)
	}

	if c.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must not be negative")
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0 and 1")
	}
	return nil
}

// Shopify returns the upstream client configuration.
func (c *Config) Shopify() shopify.Config {
	return shopify.Config{
		Shop:               c.ShopifyShop,
		APIVersion:         c.ShopifyAPIVersion,
		PublicAccessToken:  c.ShopifyPublicAccessToken,
		PrivateAccessToken: c.ShopifyPrivateAccessToken,
		Endpoint:           c.ShopifyEndpoint,
	}
}

// EmailRecipients returns EMAIL_TO with blank entries removed.
func (c *Config) EmailRecipients() []string {
	return c.emailTo()
}

func (c *Config) emailTo() []string {
	out := make([]string, 0, len(c.EmailTo))
	for _, addr := range c.EmailTo {
		if addr = strings.TrimSpace(addr); addr != "" && !slices.Contains(out, addr) {
			out = append(out, addr)
		}
	}
	return out
}
