// Package shopify executes catalog operations against the Shopify Storefront
// GraphQL API.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/httpclient"
	"github.com/utafrali/storefront/pkg/tracing"
)

const (
	headerAPIVersion   = "X-Shopify-API-Version"
	headerPublicToken  = "X-Shopify-Storefront-Access-Token"
	headerPrivateToken = "Shopify-Storefront-Private-Token"
	headerBuyerIP      = "Shopify-Storefront-Buyer-IP"

	maxResponseBytes = 10 << 20
)

var upstreamDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "shopify_request_duration_seconds",
		Help:    "Storefront API round-trip duration by operation and outcome",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"operation", "outcome"},
)

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for per-call debug output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithTracer sets the tracer used for client spans.
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// Client issues GraphQL requests. It is safe for concurrent use.
type Client struct {
	cfg    Config
	url    string
	http   httpclient.Doer
	logger *slog.Logger
	tracer trace.Tracer
}

// NewClient returns a client for cfg. It refuses an incomplete config.
func NewClient(cfg Config, doer httpclient.Doer, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if doer == nil {
		return nil, errors.New("shopify: http client is required")
	}

	c := &Client{
		cfg:    cfg,
		url:    cfg.URL(),
		http:   doer,
		logger: slog.Default(),
		tracer: tracing.Tracer("storefront/shopify"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName"`
}

type envelope struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors GraphQLErrors              `json:"errors"`
}

type mutationPayload struct {
	UserErrors []domain.UserError `json:"userErrors"`
}

// Execute runs op with vars and returns the raw `data.<root>` value. buyerIP is
// forwarded when the client authenticates with a private token. Mutations are
// attempted exactly once.
func (c *Client) Execute(ctx context.Context, op catalog.Operation, vars map[string]any, buyerIP string) (json.RawMessage, error) {
	bound, err := op.Bind(vars)
	if err != nil {
		return nil, err
	}

	ctx, span := c.tracer.Start(ctx, "shopify."+op.Name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("graphql.operation.name", op.Name),
			attribute.String("graphql.operation.type", string(op.Kind)),
		),
	)
	defer span.End()

	if !op.Idempotent() {
		ctx = httpclient.WithoutRetry(ctx)
	}

	start := time.Now()
	data, status, err := c.roundTrip(ctx, op, bound, buyerIP)
	elapsed := time.Since(start)

	outcome := "ok"
	var upstreamErr *UpstreamError
	switch {
	case errors.As(err, &upstreamErr):
		outcome = "user_error"
	case err != nil:
		outcome = "error"
	}
	upstreamDuration.WithLabelValues(op.Name, outcome).Observe(elapsed.Seconds())

	if status != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	if err != nil && outcome == "error" {
		span.RecordError(err)
		span.SetStatus(codes.Error, "shopify request failed")
	}

	attrs := []any{
		slog.String("operation", op.Name),
		slog.String("outcome", outcome),
		slog.Int("status", status),
		slog.Duration("duration", elapsed),
	}
	var gqlErrs GraphQLErrors
	if errors.As(err, &gqlErrs) {
		if code := gqlErrs.Code(); code != "" {
			span.SetAttributes(attribute.String("graphql.error.code", code))
			attrs = append(attrs, slog.String("graphql_code", code))
		}
	}
	c.logger.DebugContext(ctx, "shopify request", attrs...)

	return data, err
}

func (c *Client) roundTrip(ctx context.Context, op catalog.Operation, vars map[string]any, buyerIP string) (json.RawMessage, int, error) {
	payload, err := json.Marshal(request{Query: op.Document, Variables: vars, OperationName: op.Name})
	if err != nil {
		return nil, 0, &TransportError{Operation: op.Name, Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, &TransportError{Operation: op.Name, Err: fmt.Errorf("create request: %w", err)}
	}
	c.setHeaders(req, buyerIP)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		status := 0
		var statusErr *httpclient.StatusError
		if errors.As(err, &statusErr) {
			status = statusErr.Status
		}
		return nil, status, &TransportError{Operation: op.Name, Status: status, Err: err}
	}
	if err := httpclient.CheckResponse(resp, "shopify"); err != nil {
		return nil, resp.StatusCode, &TransportError{Operation: op.Name, Status: resp.StatusCode, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, &TransportError{Operation: op.Name, Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	data, err := unwrap(op, body)
	return data, resp.StatusCode, err
}

func (c *Client) setHeaders(req *http.Request, buyerIP string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerAPIVersion, c.cfg.APIVersion)

	if c.cfg.usesPrivateToken() {
		req.Header.Set(headerPrivateToken, c.cfg.PrivateAccessToken)
		if buyerIP != "" {
			req.Header.Set(headerBuyerIP, buyerIP)
		}
		return
	}
	req.Header.Set(headerPublicToken, c.cfg.PublicAccessToken)
}

// unwrap extracts data.<root> from a response body, turning GraphQL errors and
// mutation user errors into typed errors.
func unwrap(op catalog.Operation, body []byte) (json.RawMessage, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &TransportError{Operation: op.Name, Err: fmt.Errorf("decode envelope: %w", err)}
	}
	if len(env.Errors) > 0 {
		return nil, &TransportError{Operation: op.Name, Err: env.Errors}
	}

	root, ok := env.Data[op.Root]
	if !ok {
		return nil, &TransportError{Operation: op.Name, Err: fmt.Errorf("response has no data.%s", op.Root)}
	}

	if op.Kind == catalog.KindMutation && !isNull(root) {
		var payload mutationPayload
		if err := json.Unmarshal(root, &payload); err != nil {
			return nil, &TransportError{Operation: op.Name, Err: fmt.Errorf("decode %s payload: %w", op.Root, err)}
		}
		if len(payload.UserErrors) > 0 {
			return nil, &UpstreamError{Operation: op.Name, UserErrors: payload.UserErrors}
		}
	}
	return root, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// Ping checks that the upstream answers a minimal product listing.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Execute(ctx, catalog.MustLookup(catalog.ListProducts), map[string]any{"first": 1}, "")
	return err
}
