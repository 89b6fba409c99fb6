package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys set on every server span.
const (
	attrMethod     = attribute.Key("http.method")
	attrTarget     = attribute.Key("http.target")
	attrScheme     = attribute.Key("http.scheme")
	attrUserAgent  = attribute.Key("user_agent.original")
	attrClientAddr = attribute.Key("http.client_ip")
	attrRoute      = attribute.Key("http.route")
	attrStatusCode = attribute.Key("http.status_code")
)

// Tracing opens a server span for each request, continuing the caller's W3C
// trace context when present. Spans start out named after the raw path and
// are renamed to the matched chi pattern after the handler returns, so
// /products/{handle} aggregates as one operation.
func Tracing(serviceName string) func(http.Handler) http.Handler {
	tracer := otel.Tracer("github.com/utafrali/storefront/" + serviceName)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			carrier := propagation.HeaderCarrier(r.Header)
			parent := otel.GetTextMapPropagator().Extract(r.Context(), carrier)

			ctx, span := tracer.Start(parent, r.Method+" "+r.URL.Path,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(requestAttributes(r)...),
			)
			defer span.End()

			otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(w.Header()))

			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r.WithContext(ctx))

			finishSpan(span, r, rec.status)
		})
	}
}

func requestAttributes(r *http.Request) []attribute.KeyValue {
	return []attribute.KeyValue{
		attrMethod.String(r.Method),
		attrTarget.String(r.URL.RequestURI()),
		attrScheme.String(requestScheme(r)),
		attrUserAgent.String(r.UserAgent()),
		attrClientAddr.String(r.RemoteAddr),
	}
}

func finishSpan(span trace.Span, r *http.Request, status int) {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			span.SetName(r.Method + " " + pattern)
			span.SetAttributes(attrRoute.String(pattern))
		}
	}

	span.SetAttributes(attrStatusCode.Int(status))
	if status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(status))
	}
}

func requestScheme(r *http.Request) string {
	switch {
	case r.TLS != nil:
		return "https"
	case r.Header.Get("X-Forwarded-Proto") != "":
		return r.Header.Get("X-Forwarded-Proto")
	default:
		return "http"
	}
}
