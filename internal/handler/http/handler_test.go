package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/internal/shopify"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/middleware"
)

// ============================================================================
// Mocks
// ============================================================================

type mockExecutor struct {
	mock.Mock
}

func (m *mockExecutor) Execute(ctx context.Context, op catalog.Operation, vars map[string]any, buyerIP string) (json.RawMessage, error) {
	args := m.Called(ctx, op.Name, vars, buyerIP)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return json.RawMessage(args.String(0)), args.Error(1)
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, msg domain.ContactMessage) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

// ============================================================================
// Fixtures and helpers
// ============================================================================

const productJSON = `{
  "id": "gid://shopify/Product/4",
  "title": "Eco-Friendly Yoga Mat",
  "handle": "eco-friendly-yoga-mat",
  "description": "Grippy.",
  "images": {"nodes": [{"url": "https://cdn.example.com/mat.png", "width": 600, "height": 600, "altText": "Rolled"}]},
  "options": [{"id": "gid://shopify/ProductOption/1", "name": "Color", "values": ["Green"]}],
  "variants": {"nodes": [{
    "id": "gid://shopify/ProductVariant/4001",
    "title": "Green",
    "availableForSale": true,
    "quantityAvailable": 3,
    "price": {"amount": "68.00", "currencyCode": "USD"},
    "compareAtPrice": null,
    "selectedOptions": [{"name": "Color", "value": "Green"}]
  }]},
  "featuredImage": null
}`

const connectionJSON = `{"edges": [{"node": ` + productJSON + `}]}`

const cartJSON = `{
  "id": "gid://shopify/Cart/c1",
  "totalQuantity": 2,
  "checkoutUrl": "https://astragarde.myshopify.com/cart/c/c1",
  "cost": {"subtotalAmount": {"amount": "136.00", "currencyCode": "USD"}},
  "lines": {"nodes": [{
    "id": "gid://shopify/CartLine/l1",
    "quantity": 2,
    "merchandise": {
      "id": "gid://shopify/ProductVariant/4001",
      "title": "Green",
      "image": null,
      "product": {"handle": "eco-friendly-yoga-mat", "title": "Eco-Friendly Yoga Mat"}
    },
    "cost": {
      "amountPerQuantity": {"amount": "68.00", "currencyCode": "USD"},
      "subtotalAmount": {"amount": "136.00", "currencyCode": "USD"},
      "totalAmount": {"amount": "136.00", "currencyCode": "USD"}
    }
  }]}
}`

const cartPayloadJSON = `{"cart": ` + cartJSON + `, "userErrors": []}`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type testServer struct {
	router http.Handler
	exec   *mockExecutor
	sender *mockSender
}

func newTestServer(t *testing.T, cfg RouterConfig) *testServer {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	exec := new(mockExecutor)
	sender := new(mockSender)
	logger := testLogger()

	router := NewRouter(ctx, cfg,
		NewStorefrontHandler(service.NewStorefrontService(exec, logger), logger),
		NewContactHandler(service.NewContactService(sender, logger), logger),
		health.NewHandler(),
		logger,
	)
	return &testServer{router: router, exec: exec, sender: sender}
}

func (s *testServer) do(method, target, contentType, body string, mutate ...func(*http.Request)) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.RemoteAddr = "192.0.2.10:51000"
	for _, fn := range mutate {
		fn(req)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func withHeader(name, value string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set(name, value) }
}

// ============================================================================
// GET /products
// ============================================================================

func TestListProducts_BuildsQueryFromParams(t *testing.T) {
	s := newTestServer(t, RouterConfig{})
	s.exec.On("Execute", mock.Anything, catalog.ListProducts, map[string]any{
		"first":   10,
		"query":   "available_for_sale:true AND variants.price:>=10 AND variants.price:<=50.5",
		"sortKey": "PRICE",
		"reverse": true,
	}, "192.0.2.10").Return(connectionJSON, nil)

	rec := s.do(http.MethodGet, "/products?availability=TRUE&minPrice=10&maxPrice=50.5&sortKey=price_desc", "", "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var products []domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "eco-friendly-yoga-mat", products[0].Handle)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	s.exec.AssertExpectations(t)
}

func TestListProducts_CacheControl(t *testing.T) {
	s := newTestServer(t, RouterConfig{ProductMaxAge: 5 * time.Minute})
	s.exec.On("Execute", mock.Anything, catalog.ListProducts, mock.Anything, mock.Anything).Return(`{"edges": []}`, nil)

	rec := s.do(http.MethodGet, "/products", "", "")

	assert.Equal(t, "public, max-age=300", rec.Header().Get("Cache-Control"))
}

func TestListProducts_Defaults(t *testing.T) {
	s := newTestServer(t, RouterConfig{})
	s.exec.On("Execute", mock.Anything, catalog.ListProducts, map[string]any{
		"first":   10,
		"sortKey": "BEST_SELLING",
		"reverse": false,
	}, "192.0.2.10").Return(`{"edges": []}`, nil)

	rec := s.do(http.MethodGet, "/products?minPrice=abc", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	s.exec.AssertExpectations(t)
}

func TestListProducts_ExplicitBuyerIPWins(t *testing.T) {
	s := newTestServer(t, RouterConfig{})
	s.exec.On("Execute", mock.Anything, catalog.ListProducts, mock.Anything, "203.0.113.5").
		Return(`{"edges": []}`, nil)

	rec := s.do(http.MethodGet, "/products?buyerIP=203.0.113.5", "", "", withHeader("X-Forwarded-For", "198.51.100.1"))

	assert.Equal(t, http.StatusOK, rec.Code)
	s.exec.AssertExpectations(t)
}

func TestListProducts_InvalidLimit(t *testing.T) {
	s := newTestServer(t, RouterConfig{})

	rec := s.do(http.MethodGet, "/products?limit=ten", "", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	s.exec.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListProducts_UpstreamFailuresAreGeneric500(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		err  error
	}{
		{"transport", nil, &shopify.TransportError{Operation: catalog.ListProducts, Status: 401, Err: errors.New("invalid token shpat_secret")}},
		{"schema violation", `{"edges": [{"node": {"id": "x"}}]}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, RouterConfig{})
			s.exec.On("Execute", mock.Anything, catalog.ListProducts, mock.Anything, mock.Anything).Return(tt.raw, tt.err)

			rec := s.do(http.MethodGet, "/products", "", "")

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			body := decodeMap(t, rec)
			assert.Equal(t, "Internal server error", body["error"])
			assert.NotContains(t, rec.Body.String(), "shpat_secret")
		})
	}
}

// ============================================================================
// GET /products/{handle}, /products/recommendations
// ============================================================================

func TestProductByHandle_NormalizesHandle(t *testing.T) {
	s := newTestServer(t, RouterConfig{})
	s.exec.On("Execute", mock.Anything, catalog.ProductByHandle, map[string]any{"handle": "eco-friendly-yoga-mat"}, "192.0.2.10").
		Return(productJSON, nil)

	rec := s.do(http.MethodGet, "/products/Eco-Friendly%20Yoga%20Mat", "", "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Eco-Friendly Yoga Mat", decodeMap(t, rec)["title"])
}

func TestProductByHandle_NotFound(t *testing.T) {
	s := newTestServer(t, RouterConfig{})
	s.exec.On("Execute", mock.Anything, catalog.ProductByHandle, mock.Anything, mock.Anything).Return("null", nil)

	rec := s.do(http.MethodGet, "/products/missing", "", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeMap(t, rec)["code"])
}

func TestProductByHandle_InvalidHandle(t *testing.T) {
	s := newTestServer(t, RouterConfig{})

	rec := s.do(http.MethodGet, "/products/---", "", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecommendations(t *testing.T) {
	s := newTestServer(t, RouterConfig{})
	s.exec.On("Execute", mock.Anything, catalog.ProductRecommendations,
		map[string]any{"productId": "gid://shopify/Product/4"}, "192.0.2.10").
		Return(`[`+productJSON+`, null]`, nil)

	rec := s.do(http.MethodGet, "/products/recommendations?productId="+url.QueryEscape("gid://shopify/Product/4"), "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var products []domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	assert.Len(t, products, 1)
}

func TestRecommendations_MissingProductID(t *testing.T) {
	s := newTestServer(t, RouterConfig{})

	rec := s.do(http.MethodGet, "/products/recommendations", "", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ============================================================================
// POST /search
// ============================================================================

func TestSearch_RejectsUnusableQuery(t *testing.T) {
	bodies := map[string]string{
		"missing":      `{}`,
		"number":       `{"query": 42}`,
		"empty":        `{"query": ""}`,
		"blank":        `{"query": "   "}`,
		"null":         `{"query": null}`,
		"array":        `{"query": ["yoga"]}`,
		"invalid json": `{"query": `,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			s := newTestServer(t, RouterConfig{})

			rec := s.do(http.MethodPost, "/search", "application/json", body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, MsgQueryRequired, decodeMap(t, rec)["error"])
			s.exec.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestSearch_UsesRelevanceAndDefaultLimit(t *testing.T) {
	s := newTestServer(t, RouterConfig{})
	s.exec.On("Execute", mock.Anything, catalog.ListProducts, map[string]any{
		"first":   6,
		"query":   "yoga mat",
		"sortKey": "RELEVANCE",
		"reverse": false,
	}, "198.51.100.1").Return(connectionJSON, nil)

	rec := s.do(http.MethodPost, "/search", "application/json", `{"query": "  yoga mat "}`,
		withHeader("X-Forwarded-For", "198.51.100.1"))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var products []domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	assert.Len(t, products, 1)
	s.exec.AssertExpectations(t)
}

func TestSearch_LimitHandling(t *testing.T) {
	tests := []struct {
		body  string
		first int
	}{
		{`{"query": "mat", "limit": 3}`, 3},
		{`{"query": "mat", "limit": "4"}`, 4},
		{`{"query": "mat", "limit": 1000}`, 250},
		{`{"query": "mat", "limit": "lots"}`, 6},
		{`{"query": "mat", "limit": 0}`, 6},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			s := newTestServer(t, RouterConfig{})
			s.exec.On("Execute", mock.Anything, catalog.ListProducts,
				mock.MatchedBy(func(vars map[string]any) bool { return vars["first"] == tt.first }),
				mock.Anything).Return(`{"edges": []}`, nil)

			rec := s.do(http.MethodPost, "/search", "application/json", tt.body)

			assert.Equal(t, http.StatusOK, rec.Code)
			s.exec.AssertExpectations(t)
		})
	}
}

func TestSearch_BuyerIPWithoutHeadersIsLoopback(t *testing.T) {
	s := newTestServer(t, RouterConfig{})
	s.exec.On("Execute", mock.Anything, catalog.ListProducts, mock.Anything, "::1").Return(`{"edges": []}`, nil)

	rec := s.do(http.MethodPost, "/search", "application/json", `{"query": "mat"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	s.exec.AssertExpectations(t)
}

func TestSearch_UpstreamFailure(t *testing.T) {
	s := newTestServer(t, RouterConfig{})
	s.exec.On("Execute", mock.Anything, catalog.ListProducts, mock.Anything, mock.Anything).
		Return(nil, &shopify.TransportError{Operation: catalog.ListProducts, Err: errors.New("dial tcp: connection refused")})

	rec := s.do(http.MethodPost, "/search", "application/json", `{"query": "mat"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeMap(t, rec)
	assert.Equal(t, "Internal server error", body["error"])
	assert.Equal(t, "an internal error occurred", body["message"])
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestSearch_RateLimited(t *testing.T) {
	s := newTestServer(t, RouterConfig{RateLimit: middleware.RateLimitConfig{RPS: 0.1, Burst: 1}})
	s.exec.On("Execute", mock.Anything, catalog.ListProducts, mock.Anything, mock.Anything).Return(`{"edges": []}`, nil)

	first := s.do(http.MethodPost, "/search", "application/json", `{"query": "mat"}`)
	second := s.do(http.MethodPost, "/search", "application/json", `{"query": "mat"}`)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
}

// ============================================================================
// Cart
// ============================================================================

func TestGetCart(t *testing.T) {
	s := newTestServer(t, RouterConfig{})
	s.exec.On("Execute", mock.Anything, catalog.GetCart, map[string]any{"id": "gid://shopify/Cart/c1"}, "192.0.2.10").
		Return(cartJSON, nil)

	rec := s.do(http.MethodGet, "/cart?id="+url.QueryEscape("gid://shopify/Cart/c1"), "", "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "private, no-store", rec.Header().Get("Cache-Control"))
	assert.EqualValues(t, 2, decodeMap(t, rec)["totalQuantity"])
}

func TestGetCart_Errors(t *testing.T) {
	s := newTestServer(t, RouterConfig{})
	s.exec.On("Execute", mock.Anything, catalog.GetCart, mock.Anything, mock.Anything).Return("null", nil)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/cart", "", "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/cart?id=gone", "", "").Code)
}

func TestCreateCart(t *testing.T) {
	s := newTestServer(t, RouterConfig{})
	s.exec.On("Execute", mock.Anything, catalog.CreateCart,
		map[string]any{"id": "gid://shopify/ProductVariant/4001", "quantity": 2}, "192.0.2.10").
		Return(cartPayloadJSON, nil)

	rec := s.do(http.MethodPost, "/cart", "application/json",
		`{"merchandiseId": "gid://shopify/ProductVariant/4001", "quantity": 2}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "gid://shopify/Cart/c1", decodeMap(t, rec)["id"])
}

func TestCreateCart_ValidationError(t *testing.T) {
	s := newTestServer(t, RouterConfig{})

	rec := s.do(http.MethodPost, "/cart", "application/json", `{"merchandiseId": "v1", "quantity": 0}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeMap(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
	assert.Contains(t, body["fields"], "quantity")
}

func TestCreateCart_UserErrorsAre422(t *testing.T) {
	s := newTestServer(t, RouterConfig{})
	s.exec.On("Execute", mock.Anything, catalog.CreateCart, mock.Anything, mock.Anything).
		Return(nil, &shopify.UpstreamError{
			Operation: catalog.CreateCart,
			UserErrors: []domain.UserError{
				{Field: []string{"input", "lines", "0", "merchandiseId"}, Message: "The merchandise with id v1 does not exist."},
			},
		})

	rec := s.do(http.MethodPost, "/cart", "application/json", `{"merchandiseId": "v1", "quantity": 1}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body userErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "The merchandise with id v1 does not exist.", body.Error)
	require.Len(t, body.UserErrors, 1)
	assert.Equal(t, []string{"input", "lines", "0", "merchandiseId"}, body.UserErrors[0].Field)
}

func TestAddCartLines(t *testing.T) {
	s := newTestServer(t, RouterConfig{})
	s.exec.On("Execute", mock.Anything, catalog.AddCartLines, mock.MatchedBy(func(vars map[string]any) bool {
		q, ok := vars["quantity"].(*int)
		return vars["cartId"] == "c1" && vars["merchandiseId"] == "v1" && ok && *q == 3
	}), mock.Anything).Return(cartPayloadJSON, nil)

	rec := s.do(http.MethodPost, "/cart/lines", "application/json", `{"cartId": "c1", "merchandiseId": "v1", "quantity": 3}`)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	s.exec.AssertExpectations(t)
}

func TestUpdateCartLines(t *testing.T) {
	s := newTestServer(t, RouterConfig{})
	s.exec.On("Execute", mock.Anything, catalog.UpdateCartLines, map[string]any{
		"cartId": "c1",
		"lines":  []domain.CartLineUpdate{{ID: "l1", Quantity: 0}},
	}, mock.Anything).Return(cartPayloadJSON, nil)

	rec := s.do(http.MethodPut, "/cart/lines", "application/json", `{"cartId": "c1", "lines": [{"id": "l1", "quantity": 0}]}`)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	s.exec.AssertExpectations(t)
}

func TestRemoveCartLines(t *testing.T) {
	s := newTestServer(t, RouterConfig{})
	s.exec.On("Execute", mock.Anything, catalog.RemoveCartLines, map[string]any{
		"cartId":  "c1",
		"lineIds": []string{"l1"},
	}, mock.Anything).Return(`{"cart": null, "userErrors": []}`, nil)

	rec := s.do(http.MethodPost, "/cart/lines/remove", "application/json", `{"cartId": "c1", "lineIds": ["l1"]}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRemoveCartLines_EmptyList(t *testing.T) {
	s := newTestServer(t, RouterConfig{})

	rec := s.do(http.MethodPost, "/cart/lines/remove", "application/json", `{"cartId": "c1", "lineIds": []}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ============================================================================
// POST /email
// ============================================================================

func TestEmail_FormSuccess(t *testing.T) {
	s := newTestServer(t, RouterConfig{})
	s.sender.On("Send", mock.Anything, domain.ContactMessage{Name: "Ada", Email: "ada@example.com", Message: "Hello there"}).
		Return("re_123", nil)

	form := url.Values{"name": {" Ada "}, "email": {"ada@example.com"}, "message": {"Hello there\n"}}
	rec := s.do(http.MethodPost, "/email", "application/x-www-form-urlencoded", form.Encode())

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body ContactResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ContactResponse{Success: true, Message: service.MsgContactSent, ID: "re_123"}, body)
}

func TestEmail_JSONSuccess(t *testing.T) {
	s := newTestServer(t, RouterConfig{})
	s.sender.On("Send", mock.Anything, mock.Anything).Return("re_456", nil)

	rec := s.do(http.MethodPost, "/email", "application/json; charset=utf-8",
		`{"name": "Ada", "email": "ada@example.com", "message": "Hi"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "re_456", decodeMap(t, rec)["id"])
}

func TestEmail_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{"missing message", url.Values{"name": {"Ada"}, "email": {"ada@example.com"}}, service.MsgContactFieldsRequired},
		{"whitespace name", url.Values{"name": {"   "}, "email": {"ada@example.com"}, "message": {"x"}}, service.MsgContactFieldsRequired},
		{"bad email", url.Values{"name": {"Ada"}, "email": {"ada@example"}, "message": {"x"}}, service.MsgContactInvalidEmail},
		{"email with space", url.Values{"name": {"Ada"}, "email": {"ada lovelace@example.com"}, "message": {"x"}}, service.MsgContactInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, RouterConfig{})

			rec := s.do(http.MethodPost, "/email", "application/x-www-form-urlencoded", tt.form.Encode())

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var body ContactResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.want, body.Error)
			s.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		})
	}
}

func TestEmail_MalformedJSON(t *testing.T) {
	s := newTestServer(t, RouterConfig{})

	rec := s.do(http.MethodPost, "/email", "application/json", `{"name":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, service.MsgContactFieldsRequired, decodeMap(t, rec)["error"])
}

func TestEmail_SendFailureIs500(t *testing.T) {
	s := newTestServer(t, RouterConfig{})
	s.sender.On("Send", mock.Anything, mock.Anything).Return("", errors.New("resend: status 403: domain not verified"))

	form := url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "message": {"Hi"}}
	rec := s.do(http.MethodPost, "/email", "application/x-www-form-urlencoded", form.Encode())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ContactResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ContactResponse{Error: service.MsgContactSendFailed}, body)
}

// ============================================================================
// Operational endpoints
// ============================================================================

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, RouterConfig{})

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health/live", "", "").Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health/ready", "", "").Code)

	rec := s.do(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestCorrelationIDEchoedInErrors(t *testing.T) {
	s := newTestServer(t, RouterConfig{})

	rec := s.do(http.MethodGet, "/cart", "", "", withHeader(middleware.CorrelationIDHeader, "corr-77"))

	assert.Equal(t, "corr-77", rec.Header().Get(middleware.CorrelationIDHeader))
	assert.Equal(t, "corr-77", decodeMap(t, rec)["requestId"])
}

func TestPreflight(t *testing.T) {
	s := newTestServer(t, RouterConfig{CORS: middleware.DefaultCORSConfig()})

	rec := s.do(http.MethodOptions, "/search", "", "", withHeader("Origin", "https://shop.example"))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
