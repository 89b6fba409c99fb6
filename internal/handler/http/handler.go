package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/query"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/internal/shopify"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/logger"
)

// StorefrontHandler serves the product, search and cart endpoints.
type StorefrontHandler struct {
	service *service.StorefrontService
	logger  *slog.Logger
}

// NewStorefrontHandler creates a new storefront HTTP handler.
func NewStorefrontHandler(svc *service.StorefrontService, logger *slog.Logger) *StorefrontHandler {
	return &StorefrontHandler{service: svc, logger: logger}
}

// userErrorResponse is the 422 body for requests the upstream platform refused.
type userErrorResponse struct {
	Error      string             `json:"error"`
	UserErrors []domain.UserError `json:"userErrors"`
	RequestID  string             `json:"requestId,omitempty"`
}

// writeError maps err to a response. Upstream user errors are returned to the
// caller; everything else goes through httputil.WriteError.
func writeError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	var upErr *shopify.UpstreamError
	if errors.As(err, &upErr) {
		msg := "request rejected"
		if len(upErr.UserErrors) > 0 {
			msg = upErr.UserErrors[0].Message
		}
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, userErrorResponse{
			Error:      msg,
			UserErrors: upErr.UserErrors,
			RequestID:  logger.CorrelationIDFromContext(r.Context()),
		})
		return
	}
	httputil.WriteError(w, r, err, fallback)
}

// buyerIP resolves the buyer address from the buyerIP query parameter, the
// socket peer and the forwarding headers, in that order.
func buyerIP(r *http.Request) string {
	return query.ResolveBuyerIP(r.URL.Query().Get("buyerIP"), query.ClientAddr(r.RemoteAddr), r.Header)
}
