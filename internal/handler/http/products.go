package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/query"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/slug"
)

// ListProducts handles GET /products
func (h *StorefrontHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := query.Params{
		Availability: q.Get("availability"),
		MinPrice:     q.Get("minPrice"),
		MaxPrice:     q.Get("maxPrice"),
		SortKey:      q.Get("sortKey"),
		BuyerIP:      q.Get("buyerIP"),
		ClientAddr:   query.ClientAddr(r.RemoteAddr),
		Headers:      r.Header,
	}
	if q.Has("reverse") {
		reverse := q.Get("reverse") == "true"
		params.Reverse = &reverse
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, apperrors.InvalidInput("limit must be an integer"), h.logger)
			return
		}
		params.Limit = n
	}

	pq, err := query.Build(params)
	if err != nil {
		writeError(w, r, apperrors.InvalidInput(err.Error()), h.logger)
		return
	}

	products, err := h.service.ListProducts(r.Context(), pq)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, products)
}

// ProductByHandle handles GET /products/{handle}
func (h *StorefrontHandler) ProductByHandle(w http.ResponseWriter, r *http.Request) {
	handle := slug.Normalize(chi.URLParam(r, "handle"))
	if !slug.Valid(handle) {
		writeError(w, r, apperrors.InvalidInput("invalid product handle"), h.logger)
		return
	}

	product, err := h.service.ProductByHandle(r.Context(), handle, buyerIP(r))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, product)
}

// Recommendations handles GET /products/recommendations?productId=
func (h *StorefrontHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.Recommendations(r.Context(), r.URL.Query().Get("productId"), buyerIP(r))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, products)
}
