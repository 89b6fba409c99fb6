package http

import (
	"net/http"

	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/validator"
)

// GetCart handles GET /cart?id=
func (h *StorefrontHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.GetCart(r.Context(), r.URL.Query().Get("id"), buyerIP(r))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, cart)
}

// CreateCart handles POST /cart
func (h *StorefrontHandler) CreateCart(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCartInput
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	cart, err := h.service.CreateCart(r.Context(), req, buyerIP(r))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, cart)
}

// AddCartLines handles POST /cart/lines
func (h *StorefrontHandler) AddCartLines(w http.ResponseWriter, r *http.Request) {
	var req service.AddLinesInput
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	cart, err := h.service.AddCartLines(r.Context(), req, buyerIP(r))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, cart)
}

// UpdateCartLines handles PUT /cart/lines
func (h *StorefrontHandler) UpdateCartLines(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateLinesInput
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	cart, err := h.service.UpdateCartLines(r.Context(), req, buyerIP(r))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, cart)
}

// RemoveCartLines handles POST /cart/lines/remove
func (h *StorefrontHandler) RemoveCartLines(w http.ResponseWriter, r *http.Request) {
	var req service.RemoveLinesInput
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	cart, err := h.service.RemoveCartLines(r.Context(), req, buyerIP(r))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, cart)
}
