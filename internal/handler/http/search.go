package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/utafrali/storefront/internal/query"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
)

// MsgQueryRequired is the 400 message for a search without a usable query.
const MsgQueryRequired = "Query parameter is required"

const maxSearchBody = 64 << 10

// SearchRequest is the JSON body of POST /search. Both fields are kept raw so
// a query of the wrong type is reported as missing rather than as a decode
// failure, and limit may be sent as a number or a numeric string.
type SearchRequest struct {
	Query json.RawMessage `json:"query"`
	Limit json.RawMessage `json:"limit"`
}

// term returns the query when it is a non-blank JSON string.
func (s SearchRequest) term() (string, bool) {
	var term string
	if len(s.Query) == 0 || json.Unmarshal(s.Query, &term) != nil {
		return "", false
	}
	if strings.TrimSpace(term) == "" {
		return "", false
	}
	return term, true
}

// limit returns the requested page size, or 0 to use the search default.
func (s SearchRequest) limit() int {
	raw := bytes.TrimSpace(s.Limit)
	if len(raw) == 0 {
		return 0
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return int(n)
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(str), 64); err == nil {
			return int(f)
		}
	}
	return 0
}

// Search handles POST /search
func (h *StorefrontHandler) Search(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSearchBody)

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, apperrors.InvalidInput(MsgQueryRequired), h.logger)
		return
	}

	term, ok := req.term()
	if !ok {
		writeError(w, r, apperrors.InvalidInput(MsgQueryRequired), h.logger)
		return
	}

	// The socket peer is not a buyer-address source for search.
	pq, err := query.Build(query.Params{
		Search:  &term,
		Limit:   req.limit(),
		BuyerIP: r.URL.Query().Get("buyerIP"),
		Headers: r.Header,
	})
	if err != nil {
		writeError(w, r, apperrors.InvalidInput(MsgQueryRequired), h.logger)
		return
	}

	products, err := h.service.ListProducts(r.Context(), pq)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, products)
}
