// Package query turns storefront request parameters into the filter, sort and
// paging variables of the ListProducts operation.
package query

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/utafrali/storefront/pkg/pagination"
)

// ErrEmptySearch is returned when a free-text search has a blank term.
var ErrEmptySearch = errors.New("search term is empty")

// Params are the raw request inputs. String fields hold query-string values
// untouched; Build decides which of them apply.
type Params struct {
	Availability string
	MinPrice     string
	MaxPrice     string
	SortKey      string
	Reverse      *bool

	// Search selects a free-text query. When set, the structured fields are ignored.
	Search *string

	Limit int

	BuyerIP    string
	ClientAddr string
	Headers    http.Header
}

// ProductQuery is the resolved, immutable form of Params.
type ProductQuery struct {
	Filter  Filter
	SortKey SortKey
	Reverse bool
	Limit   int
	BuyerIP string
}

// Build resolves p. It fails only for a free-text search with a blank term.
func Build(p Params) (ProductQuery, error) {
	q := ProductQuery{
		BuyerIP: ResolveBuyerIP(p.BuyerIP, p.ClientAddr, p.Headers),
	}

	if p.Search != nil {
		term := strings.TrimSpace(*p.Search)
		if term == "" {
			return ProductQuery{}, ErrEmptySearch
		}
		q.Filter = FreeText{Term: term}
		q.SortKey = SortRelevance
		q.Limit = pagination.SearchLimit.Clamp(p.Limit)
		return q, nil
	}

	q.Filter = Structured{Clauses: clauses(p)}
	sort := resolveRequestedSort(p.SortKey, p.Reverse)
	q.SortKey = sort.Key
	q.Reverse = sort.Reverse
	q.Limit = pagination.ListLimit.Clamp(p.Limit)
	return q, nil
}

func clauses(p Params) []string {
	var out []string

	switch strings.ToLower(strings.TrimSpace(p.Availability)) {
	case "true":
		out = append(out, "available_for_sale:true")
	case "false":
		out = append(out, "available_for_sale:false")
	}

	if v, ok := priceBound(p.MinPrice); ok {
		out = append(out, "variants.price:>="+v)
	}
	if v, ok := priceBound(p.MaxPrice); ok {
		out = append(out, "variants.price:<="+v)
	}
	return out
}

// priceBound returns the trimmed bound when it parses as a decimal number.
func priceBound(raw string) (string, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", false
	}
	if _, err := decimal.NewFromString(v); err != nil {
		return "", false
	}
	return v, true
}

// FilterExpression returns the rendered filter or nil when it is empty.
func (q ProductQuery) FilterExpression() *string {
	if q.Filter == nil {
		return nil
	}
	expr, ok := q.Filter.Expression()
	if !ok {
		return nil
	}
	return &expr
}

// Variables renders the ListProducts variables. `query` is omitted when the
// filter is empty.
func (q ProductQuery) Variables() map[string]any {
	vars := map[string]any{
		"first":   q.Limit,
		"sortKey": string(q.SortKey),
		"reverse": q.Reverse,
	}
	if expr := q.FilterExpression(); expr != nil {
		vars["query"] = *expr
	}
	return vars
}
