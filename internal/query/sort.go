package query

import "strings"

// SortKey is an upstream ProductSortKeys enum value.
type SortKey string

const (
	SortBestSelling SortKey = "BEST_SELLING"
	SortCreatedAt   SortKey = "CREATED_AT"
	SortID          SortKey = "ID"
	SortManual      SortKey = "MANUAL"
	SortPrice       SortKey = "PRICE"
	SortProductType SortKey = "PRODUCT_TYPE"
	SortRelevance   SortKey = "RELEVANCE"
	SortTitle       SortKey = "TITLE"
	SortUpdatedAt   SortKey = "UPDATED_AT"
	SortVendor      SortKey = "VENDOR"
)

// Sort is a resolved ordering.
type Sort struct {
	Key     SortKey
	Reverse bool
}

// DefaultSortOption is used when the requested option is unknown.
const DefaultSortOption = "best_selling"

var sortOptions = map[string]Sort{
	"best_selling": {SortBestSelling, false},
	"featured":     {SortManual, false},
	"alpha_asc":    {SortTitle, false},
	"alpha_desc":   {SortTitle, true},
	"price_asc":    {SortPrice, false},
	"price_desc":   {SortPrice, true},
	"date_asc":     {SortCreatedAt, false},
	"date_desc":    {SortCreatedAt, true},
}

var upstreamKeys = map[SortKey]struct{}{
	SortBestSelling: {}, SortCreatedAt: {}, SortID: {}, SortManual: {}, SortPrice: {},
	SortProductType: {}, SortRelevance: {}, SortTitle: {}, SortUpdatedAt: {}, SortVendor: {},
}

// ResolveSort maps a named sort option to its key and direction. Unknown
// options resolve like best_selling.
func ResolveSort(option string) Sort {
	if s, ok := sortOptions[strings.ToLower(strings.TrimSpace(option))]; ok {
		return s
	}
	return sortOptions[DefaultSortOption]
}

// resolveRequestedSort also accepts a raw upstream key such as PRICE, in which
// case reverse is taken from the caller as-is. For named options an explicit
// reverse overrides the mapped direction.
func resolveRequestedSort(option string, reverse *bool) Sort {
	trimmed := strings.TrimSpace(option)
	if _, named := sortOptions[strings.ToLower(trimmed)]; !named {
		if key := SortKey(strings.ToUpper(trimmed)); isUpstreamKey(key) {
			return Sort{Key: key, Reverse: reverse != nil && *reverse}
		}
	}

	s := ResolveSort(trimmed)
	if reverse != nil {
		s.Reverse = *reverse
	}
	return s
}

func isUpstreamKey(k SortKey) bool {
	_, ok := upstreamKeys[k]
	return ok
}
