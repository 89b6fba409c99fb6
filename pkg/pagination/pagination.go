package pagination

// MaxFirst is the largest page size the storefront API accepts for `first`.
const MaxFirst = 250

// Limit bounds the `first` argument of a connection query.
type Limit struct {
	Default int
	Max     int
}

// ListLimit is used by product listings.
var ListLimit = Limit{Default: 10, Max: MaxFirst}

// SearchLimit is used by free-text search.
var SearchLimit = Limit{Default: 6, Max: MaxFirst}

// Clamp returns n bounded to 1..Max. Zero or negative values fall back to Default.
func (l Limit) Clamp(n int) int {
	if n <= 0 {
		n = l.Default
	}
	if n < 1 {
		n = 1
	}
	if l.Max > 0 && n > l.Max {
		n = l.Max
	}
	return n
}
