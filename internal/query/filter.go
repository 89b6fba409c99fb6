package query

import "strings"

// Filter is the product search expression sent as the `query` variable. It is
// either a set of structured clauses or a single free-text term, never both.
type Filter interface {
	// Expression renders the filter. ok is false when the filter is empty and
	// the variable must be omitted.
	Expression() (expr string, ok bool)
	sealed()
}

// Structured is a conjunction of field clauses.
type Structured struct {
	Clauses []string
}

// FreeText is a relevance search term passed through verbatim.
type FreeText struct {
	Term string
}

func (s Structured) Expression() (string, bool) {
	if len(s.Clauses) == 0 {
		return "", false
	}
	return strings.Join(s.Clauses, " AND "), true
}

func (f FreeText) Expression() (string, bool) {
	term := strings.TrimSpace(f.Term)
	return term, term != ""
}

func (Structured) sealed() {}
func (FreeText) sealed()   {}
