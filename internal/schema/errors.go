package schema

import (
	"fmt"
	"strings"
)

// Violation is a single failed rule at a JSON field path such as
// "variants.nodes[0].price.amount".
type Violation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError reports an upstream payload that does not satisfy the
// expected shape of an entity.
type ValidationError struct {
	Entity     string
	Violations []Violation
	Err        error
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		if v.Field == "" {
			parts = append(parts, v.Reason)
			continue
		}
		parts = append(parts, v.Field+" "+v.Reason)
	}
	return fmt.Sprintf("invalid %s payload: %s", e.Entity, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Field returns the path of the first violation.
func (e *ValidationError) Field() string {
	if len(e.Violations) == 0 {
		return ""
	}
	return e.Violations[0].Field
}
