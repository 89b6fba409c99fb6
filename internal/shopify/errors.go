package shopify

import (
	"fmt"
	"strings"

	"github.com/utafrali/storefront/internal/domain"
)

// TransportError covers everything that prevents a usable response: network
// failures, non-2xx statuses, unreadable envelopes and top-level GraphQL errors.
type TransportError struct {
	Operation string
	Status    int
	Err       error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("shopify %s: status %d: %v", e.Operation, e.Status, e.Err)
	}
	return fmt.Sprintf("shopify %s: %v", e.Operation, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UpstreamError carries the user errors of a mutation the upstream accepted
// but refused to apply.
type UpstreamError struct {
	Operation  string
	UserErrors []domain.UserError
}

func (e *UpstreamError) Error() string {
	msgs := make([]string, 0, len(e.UserErrors))
	for _, ue := range e.UserErrors {
		if len(ue.Field) > 0 {
			msgs = append(msgs, strings.Join(ue.Field, ".")+": "+ue.Message)
			continue
		}
		msgs = append(msgs, ue.Message)
	}
	return fmt.Sprintf("shopify %s: user errors: %s", e.Operation, strings.Join(msgs, "; "))
}

// GraphQLError is one entry of a response's top-level `errors` list.
type GraphQLError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// GraphQLErrors is the top-level `errors` list.
type GraphQLErrors []GraphQLError

func (e GraphQLErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, ge := range e {
		msgs = append(msgs, ge.Message)
	}
	return "graphql errors: " + strings.Join(msgs, "; ")
}

// Code returns extensions.code of the first error, e.g. THROTTLED.
func (e GraphQLErrors) Code() string {
	if len(e) == 0 {
		return ""
	}
	code, _ := e[0].Extensions["code"].(string)
	return code
}
