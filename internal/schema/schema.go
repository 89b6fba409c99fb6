// Package schema validates untrusted upstream GraphQL payloads and converts
// them into domain values. Every function is pure: no I/O, no shared state
// beyond the immutable validator instance.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/utafrali/storefront/internal/domain"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("decimal", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && !d.IsNegative()
	})
	_ = v.RegisterValidation("integer", func(fl validator.FieldLevel) bool {
		_, ok := int32Value(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("posint", func(fl validator.FieldLevel) bool {
		d, ok := int32Value(fl.Field().String())
		return ok && d.IsPositive()
	})

	return v
}

var (
	minInt32 = decimal.NewFromInt(math.MinInt32)
	maxInt32 = decimal.NewFromInt(math.MaxInt32)
)

// int32Value parses s as an integral number that fits the GraphQL Int type
// (signed 32-bit).
func int32Value(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsInteger() {
		return decimal.Decimal{}, false
	}
	if d.LessThan(minInt32) || d.GreaterThan(maxInt32) {
		return decimal.Decimal{}, false
	}
	return d, true
}

// DecodeProduct validates a single product. A JSON null (or an empty payload)
// is a valid absent product and yields nil without error.
func DecodeProduct(raw json.RawMessage) (*domain.Product, error) {
	if isNull(raw) {
		return nil, nil
	}
	p, err := decodeProduct(raw, "")
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DecodeProducts validates a plain list of products, as returned by
// productRecommendations. Null entries are absent products and are skipped;
// any malformed entry fails the whole list.
func DecodeProducts(raw json.RawMessage) ([]domain.Product, error) {
	products := []domain.Product{}
	if isNull(raw) {
		return products, nil
	}

	var nodes []json.RawMessage
	if err := json.Unmarshal(raw, &nodes); err != nil {
		return nil, decodeError("product", "", err)
	}

	for i, node := range nodes {
		if isNull(node) {
			continue
		}
		p, err := decodeProduct(node, fmt.Sprintf("[%d]", i))
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

// DecodeProductConnection validates a `{edges: [{node}]}` product connection.
func DecodeProductConnection(raw json.RawMessage) ([]domain.Product, error) {
	products := []domain.Product{}
	if isNull(raw) {
		return products, nil
	}

	var conn productEdges
	if err := json.Unmarshal(raw, &conn); err != nil {
		return nil, decodeError("product", "", err)
	}
	if conn.Edges == nil {
		return nil, &ValidationError{Entity: "product", Violations: []Violation{{Field: "edges", Reason: "is required"}}}
	}

	for i, edge := range conn.Edges {
		if isNull(edge.Node) {
			continue
		}
		p, err := decodeProduct(edge.Node, fmt.Sprintf("edges[%d].node", i))
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

// DecodeCart validates a single cart. A JSON null is a valid absent cart.
func DecodeCart(raw json.RawMessage) (*domain.Cart, error) {
	if isNull(raw) {
		return nil, nil
	}

	var node cartNode
	if err := check("cart", "", raw, &node); err != nil {
		return nil, err
	}
	c := node.toDomain()
	return &c, nil
}

// DecodeCartPayload validates the cart of a cart mutation payload
// (`{cart, userErrors}`). User errors are handled by the transport layer.
func DecodeCartPayload(raw json.RawMessage) (*domain.Cart, error) {
	if isNull(raw) {
		return nil, nil
	}

	var payload cartPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, decodeError("cart", "", err)
	}
	return DecodeCart(payload.Cart)
}

func decodeProduct(raw json.RawMessage, prefix string) (domain.Product, error) {
	var node productNode
	if err := check("product", prefix, raw, &node); err != nil {
		return domain.Product{}, err
	}
	return node.toDomain(), nil
}

// check decodes raw into node and runs the struct rules. Paths in the returned
// error are relative to the entity, prefixed with prefix.
func check(entity, prefix string, raw json.RawMessage, node any) error {
	if err := json.Unmarshal(raw, node); err != nil {
		return decodeError(entity, prefix, err)
	}

	err := validate.Struct(node)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Entity: entity, Violations: []Violation{{Field: prefix, Reason: err.Error()}}}
	}

	violations := make([]Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, Violation{
			Field:  joinPath(prefix, trimRoot(fe.Namespace())),
			Reason: reasonForTag(fe.Tag()),
		})
	}
	return &ValidationError{Entity: entity, Violations: violations}
}

func decodeError(entity, prefix string, err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &ValidationError{Entity: entity, Violations: []Violation{{
			Field:  joinPath(prefix, typeErr.Field),
			Reason: fmt.Sprintf("has wrong type %s", typeErr.Value),
		}}}
	}
	return &ValidationError{Entity: entity, Violations: []Violation{{Field: prefix, Reason: "is not valid JSON"}}, Err: err}
}

func reasonForTag(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "decimal":
		return "must be a non-negative decimal string"
	case "integer":
		return "must be a 32-bit integer"
	case "posint":
		return "must be a positive 32-bit integer"
	default:
		return fmt.Sprintf("failed on '%s'", tag)
	}
}

// trimRoot drops the Go struct name validator puts in front of a namespace.
func trimRoot(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func joinPath(prefix, path string) string {
	switch {
	case prefix == "":
		return path
	case path == "":
		return prefix
	case strings.HasPrefix(path, "["):
		return prefix + path
	default:
		return prefix + "." + path
	}
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
