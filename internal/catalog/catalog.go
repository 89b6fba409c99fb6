// Package catalog holds the fixed set of GraphQL documents the storefront
// sends upstream, together with the variable signature each one accepts.
package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Kind distinguishes read-only queries from mutations.
type Kind string

const (
	KindQuery    Kind = "query"
	KindMutation Kind = "mutation"
)

// Operation names.
const (
	ListProducts           = "ListProducts"
	ProductByHandle        = "ProductByHandle"
	ProductRecommendations = "ProductRecommendations"
	GetCart                = "GetCart"
	CreateCart             = "CreateCart"
	AddCartLines           = "AddCartLines"
	RemoveCartLines        = "RemoveCartLines"
	UpdateCartLines        = "UpdateCartLines"
)

var (
	ErrUnknownOperation = errors.New("unknown operation")
	ErrMissingVariable  = errors.New("missing required variable")
	ErrUnknownVariable  = errors.New("unknown variable")
)

// Variable declares one GraphQL variable of an operation.
type Variable struct {
	Name     string
	Type     string
	Required bool
}

// Operation is a GraphQL document plus its variable signature. Root is the
// top-level response field that carries the result.
type Operation struct {
	Name      string
	Kind      Kind
	Root      string
	Document  string
	Variables []Variable
}

// Idempotent reports whether the operation may be retried freely.
func (o Operation) Idempotent() bool {
	return o.Kind == KindQuery
}

// Bind checks vars against the operation's signature and returns the variable
// map to send. Required variables must be present and non-nil; optional
// variables that are nil are omitted; undeclared variables are rejected.
func (o Operation) Bind(vars map[string]any) (map[string]any, error) {
	declared := make(map[string]Variable, len(o.Variables))
	for _, v := range o.Variables {
		declared[v.Name] = v
	}

	unknown := make([]string, 0)
	for name := range vars {
		if _, ok := declared[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%s: %w: %s", o.Name, ErrUnknownVariable, strings.Join(unknown, ", "))
	}

	bound := make(map[string]any, len(o.Variables))
	for _, v := range o.Variables {
		value, ok := vars[v.Name]
		if !ok || isNil(value) {
			if v.Required {
				return nil, fmt.Errorf("%s: %w: $%s (%s)", o.Name, ErrMissingVariable, v.Name, v.Type)
			}
			continue
		}
		bound[v.Name] = value
	}
	return bound, nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

var operations = map[string]Operation{
	ListProducts: {
		Name:     ListProducts,
		Kind:     KindQuery,
		Root:     "products",
		Document: listProductsDocument,
		Variables: []Variable{
			{Name: "first", Type: "Int!", Required: true},
			{Name: "query", Type: "String"},
			{Name: "sortKey", Type: "ProductSortKeys"},
			{Name: "reverse", Type: "Boolean"},
		},
	},
	ProductByHandle: {
		Name:      ProductByHandle,
		Kind:      KindQuery,
		Root:      "product",
		Document:  productByHandleDocument,
		Variables: []Variable{{Name: "handle", Type: "String!", Required: true}},
	},
	ProductRecommendations: {
		Name:      ProductRecommendations,
		Kind:      KindQuery,
		Root:      "productRecommendations",
		Document:  productRecommendationsDocument,
		Variables: []Variable{{Name: "productId", Type: "ID!", Required: true}},
	},
	GetCart: {
		Name:      GetCart,
		Kind:      KindQuery,
		Root:      "cart",
		Document:  getCartDocument,
		Variables: []Variable{{Name: "id", Type: "ID!", Required: true}},
	},
	CreateCart: {
		Name:     CreateCart,
		Kind:     KindMutation,
		Root:     "cartCreate",
		Document: createCartDocument,
		Variables: []Variable{
			{Name: "id", Type: "ID!", Required: true},
			{Name: "quantity", Type: "Int!", Required: true},
		},
	},
	AddCartLines: {
		Name:     AddCartLines,
		Kind:     KindMutation,
		Root:     "cartLinesAdd",
		Document: addCartLinesDocument,
		Variables: []Variable{
			{Name: "cartId", Type: "ID!", Required: true},
			{Name: "merchandiseId", Type: "ID!", Required: true},
			{Name: "quantity", Type: "Int"},
		},
	},
	RemoveCartLines: {
		Name:     RemoveCartLines,
		Kind:     KindMutation,
		Root:     "cartLinesRemove",
		Document: removeCartLinesDocument,
		Variables: []Variable{
			{Name: "cartId", Type: "ID!", Required: true},
			{Name: "lineIds", Type: "[ID!]!", Required: true},
		},
	},
	UpdateCartLines: {
		Name:     UpdateCartLines,
		Kind:     KindMutation,
		Root:     "cartLinesUpdate",
		Document: updateCartLinesDocument,
		Variables: []Variable{
			{Name: "cartId", Type: "ID!", Required: true},
			{Name: "lines", Type: "[CartLineUpdateInput!]!", Required: true},
		},
	},
}

// Lookup returns the operation registered under name.
func Lookup(name string) (Operation, error) {
	op, ok := operations[name]
	if !ok {
		return Operation{}, fmt.Errorf("%w: %s", ErrUnknownOperation, name)
	}
	return op, nil
}

// MustLookup is Lookup for operation names known at compile time.
func MustLookup(name string) Operation {
	op, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return op
}

// Operations returns every registered operation ordered by name.
func Operations() []Operation {
	ops := make([]Operation, 0, len(operations))
	for _, op := range operations {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i].Name < ops[j].Name })
	return ops
}
