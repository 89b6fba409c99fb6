package schema

import (
	"bytes"
	"encoding/json"
	"reflect"
)

// number holds a raw JSON number literal. Unlike json.Number it refuses quoted
// strings, so `"600"` is a type error rather than a width of 600.
type number string

func (n *number) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || !(b[0] == '-' || (b[0] >= '0' && b[0] <= '9')) {
		return &json.UnmarshalTypeError{Value: string(bytes.TrimSpace(b)), Type: reflect.TypeOf(n).Elem()}
	}
	*n = number(b)
	return nil
}

// The node types mirror the upstream field selection in the catalog fragments.
// Pointer fields distinguish "absent/null" from zero values; rules are declared
// as validator tags and checked before conversion into domain values.

type moneyNode struct {
	Amount       *string `json:"amount" validate:"required,decimal"`
	CurrencyCode *string `json:"currencyCode" validate:"required"`
}

type imageNode struct {
	AltText *string `json:"altText"`
	URL     *string `json:"url" validate:"required"`
	Width   *number `json:"width" validate:"required,posint"`
	Height  *number `json:"height" validate:"required,posint"`
}

type selectedOptionNode struct {
	Name  *string `json:"name" validate:"required"`
	Value *string `json:"value" validate:"required"`
}

type productOptionNode struct {
	ID     *string   `json:"id" validate:"required"`
	Name   *string   `json:"name" validate:"required"`
	Values []*string `json:"values" validate:"required,dive,required"`
}

type variantNode struct {
	ID                *string              `json:"id" validate:"required"`
	Title             *string              `json:"title" validate:"required"`
	AvailableForSale  *bool                `json:"availableForSale" validate:"required"`
	QuantityAvailable *number              `json:"quantityAvailable" validate:"required,integer"`
	Price             *moneyNode           `json:"price" validate:"required"`
	CompareAtPrice    *moneyNode           `json:"compareAtPrice"`
	SelectedOptions   []selectedOptionNode `json:"selectedOptions" validate:"required,dive"`
}

type imageConnection struct {
	Nodes []*imageNode `json:"nodes" validate:"required,dive"`
}

type variantConnection struct {
	Nodes []variantNode `json:"nodes" validate:"required,dive"`
}

type productNode struct {
	ID            *string             `json:"id" validate:"required"`
	Title         *string             `json:"title" validate:"required"`
	Handle        *string             `json:"handle" validate:"required"`
	Description   *string             `json:"description" validate:"required"`
	Images        *imageConnection    `json:"images" validate:"required"`
	Options       []productOptionNode `json:"options" validate:"required,dive"`
	Variants      *variantConnection  `json:"variants" validate:"required"`
	FeaturedImage *imageNode          `json:"featuredImage"`
}

type merchandiseProductNode struct {
	Title  *string `json:"title" validate:"required"`
	Handle *string `json:"handle" validate:"required"`
}

type merchandiseNode struct {
	ID      *string                 `json:"id" validate:"required"`
	Title   *string                 `json:"title" validate:"required"`
	Product *merchandiseProductNode `json:"product" validate:"required"`
	Image   *imageNode              `json:"image"`
}

type cartLineCostNode struct {
	AmountPerQuantity *moneyNode `json:"amountPerQuantity" validate:"required"`
	SubtotalAmount    *moneyNode `json:"subtotalAmount" validate:"required"`
	TotalAmount       *moneyNode `json:"totalAmount" validate:"required"`
}

type cartLineNode struct {
	ID          *string           `json:"id" validate:"required"`
	Quantity    *number           `json:"quantity" validate:"required,posint"`
	Merchandise *merchandiseNode  `json:"merchandise" validate:"required"`
	Cost        *cartLineCostNode `json:"cost" validate:"required"`
}

type cartCostNode struct {
	SubtotalAmount *moneyNode `json:"subtotalAmount" validate:"required"`
}

type cartLineConnection struct {
	Nodes []cartLineNode `json:"nodes" validate:"required,dive"`
}

type cartNode struct {
	ID            *string             `json:"id" validate:"required"`
	TotalQuantity *number             `json:"totalQuantity" validate:"required,integer"`
	CheckoutURL   *string             `json:"checkoutUrl" validate:"required"`
	Cost          *cartCostNode       `json:"cost" validate:"required"`
	Lines         *cartLineConnection `json:"lines" validate:"required"`
}

type productEdges struct {
	Edges []struct {
		Node json.RawMessage `json:"node"`
	} `json:"edges"`
}

type cartPayload struct {
	Cart json.RawMessage `json:"cart"`
}
