package domain

// Cart is a read-only snapshot of an upstream cart.
type Cart struct {
	ID            string     `json:"id"`
	TotalQuantity int        `json:"totalQuantity"`
	CheckoutURL   string     `json:"checkoutUrl"`
	Cost          CartCost   `json:"cost"`
	Lines         []CartLine `json:"lines"`
}

// CartCost holds the cart level amounts.
type CartCost struct {
	SubtotalAmount Money `json:"subtotalAmount"`
}

// CartLine is a single merchandise line in a cart. Quantity is always positive.
type CartLine struct {
	ID          string       `json:"id"`
	Quantity    int          `json:"quantity"`
	Merchandise Merchandise  `json:"merchandise"`
	Cost        CartLineCost `json:"cost"`
}

// Merchandise is the product variant a cart line refers to.
type Merchandise struct {
	ID      string             `json:"id"`
	Title   string             `json:"title"`
	Product MerchandiseProduct `json:"product"`
	Image   *Image             `json:"image"`
}

// MerchandiseProduct identifies the product owning the merchandise.
type MerchandiseProduct struct {
	Title  string `json:"title"`
	Handle string `json:"handle"`
}

// CartLineCost holds the per-line amounts.
type CartLineCost struct {
	AmountPerQuantity Money `json:"amountPerQuantity"`
	SubtotalAmount    Money `json:"subtotalAmount"`
	TotalAmount       Money `json:"totalAmount"`
}

// CartLineUpdate changes the quantity (and optionally the merchandise) of an
// existing cart line. A quantity of zero removes the line upstream.
type CartLineUpdate struct {
	ID            string `json:"id" validate:"required"`
	Quantity      int    `json:"quantity" validate:"gte=0"`
	MerchandiseID string `json:"merchandiseId,omitempty"`
}

// FindLine returns the cart line with the given ID, or nil.
func (c *Cart) FindLine(id string) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].ID == id {
			return &c.Lines[i]
		}
	}
	return nil
}

// UserError is a field-level error reported by a successful upstream mutation.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}
