package domain

// Money is an upstream MoneyV2 value. Amount is the decimal string exactly as the
// platform sent it and is never converted to a float.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// Image is a product or variant image. Width and Height are always positive.
type Image struct {
	AltText *string `json:"altText"`
	URL     string  `json:"url"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
}

// ProductOption lists the values a product offers for one option (e.g., "Color").
type ProductOption struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// SelectedOption is the option value a variant represents.
type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Variant represents a purchasable variant of a product.
type Variant struct {
	ID                string           `json:"id"`
	Title             string           `json:"title"`
	AvailableForSale  bool             `json:"availableForSale"`
	QuantityAvailable int              `json:"quantityAvailable"`
	Price             Money            `json:"price"`
	CompareAtPrice    *Money           `json:"compareAtPrice"`
	SelectedOptions   []SelectedOption `json:"selectedOptions"`
}

// Product is a read-only snapshot of a catalog product.
//
// Images keeps the upstream order; an entry is nil when the platform returned
// null for that position.
type Product struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Handle        string          `json:"handle"`
	Description   string          `json:"description"`
	Images        []*Image        `json:"images"`
	Options       []ProductOption `json:"options"`
	Variants      []Variant       `json:"variants"`
	FeaturedImage *Image          `json:"featuredImage"`
}

// AvailableForSale reports whether at least one variant can be purchased.
func (p *Product) AvailableForSale() bool {
	for _, v := range p.Variants {
		if v.AvailableForSale {
			return true
		}
	}
	return false
}

// FindVariant returns the variant with the given ID, or nil.
func (p *Product) FindVariant(id string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i]
		}
	}
	return nil
}
