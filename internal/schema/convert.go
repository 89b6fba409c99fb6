package schema

import (
	"github.com/shopspring/decimal"

	"github.com/utafrali/storefront/internal/domain"
)

// The conversions below run only after validate.Struct succeeded, so every
// required pointer is non-nil.

func (n *number) toInt() int {
	if n == nil {
		return 0
	}
	return int(decimal.RequireFromString(string(*n)).IntPart())
}

func (m *moneyNode) toDomain() domain.Money {
	return domain.Money{Amount: *m.Amount, CurrencyCode: *m.CurrencyCode}
}

func (m *moneyNode) toDomainPtr() *domain.Money {
	if m == nil {
		return nil
	}
	money := m.toDomain()
	return &money
}

func (i *imageNode) toDomain() *domain.Image {
	if i == nil {
		return nil
	}
	return &domain.Image{
		AltText: i.AltText,
		URL:     *i.URL,
		Width:   i.Width.toInt(),
		Height:  i.Height.toInt(),
	}
}

func (v *variantNode) toDomain() domain.Variant {
	options := make([]domain.SelectedOption, 0, len(v.SelectedOptions))
	for _, o := range v.SelectedOptions {
		options = append(options, domain.SelectedOption{Name: *o.Name, Value: *o.Value})
	}
	return domain.Variant{
		ID:                *v.ID,
		Title:             *v.Title,
		AvailableForSale:  *v.AvailableForSale,
		QuantityAvailable: v.QuantityAvailable.toInt(),
		Price:             v.Price.toDomain(),
		CompareAtPrice:    v.CompareAtPrice.toDomainPtr(),
		SelectedOptions:   options,
	}
}

func (p *productNode) toDomain() domain.Product {
	images := make([]*domain.Image, 0, len(p.Images.Nodes))
	for _, img := range p.Images.Nodes {
		images = append(images, img.toDomain())
	}

	options := make([]domain.ProductOption, 0, len(p.Options))
	for _, o := range p.Options {
		values := make([]string, 0, len(o.Values))
		for _, v := range o.Values {
			values = append(values, *v)
		}
		options = append(options, domain.ProductOption{ID: *o.ID, Name: *o.Name, Values: values})
	}

	variants := make([]domain.Variant, 0, len(p.Variants.Nodes))
	for i := range p.Variants.Nodes {
		variants = append(variants, p.Variants.Nodes[i].toDomain())
	}

	return domain.Product{
		ID:            *p.ID,
		Title:         *p.Title,
		Handle:        *p.Handle,
		Description:   *p.Description,
		Images:        images,
		Options:       options,
		Variants:      variants,
		FeaturedImage: p.FeaturedImage.toDomain(),
	}
}

func (l *cartLineNode) toDomain() domain.CartLine {
	m := l.Merchandise
	return domain.CartLine{
		ID:       *l.ID,
		Quantity: l.Quantity.toInt(),
		Merchandise: domain.Merchandise{
			ID:    *m.ID,
			Title: *m.Title,
			Product: domain.MerchandiseProduct{
				Title:  *m.Product.Title,
				Handle: *m.Product.Handle,
			},
			Image: m.Image.toDomain(),
		},
		Cost: domain.CartLineCost{
			AmountPerQuantity: l.Cost.AmountPerQuantity.toDomain(),
			SubtotalAmount:    l.Cost.SubtotalAmount.toDomain(),
			TotalAmount:       l.Cost.TotalAmount.toDomain(),
		},
	}
}

func (c *cartNode) toDomain() domain.Cart {
	lines := make([]domain.CartLine, 0, len(c.Lines.Nodes))
	for i := range c.Lines.Nodes {
		lines = append(lines, c.Lines.Nodes[i].toDomain())
	}
	return domain.Cart{
		ID:            *c.ID,
		TotalQuantity: c.TotalQuantity.toInt(),
		CheckoutURL:   *c.CheckoutURL,
		Cost:          domain.CartCost{SubtotalAmount: c.Cost.SubtotalAmount.toDomain()},
		Lines:         lines,
	}
}
