package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/query"
	"github.com/utafrali/storefront/internal/schema"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// MaxLineQuantity caps the quantity accepted for a single cart line.
const MaxLineQuantity = 100

// Executor runs a catalog operation upstream and returns its data root.
type Executor interface {
	Execute(ctx context.Context, op catalog.Operation, vars map[string]any, buyerIP string) (json.RawMessage, error)
}

// CreateCartInput holds the parameters for creating a cart with its first line.
type CreateCartInput struct {
	MerchandiseID string `json:"merchandiseId" validate:"required"`
	Quantity      int    `json:"quantity" validate:"required,gte=1,lte=100"`
}

// AddLinesInput holds the parameters for adding a line to an existing cart.
type AddLinesInput struct {
	CartID        string `json:"cartId" validate:"required"`
	MerchandiseID string `json:"merchandiseId" validate:"required"`
	Quantity      *int   `json:"quantity,omitempty" validate:"omitempty,gte=1,lte=100"`
}

// UpdateLinesInput holds line quantity changes for an existing cart.
type UpdateLinesInput struct {
	CartID string                  `json:"cartId" validate:"required"`
	Lines  []domain.CartLineUpdate `json:"lines" validate:"required,min=1,dive"`
}

// RemoveLinesInput holds the lines to remove from an existing cart.
type RemoveLinesInput struct {
	CartID  string   `json:"cartId" validate:"required"`
	LineIDs []string `json:"lineIds" validate:"required,min=1,dive,required"`
}

// StorefrontService runs product and cart operations against the upstream
// platform and validates every payload before returning it.
type StorefrontService struct {
	exec   Executor
	logger *slog.Logger
}

// NewStorefrontService creates a new storefront service.
func NewStorefrontService(exec Executor, logger *slog.Logger) *StorefrontService {
	return &StorefrontService{exec: exec, logger: logger}
}

// ListProducts returns the products matching q, in upstream order.
func (s *StorefrontService) ListProducts(ctx context.Context, q query.ProductQuery) ([]domain.Product, error) {
	raw, err := s.execute(ctx, catalog.ListProducts, q.Variables(), q.BuyerIP)
	if err != nil {
		return nil, err
	}

	products, err := schema.DecodeProductConnection(raw)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// ProductByHandle returns the product with the given handle.
func (s *StorefrontService) ProductByHandle(ctx context.Context, handle, buyerIP string) (*domain.Product, error) {
	if handle == "" {
		return nil, apperrors.InvalidInput("handle is required")
	}

	raw, err := s.execute(ctx, catalog.ProductByHandle, map[string]any{"handle": handle}, buyerIP)
	if err != nil {
		return nil, err
	}

	product, err := schema.DecodeProduct(raw)
	if err != nil {
		return nil, fmt.Errorf("product %q: %w", handle, err)
	}
	if product == nil {
		return nil, apperrors.NotFound("product", "handle", handle)
	}
	return product, nil
}

// Recommendations returns products related to productID.
func (s *StorefrontService) Recommendations(ctx context.Context, productID, buyerIP string) ([]domain.Product, error) {
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	raw, err := s.execute(ctx, catalog.ProductRecommendations, map[string]any{"productId": productID}, buyerIP)
	if err != nil {
		return nil, err
	}

	products, err := schema.DecodeProducts(raw)
	if err != nil {
		return nil, fmt.Errorf("recommendations for %q: %w", productID, err)
	}
	return products, nil
}

// GetCart returns the cart with the given ID.
func (s *StorefrontService) GetCart(ctx context.Context, cartID, buyerIP string) (*domain.Cart, error) {
	if cartID == "" {
		return nil, apperrors.InvalidInput("cart id is required")
	}

	raw, err := s.execute(ctx, catalog.GetCart, map[string]any{"id": cartID}, buyerIP)
	if err != nil {
		return nil, err
	}

	cart, err := schema.DecodeCart(raw)
	if err != nil {
		return nil, fmt.Errorf("cart %q: %w", cartID, err)
	}
	if cart == nil {
		return nil, apperrors.NotFound("cart", "id", cartID)
	}
	return cart, nil
}

// CreateCart creates a cart holding a single line.
func (s *StorefrontService) CreateCart(ctx context.Context, input CreateCartInput, buyerIP string) (*domain.Cart, error) {
	if input.MerchandiseID == "" {
		return nil, apperrors.InvalidInput("merchandise id is required")
	}
	if input.Quantity <= 0 || input.Quantity > MaxLineQuantity {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must be between 1 and %d", MaxLineQuantity))
	}

	vars := map[string]any{"id": input.MerchandiseID, "quantity": input.Quantity}
	return s.mutateCart(ctx, catalog.CreateCart, "", vars, buyerIP)
}

// AddCartLines adds a line to an existing cart.
func (s *StorefrontService) AddCartLines(ctx context.Context, input AddLinesInput, buyerIP string) (*domain.Cart, error) {
	if input.CartID == "" || input.MerchandiseID == "" {
		return nil, apperrors.InvalidInput("cart id and merchandise id are required")
	}
	if input.Quantity != nil && (*input.Quantity <= 0 || *input.Quantity > MaxLineQuantity) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must be between 1 and %d", MaxLineQuantity))
	}

	vars := map[string]any{
		"cartId":        input.CartID,
		"merchandiseId": input.MerchandiseID,
		"quantity":      input.Quantity,
	}
	return s.mutateCart(ctx, catalog.AddCartLines, input.CartID, vars, buyerIP)
}

// UpdateCartLines changes line quantities. A quantity of zero removes the line.
func (s *StorefrontService) UpdateCartLines(ctx context.Context, input UpdateLinesInput, buyerIP string) (*domain.Cart, error) {
	if input.CartID == "" {
		return nil, apperrors.InvalidInput("cart id is required")
	}
	if len(input.Lines) == 0 {
		return nil, apperrors.InvalidInput("at least one line is required")
	}
	for _, l := range input.Lines {
		if l.Quantity < 0 || l.Quantity > MaxLineQuantity {
			return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must be between 0 and %d", MaxLineQuantity))
		}
	}

	vars := map[string]any{"cartId": input.CartID, "lines": input.Lines}
	return s.mutateCart(ctx, catalog.UpdateCartLines, input.CartID, vars, buyerIP)
}

// RemoveCartLines removes lines from a cart.
func (s *StorefrontService) RemoveCartLines(ctx context.Context, input RemoveLinesInput, buyerIP string) (*domain.Cart, error) {
	if input.CartID == "" {
		return nil, apperrors.InvalidInput("cart id is required")
	}
	if len(input.LineIDs) == 0 {
		return nil, apperrors.InvalidInput("at least one line id is required")
	}

	vars := map[string]any{"cartId": input.CartID, "lineIds": input.LineIDs}
	return s.mutateCart(ctx, catalog.RemoveCartLines, input.CartID, vars, buyerIP)
}

func (s *StorefrontService) mutateCart(ctx context.Context, name, cartID string, vars map[string]any, buyerIP string) (*domain.Cart, error) {
	raw, err := s.execute(ctx, name, vars, buyerIP)
	if err != nil {
		return nil, err
	}

	cart, err := schema.DecodeCartPayload(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if cart == nil {
		if cartID == "" {
			return nil, fmt.Errorf("%s: upstream returned no cart", name)
		}
		return nil, apperrors.NotFound("cart", "id", cartID)
	}

	s.logger.InfoContext(ctx, "cart updated",
		slog.String("operation", name),
		slog.String("cart_id", cart.ID),
		slog.Int("total_quantity", cart.TotalQuantity),
	)
	return cart, nil
}

// execute looks up name and runs it. Variable binding failures become input errors.
func (s *StorefrontService) execute(ctx context.Context, name string, vars map[string]any, buyerIP string) (json.RawMessage, error) {
	op, err := catalog.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}

	raw, err := s.exec.Execute(ctx, op, vars, buyerIP)
	if err != nil {
		if errors.Is(err, catalog.ErrMissingVariable) || errors.Is(err, catalog.ErrUnknownVariable) {
			return nil, apperrors.InvalidInput(err.Error())
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return raw, nil
}
