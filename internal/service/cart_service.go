package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Nihaar75858/Cartify/internal/models"
	"github.com/Nihaar75858/Cartify/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartService owns cart mutations. Every mutation runs inside the cart
// store's atomic update, recomputes the total from current catalog prices,
// and persists before returning, so a stored total is never stale relative
// to the stored items.
type CartService struct {
	catalog CatalogStore
	carts   CartStore
	logger  *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(catalog CatalogStore, carts CartStore) *CartService {
	return &CartService{
		catalog: catalog,
		carts:   carts,
		logger:  util.GetLogger(),
	}
}

// GetCart returns the user's cart, creating an empty one on first access
func (s *CartService) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	ctx, span := util.StartSpan(ctx, "CartService.GetCart")
	defer span.End()

	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cart: %w", err)
	}

	if err := s.attachProducts(ctx, cart); err != nil {
		return nil, err
	}

	return cart, nil
}

// AddItem adds a product to the cart, merging into the existing line when
// the product is already present
func (s *CartService) AddItem(ctx context.Context, userID string, productID int64, quantity int) (*models.Cart, error) {
	ctx, span := util.StartSpan(ctx, "CartService.AddItem")
	defer span.End()

	if quantity < 1 {
		util.CartMutationsFailed.WithLabelValues("invalid_quantity").Inc()
		return nil, fmt.Errorf("quantity must be at least 1: %w", models.ErrInvalidArgument)
	}

	if _, err := s.catalog.GetProductByID(ctx, productID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			util.CartMutationsFailed.WithLabelValues("unknown_product").Inc()
		}
		return nil, err
	}

	cart, err := s.carts.UpdateCart(ctx, userID, func(cart *models.Cart) error {
		if item := cart.FindItemByProduct(productID); item != nil {
			item.Quantity += quantity
		} else {
			cart.Items = append(cart.Items, models.CartItem{
				ID:        uuid.New().String(),
				ProductID: productID,
				Quantity:  quantity,
			})
		}
		return s.recomputeTotal(ctx, cart)
	})
	if err != nil {
		return nil, err
	}

	util.CartItemsAddedTotal.Inc()
	util.CartMutationsTotal.WithLabelValues("add").Inc()
	s.logger.Info("Item added to cart",
		zap.String("user_id", userID),
		zap.Int64("product_id", productID),
		zap.Int("quantity", quantity),
		zap.Float64("total", cart.Total))

	return cart, nil
}

// UpdateQuantity sets a cart item's quantity. A quantity below 1 removes
// the item entirely.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (*models.Cart, error) {
	ctx, span := util.StartSpan(ctx, "CartService.UpdateQuantity")
	defer span.End()

	cart, err := s.carts.UpdateCart(ctx, userID, func(cart *models.Cart) error {
		item := cart.FindItem(itemID)
		if item == nil {
			return fmt.Errorf("cart item %s: %w", itemID, models.ErrNotFound)
		}
		if quantity < 1 {
			cart.RemoveItem(itemID)
		} else {
			item.Quantity = quantity
		}
		return s.recomputeTotal(ctx, cart)
	})
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			util.CartMutationsFailed.WithLabelValues("unknown_item").Inc()
		}
		return nil, err
	}

	util.CartMutationsTotal.WithLabelValues("update").Inc()
	return cart, nil
}

// RemoveItem deletes a cart item
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) (*models.Cart, error) {
	ctx, span := util.StartSpan(ctx, "CartService.RemoveItem")
	defer span.End()

	cart, err := s.carts.UpdateCart(ctx, userID, func(cart *models.Cart) error {
		if !cart.RemoveItem(itemID) {
			return fmt.Errorf("cart item %s: %w", itemID, models.ErrNotFound)
		}
		return s.recomputeTotal(ctx, cart)
	})
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			util.CartMutationsFailed.WithLabelValues("unknown_item").Inc()
		}
		return nil, err
	}

	util.CartMutationsTotal.WithLabelValues("remove").Inc()
	return cart, nil
}

// Clear empties the cart and zeroes its total
func (s *CartService) Clear(ctx context.Context, userID string) error {
	ctx, span := util.StartSpan(ctx, "CartService.Clear")
	defer span.End()

	_, err := s.carts.UpdateCart(ctx, userID, func(cart *models.Cart) error {
		cart.Items = nil
		cart.Total = 0
		return nil
	})
	if err != nil {
		return err
	}

	util.CartMutationsTotal.WithLabelValues("clear").Inc()
	return nil
}

// recomputeTotal resolves every item's current catalog price, sums
// price × quantity, and attaches the resolved product views. An item whose
// product no longer resolves is a data-integrity error.
func (s *CartService) recomputeTotal(ctx context.Context, cart *models.Cart) error {
	var total float64
	for i := range cart.Items {
		item := &cart.Items[i]
		product, err := s.catalog.GetProductByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return fmt.Errorf("cart references unresolvable product %d: %w",
					item.ProductID, models.ErrInconsistent)
			}
			return err
		}
		item.Product = product
		total += product.Price * float64(item.Quantity)
	}
	cart.Total = total
	return nil
}

// attachProducts resolves product views for display on reads. A product
// missing from the catalog leaves the view nil rather than failing the read.
func (s *CartService) attachProducts(ctx context.Context, cart *models.Cart) error {
	for i := range cart.Items {
		item := &cart.Items[i]
		product, err := s.catalog.GetProductByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				s.logger.Warn("Cart item references missing product",
					zap.String("user_id", cart.UserID),
					zap.Int64("product_id", item.ProductID))
				continue
			}
			return err
		}
		item.Product = product
	}
	return nil
}
