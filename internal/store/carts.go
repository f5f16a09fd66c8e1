package store

import (
	"context"
	"fmt"

	"github.com/Nihaar75858/Cartify/internal/models"

	"github.com/jmoiron/sqlx"
)

// GetCart retrieves the cart for a user, creating an empty one if absent
func (s *Store) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO carts (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure cart: %w", err)
	}

	var cart models.Cart
	if err := s.db.GetContext(ctx, &cart, "SELECT * FROM carts WHERE user_id = $1", userID); err != nil {
		return nil, err
	}

	items, err := loadCartItems(ctx, s.db, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items

	return &cart, nil
}

// UpdateCart applies mutate to the user's cart as a single transaction.
// The cart row is locked FOR UPDATE for the duration, so concurrent
// mutations of the same cart serialize instead of losing updates.
// The mutated item list and total are persisted before commit.
func (s *Store) UpdateCart(ctx context.Context, userID string, mutate func(cart *models.Cart) error) (*models.Cart, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO carts (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure cart: %w", err)
	}

	var cart models.Cart
	err = tx.GetContext(ctx, &cart, "SELECT * FROM carts WHERE user_id = $1 FOR UPDATE", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock cart: %w", err)
	}

	items, err := loadCartItems(ctx, tx, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items

	if err := mutate(&cart); err != nil {
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM cart_items WHERE cart_id = $1", cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to rewrite cart items: %w", err)
	}

	for pos, item := range cart.Items {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO cart_items (id, cart_id, product_id, quantity, position) VALUES ($1, $2, $3, $4, $5)",
			item.ID, cart.ID, item.ProductID, item.Quantity, pos)
		if err != nil {
			return nil, fmt.Errorf("failed to insert cart item: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE carts SET total = $1, updated_at = NOW() WHERE id = $2", cart.Total, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update cart total: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &cart, nil
}

// loadCartItems always returns a non-nil slice so an empty cart
// serializes as "items": [] rather than null.
func loadCartItems(ctx context.Context, q sqlx.QueryerContext, cartID int64) ([]models.CartItem, error) {
	items := []models.CartItem{}
	err := sqlx.SelectContext(ctx, q, &items,
		"SELECT id, product_id, quantity FROM cart_items WHERE cart_id = $1 ORDER BY position", cartID)
	return items, err
}
