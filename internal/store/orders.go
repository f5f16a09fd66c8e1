package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Nihaar75858/Cartify/internal/models"
)

// CreateOrder appends a completed order with its item snapshots.
// The unique constraint on order_code rejects a colliding code rather
// than overwriting an existing order.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (order_code, customer_name, customer_email, total, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err = tx.GetContext(ctx, &order.ID, query,
		order.OrderID, order.CustomerInfo.Name, order.CustomerInfo.Email, order.Total, order.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID

		err = tx.GetContext(ctx, &item.ID, `
			INSERT INTO order_items (order_id, name, price, quantity, subtotal)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			item.OrderID, item.Name, item.Price, item.Quantity, item.Subtotal)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return tx.Commit()
}

// OrderCodeExists reports whether an order already uses the given code
func (s *Store) OrderCodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM orders WHERE order_code = $1)", code)
	return exists, err
}

// GetOrderByCode retrieves an order and its items by order code
func (s *Store) GetOrderByCode(ctx context.Context, code string) (*models.Order, error) {
	row := struct {
		ID            int64     `db:"id"`
		OrderCode     string    `db:"order_code"`
		CustomerName  string    `db:"customer_name"`
		CustomerEmail string    `db:"customer_email"`
		Total         float64   `db:"total"`
		CreatedAt     time.Time `db:"created_at"`
	}{}

	err := s.db.GetContext(ctx, &row, "SELECT * FROM orders WHERE order_code = $1", code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %s: %w", code, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:      row.ID,
		OrderID: row.OrderCode,
		CustomerInfo: models.CustomerInfo{
			Name:  row.CustomerName,
			Email: row.CustomerEmail,
		},
		Total:     row.Total,
		Timestamp: row.CreatedAt,
	}

	err = s.db.SelectContext(ctx, &order.Items,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", order.ID)
	if err != nil {
		return nil, err
	}

	return order, nil
}
