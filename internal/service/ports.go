package service

import (
	"context"

	"github.com/Nihaar75858/Cartify/internal/models"
)

// CatalogStore is the read-only product collection the engines consult
type CatalogStore interface {
	ListInStock(ctx context.Context) ([]models.Product, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
}

// CartStore persists carts keyed by user id. UpdateCart must apply mutate
// as an atomic read-modify-write so concurrent mutations of one cart
// serialize; the mutated cart is persisted before UpdateCart returns.
type CartStore interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	UpdateCart(ctx context.Context, userID string, mutate func(cart *models.Cart) error) (*models.Cart, error)
}

// OrderStore is the append-only record of completed orders. CreateOrder
// must reject a duplicate order code, never overwrite.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	OrderCodeExists(ctx context.Context, code string) (bool, error)
	GetOrderByCode(ctx context.Context, code string) (*models.Order, error)
}

// EventPublisher publishes domain events after state changes
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error
}
