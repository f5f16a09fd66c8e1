package models

import "time"

// Product represents a product in the catalog
type Product struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Price       float64   `db:"price" json:"price"`
	InStock     bool      `db:"in_stock" json:"inStock"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// CartItem represents one product-quantity pairing in a cart.
// Product is a resolved view attached for responses, never the source of truth.
type CartItem struct {
	ID        string   `db:"id" json:"id"`
	ProductID int64    `db:"product_id" json:"productId"`
	Quantity  int      `db:"quantity" json:"quantity"`
	Product   *Product `db:"-" json:"product,omitempty"`
}

// Cart is the mutable collection of pending items for one user.
// Total is derived from items and catalog prices; it is recomputed on
// every mutation and is never settable on its own.
type Cart struct {
	ID        int64      `db:"id" json:"-"`
	UserID    string     `db:"user_id" json:"userId"`
	Items     []CartItem `db:"-" json:"items"`
	Total     float64    `db:"total" json:"total"`
	CreatedAt time.Time  `db:"created_at" json:"-"`
	UpdatedAt time.Time  `db:"updated_at" json:"-"`
}

// FindItem returns the cart item with the given id, or nil
func (c *Cart) FindItem(itemID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i]
		}
	}
	return nil
}

// FindItemByProduct returns the cart item holding the given product, or nil
func (c *Cart) FindItemByProduct(productID int64) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// RemoveItem deletes the item with the given id, reporting whether it existed
func (c *Cart) RemoveItem(itemID string) bool {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// CustomerInfo identifies the customer on an order
type CustomerInfo struct {
	Name  string `db:"customer_name" json:"name"`
	Email string `db:"customer_email" json:"email"`
}

// Order is an immutable record of a completed checkout. Item prices are
// snapshots taken at checkout time, so later catalog edits never touch
// historical orders.
type Order struct {
	ID           int64        `db:"id" json:"-"`
	OrderID      string       `db:"order_code" json:"orderId"`
	CustomerInfo CustomerInfo `db:"-" json:"customerInfo"`
	Items        []OrderItem  `db:"-" json:"items"`
	Total        float64      `db:"total" json:"total"`
	Timestamp    time.Time    `db:"created_at" json:"timestamp"`
}

// OrderItem is one snapshot line on an order
type OrderItem struct {
	ID       int64   `db:"id" json:"-"`
	OrderID  int64   `db:"order_id" json:"-"`
	Name     string  `db:"name" json:"name"`
	Price    float64 `db:"price" json:"price"`
	Quantity int     `db:"quantity" json:"quantity"`
	Subtotal float64 `db:"subtotal" json:"subtotal"`
}
