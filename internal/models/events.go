package models

import "time"

// Event types
const (
	EventTypeOrderPlaced = "ORDER_PLACED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderPlacedEvent published after an order is durably stored
type OrderPlacedEvent struct {
	BaseEvent
	OrderID      string       `json:"order_id"`
	UserID       string       `json:"user_id"`
	CustomerInfo CustomerInfo `json:"customer_info"`
	Items        []OrderItem  `json:"items"`
	Total        float64      `json:"total"`
}
