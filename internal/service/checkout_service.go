package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Nihaar75858/Cartify/internal/models"
	"github.com/Nihaar75858/Cartify/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// orderCodeAttempts bounds regeneration when a generated code is already
// taken. Codes carry 32 bits of entropy, so consecutive collisions are
// vanishingly unlikely; the unique constraint on order_code is the backstop.
const orderCodeAttempts = 5

// CheckoutService converts a cart snapshot into a durable order
type CheckoutService struct {
	orders    OrderStore
	carts     *CartService
	publisher EventPublisher
	logger    *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(orders OrderStore, carts *CartService, publisher EventPublisher) *CheckoutService {
	return &CheckoutService{
		orders:    orders,
		carts:     carts,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// CheckoutRequest carries the client's cart snapshot and customer info
type CheckoutRequest struct {
	CartItems    []SnapshotItem      `json:"cartItems"`
	CustomerInfo models.CustomerInfo `json:"customerInfo"`
}

// SnapshotItem is one cart line as the client saw it, with the product
// view embedded
type SnapshotItem struct {
	Product  ProductView `json:"product"`
	Quantity int         `json:"quantity"`
}

// ProductView is the name/price pair snapshotted onto order items
type ProductView struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Checkout validates the snapshot, persists an immutable order, publishes
// an OrderPlaced event, and clears the user's cart.
//
// Line prices come from the client-supplied snapshot and are not
// re-resolved against the catalog; historical orders stay decoupled from
// later catalog edits, at the cost of trusting the caller's price data.
//
// The order's durability is the success signal: once it is stored, a
// failure to publish the event or clear the cart is logged and tolerated,
// and the stale cart is cleared on a later mutation.
func (s *CheckoutService) Checkout(ctx context.Context, userID string, req *CheckoutRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.Checkout")
	defer span.End()

	if len(req.CartItems) == 0 {
		util.CheckoutsFailedTotal.WithLabelValues("empty_cart").Inc()
		return nil, fmt.Errorf("cart is empty: %w", models.ErrInvalidArgument)
	}
	if req.CustomerInfo.Name == "" || req.CustomerInfo.Email == "" {
		util.CheckoutsFailedTotal.WithLabelValues("missing_customer_info").Inc()
		return nil, fmt.Errorf("customer name and email are required: %w", models.ErrInvalidArgument)
	}

	items := make([]models.OrderItem, 0, len(req.CartItems))
	var total float64
	for _, snap := range req.CartItems {
		subtotal := snap.Product.Price * float64(snap.Quantity)
		items = append(items, models.OrderItem{
			Name:     snap.Product.Name,
			Price:    snap.Product.Price,
			Quantity: snap.Quantity,
			Subtotal: subtotal,
		})
		total += subtotal
	}

	code, err := s.uniqueOrderCode(ctx)
	if err != nil {
		util.CheckoutsFailedTotal.WithLabelValues("code_generation").Inc()
		return nil, err
	}

	order := &models.Order{
		OrderID:      code,
		CustomerInfo: req.CustomerInfo,
		Items:        items,
		Total:        total,
		Timestamp:    time.Now().UTC(),
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		util.CheckoutsFailedTotal.WithLabelValues("storage").Inc()
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	util.OrdersPlacedTotal.Inc()
	util.OrderValue.Observe(order.Total)
	s.logger.Info("Order placed",
		zap.String("order_id", order.OrderID),
		zap.String("user_id", userID),
		zap.Float64("total", order.Total),
		zap.Int("items", len(order.Items)))

	event := &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: time.Now().UTC(),
		},
		OrderID:      order.OrderID,
		UserID:       userID,
		CustomerInfo: order.CustomerInfo,
		Items:        order.Items,
		Total:        order.Total,
	}
	if err := s.publisher.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderPlaced event",
			zap.String("order_id", order.OrderID), zap.Error(err))
	}

	if err := s.carts.Clear(ctx, userID); err != nil {
		s.logger.Error("Failed to clear cart after checkout",
			zap.String("order_id", order.OrderID),
			zap.String("user_id", userID),
			zap.Error(err))
	}

	return order, nil
}

// GetOrder retrieves a placed order by its code
func (s *CheckoutService) GetOrder(ctx context.Context, code string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.GetOrder")
	defer span.End()

	return s.orders.GetOrderByCode(ctx, code)
}

// uniqueOrderCode generates a short order code and verifies it is unused
// before accepting it
func (s *CheckoutService) uniqueOrderCode(ctx context.Context) (string, error) {
	for i := 0; i < orderCodeAttempts; i++ {
		code := newOrderCode()

		exists, err := s.orders.OrderCodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check order code: %w", err)
		}
		if !exists {
			return code, nil
		}

		util.OrderCodeRetriesTotal.Inc()
		s.logger.Warn("Order code collision, regenerating", zap.String("code", code))
	}
	return "", fmt.Errorf("could not generate a unique order code after %d attempts", orderCodeAttempts)
}

// newOrderCode derives an 8-character uppercase code from a random UUID
func newOrderCode() string {
	return strings.ToUpper(uuid.New().String()[:8])
}
