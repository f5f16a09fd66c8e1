package service

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"testing"

	"github.com/Nihaar75858/Cartify/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderStore struct {
	mu     sync.Mutex
	orders map[string]*models.Order
	nextID int64
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[string]*models.Order)}
}

func (f *fakeOrderStore) CreateOrder(ctx context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.orders[order.OrderID]; exists {
		return fmt.Errorf("duplicate order code %s", order.OrderID)
	}
	f.nextID++
	order.ID = f.nextID
	stored := *order
	stored.Items = append([]models.OrderItem(nil), order.Items...)
	f.orders[order.OrderID] = &stored
	return nil
}

func (f *fakeOrderStore) OrderCodeExists(ctx context.Context, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, exists := f.orders[code]
	return exists, nil
}

func (f *fakeOrderStore) GetOrderByCode(ctx context.Context, code string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[code]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", code, models.ErrNotFound)
	}
	cp := *order
	return &cp, nil
}

func (f *fakeOrderStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []*models.OrderPlacedEvent
}

func (f *fakePublisher) PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func newTestCheckoutService(t *testing.T) (*CheckoutService, *fakeOrderStore, *fakeCartStore, *fakePublisher) {
	t.Helper()
	cartSvc, _, carts := newTestCartService(t)
	orders := newFakeOrderStore()
	publisher := &fakePublisher{}
	return NewCheckoutService(orders, cartSvc, publisher), orders, carts, publisher
}

func snapshotMugAndPen() []SnapshotItem {
	return []SnapshotItem{
		{Product: ProductView{Name: "Mug", Price: 9.99}, Quantity: 2},
		{Product: ProductView{Name: "Pen", Price: 1.50}, Quantity: 3},
	}
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	svc, orders, _, _ := newTestCheckoutService(t)

	_, err := svc.Checkout(context.Background(), testUser, &CheckoutRequest{
		CustomerInfo: models.CustomerInfo{Name: "A", Email: "a@b.com"},
	})

	assert.ErrorIs(t, err, models.ErrInvalidArgument)
	assert.Zero(t, orders.count())
}

func TestCheckoutRejectsMissingCustomerFields(t *testing.T) {
	svc, orders, _, _ := newTestCheckoutService(t)
	ctx := context.Background()

	_, err := svc.Checkout(ctx, testUser, &CheckoutRequest{
		CartItems:    snapshotMugAndPen(),
		CustomerInfo: models.CustomerInfo{Name: "", Email: "a@b.com"},
	})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	_, err = svc.Checkout(ctx, testUser, &CheckoutRequest{
		CartItems:    snapshotMugAndPen(),
		CustomerInfo: models.CustomerInfo{Name: "A", Email: ""},
	})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	assert.Zero(t, orders.count())
}

func TestCheckoutSnapshotsItemsAndClearsCart(t *testing.T) {
	svc, _, _, publisher := newTestCheckoutService(t)
	ctx := context.Background()

	// the cart the user built up before checking out
	_, err := svc.carts.AddItem(ctx, testUser, 1, 2)
	require.NoError(t, err)
	_, err = svc.carts.AddItem(ctx, testUser, 2, 3)
	require.NoError(t, err)

	order, err := svc.Checkout(ctx, testUser, &CheckoutRequest{
		CartItems:    snapshotMugAndPen(),
		CustomerInfo: models.CustomerInfo{Name: "Ada", Email: "ada@example.com"},
	})
	require.NoError(t, err)

	require.Len(t, order.Items, 2)
	assert.Equal(t, "Mug", order.Items[0].Name)
	assert.InDelta(t, 19.98, order.Items[0].Subtotal, 1e-9)
	assert.Equal(t, "Pen", order.Items[1].Name)
	assert.InDelta(t, 4.50, order.Items[1].Subtotal, 1e-9)
	assert.InDelta(t, 24.48, order.Total, 1e-9)
	assert.NotEmpty(t, order.OrderID)
	assert.False(t, order.Timestamp.IsZero())

	cart, err := svc.carts.GetCart(ctx, testUser)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, order.OrderID, publisher.events[0].OrderID)
	assert.Equal(t, models.EventTypeOrderPlaced, publisher.events[0].EventType)
}

func TestCheckoutPricesComeFromSnapshotNotCatalog(t *testing.T) {
	svc, _, _, _ := newTestCheckoutService(t)

	// catalog has Mug at 9.99; the snapshot claims 5.00 and wins
	order, err := svc.Checkout(context.Background(), testUser, &CheckoutRequest{
		CartItems: []SnapshotItem{
			{Product: ProductView{Name: "Mug", Price: 5.00}, Quantity: 1},
		},
		CustomerInfo: models.CustomerInfo{Name: "Ada", Email: "ada@example.com"},
	})
	require.NoError(t, err)

	assert.InDelta(t, 5.00, order.Total, 1e-9)
}

func TestCheckoutSurvivesCartClearFailure(t *testing.T) {
	svc, orders, carts, _ := newTestCheckoutService(t)

	carts.failUpdates = true

	order, err := svc.Checkout(context.Background(), testUser, &CheckoutRequest{
		CartItems:    snapshotMugAndPen(),
		CustomerInfo: models.CustomerInfo{Name: "Ada", Email: "ada@example.com"},
	})

	// the durable order is the success signal; the stale cart is cleared later
	require.NoError(t, err)
	assert.Equal(t, 1, orders.count())

	stored, err := orders.GetOrderByCode(context.Background(), order.OrderID)
	require.NoError(t, err)
	assert.InDelta(t, order.Total, stored.Total, 1e-9)
}

func TestOrderCodesAreUniqueAcrossManyOrders(t *testing.T) {
	svc, orders, _, _ := newTestCheckoutService(t)
	ctx := context.Background()

	const n = 10000
	seen := make(map[string]struct{}, n)
	req := &CheckoutRequest{
		CartItems:    snapshotMugAndPen(),
		CustomerInfo: models.CustomerInfo{Name: "Ada", Email: "ada@example.com"},
	}

	for i := 0; i < n; i++ {
		order, err := svc.Checkout(ctx, testUser, req)
		require.NoError(t, err)

		_, dup := seen[order.OrderID]
		require.False(t, dup, "duplicate order code %s", order.OrderID)
		seen[order.OrderID] = struct{}{}
	}

	assert.Equal(t, n, orders.count())
}

func TestOrderCodeFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9A-F]{8}$`)
	for i := 0; i < 100; i++ {
		code := newOrderCode()
		assert.True(t, pattern.MatchString(code), "unexpected code %q", code)
	}
}

func TestGetOrderByCode(t *testing.T) {
	svc, _, _, _ := newTestCheckoutService(t)
	ctx := context.Background()

	order, err := svc.Checkout(ctx, testUser, &CheckoutRequest{
		CartItems:    snapshotMugAndPen(),
		CustomerInfo: models.CustomerInfo{Name: "Ada", Email: "ada@example.com"},
	})
	require.NoError(t, err)

	fetched, err := svc.GetOrder(ctx, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderID, fetched.OrderID)
	assert.InDelta(t, order.Total, fetched.Total, 1e-9)

	_, err = svc.GetOrder(ctx, "XXXXXXXX")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
