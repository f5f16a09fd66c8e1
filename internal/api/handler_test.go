package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Nihaar75858/Cartify/internal/models"
	"github.com/Nihaar75858/Cartify/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Minimal in-memory stores backing the handlers under test. The cart
// store keeps Items non-nil like the real store, so response shapes
// match what the database-backed service produces.

type stubCatalog struct {
	products map[int64]*models.Product
}

func (s *stubCatalog) ListInStock(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	for _, p := range s.products {
		if p.InStock {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *stubCatalog) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, models.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

type stubCartStore struct {
	mu    sync.Mutex
	carts map[string]*models.Cart
}

func (s *stubCartStore) getOrCreate(userID string) *models.Cart {
	cart, ok := s.carts[userID]
	if !ok {
		cart = &models.Cart{UserID: userID, Items: []models.CartItem{}}
		s.carts[userID] = cart
	}
	return cart
}

func (s *stubCartStore) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *s.getOrCreate(userID)
	cp.Items = append([]models.CartItem{}, cp.Items...)
	return &cp, nil
}

func (s *stubCartStore) UpdateCart(ctx context.Context, userID string, mutate func(cart *models.Cart) error) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	working := *s.getOrCreate(userID)
	working.Items = append([]models.CartItem{}, working.Items...)
	if err := mutate(&working); err != nil {
		return nil, err
	}
	if working.Items == nil {
		working.Items = []models.CartItem{}
	}
	stored := working
	stored.Items = append([]models.CartItem{}, working.Items...)
	s.carts[userID] = &stored
	return &working, nil
}

type stubOrderStore struct {
	mu     sync.Mutex
	orders map[string]*models.Order
}

func (s *stubOrderStore) CreateOrder(ctx context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.orders[order.OrderID]; exists {
		return fmt.Errorf("duplicate order code %s", order.OrderID)
	}
	s.orders[order.OrderID] = order
	return nil
}

func (s *stubOrderStore) OrderCodeExists(ctx context.Context, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.orders[code]
	return exists, nil
}

func (s *stubOrderStore) GetOrderByCode(ctx context.Context, code string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[code]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", code, models.ErrNotFound)
	}
	return order, nil
}

type stubPublisher struct{}

func (s *stubPublisher) PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	return nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog := &stubCatalog{products: map[int64]*models.Product{
		1: {ID: 1, Name: "Mug", Price: 9.99, InStock: true},
	}}
	carts := &stubCartStore{carts: make(map[string]*models.Cart)}
	orders := &stubOrderStore{orders: make(map[string]*models.Order)}

	cartService := service.NewCartService(catalog, carts)
	catalogService := service.NewCatalogService(catalog, nil, time.Minute)
	checkoutService := service.NewCheckoutService(orders, cartService, &stubPublisher{})

	router := gin.New()
	handler := NewHandler(catalogService, cartService, checkoutService, "User-123")
	handler.SetupRoutes(router)
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetCartEmptyCartSerializesAsEmptyArray(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/cart", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[],"total":0}`, w.Body.String())
}

func TestAddToCartOmittedQuantityDefaultsToOne(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/cart", `{"productId":1}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Cart struct {
			Items []models.CartItem `json:"items"`
			Total float64           `json:"total"`
		} `json:"cart"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Cart.Items, 1)
	assert.Equal(t, 1, resp.Cart.Items[0].Quantity)
	assert.InDelta(t, 9.99, resp.Cart.Total, 1e-9)
}

func TestAddToCartExplicitZeroQuantityRejected(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/cart", `{"productId":1,"quantity":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// cart must be untouched by the rejected add
	w = doJSON(router, http.MethodGet, "/api/cart", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[],"total":0}`, w.Body.String())
}

func TestAddToCartUnknownProductIs404(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/cart", `{"productId":999}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRemoveLastItemLeavesEmptyArray(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/cart", `{"productId":1,"quantity":2}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Cart struct {
			Items []models.CartItem `json:"items"`
		} `json:"cart"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Cart.Items, 1)

	w = doJSON(router, http.MethodDelete, "/api/cart/"+resp.Cart.Items[0].ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[],"total":0}`, w.Body.String())
}
