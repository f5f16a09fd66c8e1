package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Nihaar75858/Cartify/internal/models"
	"github.com/Nihaar75858/Cartify/internal/service"
	"github.com/Nihaar75858/Cartify/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler contains HTTP handlers
type Handler struct {
	catalogService  *service.CatalogService
	cartService     *service.CartService
	checkoutService *service.CheckoutService
	cartUserID      string
}

// NewHandler creates a new HTTP handler. cartUserID is the fixed identity
// this deployment serves; the engines themselves are keyed by user id.
func NewHandler(
	catalogService *service.CatalogService,
	cartService *service.CartService,
	checkoutService *service.CheckoutService,
	cartUserID string,
) *Handler {
	return &Handler{
		catalogService:  catalogService,
		cartService:     cartService,
		checkoutService: checkoutService,
		cartUserID:      cartUserID,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/", h.apiIndex)
	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/products", h.listProducts)
		api.GET("/cart", h.getCart)
		api.POST("/cart", h.addToCart)
		api.PUT("/cart/:id", h.updateCartItem)
		api.DELETE("/cart/:id", h.removeCartItem)
		api.POST("/checkout", h.checkout)
		api.GET("/orders/:code", h.getOrder)
	}
}

// apiIndex lists the available endpoints
func (h *Handler) apiIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Cartify API",
		"endpoints": gin.H{
			"products":       "GET /api/products",
			"cart":           "GET /api/cart",
			"addToCart":      "POST /api/cart",
			"updateCart":     "PUT /api/cart/:id",
			"removeFromCart": "DELETE /api/cart/:id",
			"checkout":       "POST /api/checkout",
			"order":          "GET /api/orders/:code",
		},
	})
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// listProducts returns all in-stock products
func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.catalogService.ListInStock(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, products)
}

// getCart returns the current cart, creating an empty one on first access
func (h *Handler) getCart(c *gin.Context) {
	cart, err := h.cartService.GetCart(c.Request.Context(), h.cartUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": cart.Items,
		"total": cart.Total,
	})
}

type addToCartRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  *int  `json:"quantity"`
}

// addToCart adds a product to the cart. An omitted quantity defaults to 1;
// an explicit quantity below 1 is rejected by the engine.
func (h *Handler) addToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product ID is required"})
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), h.cartUserID, req.ProductID, quantity)
	if err != nil {
		h.renderError(c, err, "Failed to add item to cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart",
		"cart": gin.H{
			"items": cart.Items,
			"total": cart.Total,
		},
	})
}

type updateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// updateCartItem sets a cart item's quantity; below 1 removes the item
func (h *Handler) updateCartItem(c *gin.Context) {
	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity is required"})
		return
	}

	cart, err := h.cartService.UpdateQuantity(c.Request.Context(), h.cartUserID, c.Param("id"), *req.Quantity)
	if err != nil {
		h.renderError(c, err, "Failed to update cart item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": cart.Items,
		"total": cart.Total,
	})
}

// removeCartItem deletes a cart item
func (h *Handler) removeCartItem(c *gin.Context) {
	cart, err := h.cartService.RemoveItem(c.Request.Context(), h.cartUserID, c.Param("id"))
	if err != nil {
		h.renderError(c, err, "Failed to remove cart item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": cart.Items,
		"total": cart.Total,
	})
}

// checkout converts the submitted cart snapshot into an order
func (h *Handler) checkout(c *gin.Context) {
	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	order, err := h.checkoutService.Checkout(c.Request.Context(), h.cartUserID, &req)
	if err != nil {
		h.renderError(c, err, "Checkout failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orderId":      order.OrderID,
		"customerInfo": order.CustomerInfo,
		"items":        order.Items,
		"total":        order.Total,
		"timestamp":    order.Timestamp,
		"message":      "Order placed successfully!",
	})
}

// getOrder returns a placed order by its code
func (h *Handler) getOrder(c *gin.Context) {
	order, err := h.checkoutService.GetOrder(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.renderError(c, err, "Failed to fetch order")
		return
	}

	c.JSON(http.StatusOK, order)
}

// renderError maps core errors onto HTTP statuses: InvalidArgument is a
// 400, NotFound a 404, everything else (storage, Inconsistent) a 500.
func (h *Handler) renderError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, models.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		util.GetLogger().Error(fallback, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
