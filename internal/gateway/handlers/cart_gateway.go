package handlers

import (
	"net/http"

	"delivery-system/internal/cart"
	"delivery-system/internal/catalog"
	"delivery-system/internal/checkout"
	"delivery-system/internal/order"
	"delivery-system/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CartHTTPHandler drives the session cart and checkout. Every mutation is
// persisted through the registry.
type CartHTTPHandler struct {
	catalog  *catalog.Catalog
	checkout *checkout.Service
	sessions *session.Registry
}

func NewCartHTTPHandler(cat *catalog.Catalog, co *checkout.Service, sessions *session.Registry) *CartHTTPHandler {
	return &CartHTTPHandler{
		catalog:  cat,
		checkout: co,
		sessions: sessions,
	}
}

type AddItemRequest struct {
	ProductID   string   `json:"product_id" binding:"required"`
	VariationID string   `json:"variation_id" binding:"required"`
	AddonIDs    []string `json:"addon_ids"`
	Quantity    int      `json:"quantity" binding:"required"`
}

type UpdateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type QuoteQuery struct {
	Coupon string `form:"coupon"`
}

type CheckoutRequest struct {
	Address       order.Address `json:"delivery_address"`
	PaymentMethod string        `json:"payment_method" binding:"required"`
	CouponCode    string        `json:"coupon_code"`
	Observations  string        `json:"observations"`
}

type cartView struct {
	RestaurantID string          `json:"restaurant_id,omitempty"`
	Items        cart.Lines      `json:"items"`
	ItemCount    int             `json:"item_count"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

func viewCart(c *cart.Cart) cartView {
	lines := cart.Lines(c.Lines())
	return cartView{
		RestaurantID: lines.RestaurantID(),
		Items:        lines,
		ItemCount:    c.ItemCount(),
		Subtotal:     lines.Subtotal(),
	}
}

func (h *CartHTTPHandler) sessionCart(c *gin.Context) (*session.Session, *cart.Cart, bool) {
	s, ok := currentSession(c)
	if !ok {
		return nil, nil, false
	}
	sc, err := s.Cart()
	if err != nil {
		respondError(c, err)
		return nil, nil, false
	}
	return s, sc, true
}

func (h *CartHTTPHandler) GetCart(c *gin.Context) {
	_, sc, ok := h.sessionCart(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, successResponse("Cart retrieved successfully", viewCart(sc)))
}

func (h *CartHTTPHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	s, sc, ok := h.sessionCart(c)
	if !ok {
		return
	}

	p, err := h.catalog.Product(req.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}
	addons := make([]catalog.Addon, 0, len(req.AddonIDs))
	for _, id := range req.AddonIDs {
		addons = append(addons, catalog.Addon{ID: id})
	}
	if _, err := sc.AddItem(p, catalog.Variation{ID: req.VariationID}, addons, req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	h.sessions.Persist(c.Request.Context(), s)
	c.JSON(http.StatusCreated, successResponse("Item added to cart", viewCart(sc)))
}

func (h *CartHTTPHandler) UpdateItem(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	s, sc, ok := h.sessionCart(c)
	if !ok {
		return
	}
	if err := sc.UpdateQuantity(index, *req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	h.sessions.Persist(c.Request.Context(), s)
	c.JSON(http.StatusOK, successResponse("Cart updated", viewCart(sc)))
}

func (h *CartHTTPHandler) RemoveItem(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	s, sc, ok := h.sessionCart(c)
	if !ok {
		return
	}
	if err := sc.RemoveItem(index); err != nil {
		respondError(c, err)
		return
	}
	h.sessions.Persist(c.Request.Context(), s)
	c.JSON(http.StatusOK, successResponse("Item removed from cart", viewCart(sc)))
}

func (h *CartHTTPHandler) ClearCart(c *gin.Context) {
	s, sc, ok := h.sessionCart(c)
	if !ok {
		return
	}
	sc.Clear()
	h.sessions.Persist(c.Request.Context(), s)
	c.JSON(http.StatusOK, successResponse("Cart cleared", viewCart(sc)))
}

func (h *CartHTTPHandler) Quote(c *gin.Context) {
	var query QuoteQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, "Invalid query parameters")
		return
	}
	s, ok := currentSession(c)
	if !ok {
		return
	}
	q, err := h.checkout.Quote(s, query.Coupon)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Cart priced", q))
}

func (h *CartHTTPHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	s, ok := currentSession(c)
	if !ok {
		return
	}

	o, err := h.checkout.Checkout(c.Request.Context(), s, checkout.Request{
		Address:       req.Address,
		PaymentMethod: order.PaymentMethod(req.PaymentMethod),
		CouponCode:    req.CouponCode,
		Observations:  req.Observations,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	h.sessions.Persist(c.Request.Context(), s)
	c.JSON(http.StatusCreated, successResponse("Order placed", o))
}
