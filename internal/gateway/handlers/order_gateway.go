package handlers

import (
	"net/http"
	"strings"

	"delivery-system/internal/auth"
	"delivery-system/internal/order"

	"github.com/gin-gonic/gin"
)

type OrderHTTPHandler struct {
	orders *order.Lifecycle
}

func NewOrderHTTPHandler(orders *order.Lifecycle) *OrderHTTPHandler {
	return &OrderHTTPHandler{orders: orders}
}

type ListOrdersQuery struct {
	// Status is a comma separated list, e.g. received,preparing.
	Status string `form:"status"`
}

type AdvanceOrderRequest struct {
	Status string `json:"status" binding:"required"`
}

func parseStatuses(raw string) ([]order.Status, error) {
	if raw == "" {
		return nil, nil
	}
	var out []order.Status
	for _, part := range strings.Split(raw, ",") {
		s, err := order.ParseStatus(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// ListOrders returns a client's own orders or an employee's restaurant orders.
func (h *OrderHTTPHandler) ListOrders(c *gin.Context) {
	var query ListOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, "Invalid query parameters")
		return
	}
	statuses, err := parseStatuses(query.Status)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	p := principal(c)
	var orders []order.Order
	switch {
	case p.Can(auth.PermReadOwnOrders):
		orders, err = h.orders.ListForCustomer(c.Request.Context(), p, statuses...)
	case p.Can(auth.PermReadRestaurantOrders):
		orders, err = h.orders.ListForRestaurant(c.Request.Context(), p, statuses...)
	default:
		err = auth.ErrPermissionDenied
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successWithMetaResponse("Orders retrieved successfully", orders, ListMeta{Total: len(orders)}))
}

func (h *OrderHTTPHandler) GetOrder(c *gin.Context) {
	o, err := h.orders.Get(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Order retrieved successfully", o))
}

func (h *OrderHTTPHandler) AdvanceOrder(c *gin.Context) {
	var req AdvanceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	target, err := order.ParseStatus(req.Status)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	o, err := h.orders.Advance(c.Request.Context(), principal(c), c.Param("id"), target)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Order status updated", o))
}
