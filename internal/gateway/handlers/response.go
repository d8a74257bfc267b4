package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"delivery-system/internal/auth"
	"delivery-system/internal/cart"
	"delivery-system/internal/catalog"
	"delivery-system/internal/checkout"
	"delivery-system/internal/gateway/middleware"
	"delivery-system/internal/order"
	"delivery-system/internal/pricing"
	"delivery-system/internal/session"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

func successResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func errorResponse(message string) APIResponse {
	return APIResponse{
		Success: false,
		Message: message,
	}
}

func successWithMetaResponse(message string, data interface{}, meta interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	}
}

type ListMeta struct {
	Total int `json:"total"`
}

var statusByError = []struct {
	err    error
	status int
}{
	{auth.ErrAuthenticationFailed, http.StatusUnauthorized},
	{auth.ErrNotAuthenticated, http.StatusUnauthorized},
	{auth.ErrPermissionDenied, http.StatusForbidden},
	{auth.ErrDuplicateAccount, http.StatusConflict},
	{auth.ErrWeakPassword, http.StatusBadRequest},
	{auth.ErrAccountNotFound, http.StatusNotFound},
	{session.ErrSessionNotFound, http.StatusUnauthorized},
	{catalog.ErrNotFound, http.StatusNotFound},
	{catalog.ErrInvalidProduct, http.StatusBadRequest},
	{catalog.ErrInvalidCategory, http.StatusBadRequest},
	{catalog.ErrInvalidRestaurant, http.StatusBadRequest},
	{catalog.ErrInvalidBusinessHours, http.StatusBadRequest},
	{catalog.ErrInsufficientStock, http.StatusConflict},
	{cart.ErrInvalidSelection, http.StatusBadRequest},
	{cart.ErrIndexOutOfRange, http.StatusNotFound},
	{pricing.ErrInvalidCoupon, http.StatusBadRequest},
	{pricing.ErrCouponRejected, http.StatusUnprocessableEntity},
	{pricing.ErrBelowMinimumOrder, http.StatusUnprocessableEntity},
	{checkout.ErrEmptyCartCheckout, http.StatusUnprocessableEntity},
	{checkout.ErrRestaurantClosed, http.StatusConflict},
	{order.ErrNotFound, http.StatusNotFound},
	{order.ErrInvalidOrder, http.StatusBadRequest},
	{order.ErrIllegalTransition, http.StatusConflict},
	{order.ErrVersionConflict, http.StatusConflict},
}

func statusFor(err error) int {
	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// respondError writes the failure envelope. Coupon rejections carry the
// reason as data so clients can explain it.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, errorResponse("Internal server error"))
		return
	}
	resp := errorResponse(err.Error())
	var rejected *pricing.CouponRejectedError
	if errors.As(err, &rejected) {
		resp.Data = rejected
	}
	c.JSON(status, resp)
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, errorResponse(message))
}

// principal is only called behind JWTAuth.
func principal(c *gin.Context) auth.Principal {
	p, _ := middleware.CurrentPrincipal(c)
	return p
}

func currentSession(c *gin.Context) (*session.Session, bool) {
	s, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("Not authenticated"))
	}
	return s, ok
}

func indexParam(c *gin.Context) (int, bool) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		badRequest(c, "Invalid item index")
		return 0, false
	}
	return i, true
}
