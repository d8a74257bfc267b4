package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"delivery-system/internal/auth"
	"delivery-system/internal/cart"
	"delivery-system/internal/checkout"
	"delivery-system/internal/order"
	"delivery-system/internal/pricing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{auth.ErrAuthenticationFailed, http.StatusUnauthorized},
		{fmt.Errorf("wrapped: %w", auth.ErrPermissionDenied), http.StatusForbidden},
		{auth.ErrDuplicateAccount, http.StatusConflict},
		{cart.ErrInvalidSelection, http.StatusBadRequest},
		{cart.ErrIndexOutOfRange, http.StatusNotFound},
		{checkout.ErrEmptyCartCheckout, http.StatusUnprocessableEntity},
		{checkout.ErrRestaurantClosed, http.StatusConflict},
		{pricing.ErrBelowMinimumOrder, http.StatusUnprocessableEntity},
		{&pricing.CouponRejectedError{Code: "X", Reason: pricing.ReasonExpired}, http.StatusUnprocessableEntity},
		{order.ErrIllegalTransition, http.StatusConflict},
		{order.ErrNotFound, http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondError(c, &pricing.CouponRejectedError{Code: "PIZZA10", Reason: pricing.ReasonExpired})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body struct {
		Success bool                        `json:"success"`
		Data    pricing.CouponRejectedError `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, pricing.ReasonExpired, body.Data.Reason)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	respondError(c, errors.New("pq: connection reset"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "pq:")
}
