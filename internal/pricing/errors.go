package pricing

import (
	"errors"
	"fmt"
)

var (
	ErrCouponRejected    = errors.New("coupon rejected")
	ErrInvalidCoupon     = errors.New("invalid coupon")
	ErrBelowMinimumOrder = errors.New("subtotal below restaurant minimum order")
)

// Reason explains why a coupon could not be applied.
type Reason string

const (
	ReasonNotFound          Reason = "not-found"
	ReasonInactive          Reason = "inactive"
	ReasonNotYetValid       Reason = "not-yet-valid"
	ReasonExpired           Reason = "expired"
	ReasonBelowMinimum      Reason = "below-minimum"
	ReasonUsageLimitReached Reason = "usage-limit-reached"
	ReasonWrongRestaurant   Reason = "wrong-restaurant"
)

type CouponRejectedError struct {
	Code   string `json:"code"`
	Reason Reason `json:"reason"`
}

func (e *CouponRejectedError) Error() string {
	return fmt.Sprintf("coupon %q rejected: %s", e.Code, e.Reason)
}

func (e *CouponRejectedError) Is(target error) bool {
	return target == ErrCouponRejected
}

func reject(code string, reason Reason) *CouponRejectedError {
	return &CouponRejectedError{Code: code, Reason: reason}
}
