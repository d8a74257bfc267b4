package pricing

import (
	"fmt"
	"time"

	"delivery-system/internal/catalog"

	"github.com/shopspring/decimal"
)

// Subtotaler is anything with a subtotal, typically a *cart.Cart.
type Subtotaler interface {
	Subtotal() decimal.Decimal
}

// Quote is the priced breakdown of a cart. Total is always
// Subtotal + DeliveryFee - Discount, floored at zero.
type Quote struct {
	Subtotal     decimal.Decimal      `json:"subtotal"`
	DeliveryFee  decimal.Decimal      `json:"delivery_fee"`
	Discount     decimal.Decimal      `json:"discount"`
	Total        decimal.Decimal      `json:"total"`
	CouponCode   string               `json:"coupon_code,omitempty"`
	MinimumOrder *decimal.Decimal     `json:"minimum_order,omitempty"`
	MeetsMinimum bool                 `json:"meets_minimum"`
	Rejection    *CouponRejectedError `json:"coupon_rejection,omitempty"`
}

// CheckoutAllowed returns ErrBelowMinimumOrder when the subtotal is under the
// restaurant minimum. Below the minimum checkout is blocked, the fee is never waived.
func (q Quote) CheckoutAllowed() error {
	if !q.MeetsMinimum {
		return fmt.Errorf("%w: subtotal %s, minimum %s", ErrBelowMinimumOrder, q.Subtotal.StringFixed(2), q.MinimumOrder.StringFixed(2))
	}
	return nil
}

// Applied reports whether a coupon contributed a discount.
func (q Quote) Applied() bool {
	return q.CouponCode != "" && q.Rejection == nil
}

type Resolver struct {
	coupons *CouponBook
	now     func() time.Time
}

// NewResolver builds a resolver. coupons may be nil when codes are never resolved.
func NewResolver(coupons *CouponBook, now func() time.Time) *Resolver {
	if now == nil {
		now = time.Now
	}
	return &Resolver{coupons: coupons, now: now}
}

// Compute prices a cart for restaurant with an optional coupon. A coupon that
// does not apply yields zero discount and is reported in Quote.Rejection.
func (r *Resolver) Compute(c Subtotaler, restaurant catalog.Restaurant, coupon *Coupon) Quote {
	subtotal := c.Subtotal()
	q := Quote{
		Subtotal:     subtotal,
		DeliveryFee:  restaurant.DeliveryFee,
		Discount:     decimal.Zero,
		MinimumOrder: restaurant.MinimumOrder,
		MeetsMinimum: restaurant.MeetsMinimum(subtotal),
	}

	if coupon != nil {
		q.CouponCode = NormalizeCode(coupon.Code)
		if rej := coupon.rejection(subtotal, restaurant.ID, r.now()); rej != nil {
			q.Rejection = rej
		} else {
			q.Discount = coupon.Discount(subtotal)
		}
	}

	q.Total = subtotal.Add(q.DeliveryFee).Sub(q.Discount)
	if q.Total.IsNegative() {
		q.Total = decimal.Zero
	}
	return q
}

// ComputeCode resolves code through the coupon book first; an empty code means
// no coupon.
func (r *Resolver) ComputeCode(c Subtotaler, restaurant catalog.Restaurant, code string) Quote {
	norm := NormalizeCode(code)
	if norm == "" {
		return r.Compute(c, restaurant, nil)
	}
	if r.coupons != nil {
		if coupon, err := r.coupons.Lookup(norm); err == nil {
			return r.Compute(c, restaurant, &coupon)
		}
	}
	q := r.Compute(c, restaurant, nil)
	q.CouponCode = norm
	q.Rejection = reject(norm, ReasonNotFound)
	return q
}
