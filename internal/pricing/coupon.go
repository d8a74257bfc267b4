package pricing

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	Percentage DiscountType = "percentage"
	Fixed      DiscountType = "fixed"
)

var hundred = decimal.NewFromInt(100)

type Coupon struct {
	ID            string           `json:"id"`
	Code          string           `json:"code"`
	Description   string           `json:"description,omitempty"`
	Type          DiscountType     `json:"type"`
	Value         decimal.Decimal  `json:"value"`
	MinOrderValue decimal.Decimal  `json:"min_order_value"`
	MaxDiscount   *decimal.Decimal `json:"max_discount,omitempty"`
	ValidFrom     time.Time        `json:"valid_from"`
	ValidUntil    time.Time        `json:"valid_until"`
	IsActive      bool             `json:"is_active"`
	UsageLimit    *int             `json:"usage_limit,omitempty"`
	UsageCount    int              `json:"usage_count"`
	RestaurantID  string           `json:"restaurant_id,omitempty"`
}

// NormalizeCode is the canonical form codes are stored and looked up by.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (c Coupon) Validate() error {
	if NormalizeCode(c.Code) == "" {
		return fmt.Errorf("%w: code is required", ErrInvalidCoupon)
	}
	switch c.Type {
	case Percentage:
		if !c.Value.IsPositive() || c.Value.GreaterThan(hundred) {
			return fmt.Errorf("%w: percentage %s must be in (0,100]", ErrInvalidCoupon, c.Value)
		}
	case Fixed:
		if !c.Value.IsPositive() {
			return fmt.Errorf("%w: fixed value %s must be positive", ErrInvalidCoupon, c.Value)
		}
	default:
		return fmt.Errorf("%w: unknown discount type %q", ErrInvalidCoupon, c.Type)
	}
	if c.MinOrderValue.IsNegative() {
		return fmt.Errorf("%w: negative minimum order value", ErrInvalidCoupon)
	}
	if c.MaxDiscount != nil && c.MaxDiscount.IsNegative() {
		return fmt.Errorf("%w: negative max discount", ErrInvalidCoupon)
	}
	if !c.ValidFrom.IsZero() && !c.ValidUntil.IsZero() && c.ValidUntil.Before(c.ValidFrom) {
		return fmt.Errorf("%w: validity window ends before it starts", ErrInvalidCoupon)
	}
	if c.UsageLimit != nil && *c.UsageLimit < 0 {
		return fmt.Errorf("%w: negative usage limit", ErrInvalidCoupon)
	}
	return nil
}

// Check reports why the coupon cannot be applied to subtotal at now, or nil.
// An empty restaurantID skips restaurant scoping.
func (c Coupon) Check(subtotal decimal.Decimal, restaurantID string, now time.Time) error {
	if rej := c.rejection(subtotal, restaurantID, now); rej != nil {
		return rej
	}
	return nil
}

func (c Coupon) rejection(subtotal decimal.Decimal, restaurantID string, now time.Time) *CouponRejectedError {
	switch {
	case !c.IsActive:
		return reject(c.Code, ReasonInactive)
	case !c.ValidFrom.IsZero() && now.Before(c.ValidFrom):
		return reject(c.Code, ReasonNotYetValid)
	case !c.ValidUntil.IsZero() && now.After(c.ValidUntil):
		return reject(c.Code, ReasonExpired)
	case c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit:
		return reject(c.Code, ReasonUsageLimitReached)
	case c.RestaurantID != "" && restaurantID != "" && c.RestaurantID != restaurantID:
		return reject(c.Code, ReasonWrongRestaurant)
	case subtotal.LessThan(c.MinOrderValue):
		return reject(c.Code, ReasonBelowMinimum)
	}
	return nil
}

// Discount is the amount taken off subtotal, rounded to centavos. Percentage
// discounts are capped by MaxDiscount; fixed discounts never exceed subtotal.
func (c Coupon) Discount(subtotal decimal.Decimal) decimal.Decimal {
	if !subtotal.IsPositive() {
		return decimal.Zero
	}
	var d decimal.Decimal
	switch c.Type {
	case Percentage:
		d = subtotal.Mul(c.Value).Div(hundred).Round(2)
		if c.MaxDiscount != nil && d.GreaterThan(*c.MaxDiscount) {
			d = *c.MaxDiscount
		}
	case Fixed:
		d = decimal.Min(c.Value, subtotal)
	}
	return d
}

func (c Coupon) Clone() Coupon {
	out := c
	if c.MaxDiscount != nil {
		m := *c.MaxDiscount
		out.MaxDiscount = &m
	}
	if c.UsageLimit != nil {
		l := *c.UsageLimit
		out.UsageLimit = &l
	}
	return out
}
