package pricing

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// CouponBook holds coupons by normalized code and tracks their usage.
type CouponBook struct {
	mu     sync.Mutex
	byCode map[string]*Coupon
	now    func() time.Time
}

func NewCouponBook(now func() time.Time) *CouponBook {
	if now == nil {
		now = time.Now
	}
	return &CouponBook{byCode: make(map[string]*Coupon), now: now}
}

// Put inserts or replaces a coupon.
func (b *CouponBook) Put(c Coupon) error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.Code = NormalizeCode(c.Code)
	stored := c.Clone()
	b.mu.Lock()
	b.byCode[c.Code] = &stored
	b.mu.Unlock()
	return nil
}

// Lookup returns the coupon for code, or a not-found rejection.
func (b *CouponBook) Lookup(code string) (Coupon, error) {
	norm := NormalizeCode(code)
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.byCode[norm]
	if !ok {
		return Coupon{}, reject(norm, ReasonNotFound)
	}
	return c.Clone(), nil
}

func (b *CouponBook) List() []Coupon {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Coupon, 0, len(b.byCode))
	for _, c := range b.byCode {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Redeem re-checks the coupon against subtotal and counts one use. The check
// and the increment happen under the same lock so a usage limit cannot be overrun.
func (b *CouponBook) Redeem(code string, subtotal decimal.Decimal, restaurantID string) (Coupon, error) {
	norm := NormalizeCode(code)
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.byCode[norm]
	if !ok {
		return Coupon{}, reject(norm, ReasonNotFound)
	}
	if err := c.Check(subtotal, restaurantID, b.now()); err != nil {
		return Coupon{}, err
	}
	c.UsageCount++
	return c.Clone(), nil
}

// Release undoes one Redeem.
func (b *CouponBook) Release(code string) error {
	norm := NormalizeCode(code)
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.byCode[norm]
	if !ok {
		return reject(norm, ReasonNotFound)
	}
	if c.UsageCount == 0 {
		return fmt.Errorf("coupon %s has no redemptions to release", norm)
	}
	c.UsageCount--
	return nil
}
