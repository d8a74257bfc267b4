// Package seed loads the storefront's reference data into the in-memory stores.
package seed

import (
	"fmt"

	"delivery-system/internal/auth"
	"delivery-system/internal/catalog"
	"delivery-system/internal/pricing"
)

type Stores struct {
	Catalog   *catalog.Catalog
	Coupons   *pricing.CouponBook
	Directory *auth.Directory
}

// Load fills every non-nil store. Restaurants go first so categories and
// products can reference them.
func Load(s Stores) error {
	if s.Catalog != nil {
		for _, r := range Restaurants() {
			if err := s.Catalog.PutRestaurant(r); err != nil {
				return fmt.Errorf("seed restaurant %s: %w", r.ID, err)
			}
		}
		for _, c := range Categories() {
			if err := s.Catalog.PutCategory(c); err != nil {
				return fmt.Errorf("seed category %s: %w", c.ID, err)
			}
		}
		for _, p := range Products() {
			if err := s.Catalog.PutProduct(p); err != nil {
				return fmt.Errorf("seed product %s: %w", p.ID, err)
			}
		}
	}
	if s.Coupons != nil {
		for _, c := range Coupons() {
			if err := s.Coupons.Put(c); err != nil {
				return fmt.Errorf("seed coupon %s: %w", c.Code, err)
			}
		}
	}
	if s.Directory != nil {
		for _, u := range Users() {
			if _, err := s.Directory.Add(u, DefaultPassword); err != nil {
				return fmt.Errorf("seed user %s: %w", u.ID, err)
			}
		}
	}
	return nil
}
