package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Variation struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type Addon struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type Product struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	Description        string      `json:"description"`
	Image              string      `json:"image,omitempty"`
	CategoryID         string      `json:"category_id"`
	RestaurantID       string      `json:"restaurant_id"`
	Variations         []Variation `json:"variations"`
	Addons             []Addon     `json:"addons,omitempty"`
	StockQuantity      int         `json:"stock_quantity"`
	IsActive           bool        `json:"is_active"`
	IsFeatured         bool        `json:"is_featured"`
	Rating             *float64    `json:"rating,omitempty"`
	ReviewsCount       int         `json:"reviews_count,omitempty"`
	PreparationMinutes int         `json:"preparation_minutes,omitempty"`
}

func (p Product) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: product id is required", ErrInvalidProduct)
	}
	if p.RestaurantID == "" {
		return fmt.Errorf("%w: product %s has no restaurant", ErrInvalidProduct, p.ID)
	}
	if len(p.Variations) == 0 {
		return fmt.Errorf("%w: product %s needs at least one variation", ErrInvalidProduct, p.ID)
	}
	if p.StockQuantity < 0 {
		return fmt.Errorf("%w: product %s has negative stock", ErrInvalidProduct, p.ID)
	}
	seen := make(map[string]bool, len(p.Variations)+len(p.Addons))
	for _, v := range p.Variations {
		if v.ID == "" || seen[v.ID] {
			return fmt.Errorf("%w: product %s has a missing or duplicate variation id", ErrInvalidProduct, p.ID)
		}
		if v.Price.IsNegative() {
			return fmt.Errorf("%w: variation %s has a negative price", ErrInvalidProduct, v.ID)
		}
		seen[v.ID] = true
	}
	for _, a := range p.Addons {
		if a.ID == "" || seen[a.ID] {
			return fmt.Errorf("%w: product %s has a missing or duplicate add-on id", ErrInvalidProduct, p.ID)
		}
		if a.Price.IsNegative() {
			return fmt.Errorf("%w: add-on %s has a negative price", ErrInvalidProduct, a.ID)
		}
		seen[a.ID] = true
	}
	return nil
}

// StartingPrice is the price of the default (first) variation.
func (p Product) StartingPrice() decimal.Decimal {
	if len(p.Variations) == 0 {
		return decimal.Zero
	}
	return p.Variations[0].Price
}

func (p Product) FindVariation(id string) (Variation, bool) {
	for _, v := range p.Variations {
		if v.ID == id {
			return v, true
		}
	}
	return Variation{}, false
}

func (p Product) FindAddon(id string) (Addon, bool) {
	for _, a := range p.Addons {
		if a.ID == id {
			return a, true
		}
	}
	return Addon{}, false
}

// Clone returns a copy that shares no slices with p.
func (p Product) Clone() Product {
	out := p
	out.Variations = append([]Variation(nil), p.Variations...)
	if p.Addons != nil {
		out.Addons = append([]Addon(nil), p.Addons...)
	}
	if p.Rating != nil {
		r := *p.Rating
		out.Rating = &r
	}
	return out
}

type Category struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Image        string `json:"image,omitempty"`
	IsActive     bool   `json:"is_active"`
	Order        int    `json:"order"`
	RestaurantID string `json:"restaurant_id"`
}

type Restaurant struct {
	ID                    string           `json:"id"`
	Name                  string           `json:"name"`
	Description           string           `json:"description"`
	Image                 string           `json:"image,omitempty"`
	Address               string           `json:"address"`
	Phone                 string           `json:"phone"`
	Email                 string           `json:"email"`
	BusinessHours         []BusinessHours  `json:"business_hours"`
	IsActive              bool             `json:"is_active"`
	Rating                *float64         `json:"rating,omitempty"`
	MinimumOrder          *decimal.Decimal `json:"minimum_order,omitempty"`
	DeliveryFee           decimal.Decimal  `json:"delivery_fee"`
	EstimatedDeliveryTime string           `json:"estimated_delivery_time"`
}

func (r Restaurant) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("%w: restaurant id is required", ErrInvalidRestaurant)
	}
	if r.DeliveryFee.IsNegative() {
		return fmt.Errorf("%w: restaurant %s has a negative delivery fee", ErrInvalidRestaurant, r.ID)
	}
	if r.MinimumOrder != nil && r.MinimumOrder.IsNegative() {
		return fmt.Errorf("%w: restaurant %s has a negative minimum order", ErrInvalidRestaurant, r.ID)
	}
	if len(r.BusinessHours) > 0 {
		if err := ValidateBusinessHours(r.BusinessHours); err != nil {
			return err
		}
	}
	return nil
}

// MeetsMinimum reports whether subtotal satisfies the minimum order, if any.
func (r Restaurant) MeetsMinimum(subtotal decimal.Decimal) bool {
	if r.MinimumOrder == nil {
		return true
	}
	return subtotal.GreaterThanOrEqual(*r.MinimumOrder)
}

func (r Restaurant) Clone() Restaurant {
	out := r
	out.BusinessHours = append([]BusinessHours(nil), r.BusinessHours...)
	if r.MinimumOrder != nil {
		m := *r.MinimumOrder
		out.MinimumOrder = &m
	}
	if r.Rating != nil {
		v := *r.Rating
		out.Rating = &v
	}
	return out
}
