package cart

import (
	"encoding/json"

	"delivery-system/internal/catalog"

	"github.com/shopspring/decimal"
)

// Line is one cart entry. Its subtotal is always derived from the chosen
// variation, add-ons and quantity.
type Line struct {
	Product   catalog.Product
	Variation catalog.Variation
	Addons    []catalog.Addon
	Quantity  int
}

// UnitPrice is the variation price plus every chosen add-on.
func (l Line) UnitPrice() decimal.Decimal {
	price := l.Variation.Price
	for _, a := range l.Addons {
		price = price.Add(a.Price)
	}
	return price
}

func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Lines is a detached list of cart lines.
type Lines []Line

func (ls Lines) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range ls {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (ls Lines) RestaurantID() string {
	if len(ls) == 0 {
		return ""
	}
	return ls[0].Product.RestaurantID
}

func (l Line) clone() Line {
	out := l
	out.Product = l.Product.Clone()
	out.Addons = append([]catalog.Addon(nil), l.Addons...)
	return out
}

type lineJSON struct {
	ProductID   string            `json:"product_id"`
	ProductName string            `json:"product_name"`
	Variation   catalog.Variation `json:"variation"`
	Addons      []catalog.Addon   `json:"addons"`
	Quantity    int               `json:"quantity"`
	UnitPrice   decimal.Decimal   `json:"unit_price"`
	Subtotal    decimal.Decimal   `json:"subtotal"`
}

func (l Line) MarshalJSON() ([]byte, error) {
	addons := l.Addons
	if addons == nil {
		addons = []catalog.Addon{}
	}
	return json.Marshal(lineJSON{
		ProductID:   l.Product.ID,
		ProductName: l.Product.Name,
		Variation:   l.Variation,
		Addons:      addons,
		Quantity:    l.Quantity,
		UnitPrice:   l.UnitPrice(),
		Subtotal:    l.Subtotal(),
	})
}
