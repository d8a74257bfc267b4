package order

import (
	"fmt"
	"strings"
	"time"

	"delivery-system/internal/cart"
	"delivery-system/internal/catalog"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCreditCard  PaymentMethod = "credit_card"
	PaymentPix         PaymentMethod = "pix"
	PaymentMealVoucher PaymentMethod = "meal_voucher"
	PaymentCash        PaymentMethod = "cash"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCreditCard, PaymentPix, PaymentMealVoucher, PaymentCash:
		return true
	}
	return false
}

type Address struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zip_code"`
}

func (a Address) Validate() error {
	fields := []struct{ name, value string }{
		{"street", a.Street},
		{"number", a.Number},
		{"neighborhood", a.Neighborhood},
		{"city", a.City},
		{"state", a.State},
		{"zip_code", a.ZipCode},
	}
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: address missing %s", ErrInvalidOrder, strings.Join(missing, ", "))
	}
	return nil
}

// Line is the frozen copy of a cart line taken at checkout.
type Line struct {
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	VariationID   string          `json:"variation_id"`
	VariationName string          `json:"variation_name"`
	Addons        []catalog.Addon `json:"addons,omitempty"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

func LinesFromCart(lines []cart.Line) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		out = append(out, Line{
			ProductID:     l.Product.ID,
			ProductName:   l.Product.Name,
			VariationID:   l.Variation.ID,
			VariationName: l.Variation.Name,
			Addons:        append([]catalog.Addon(nil), l.Addons...),
			Quantity:      l.Quantity,
			UnitPrice:     l.UnitPrice(),
			Subtotal:      l.Subtotal(),
		})
	}
	return out
}

// Totals are the monetary fields of an order. They never change after creation.
type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
	CouponCode  string          `json:"coupon_code,omitempty"`
}

func (t Totals) Consistent() bool {
	return t.Subtotal.Add(t.DeliveryFee).Sub(t.Discount).Equal(t.Total)
}

type StatusChange struct {
	From Status    `json:"from,omitempty"`
	To   Status    `json:"to"`
	At   time.Time `json:"at"`
	By   string    `json:"by"`
}

type Order struct {
	Totals

	ID            string         `json:"id"`
	CustomerID    string         `json:"customer_id"`
	CustomerName  string         `json:"customer_name"`
	RestaurantID  string         `json:"restaurant_id"`
	Lines         []Line         `json:"items"`
	Status        Status         `json:"status"`
	Address       Address        `json:"delivery_address"`
	PaymentMethod PaymentMethod  `json:"payment_method"`
	Observations  string         `json:"observations,omitempty"`
	History       []StatusChange `json:"history"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	Version       int            `json:"version"`
}

func (o Order) Clone() Order {
	out := o
	if o.Lines != nil {
		out.Lines = make([]Line, len(o.Lines))
		for i, l := range o.Lines {
			l.Addons = append([]catalog.Addon(nil), l.Addons...)
			out.Lines[i] = l
		}
	}
	out.History = append([]StatusChange(nil), o.History...)
	return out
}

func (o Order) ItemCount() int {
	n := 0
	for _, l := range o.Lines {
		n += l.Quantity
	}
	return n
}

// Draft is everything checkout supplies to create an order.
type Draft struct {
	CustomerID    string
	CustomerName  string
	RestaurantID  string
	Lines         []Line
	Totals        Totals
	Address       Address
	PaymentMethod PaymentMethod
	Observations  string
}

func (d Draft) Validate() error {
	if d.CustomerID == "" || d.RestaurantID == "" {
		return fmt.Errorf("%w: customer and restaurant are required", ErrInvalidOrder)
	}
	if len(d.Lines) == 0 {
		return fmt.Errorf("%w: no lines", ErrInvalidOrder)
	}
	sum := decimal.Zero
	for _, l := range d.Lines {
		if l.Quantity < 1 {
			return fmt.Errorf("%w: line %s has quantity %d", ErrInvalidOrder, l.ProductID, l.Quantity)
		}
		sum = sum.Add(l.Subtotal)
	}
	if !sum.Equal(d.Totals.Subtotal) {
		return fmt.Errorf("%w: subtotal %s does not match lines %s", ErrInvalidOrder, d.Totals.Subtotal, sum)
	}
	if !d.Totals.Consistent() || d.Totals.Total.IsNegative() {
		return fmt.Errorf("%w: total %s is not subtotal + fee - discount", ErrInvalidOrder, d.Totals.Total)
	}
	if !d.PaymentMethod.Valid() {
		return fmt.Errorf("%w: unknown payment method %q", ErrInvalidOrder, d.PaymentMethod)
	}
	return d.Address.Validate()
}

// Transition moves o to target. It is the only mutation an order accepts and
// it never touches the totals.
func Transition(o *Order, target Status, by string, at time.Time) error {
	if !o.Status.CanTransition(target) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.Status, target)
	}
	o.History = append(o.History, StatusChange{From: o.Status, To: target, At: at, By: by})
	o.Status = target
	o.UpdatedAt = at
	return nil
}
