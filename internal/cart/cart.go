package cart

import (
	"fmt"
	"sync"

	"delivery-system/internal/catalog"

	"github.com/shopspring/decimal"
)

// Cart is an ordered list of lines from a single restaurant. Identical
// selections are kept as separate lines. All methods are safe for concurrent use.
type Cart struct {
	mu    sync.Mutex
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// AddItem appends a new line. The variation and every add-on must belong to
// the product; prices are taken from the product, not the arguments.
func (c *Cart) AddItem(p catalog.Product, v catalog.Variation, addons []catalog.Addon, quantity int) (Line, error) {
	line, err := newLine(p, v, addons, quantity)
	if err != nil {
		return Line{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.lines) > 0 && c.lines[0].Product.RestaurantID != p.RestaurantID {
		return Line{}, fmt.Errorf("%w: cart holds items from restaurant %s", ErrInvalidSelection, c.lines[0].Product.RestaurantID)
	}
	c.lines = append(c.lines, line)
	return line.clone(), nil
}

func newLine(p catalog.Product, v catalog.Variation, addons []catalog.Addon, quantity int) (Line, error) {
	if !p.IsActive {
		return Line{}, fmt.Errorf("%w: product %s is not available", ErrInvalidSelection, p.ID)
	}
	if quantity < 1 {
		return Line{}, fmt.Errorf("%w: quantity must be at least 1, got %d", ErrInvalidSelection, quantity)
	}
	variation, ok := p.FindVariation(v.ID)
	if !ok {
		return Line{}, fmt.Errorf("%w: variation %s does not belong to product %s", ErrInvalidSelection, v.ID, p.ID)
	}

	chosen := make([]catalog.Addon, 0, len(addons))
	seen := make(map[string]bool, len(addons))
	for _, a := range addons {
		addon, ok := p.FindAddon(a.ID)
		if !ok {
			return Line{}, fmt.Errorf("%w: add-on %s does not belong to product %s", ErrInvalidSelection, a.ID, p.ID)
		}
		if seen[a.ID] {
			return Line{}, fmt.Errorf("%w: add-on %s chosen twice", ErrInvalidSelection, a.ID)
		}
		seen[a.ID] = true
		chosen = append(chosen, addon)
	}

	return Line{
		Product:   p.Clone(),
		Variation: variation,
		Addons:    chosen,
		Quantity:  quantity,
	}, nil
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func (c *Cart) UpdateQuantity(index, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkIndex(index); err != nil {
		return err
	}
	if quantity <= 0 {
		c.removeLocked(index)
		return nil
	}
	c.lines[index].Quantity = quantity
	return nil
}

func (c *Cart) RemoveItem(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkIndex(index); err != nil {
		return err
	}
	c.removeLocked(index)
	return nil
}

func (c *Cart) checkIndex(index int) error {
	if index < 0 || index >= len(c.lines) {
		return fmt.Errorf("%w: %d (cart has %d lines)", ErrIndexOutOfRange, index, len(c.lines))
	}
	return nil
}

func (c *Cart) removeLocked(index int) {
	c.lines = append(c.lines[:index:index], c.lines[index+1:]...)
}

func (c *Cart) Clear() {
	c.mu.Lock()
	c.lines = nil
	c.mu.Unlock()
}

func (c *Cart) Subtotal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Lines(c.lines).Subtotal()
}

// ItemCount sums quantities across lines.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return c.Len() == 0
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Line, len(c.lines))
	for i, l := range c.lines {
		out[i] = l.clone()
	}
	return out
}

// Take hands fn a copy of the lines while holding the cart, and clears the
// cart only if fn succeeds. fn must not call back into c.
func (c *Cart) Take(fn func(Lines) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	frozen := make(Lines, len(c.lines))
	for i, l := range c.lines {
		frozen[i] = l.clone()
	}
	if err := fn(frozen); err != nil {
		return err
	}
	c.lines = nil
	return nil
}

// RestaurantID is the restaurant of the cart's lines, or "" when empty.
func (c *Cart) RestaurantID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.lines) == 0 {
		return ""
	}
	return c.lines[0].Product.RestaurantID
}
