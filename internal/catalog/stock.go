package catalog

import "fmt"

type StockRequest struct {
	ProductID string
	Quantity  int
}

func aggregate(reqs []StockRequest) map[string]int {
	totals := make(map[string]int, len(reqs))
	for _, r := range reqs {
		totals[r.ProductID] += r.Quantity
	}
	return totals
}

// Reserve takes stock for every request or for none of them. Inactive products
// cannot be reserved.
func (c *Catalog) Reserve(reqs []StockRequest) error {
	totals := aggregate(reqs)

	c.mu.Lock()
	defer c.mu.Unlock()

	for id, qty := range totals {
		p, ok := c.products[id]
		if !ok {
			return fmt.Errorf("%w: product %s", ErrNotFound, id)
		}
		if !p.IsActive {
			return fmt.Errorf("%w: product %s is not active", ErrInvalidProduct, id)
		}
		if qty <= 0 || p.StockQuantity < qty {
			return fmt.Errorf("%w: product %s has %d, requested %d", ErrInsufficientStock, id, p.StockQuantity, qty)
		}
	}
	for id, qty := range totals {
		c.products[id].StockQuantity -= qty
	}
	return nil
}

// Release returns previously reserved stock. Unknown products are skipped.
func (c *Catalog) Release(reqs []StockRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, qty := range aggregate(reqs) {
		if p, ok := c.products[id]; ok && qty > 0 {
			p.StockQuantity += qty
		}
	}
}
