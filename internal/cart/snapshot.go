package cart

import (
	"fmt"

	"delivery-system/internal/catalog"
)

// SnapshotLine is the persisted form of a line: references only, prices are
// resolved again from the catalog on restore.
type SnapshotLine struct {
	ProductID   string   `json:"product_id"`
	VariationID string   `json:"variation_id"`
	AddonIDs    []string `json:"addon_ids,omitempty"`
	Quantity    int      `json:"quantity"`
}

func (c *Cart) Snapshot() []SnapshotLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]SnapshotLine, 0, len(c.lines))
	for _, l := range c.lines {
		ids := make([]string, 0, len(l.Addons))
		for _, a := range l.Addons {
			ids = append(ids, a.ID)
		}
		out = append(out, SnapshotLine{
			ProductID:   l.Product.ID,
			VariationID: l.Variation.ID,
			AddonIDs:    ids,
			Quantity:    l.Quantity,
		})
	}
	return out
}

// ProductLookup resolves a product id against the live catalog.
type ProductLookup func(id string) (catalog.Product, error)

// Restore rebuilds a cart from a snapshot. Lines whose product, variation or
// add-ons no longer resolve are dropped and counted in skipped.
func Restore(lines []SnapshotLine, lookup ProductLookup) (c *Cart, skipped int) {
	c = New()
	for _, sl := range lines {
		if err := c.restoreLine(sl, lookup); err != nil {
			skipped++
		}
	}
	return c, skipped
}

func (c *Cart) restoreLine(sl SnapshotLine, lookup ProductLookup) error {
	p, err := lookup(sl.ProductID)
	if err != nil {
		return err
	}
	addons := make([]catalog.Addon, 0, len(sl.AddonIDs))
	for _, id := range sl.AddonIDs {
		addons = append(addons, catalog.Addon{ID: id})
	}
	if _, err := c.AddItem(p, catalog.Variation{ID: sl.VariationID}, addons, sl.Quantity); err != nil {
		return fmt.Errorf("restore %s: %w", sl.ProductID, err)
	}
	return nil
}
