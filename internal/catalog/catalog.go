package catalog

import (
	"fmt"
	"sort"
	"sync"

	"delivery-system/internal/auth"

	"github.com/google/uuid"
)

const DefaultLowStockThreshold = 10

// Catalog is the in-memory source of restaurants, categories and products.
// Reads return copies; employee mutations are scoped to the caller's restaurant.
type Catalog struct {
	mu                sync.RWMutex
	restaurants       map[string]*Restaurant
	restaurantOrder   []string
	categories        map[string]*Category
	products          map[string]*Product
	productOrder      []string
	LowStockThreshold int
}

func New() *Catalog {
	return &Catalog{
		restaurants:       make(map[string]*Restaurant),
		categories:        make(map[string]*Category),
		products:          make(map[string]*Product),
		LowStockThreshold: DefaultLowStockThreshold,
	}
}

// --- Bootstrap / admin writes ---

// PutRestaurant inserts or replaces a restaurant. Authorization is the caller's job.
func (c *Catalog) PutRestaurant(r Restaurant) error {
	if err := r.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.restaurants[r.ID]; !exists {
		c.restaurantOrder = append(c.restaurantOrder, r.ID)
	}
	stored := r.Clone()
	c.restaurants[r.ID] = &stored
	return nil
}

func (c *Catalog) PutCategory(cat Category) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.putCategoryLocked(cat)
}

func (c *Catalog) putCategoryLocked(cat Category) error {
	if cat.ID == "" {
		return fmt.Errorf("%w: category id is required", ErrInvalidCategory)
	}
	if _, ok := c.restaurants[cat.RestaurantID]; !ok {
		return fmt.Errorf("%w: restaurant %s", ErrNotFound, cat.RestaurantID)
	}
	stored := cat
	c.categories[cat.ID] = &stored
	return nil
}

func (c *Catalog) PutProduct(p Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.putProductLocked(p)
}

func (c *Catalog) putProductLocked(p Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if _, ok := c.restaurants[p.RestaurantID]; !ok {
		return fmt.Errorf("%w: restaurant %s", ErrNotFound, p.RestaurantID)
	}
	if p.CategoryID != "" {
		cat, ok := c.categories[p.CategoryID]
		if !ok {
			return fmt.Errorf("%w: category %s", ErrNotFound, p.CategoryID)
		}
		if cat.RestaurantID != p.RestaurantID {
			return fmt.Errorf("%w: category %s belongs to another restaurant", ErrInvalidProduct, p.CategoryID)
		}
	}
	if _, exists := c.products[p.ID]; !exists {
		c.productOrder = append(c.productOrder, p.ID)
	}
	stored := p.Clone()
	c.products[p.ID] = &stored
	return nil
}

// --- Reads ---

func (c *Catalog) Restaurant(id string) (Restaurant, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.restaurants[id]
	if !ok {
		return Restaurant{}, fmt.Errorf("%w: restaurant %s", ErrNotFound, id)
	}
	return r.Clone(), nil
}

// Restaurants lists every restaurant in insertion order; activeOnly hides inactive ones.
func (c *Catalog) Restaurants(activeOnly bool) []Restaurant {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Restaurant, 0, len(c.restaurantOrder))
	for _, id := range c.restaurantOrder {
		r := c.restaurants[id]
		if activeOnly && !r.IsActive {
			continue
		}
		out = append(out, r.Clone())
	}
	return out
}

// Categories returns a restaurant's categories sorted by display order.
func (c *Catalog) Categories(restaurantID string, activeOnly bool) []Category {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Category, 0)
	for _, cat := range c.categories {
		if cat.RestaurantID != restaurantID || (activeOnly && !cat.IsActive) {
			continue
		}
		out = append(out, *cat)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order == out[j].Order {
			return out[i].ID < out[j].ID
		}
		return out[i].Order < out[j].Order
	})
	return out
}

func (c *Catalog) Category(id string) (Category, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cat, ok := c.categories[id]
	if !ok {
		return Category{}, fmt.Errorf("%w: category %s", ErrNotFound, id)
	}
	return *cat, nil
}

// Product returns the product whether or not it is active.
func (c *Catalog) Product(id string) (Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.products[id]
	if !ok {
		return Product{}, fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	return p.Clone(), nil
}

type ProductFilter struct {
	RestaurantID string
	CategoryID   string
	FeaturedOnly bool
	ActiveOnly   bool
}

func (c *Catalog) Products(f ProductFilter) []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Product, 0)
	for _, id := range c.productOrder {
		p := c.products[id]
		switch {
		case f.RestaurantID != "" && p.RestaurantID != f.RestaurantID:
			continue
		case f.CategoryID != "" && p.CategoryID != f.CategoryID:
			continue
		case f.FeaturedOnly && !p.IsFeatured:
			continue
		case f.ActiveOnly && !p.IsActive:
			continue
		}
		out = append(out, p.Clone())
	}
	return out
}

// --- Employee management ---

func (c *Catalog) CreateProduct(by auth.Principal, p Product) (Product, error) {
	if err := by.RequireRestaurant(auth.PermManageCatalog, p.RestaurantID); err != nil {
		return Product{}, err
	}
	if p.ID == "" {
		p.ID = "prod-" + uuid.NewString()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.products[p.ID]; exists {
		return Product{}, fmt.Errorf("%w: product %s already exists", ErrInvalidProduct, p.ID)
	}
	if err := c.putProductLocked(p); err != nil {
		return Product{}, err
	}
	return p.Clone(), nil
}

// UpdateProduct replaces an existing product. The restaurant cannot change.
func (c *Catalog) UpdateProduct(by auth.Principal, p Product) (Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	current, ok := c.products[p.ID]
	if !ok {
		return Product{}, fmt.Errorf("%w: product %s", ErrNotFound, p.ID)
	}
	if err := by.RequireRestaurant(auth.PermManageCatalog, current.RestaurantID); err != nil {
		return Product{}, err
	}
	if p.RestaurantID != current.RestaurantID {
		return Product{}, fmt.Errorf("%w: product %s cannot move restaurants", ErrInvalidProduct, p.ID)
	}
	if err := c.putProductLocked(p); err != nil {
		return Product{}, err
	}
	return p.Clone(), nil
}

func (c *Catalog) SetProductActive(by auth.Principal, id string, active bool) (Product, error) {
	return c.mutateProduct(by, id, func(p *Product) error {
		p.IsActive = active
		return nil
	})
}

func (c *Catalog) SetProductFeatured(by auth.Principal, id string, featured bool) (Product, error) {
	return c.mutateProduct(by, id, func(p *Product) error {
		p.IsFeatured = featured
		return nil
	})
}

// AdjustStock adds delta (which may be negative) to a product's stock.
func (c *Catalog) AdjustStock(by auth.Principal, id string, delta int) (Product, error) {
	return c.mutateProduct(by, id, func(p *Product) error {
		if p.StockQuantity+delta < 0 {
			return fmt.Errorf("%w: product %s has %d, adjustment %d", ErrInsufficientStock, p.ID, p.StockQuantity, delta)
		}
		p.StockQuantity += delta
		return nil
	})
}

func (c *Catalog) mutateProduct(by auth.Principal, id string, fn func(*Product) error) (Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[id]
	if !ok {
		return Product{}, fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	if err := by.RequireRestaurant(auth.PermManageCatalog, p.RestaurantID); err != nil {
		return Product{}, err
	}
	next := p.Clone()
	if err := fn(&next); err != nil {
		return Product{}, err
	}
	*p = next
	return next.Clone(), nil
}

// LowStock lists the caller's products whose stock is below LowStockThreshold.
func (c *Catalog) LowStock(by auth.Principal) ([]Product, error) {
	if err := by.RequireRestaurant(auth.PermManageCatalog, by.RestaurantID); err != nil {
		return nil, err
	}
	out := make([]Product, 0)
	for _, p := range c.Products(ProductFilter{RestaurantID: by.RestaurantID}) {
		if p.StockQuantity < c.LowStockThreshold {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *Catalog) CreateCategory(by auth.Principal, cat Category) (Category, error) {
	if err := by.RequireRestaurant(auth.PermManageCatalog, cat.RestaurantID); err != nil {
		return Category{}, err
	}
	if cat.ID == "" {
		cat.ID = "cat-" + uuid.NewString()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.categories[cat.ID]; exists {
		return Category{}, fmt.Errorf("%w: category %s already exists", ErrInvalidCategory, cat.ID)
	}
	if err := c.putCategoryLocked(cat); err != nil {
		return Category{}, err
	}
	return cat, nil
}

func (c *Catalog) UpdateCategory(by auth.Principal, cat Category) (Category, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	current, ok := c.categories[cat.ID]
	if !ok {
		return Category{}, fmt.Errorf("%w: category %s", ErrNotFound, cat.ID)
	}
	if err := by.RequireRestaurant(auth.PermManageCatalog, current.RestaurantID); err != nil {
		return Category{}, err
	}
	if cat.RestaurantID != current.RestaurantID {
		return Category{}, fmt.Errorf("%w: category %s cannot move restaurants", ErrInvalidCategory, cat.ID)
	}
	*current = cat
	return cat, nil
}

func (c *Catalog) SetCategoryActive(by auth.Principal, id string, active bool) (Category, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cat, ok := c.categories[id]
	if !ok {
		return Category{}, fmt.Errorf("%w: category %s", ErrNotFound, id)
	}
	if err := by.RequireRestaurant(auth.PermManageCatalog, cat.RestaurantID); err != nil {
		return Category{}, err
	}
	cat.IsActive = active
	return *cat, nil
}

func (c *Catalog) SetBusinessHours(by auth.Principal, restaurantID string, hours []BusinessHours) (Restaurant, error) {
	if err := by.RequireRestaurant(auth.PermManageCatalog, restaurantID); err != nil {
		return Restaurant{}, err
	}
	if err := ValidateBusinessHours(hours); err != nil {
		return Restaurant{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.restaurants[restaurantID]
	if !ok {
		return Restaurant{}, fmt.Errorf("%w: restaurant %s", ErrNotFound, restaurantID)
	}
	r.BusinessHours = append([]BusinessHours(nil), hours...)
	sort.Slice(r.BusinessHours, func(i, j int) bool {
		return r.BusinessHours[i].DayOfWeek < r.BusinessHours[j].DayOfWeek
	})
	return r.Clone(), nil
}
