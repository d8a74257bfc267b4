package order

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Filter narrows List. Zero values match everything.
type Filter struct {
	CustomerID   string
	RestaurantID string
	Statuses     []Status
	Since        time.Time
	Until        time.Time
	Limit        int
}

func (f Filter) Match(o Order) bool {
	if f.CustomerID != "" && o.CustomerID != f.CustomerID {
		return false
	}
	if f.RestaurantID != "" && o.RestaurantID != f.RestaurantID {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if o.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if !f.Since.IsZero() && o.CreatedAt.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && !o.CreatedAt.Before(f.Until) {
		return false
	}
	return true
}

// Repository stores orders. Update must fail with ErrVersionConflict when the
// stored version differs from expectedVersion, and store o with version+1.
type Repository interface {
	Create(ctx context.Context, o Order) error
	Get(ctx context.Context, id string) (Order, error)
	Update(ctx context.Context, o Order, expectedVersion int) (Order, error)
	// List returns matching orders, newest first.
	List(ctx context.Context, f Filter) ([]Order, error)
}

type MemoryRepository struct {
	mu     sync.RWMutex
	orders map[string]Order
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{orders: make(map[string]Order)}
}

func (r *MemoryRepository) Create(_ context.Context, o Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[o.ID]; exists {
		return fmt.Errorf("%w: duplicate id %s", ErrInvalidOrder, o.ID)
	}
	r.orders[o.ID] = o.Clone()
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return Order{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return o.Clone(), nil
}

func (r *MemoryRepository) Update(_ context.Context, o Order, expectedVersion int) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.orders[o.ID]
	if !ok {
		return Order{}, fmt.Errorf("%w: %s", ErrNotFound, o.ID)
	}
	if cur.Version != expectedVersion {
		return Order{}, fmt.Errorf("%w: %s at version %d, expected %d", ErrVersionConflict, o.ID, cur.Version, expectedVersion)
	}
	o.Version = expectedVersion + 1
	r.orders[o.ID] = o.Clone()
	return o.Clone(), nil
}

func (r *MemoryRepository) List(_ context.Context, f Filter) ([]Order, error) {
	r.mu.RLock()
	out := make([]Order, 0)
	for _, o := range r.orders {
		if f.Match(o) {
			out = append(out, o.Clone())
		}
	}
	r.mu.RUnlock()
	SortNewestFirst(out)
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// SortNewestFirst orders by creation time descending, ties broken by id.
func SortNewestFirst(orders []Order) {
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID > orders[j].ID
	})
}
