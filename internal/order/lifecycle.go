package order

import (
	"context"
	"fmt"
	"sync"
	"time"

	"delivery-system/internal/auth"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Lifecycle creates orders and moves them through their statuses. Advances on
// the same order are serialized in-process; the repository version check
// catches writers outside this process.
type Lifecycle struct {
	repo   Repository
	pub    Publisher
	logger *zap.Logger
	now    func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLifecycle(repo Repository, pub Publisher, logger *zap.Logger, now func() time.Time) *Lifecycle {
	if pub == nil {
		pub = NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Lifecycle{
		repo:   repo,
		pub:    pub,
		logger: logger,
		now:    now,
		locks:  make(map[string]*sync.Mutex),
	}
}

func (l *Lifecycle) lockFor(id string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}

// Create stores a new order in status received.
func (l *Lifecycle) Create(ctx context.Context, d Draft) (Order, error) {
	if err := d.Validate(); err != nil {
		return Order{}, err
	}
	now := l.now()
	o := Order{
		Totals:        d.Totals,
		ID:            uuid.NewString(),
		CustomerID:    d.CustomerID,
		CustomerName:  d.CustomerName,
		RestaurantID:  d.RestaurantID,
		Lines:         d.Lines,
		Status:        StatusReceived,
		Address:       d.Address,
		PaymentMethod: d.PaymentMethod,
		Observations:  d.Observations,
		History:       []StatusChange{{To: StatusReceived, At: now, By: d.CustomerID}},
		CreatedAt:     now,
		UpdatedAt:     now,
		Version:       1,
	}
	if err := l.repo.Create(ctx, o); err != nil {
		return Order{}, fmt.Errorf("store order: %w", err)
	}

	l.logger.Info("order created",
		zap.String("order_id", o.ID),
		zap.String("customer_id", o.CustomerID),
		zap.String("restaurant_id", o.RestaurantID),
		zap.String("total", o.Total.StringFixed(2)),
	)
	l.publish(ctx, Event{
		Type:         EventCreated,
		OrderID:      o.ID,
		CustomerID:   o.CustomerID,
		RestaurantID: o.RestaurantID,
		To:           o.Status,
		Total:        o.Total,
		By:           o.CustomerID,
		At:           now,
	})
	return o.Clone(), nil
}

// Advance moves an order to target on behalf of an employee of its restaurant.
// Illegal transitions leave the order untouched.
func (l *Lifecycle) Advance(ctx context.Context, by auth.Principal, id string, target Status) (Order, error) {
	m := l.lockFor(id)
	m.Lock()
	defer m.Unlock()

	o, err := l.repo.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if err := by.RequireRestaurant(auth.PermAdvanceOrder, o.RestaurantID); err != nil {
		return Order{}, err
	}

	from := o.Status
	now := l.now()
	if err := Transition(&o, target, by.ID, now); err != nil {
		l.logger.Warn("rejected status change",
			zap.String("order_id", id),
			zap.String("from", string(from)),
			zap.String("to", string(target)),
		)
		return Order{}, err
	}
	updated, err := l.repo.Update(ctx, o, o.Version)
	if err != nil {
		return Order{}, err
	}

	l.logger.Info("order status changed",
		zap.String("order_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(target)),
		zap.String("by", by.ID),
	)
	l.publish(ctx, Event{
		Type:         EventStatusChanged,
		OrderID:      id,
		CustomerID:   updated.CustomerID,
		RestaurantID: updated.RestaurantID,
		From:         from,
		To:           target,
		Total:        updated.Total,
		By:           by.ID,
		At:           now,
	})
	return updated, nil
}

func (l *Lifecycle) publish(ctx context.Context, e Event) {
	if err := l.pub.Publish(ctx, e); err != nil {
		l.logger.Error("publish order event",
			zap.String("type", string(e.Type)),
			zap.String("order_id", e.OrderID),
			zap.Error(err),
		)
	}
}

// Get returns an order the principal may see: a client's own order or an
// order of an employee's restaurant.
func (l *Lifecycle) Get(ctx context.Context, by auth.Principal, id string) (Order, error) {
	o, err := l.repo.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if !canRead(by, o) {
		return Order{}, fmt.Errorf("%w: order %s", auth.ErrPermissionDenied, id)
	}
	return o, nil
}

func canRead(by auth.Principal, o Order) bool {
	switch {
	case by.Can(auth.PermReadOwnOrders) && o.CustomerID == by.ID:
		return true
	case by.Can(auth.PermReadRestaurantOrders) && by.RestaurantID != "" && o.RestaurantID == by.RestaurantID:
		return true
	}
	return false
}

// ListForCustomer returns the principal's own orders, newest first.
func (l *Lifecycle) ListForCustomer(ctx context.Context, by auth.Principal, statuses ...Status) ([]Order, error) {
	if err := by.Require(auth.PermReadOwnOrders); err != nil {
		return nil, err
	}
	return l.repo.List(ctx, Filter{CustomerID: by.ID, Statuses: statuses})
}

// ListForRestaurant returns the orders of the employee's restaurant, newest first.
func (l *Lifecycle) ListForRestaurant(ctx context.Context, by auth.Principal, statuses ...Status) ([]Order, error) {
	if err := by.RequireRestaurant(auth.PermReadRestaurantOrders, by.RestaurantID); err != nil {
		return nil, err
	}
	return l.repo.List(ctx, Filter{RestaurantID: by.RestaurantID, Statuses: statuses})
}

// Query lists orders without any principal check. Callers authorize first.
func (l *Lifecycle) Query(ctx context.Context, f Filter) ([]Order, error) {
	return l.repo.List(ctx, f)
}
