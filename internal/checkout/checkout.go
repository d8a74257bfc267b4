package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"delivery-system/internal/auth"
	"delivery-system/internal/cart"
	"delivery-system/internal/catalog"
	"delivery-system/internal/order"
	"delivery-system/internal/pricing"
	"delivery-system/internal/session"

	"go.uber.org/zap"
)

var (
	ErrEmptyCartCheckout = errors.New("cannot check out an empty cart")
	ErrRestaurantClosed  = errors.New("restaurant is not accepting orders")
)

type Request struct {
	Address       order.Address
	PaymentMethod order.PaymentMethod
	CouponCode    string
	Observations  string
}

// Service turns a session cart into an order. Either the order is stored and
// the cart emptied, or nothing changes.
type Service struct {
	catalog  *catalog.Catalog
	coupons  *pricing.CouponBook
	resolver *pricing.Resolver
	orders   *order.Lifecycle
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(cat *catalog.Catalog, coupons *pricing.CouponBook, orders *order.Lifecycle, logger *zap.Logger, now func() time.Time) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Service{
		catalog:  cat,
		coupons:  coupons,
		resolver: pricing.NewResolver(coupons, now),
		orders:   orders,
		logger:   logger,
		now:      now,
	}
}

// Quote prices the session cart without changing anything.
func (s *Service) Quote(sess *session.Session, couponCode string) (pricing.Quote, error) {
	c, err := sess.Cart()
	if err != nil {
		return pricing.Quote{}, err
	}
	lines := cart.Lines(c.Lines())
	if len(lines) == 0 {
		return pricing.Quote{}, ErrEmptyCartCheckout
	}
	rest, err := s.catalog.Restaurant(lines.RestaurantID())
	if err != nil {
		return pricing.Quote{}, err
	}
	return s.resolver.ComputeCode(lines, rest, couponCode), nil
}

func (s *Service) Checkout(ctx context.Context, sess *session.Session, req Request) (order.Order, error) {
	customer, err := sess.Auth().Require(auth.PermCreateOrder)
	if err != nil {
		return order.Order{}, err
	}
	c, err := sess.Cart()
	if err != nil {
		return order.Order{}, err
	}

	var placed order.Order
	err = c.Take(func(lines cart.Lines) error {
		o, err := s.place(ctx, customer, lines, req)
		if err != nil {
			return err
		}
		placed = o
		return nil
	})
	if err != nil {
		s.logger.Info("checkout failed",
			zap.String("session_id", sess.ID),
			zap.String("customer_id", customer.ID),
			zap.Error(err),
		)
		return order.Order{}, err
	}
	return placed, nil
}

func (s *Service) place(ctx context.Context, customer auth.Principal, lines cart.Lines, req Request) (order.Order, error) {
	if len(lines) == 0 {
		return order.Order{}, ErrEmptyCartCheckout
	}

	rest, err := s.catalog.Restaurant(lines.RestaurantID())
	if err != nil {
		return order.Order{}, err
	}
	if !rest.IsActive || !rest.IsOpenAt(s.now()) {
		return order.Order{}, fmt.Errorf("%w: %s", ErrRestaurantClosed, rest.Name)
	}

	quote := s.resolver.ComputeCode(lines, rest, req.CouponCode)
	if err := quote.CheckoutAllowed(); err != nil {
		return order.Order{}, err
	}
	if quote.Rejection != nil {
		return order.Order{}, quote.Rejection
	}

	draft := order.Draft{
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		RestaurantID: rest.ID,
		Lines:        order.LinesFromCart(lines),
		Totals: order.Totals{
			Subtotal:    quote.Subtotal,
			DeliveryFee: quote.DeliveryFee,
			Discount:    quote.Discount,
			Total:       quote.Total,
		},
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
		Observations:  req.Observations,
	}
	if quote.Applied() {
		draft.Totals.CouponCode = quote.CouponCode
	}
	if err := draft.Validate(); err != nil {
		return order.Order{}, err
	}

	stock := stockRequests(lines)
	if err := s.catalog.Reserve(stock); err != nil {
		return order.Order{}, err
	}

	redeemed := false
	if quote.Applied() {
		if _, err := s.coupons.Redeem(quote.CouponCode, quote.Subtotal, rest.ID); err != nil {
			s.catalog.Release(stock)
			return order.Order{}, err
		}
		redeemed = true
	}

	o, err := s.orders.Create(ctx, draft)
	if err != nil {
		s.catalog.Release(stock)
		if redeemed {
			if rerr := s.coupons.Release(quote.CouponCode); rerr != nil {
				s.logger.Error("release coupon", zap.String("code", quote.CouponCode), zap.Error(rerr))
			}
		}
		return order.Order{}, err
	}
	return o, nil
}

func stockRequests(lines cart.Lines) []catalog.StockRequest {
	reqs := make([]catalog.StockRequest, 0, len(lines))
	for _, l := range lines {
		reqs = append(reqs, catalog.StockRequest{ProductID: l.Product.ID, Quantity: l.Quantity})
	}
	return reqs
}
