package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"delivery-system/internal/auth"
	"delivery-system/internal/catalog"
	"delivery-system/internal/order"
	"delivery-system/internal/pricing"
	"delivery-system/internal/seed"
	"delivery-system/internal/session"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Tuesday lunch time, inside every seeded coupon window except PIZZA10.
var lunch = time.Date(2025, 6, 17, 12, 0, 0, 0, time.UTC)

type failingRepo struct {
	*order.MemoryRepository
}

func (failingRepo) Create(context.Context, order.Order) error {
	return errors.New("database unavailable")
}

type fixture struct {
	catalog  *catalog.Catalog
	coupons  *pricing.CouponBook
	repo     order.Repository
	registry *session.Registry
	service  *Service
}

func newFixture(t *testing.T, repo order.Repository, now time.Time) *fixture {
	t.Helper()
	clock := func() time.Time { return now }
	f := &fixture{
		catalog: catalog.New(),
		coupons: pricing.NewCouponBook(clock),
		repo:    repo,
	}
	dir := auth.NewDirectory(bcrypt.MinCost)
	require.NoError(t, seed.Load(seed.Stores{Catalog: f.catalog, Coupons: f.coupons, Directory: dir}))
	f.registry = session.NewRegistry(dir)
	lc := order.NewLifecycle(repo, nil, zap.NewNop(), clock)
	f.service = NewService(f.catalog, f.coupons, lc, zap.NewNop(), clock)
	return f
}

func (f *fixture) login(t *testing.T, email string) *session.Session {
	t.Helper()
	s, err := f.registry.Login(context.Background(), email, seed.DefaultPassword)
	require.NoError(t, err)
	return s
}

func (f *fixture) add(t *testing.T, s *session.Session, productID, variationID string, addonIDs []string, qty int) {
	t.Helper()
	c, err := s.Cart()
	require.NoError(t, err)
	p, err := f.catalog.Product(productID)
	require.NoError(t, err)
	v, ok := p.FindVariation(variationID)
	require.True(t, ok)
	addons := make([]catalog.Addon, 0, len(addonIDs))
	for _, id := range addonIDs {
		a, ok := p.FindAddon(id)
		require.True(t, ok)
		addons = append(addons, a)
	}
	_, err = c.AddItem(p, v, addons, qty)
	require.NoError(t, err)
}

func (f *fixture) stock(t *testing.T, productID string) int {
	t.Helper()
	p, err := f.catalog.Product(productID)
	require.NoError(t, err)
	return p.StockQuantity
}

func (f *fixture) usage(t *testing.T, code string) int {
	t.Helper()
	c, err := f.coupons.Lookup(code)
	require.NoError(t, err)
	return c.UsageCount
}

func (f *fixture) orderCount(t *testing.T) int {
	t.Helper()
	all, err := f.repo.List(context.Background(), order.Filter{})
	require.NoError(t, err)
	return len(all)
}

func request(code string) Request {
	return Request{
		Address: order.Address{
			Street: "Rua das Flores", Number: "123", Complement: "Apto 45",
			Neighborhood: "Jardim Paulista", City: "São Paulo", State: "SP", ZipCode: "01452-000",
		},
		PaymentMethod: order.PaymentPix,
		CouponCode:    code,
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCheckoutReferenceOrder(t *testing.T) {
	f := newFixture(t, order.NewMemoryRepository(), lunch)
	s := f.login(t, "joao@email.com")
	f.add(t, s, "prod-1", "var-1-3", []string{"addon-1"}, 1)
	f.add(t, s, "prod-4", "var-4-1", nil, 1)

	q, err := f.service.Quote(s, "")
	require.NoError(t, err)
	assert.True(t, dec("79.70").Equal(q.Total))

	o, err := f.service.Checkout(context.Background(), s, request(""))
	require.NoError(t, err)
	assert.Equal(t, order.StatusReceived, o.Status)
	assert.Equal(t, "client-1", o.CustomerID)
	assert.Equal(t, "rest-1", o.RestaurantID)
	assert.True(t, dec("70.80").Equal(o.Subtotal))
	assert.True(t, dec("8.90").Equal(o.DeliveryFee))
	assert.True(t, dec("79.70").Equal(o.Total))
	assert.Empty(t, o.CouponCode)
	require.Len(t, o.Lines, 2)
	assert.True(t, dec("57.90").Equal(o.Lines[0].Subtotal))

	c, _ := s.Cart()
	assert.True(t, c.IsEmpty())
	assert.Equal(t, 49, f.stock(t, "prod-1"))
	assert.Equal(t, 99, f.stock(t, "prod-4"))
}

func TestCheckoutWithCoupon(t *testing.T) {
	f := newFixture(t, order.NewMemoryRepository(), lunch)
	s := f.login(t, "maria@email.com")
	f.add(t, s, "prod-7", "var-7-2", nil, 1)
	f.add(t, s, "prod-6", "var-6-1", nil, 2)

	o, err := f.service.Checkout(context.Background(), s, request("primeiracompra"))
	require.NoError(t, err)
	assert.Equal(t, "PRIMEIRACOMPRA", o.CouponCode)
	assert.True(t, dec("92.70").Equal(o.Subtotal))
	assert.True(t, dec("15.00").Equal(o.Discount))
	assert.True(t, dec("86.60").Equal(o.Total))
	assert.True(t, o.Totals.Consistent())
	assert.Equal(t, 235, f.usage(t, "PRIMEIRACOMPRA"))
}

func TestCheckoutFailuresLeaveEverythingUntouched(t *testing.T) {
	tests := []struct {
		name    string
		now     time.Time
		fill    func(*testing.T, *fixture, *session.Session)
		req     Request
		wantErr error
	}{
		{
			name:    "empty cart",
			now:     lunch,
			fill:    func(*testing.T, *fixture, *session.Session) {},
			req:     request(""),
			wantErr: ErrEmptyCartCheckout,
		},
		{
			name: "below minimum",
			now:  lunch,
			fill: func(t *testing.T, f *fixture, s *session.Session) {
				f.add(t, s, "prod-4", "var-4-1", nil, 1)
			},
			req:     request(""),
			wantErr: pricing.ErrBelowMinimumOrder,
		},
		{
			name: "restaurant closed",
			now:  time.Date(2025, 6, 17, 3, 0, 0, 0, time.UTC),
			fill: func(t *testing.T, f *fixture, s *session.Session) {
				f.add(t, s, "prod-1", "var-1-3", nil, 1)
			},
			req:     request(""),
			wantErr: ErrRestaurantClosed,
		},
		{
			name: "expired coupon",
			now:  lunch,
			fill: func(t *testing.T, f *fixture, s *session.Session) {
				f.add(t, s, "prod-1", "var-1-3", nil, 1)
			},
			req:     request("PIZZA10"),
			wantErr: pricing.ErrCouponRejected,
		},
		{
			name: "unknown coupon",
			now:  lunch,
			fill: func(t *testing.T, f *fixture, s *session.Session) {
				f.add(t, s, "prod-1", "var-1-3", nil, 1)
			},
			req:     request("NOPE"),
			wantErr: pricing.ErrCouponRejected,
		},
		{
			name: "not enough stock",
			now:  lunch,
			fill: func(t *testing.T, f *fixture, s *session.Session) {
				f.add(t, s, "prod-1", "var-1-1", nil, 30)
				f.add(t, s, "prod-1", "var-1-3", nil, 21)
			},
			req:     request("PRIMEIRACOMPRA"),
			wantErr: catalog.ErrInsufficientStock,
		},
		{
			name: "bad address",
			now:  lunch,
			fill: func(t *testing.T, f *fixture, s *session.Session) {
				f.add(t, s, "prod-1", "var-1-3", nil, 1)
			},
			req:     Request{PaymentMethod: order.PaymentCash},
			wantErr: order.ErrInvalidOrder,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, order.NewMemoryRepository(), tt.now)
			s := f.login(t, "joao@email.com")
			tt.fill(t, f, s)
			c, _ := s.Cart()
			before := c.ItemCount()

			_, err := f.service.Checkout(context.Background(), s, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, before, c.ItemCount())
			assert.Equal(t, 50, f.stock(t, "prod-1"))
			assert.Equal(t, 234, f.usage(t, "PRIMEIRACOMPRA"))
			assert.Equal(t, 0, f.orderCount(t))
		})
	}
}

func TestCheckoutRollsBackWhenOrderStoreFails(t *testing.T) {
	f := newFixture(t, failingRepo{order.NewMemoryRepository()}, lunch)
	s := f.login(t, "joao@email.com")
	f.add(t, s, "prod-1", "var-1-3", []string{"addon-1"}, 1)

	_, err := f.service.Checkout(context.Background(), s, request("PRIMEIRACOMPRA"))
	require.Error(t, err)

	c, _ := s.Cart()
	assert.Equal(t, 1, c.ItemCount())
	assert.Equal(t, 50, f.stock(t, "prod-1"))
	assert.Equal(t, 234, f.usage(t, "PRIMEIRACOMPRA"))
}

func TestCheckoutRequiresClient(t *testing.T) {
	f := newFixture(t, order.NewMemoryRepository(), lunch)
	s := f.login(t, "carlos@restaurant.com")
	_, err := f.service.Checkout(context.Background(), s, request(""))
	assert.ErrorIs(t, err, auth.ErrPermissionDenied)

	_, err = f.service.Quote(s, "")
	assert.ErrorIs(t, err, auth.ErrPermissionDenied)
}

func TestCheckoutInactiveRestaurant(t *testing.T) {
	f := newFixture(t, order.NewMemoryRepository(), lunch)
	s := f.login(t, "joao@email.com")
	f.add(t, s, "prod-1", "var-1-3", nil, 1)

	r, err := f.catalog.Restaurant("rest-1")
	require.NoError(t, err)
	r.IsActive = false
	require.NoError(t, f.catalog.PutRestaurant(r))

	_, err = f.service.Checkout(context.Background(), s, request(""))
	assert.ErrorIs(t, err, ErrRestaurantClosed)
}

func TestQuoteReportsRejectedCoupon(t *testing.T) {
	f := newFixture(t, order.NewMemoryRepository(), lunch)
	s := f.login(t, "joao@email.com")
	f.add(t, s, "prod-1", "var-1-3", nil, 1)

	q, err := f.service.Quote(s, "FRETEGRATIS")
	require.NoError(t, err)
	require.NotNil(t, q.Rejection)
	assert.Equal(t, pricing.ReasonBelowMinimum, q.Rejection.Reason)
	assert.True(t, dec("58.80").Equal(q.Total))

	_, err = f.service.Quote(f.login(t, "maria@email.com"), "")
	assert.ErrorIs(t, err, ErrEmptyCartCheckout)
}
