package admin

import (
	"context"
	"testing"
	"time"

	"delivery-system/internal/auth"
	"delivery-system/internal/catalog"
	"delivery-system/internal/order"
	"delivery-system/internal/seed"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	adminUser = auth.Principal{ID: "admin-1", Role: auth.RoleAdmin}
	employee  = auth.Principal{ID: "employee-1", Role: auth.RoleEmployee, RestaurantID: "rest-1"}
	day       = time.Date(2025, 11, 13, 0, 0, 0, 0, time.UTC)
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type env struct {
	svc       *Service
	lifecycle *order.Lifecycle
	directory *auth.Directory
	catalog   *catalog.Catalog
	clock     *time.Time
}

func newEnv(t *testing.T) *env {
	t.Helper()
	cat := catalog.New()
	dir := auth.NewDirectory(bcrypt.MinCost)
	require.NoError(t, seed.Load(seed.Stores{Catalog: cat, Directory: dir}))
	now := day.Add(18 * time.Hour)
	e := &env{directory: dir, catalog: cat, clock: &now}
	e.lifecycle = order.NewLifecycle(order.NewMemoryRepository(), nil, zap.NewNop(), func() time.Time { return *e.clock })
	e.svc = NewService(cat, dir, e.lifecycle, zap.NewNop())
	return e
}

func (e *env) place(t *testing.T, at time.Time, customer string, lines ...order.Line) order.Order {
	t.Helper()
	*e.clock = at
	sub := decimal.Zero
	for _, l := range lines {
		sub = sub.Add(l.Subtotal)
	}
	o, err := e.lifecycle.Create(context.Background(), order.Draft{
		CustomerID:   customer,
		RestaurantID: "rest-1",
		Lines:        lines,
		Totals: order.Totals{
			Subtotal:    sub,
			DeliveryFee: dec("8.90"),
			Discount:    decimal.Zero,
			Total:       sub.Add(dec("8.90")),
		},
		Address:       order.Address{Street: "Rua A", Number: "1", Neighborhood: "B", City: "C", State: "SP", ZipCode: "0"},
		PaymentMethod: order.PaymentPix,
	})
	require.NoError(t, err)
	return o
}

func line(id, name string, qty int, unit string) order.Line {
	u := dec(unit)
	return order.Line{ProductID: id, ProductName: name, Quantity: qty, UnitPrice: u, Subtotal: u.Mul(decimal.NewFromInt(int64(qty)))}
}

func TestStats(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.place(t, day.Add(-2*time.Hour), "client-1", line("prod-1", "Pizza Margherita", 3, "49.90"))
	delivered := e.place(t, day.Add(18*time.Hour), "client-1", line("prod-1", "Pizza Margherita", 1, "57.90"), line("prod-4", "Coca-Cola 2L", 1, "12.90"))
	e.place(t, day.Add(19*time.Hour), "client-2", line("prod-2", "Pizza Calabresa", 2, "42.90"))
	cancelled := e.place(t, day.Add(20*time.Hour), "client-2", line("prod-9", "X-Bacon Gourmet", 10, "34.90"))

	for _, st := range []order.Status{order.StatusPreparing, order.StatusOnTheWay, order.StatusDelivered} {
		_, err := e.lifecycle.Advance(ctx, employee, delivered.ID, st)
		require.NoError(t, err)
	}
	_, err := e.lifecycle.Advance(ctx, employee, cancelled.ID, order.StatusCancelled)
	require.NoError(t, err)

	stats, err := e.svc.Stats(ctx, adminUser, day.Add(12*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "2025-11-13", stats.Day)
	assert.Equal(t, 2, stats.TodayOrders)
	assert.True(t, dec("174.40").Equal(stats.TodayRevenue), "got %s", stats.TodayRevenue)
	assert.Equal(t, 2, stats.PendingOrders)
	assert.Equal(t, 2, stats.ActiveCustomers)

	require.Len(t, stats.TopSellingProducts, 3)
	assert.Equal(t, ProductSales{ID: "prod-1", Name: "Pizza Margherita", SalesCount: 4}, stats.TopSellingProducts[0])
	assert.Equal(t, "prod-2", stats.TopSellingProducts[1].ID)

	require.Len(t, stats.RecentOrders, 4)
	assert.Equal(t, cancelled.ID, stats.RecentOrders[0].ID)
}

func TestStatsRequiresAdmin(t *testing.T) {
	e := newEnv(t)
	_, err := e.svc.Stats(context.Background(), employee, day)
	assert.ErrorIs(t, err, auth.ErrPermissionDenied)
}

func TestCustomerActivation(t *testing.T) {
	e := newEnv(t)

	customers, err := e.svc.Customers(adminUser)
	require.NoError(t, err)
	assert.Len(t, customers, 2)

	p, err := e.svc.SetCustomerActive(adminUser, "client-2", false)
	require.NoError(t, err)
	assert.False(t, p.IsActive)
	_, err = e.directory.Verify(context.Background(), "maria@email.com", seed.DefaultPassword)
	assert.ErrorIs(t, err, auth.ErrAuthenticationFailed)

	_, err = e.svc.SetCustomerActive(adminUser, "employee-1", false)
	assert.ErrorIs(t, err, auth.ErrAccountNotFound)

	_, err = e.svc.SetCustomerActive(employee, "client-1", false)
	assert.ErrorIs(t, err, auth.ErrPermissionDenied)
}

func TestRestaurantAdministration(t *testing.T) {
	e := newEnv(t)

	r, err := e.svc.SetRestaurantActive(adminUser, "rest-2", false)
	require.NoError(t, err)
	assert.False(t, r.IsActive)
	assert.Len(t, e.catalog.Restaurants(true), 1)

	created, err := e.svc.SaveRestaurant(adminUser, catalog.Restaurant{ID: "rest-3", Name: "Sushi Zen", IsActive: true, DeliveryFee: dec("12.00")})
	require.NoError(t, err)
	assert.Equal(t, "Sushi Zen", created.Name)

	all, err := e.svc.Restaurants(adminUser)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = e.svc.SaveRestaurant(adminUser, catalog.Restaurant{ID: "rest-4", DeliveryFee: dec("-1")})
	assert.ErrorIs(t, err, catalog.ErrInvalidRestaurant)

	_, err = e.svc.Restaurants(employee)
	assert.ErrorIs(t, err, auth.ErrPermissionDenied)
}
