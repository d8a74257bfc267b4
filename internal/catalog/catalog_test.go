package catalog

import (
	"testing"

	"delivery-system/internal/auth"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	employee = auth.Principal{ID: "employee-1", Role: auth.RoleEmployee, RestaurantID: "rest-1"}
	outsider = auth.Principal{ID: "employee-9", Role: auth.RoleEmployee, RestaurantID: "rest-2"}
	client   = auth.Principal{ID: "client-1", Role: auth.RoleClient}
)

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func fixture(t *testing.T) *Catalog {
	t.Helper()
	c := New()
	require.NoError(t, c.PutRestaurant(Restaurant{ID: "rest-1", Name: "Pizzaria Bella Napoli", IsActive: true, DeliveryFee: price("8.90")}))
	require.NoError(t, c.PutRestaurant(Restaurant{ID: "rest-2", Name: "Burger House Premium", IsActive: false, DeliveryFee: price("10.00")}))
	require.NoError(t, c.PutCategory(Category{ID: "cat-2", Name: "Pizzas Doces", RestaurantID: "rest-1", IsActive: true, Order: 2}))
	require.NoError(t, c.PutCategory(Category{ID: "cat-1", Name: "Pizzas Salgadas", RestaurantID: "rest-1", IsActive: true, Order: 1}))
	require.NoError(t, c.PutCategory(Category{ID: "cat-3", Name: "Bebidas", RestaurantID: "rest-1", IsActive: false, Order: 3}))
	require.NoError(t, c.PutCategory(Category{ID: "cat-4", Name: "Hambúrgueres", RestaurantID: "rest-2", IsActive: true, Order: 1}))
	require.NoError(t, c.PutProduct(Product{
		ID: "prod-1", Name: "Pizza Margherita", CategoryID: "cat-1", RestaurantID: "rest-1",
		Variations: []Variation{
			{ID: "var-1-1", Name: "Pequena", Price: price("29.90")},
			{ID: "var-1-3", Name: "Grande", Price: price("49.90")},
		},
		Addons:        []Addon{{ID: "addon-1", Name: "Borda recheada", Price: price("8.00")}},
		StockQuantity: 50, IsActive: true, IsFeatured: true,
	}))
	require.NoError(t, c.PutProduct(Product{
		ID: "prod-3", Name: "Pizza de Chocolate", CategoryID: "cat-2", RestaurantID: "rest-1",
		Variations:    []Variation{{ID: "var-3-1", Name: "Média", Price: price("42.90")}},
		StockQuantity: 8, IsActive: false,
	}))
	require.NoError(t, c.PutProduct(Product{
		ID: "prod-7", Name: "Classic Burger", CategoryID: "cat-4", RestaurantID: "rest-2",
		Variations:    []Variation{{ID: "var-7-1", Name: "Simples", Price: price("28.90")}},
		StockQuantity: 40, IsActive: true,
	}))
	return c
}

func TestProductValidate(t *testing.T) {
	base := func() Product {
		return Product{ID: "p", RestaurantID: "rest-1", Variations: []Variation{{ID: "v", Price: price("1")}}}
	}
	tests := []struct {
		name   string
		mutate func(*Product)
		ok     bool
	}{
		{"valid", func(p *Product) {}, true},
		{"no variations", func(p *Product) { p.Variations = nil }, false},
		{"negative stock", func(p *Product) { p.StockQuantity = -1 }, false},
		{"negative price", func(p *Product) { p.Variations[0].Price = price("-1") }, false},
		{"duplicate ids", func(p *Product) { p.Addons = []Addon{{ID: "v", Price: price("1")}} }, false},
		{"no restaurant", func(p *Product) { p.RestaurantID = "" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base()
			tt.mutate(&p)
			err := p.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidProduct)
			}
		})
	}
}

func TestStartingPrice(t *testing.T) {
	c := fixture(t)
	p, err := c.Product("prod-1")
	require.NoError(t, err)
	assert.True(t, price("29.90").Equal(p.StartingPrice()))
}

func TestReads(t *testing.T) {
	c := fixture(t)

	assert.Len(t, c.Restaurants(false), 2)
	active := c.Restaurants(true)
	require.Len(t, active, 1)
	assert.Equal(t, "rest-1", active[0].ID)

	cats := c.Categories("rest-1", true)
	require.Len(t, cats, 2)
	assert.Equal(t, "cat-1", cats[0].ID)
	assert.Equal(t, "cat-2", cats[1].ID)
	assert.Len(t, c.Categories("rest-1", false), 3)

	assert.Len(t, c.Products(ProductFilter{RestaurantID: "rest-1", ActiveOnly: true}), 1)
	assert.Len(t, c.Products(ProductFilter{RestaurantID: "rest-1"}), 2)
	assert.Len(t, c.Products(ProductFilter{FeaturedOnly: true}), 1)
	assert.Len(t, c.Products(ProductFilter{CategoryID: "cat-4"}), 1)

	_, err := c.Product("prod-404")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReadsReturnCopies(t *testing.T) {
	c := fixture(t)
	p, _ := c.Product("prod-1")
	p.Variations[0].Price = price("0.01")
	again, _ := c.Product("prod-1")
	assert.True(t, price("29.90").Equal(again.Variations[0].Price))
}

func TestPutProductCategoryMustMatchRestaurant(t *testing.T) {
	c := fixture(t)
	err := c.PutProduct(Product{ID: "x", RestaurantID: "rest-1", CategoryID: "cat-4", Variations: []Variation{{ID: "v"}}})
	assert.ErrorIs(t, err, ErrInvalidProduct)
}

func TestEmployeeManagementIsScoped(t *testing.T) {
	c := fixture(t)

	for _, p := range []auth.Principal{outsider, client} {
		_, err := c.SetProductActive(p, "prod-1", false)
		assert.ErrorIs(t, err, auth.ErrPermissionDenied)
		_, err = c.AdjustStock(p, "prod-1", 1)
		assert.ErrorIs(t, err, auth.ErrPermissionDenied)
		_, err = c.SetCategoryActive(p, "cat-1", false)
		assert.ErrorIs(t, err, auth.ErrPermissionDenied)
	}

	p, err := c.SetProductActive(employee, "prod-3", true)
	require.NoError(t, err)
	assert.True(t, p.IsActive)

	p, err = c.SetProductFeatured(employee, "prod-3", true)
	require.NoError(t, err)
	assert.True(t, p.IsFeatured)

	cat, err := c.SetCategoryActive(employee, "cat-3", true)
	require.NoError(t, err)
	assert.True(t, cat.IsActive)
}

func TestCreateAndUpdateProduct(t *testing.T) {
	c := fixture(t)

	created, err := c.CreateProduct(employee, Product{
		Name: "Pizza Calabresa", CategoryID: "cat-1", RestaurantID: "rest-1",
		Variations: []Variation{{ID: "var-n-1", Name: "Média", Price: price("39.90")}},
		IsActive:   true,
	})
	require.NoError(t, err)
	assert.Contains(t, created.ID, "prod-")

	_, err = c.CreateProduct(employee, Product{ID: "p2", RestaurantID: "rest-2", Variations: []Variation{{ID: "v"}}})
	assert.ErrorIs(t, err, auth.ErrPermissionDenied)

	created.Name = "Pizza Calabresa Especial"
	updated, err := c.UpdateProduct(employee, created)
	require.NoError(t, err)
	assert.Equal(t, "Pizza Calabresa Especial", updated.Name)

	created.RestaurantID = "rest-2"
	_, err = c.UpdateProduct(employee, created)
	assert.ErrorIs(t, err, ErrInvalidProduct)

	_, err = c.UpdateProduct(employee, Product{ID: "ghost"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateAndUpdateCategory(t *testing.T) {
	c := fixture(t)
	cat, err := c.CreateCategory(employee, Category{Name: "Sobremesas", RestaurantID: "rest-1", IsActive: true, Order: 4})
	require.NoError(t, err)
	assert.Contains(t, cat.ID, "cat-")

	cat.Name = "Doces"
	got, err := c.UpdateCategory(employee, cat)
	require.NoError(t, err)
	assert.Equal(t, "Doces", got.Name)

	_, err = c.UpdateCategory(outsider, cat)
	assert.ErrorIs(t, err, auth.ErrPermissionDenied)
}

func TestAdjustStockAndLowStock(t *testing.T) {
	c := fixture(t)

	p, err := c.AdjustStock(employee, "prod-1", -45)
	require.NoError(t, err)
	assert.Equal(t, 5, p.StockQuantity)

	_, err = c.AdjustStock(employee, "prod-1", -6)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	p, _ = c.Product("prod-1")
	assert.Equal(t, 5, p.StockQuantity)

	low, err := c.LowStock(employee)
	require.NoError(t, err)
	ids := []string{}
	for _, p := range low {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []string{"prod-1", "prod-3"}, ids)

	_, err = c.LowStock(client)
	assert.ErrorIs(t, err, auth.ErrPermissionDenied)
}

func TestReserveIsAllOrNothing(t *testing.T) {
	c := fixture(t)

	err := c.Reserve([]StockRequest{{ProductID: "prod-1", Quantity: 30}, {ProductID: "prod-1", Quantity: 30}})
	assert.ErrorIs(t, err, ErrInsufficientStock)
	p, _ := c.Product("prod-1")
	assert.Equal(t, 50, p.StockQuantity)

	err = c.Reserve([]StockRequest{{ProductID: "prod-1", Quantity: 1}, {ProductID: "prod-3", Quantity: 1}})
	assert.ErrorIs(t, err, ErrInvalidProduct)
	p, _ = c.Product("prod-1")
	assert.Equal(t, 50, p.StockQuantity)

	err = c.Reserve([]StockRequest{{ProductID: "prod-404", Quantity: 1}})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.Reserve([]StockRequest{{ProductID: "prod-1", Quantity: 2}, {ProductID: "prod-7", Quantity: 3}}))
	p, _ = c.Product("prod-1")
	assert.Equal(t, 48, p.StockQuantity)

	c.Release([]StockRequest{{ProductID: "prod-1", Quantity: 2}, {ProductID: "ghost", Quantity: 1}})
	p, _ = c.Product("prod-1")
	assert.Equal(t, 50, p.StockQuantity)
}
