package seed

import (
	"time"

	"delivery-system/internal/auth"
	"delivery-system/internal/catalog"
	"delivery-system/internal/pricing"

	"github.com/shopspring/decimal"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "123456"

func brl(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func brlPtr(s string) *decimal.Decimal {
	d := brl(s)
	return &d
}

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func rating(r float64) *float64 { return &r }

func limit(n int) *int { return &n }

func defaultHours() []catalog.BusinessHours {
	hours := make([]catalog.BusinessHours, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		closing := "23:00"
		if d == time.Friday || d == time.Saturday {
			closing = "00:00"
		}
		hours = append(hours, catalog.BusinessHours{DayOfWeek: d, IsOpen: true, OpenTime: "11:00", CloseTime: closing})
	}
	return hours
}

func Users() []auth.Principal {
	return []auth.Principal{
		{ID: "client-1", Name: "João Silva", Email: "joao@email.com", Phone: "(11) 98765-4321", Role: auth.RoleClient, IsActive: true, CreatedAt: ts("2024-01-15T10:30:00Z")},
		{ID: "client-2", Name: "Maria Santos", Email: "maria@email.com", Phone: "(11) 91234-5678", Role: auth.RoleClient, IsActive: true, CreatedAt: ts("2024-02-20T14:20:00Z")},
		{ID: "employee-1", Name: "Carlos Souza", Email: "carlos@restaurant.com", Phone: "(11) 99999-8888", Role: auth.RoleEmployee, RestaurantID: "rest-1", IsActive: true, CreatedAt: ts("2023-11-10T09:00:00Z")},
		{ID: "employee-2", Name: "Ana Lima", Email: "ana@restaurant.com", Phone: "(11) 88888-7777", Role: auth.RoleEmployee, RestaurantID: "rest-1", IsActive: true, CreatedAt: ts("2023-12-05T08:30:00Z")},
		{ID: "admin-1", Name: "Roberto Admin", Email: "admin@deliverysystem.com", Phone: "(11) 77777-6666", Role: auth.RoleAdmin, IsActive: true, CreatedAt: ts("2023-01-01T00:00:00Z")},
	}
}

func Restaurants() []catalog.Restaurant {
	return []catalog.Restaurant{
		{
			ID:                    "rest-1",
			Name:                  "Pizzaria Bella Napoli",
			Description:           "As melhores pizzas artesanais da cidade",
			Address:               "Rua Vergueiro, 2000 - Vila Mariana, São Paulo - SP",
			Phone:                 "(11) 3456-7890",
			Email:                 "contato@bellanapoli.com",
			BusinessHours:         defaultHours(),
			IsActive:              true,
			Rating:                rating(4.8),
			MinimumOrder:          brlPtr("25.00"),
			DeliveryFee:           brl("8.90"),
			EstimatedDeliveryTime: "30-45 min",
		},
		{
			ID:                    "rest-2",
			Name:                  "Burger House Premium",
			Description:           "Hambúrgueres gourmet irresistíveis",
			Address:               "Av. Faria Lima, 3000 - Itaim Bibi, São Paulo - SP",
			Phone:                 "(11) 2345-6789",
			Email:                 "contato@burgerhouse.com",
			BusinessHours:         defaultHours(),
			IsActive:              true,
			Rating:                rating(4.6),
			MinimumOrder:          brlPtr("30.00"),
			DeliveryFee:           brl("10.00"),
			EstimatedDeliveryTime: "25-40 min",
		},
	}
}

func Categories() []catalog.Category {
	return []catalog.Category{
		{ID: "cat-1", Name: "Pizzas", Description: "Pizzas artesanais e tradicionais", IsActive: true, Order: 1, RestaurantID: "rest-1"},
		{ID: "cat-2", Name: "Bebidas", Description: "Refrigerantes, sucos e cervejas", IsActive: true, Order: 2, RestaurantID: "rest-1"},
		{ID: "cat-3", Name: "Sobremesas", Description: "Doces e sobremesas deliciosas", IsActive: true, Order: 3, RestaurantID: "rest-1"},
		{ID: "cat-4", Name: "Massas", Description: "Massas frescas e tradicionais", IsActive: true, Order: 4, RestaurantID: "rest-1"},
		{ID: "cat-5", Name: "Saladas", Description: "Saladas frescas e saudáveis", IsActive: true, Order: 5, RestaurantID: "rest-1"},
		{ID: "cat-6", Name: "Hambúrgueres", Description: "Burgers artesanais e gourmet", IsActive: true, Order: 6, RestaurantID: "rest-2"},
	}
}

func v(id, name, price string) catalog.Variation {
	return catalog.Variation{ID: id, Name: name, Price: brl(price)}
}

func a(id, name, price string) catalog.Addon {
	return catalog.Addon{ID: id, Name: name, Price: brl(price)}
}

func Products() []catalog.Product {
	borda := a("addon-1", "Borda recheada", "8.00")
	bacon := a("addon-2", "Bacon extra", "5.00")
	return []catalog.Product{
		{
			ID: "prod-1", Name: "Pizza Margherita", Description: "Molho de tomate, mussarela, manjericão fresco e azeite",
			CategoryID: "cat-1", RestaurantID: "rest-1",
			Variations:    []catalog.Variation{v("var-1-1", "Pequena", "29.90"), v("var-1-2", "Média", "39.90"), v("var-1-3", "Grande", "49.90")},
			Addons:        []catalog.Addon{borda, bacon, a("addon-3", "Azeitonas", "3.00")},
			StockQuantity: 50, IsActive: true, IsFeatured: true, Rating: rating(4.9), ReviewsCount: 234, PreparationMinutes: 30,
		},
		{
			ID: "prod-2", Name: "Pizza Calabresa", Description: "Calabresa, cebola, mussarela e orégano",
			CategoryID: "cat-1", RestaurantID: "rest-1",
			Variations:    []catalog.Variation{v("var-2-1", "Pequena", "32.90"), v("var-2-2", "Média", "42.90"), v("var-2-3", "Grande", "52.90")},
			Addons:        []catalog.Addon{borda, bacon},
			StockQuantity: 45, IsActive: true, IsFeatured: true, Rating: rating(4.7), ReviewsCount: 189, PreparationMinutes: 30,
		},
		{
			ID: "prod-3", Name: "Pizza Quatro Queijos", Description: "Mussarela, provolone, gorgonzola e parmesão",
			CategoryID: "cat-1", RestaurantID: "rest-1",
			Variations:    []catalog.Variation{v("var-3-1", "Pequena", "35.90"), v("var-3-2", "Média", "45.90"), v("var-3-3", "Grande", "55.90")},
			Addons:        []catalog.Addon{borda},
			StockQuantity: 40, IsActive: true, Rating: rating(4.8), ReviewsCount: 156, PreparationMinutes: 30,
		},
		{
			ID: "prod-4", Name: "Coca-Cola 2L", Description: "Refrigerante Coca-Cola 2 litros",
			CategoryID: "cat-2", RestaurantID: "rest-1",
			Variations:    []catalog.Variation{v("var-4-1", "Unidade", "12.90")},
			StockQuantity: 100, IsActive: true, Rating: rating(5.0), ReviewsCount: 89,
		},
		{
			ID: "prod-5", Name: "Guaraná Antarctica 2L", Description: "Refrigerante Guaraná Antarctica 2 litros",
			CategoryID: "cat-2", RestaurantID: "rest-1",
			Variations:    []catalog.Variation{v("var-5-1", "Unidade", "11.90")},
			StockQuantity: 80, IsActive: true, Rating: rating(4.9), ReviewsCount: 67,
		},
		{
			ID: "prod-6", Name: "Petit Gateau", Description: "Bolinho de chocolate quente com sorvete",
			CategoryID: "cat-3", RestaurantID: "rest-1",
			Variations:    []catalog.Variation{v("var-6-1", "Unidade", "18.90")},
			StockQuantity: 30, IsActive: true, IsFeatured: true, Rating: rating(4.9), ReviewsCount: 112, PreparationMinutes: 15,
		},
		{
			ID: "prod-7", Name: "Espaguete à Carbonara", Description: "Massa fresca com bacon, ovos e parmesão",
			CategoryID: "cat-4", RestaurantID: "rest-1",
			Variations:    []catalog.Variation{v("var-7-1", "Porção Individual", "32.90"), v("var-7-2", "Porção para 2", "54.90")},
			StockQuantity: 35, IsActive: true, IsFeatured: true, Rating: rating(4.8), ReviewsCount: 145, PreparationMinutes: 25,
		},
		{
			ID: "prod-8", Name: "Salada Caesar", Description: "Alface romana, frango grelhado, croutons e molho caesar",
			CategoryID: "cat-5", RestaurantID: "rest-1",
			Variations:    []catalog.Variation{v("var-8-1", "Individual", "24.90")},
			StockQuantity: 25, IsActive: true, Rating: rating(4.6), ReviewsCount: 78, PreparationMinutes: 15,
		},
		{
			ID: "prod-9", Name: "X-Bacon Gourmet", Description: "Hambúrguer artesanal, bacon, queijo cheddar, alface e tomate",
			CategoryID: "cat-6", RestaurantID: "rest-2",
			Variations: []catalog.Variation{v("var-9-1", "Individual", "34.90"), v("var-9-2", "Com Fritas", "42.90")},
			Addons: []catalog.Addon{
				a("addon-4", "Bacon extra", "6.00"),
				a("addon-5", "Queijo extra", "5.00"),
				a("addon-6", "Ovo", "3.00"),
			},
			StockQuantity: 40, IsActive: true, IsFeatured: true, Rating: rating(4.9), ReviewsCount: 267, PreparationMinutes: 20,
		},
	}
}

func Coupons() []pricing.Coupon {
	return []pricing.Coupon{
		{
			ID: "coup-1", Code: "PRIMEIRACOMPRA", Type: pricing.Percentage, Value: brl("20"),
			MinOrderValue: brl("30.00"), MaxDiscount: brlPtr("15.00"),
			ValidFrom: ts("2025-01-01T00:00:00Z"), ValidUntil: ts("2025-12-31T23:59:59Z"),
			IsActive: true, UsageLimit: limit(1000), UsageCount: 234,
		},
		{
			ID: "coup-2", Code: "FRETEGRATIS", Type: pricing.Fixed, Value: brl("8.90"),
			MinOrderValue: brl("50.00"),
			ValidFrom:     ts("2025-01-01T00:00:00Z"), ValidUntil: ts("2025-12-31T23:59:59Z"),
			IsActive: true, UsageLimit: limit(500), UsageCount: 178,
		},
		{
			ID: "coup-3", Code: "PIZZA10", Type: pricing.Fixed, Value: brl("10.00"),
			MinOrderValue: brl("40.00"),
			ValidFrom:     ts("2025-01-01T00:00:00Z"), ValidUntil: ts("2025-03-31T23:59:59Z"),
			IsActive: true, RestaurantID: "rest-1", UsageCount: 89,
		},
	}
}
