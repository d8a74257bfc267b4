package admin

import (
	"context"
	"fmt"
	"sort"
	"time"

	"delivery-system/internal/auth"
	"delivery-system/internal/catalog"
	"delivery-system/internal/order"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	topProductsLimit  = 5
	recentOrdersLimit = 5
)

type ProductSales struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	SalesCount int    `json:"sales_count"`
}

type DashboardStats struct {
	Day                string          `json:"day"`
	TodayOrders        int             `json:"today_orders"`
	TodayRevenue       decimal.Decimal `json:"today_revenue"`
	PendingOrders      int             `json:"pending_orders"`
	ActiveCustomers    int             `json:"active_customers"`
	TopSellingProducts []ProductSales  `json:"top_selling_products"`
	RecentOrders       []order.Order   `json:"recent_orders"`
}

// Service is the administrator's view: restaurants, customers and stats.
type Service struct {
	catalog   *catalog.Catalog
	directory *auth.Directory
	orders    *order.Lifecycle
	logger    *zap.Logger
}

func NewService(cat *catalog.Catalog, dir *auth.Directory, orders *order.Lifecycle, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{catalog: cat, directory: dir, orders: orders, logger: logger}
}

// Stats aggregates the dashboard for the calendar day containing day, in
// day's location. Cancelled orders count toward nothing.
func (s *Service) Stats(ctx context.Context, by auth.Principal, day time.Time) (DashboardStats, error) {
	if err := by.Require(auth.PermReadStats); err != nil {
		return DashboardStats{}, err
	}
	all, err := s.orders.Query(ctx, order.Filter{})
	if err != nil {
		return DashboardStats{}, fmt.Errorf("load orders: %w", err)
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	stats := DashboardStats{
		Day:          start.Format("2006-01-02"),
		TodayRevenue: decimal.Zero,
	}

	sales := make(map[string]*ProductSales)
	for _, o := range all {
		if o.Status.IsPending() {
			stats.PendingOrders++
		}
		if o.Status == order.StatusCancelled {
			continue
		}
		if !o.CreatedAt.Before(start) && o.CreatedAt.Before(end) {
			stats.TodayOrders++
			stats.TodayRevenue = stats.TodayRevenue.Add(o.Total)
		}
		for _, l := range o.Lines {
			ps, ok := sales[l.ProductID]
			if !ok {
				ps = &ProductSales{ID: l.ProductID, Name: l.ProductName}
				sales[l.ProductID] = ps
			}
			ps.SalesCount += l.Quantity
		}
	}

	stats.TopSellingProducts = topSellers(sales, topProductsLimit)
	for _, c := range s.directory.List(auth.RoleClient) {
		if c.IsActive {
			stats.ActiveCustomers++
		}
	}
	// all is already newest first
	if len(all) > recentOrdersLimit {
		all = all[:recentOrdersLimit]
	}
	stats.RecentOrders = all
	return stats, nil
}

func topSellers(sales map[string]*ProductSales, n int) []ProductSales {
	out := make([]ProductSales, 0, len(sales))
	for _, ps := range sales {
		out = append(out, *ps)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SalesCount != out[j].SalesCount {
			return out[i].SalesCount > out[j].SalesCount
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func (s *Service) Customers(by auth.Principal) ([]auth.Principal, error) {
	if err := by.Require(auth.PermManageCustomers); err != nil {
		return nil, err
	}
	return s.directory.List(auth.RoleClient), nil
}

// SetCustomerActive toggles a client account. Staff accounts are not customers.
func (s *Service) SetCustomerActive(by auth.Principal, id string, active bool) (auth.Principal, error) {
	if err := by.Require(auth.PermManageCustomers); err != nil {
		return auth.Principal{}, err
	}
	p, err := s.directory.Find(id)
	if err != nil {
		return auth.Principal{}, err
	}
	if p.Role != auth.RoleClient {
		return auth.Principal{}, fmt.Errorf("%w: %s is not a customer", auth.ErrAccountNotFound, id)
	}
	p, err = s.directory.SetActive(id, active)
	if err != nil {
		return auth.Principal{}, err
	}
	s.logger.Info("customer status changed", zap.String("customer_id", id), zap.Bool("active", active), zap.String("by", by.ID))
	return p, nil
}

func (s *Service) Restaurants(by auth.Principal) ([]catalog.Restaurant, error) {
	if err := by.Require(auth.PermManageRestaurants); err != nil {
		return nil, err
	}
	return s.catalog.Restaurants(false), nil
}

// SaveRestaurant creates or replaces a restaurant.
func (s *Service) SaveRestaurant(by auth.Principal, r catalog.Restaurant) (catalog.Restaurant, error) {
	if err := by.Require(auth.PermManageRestaurants); err != nil {
		return catalog.Restaurant{}, err
	}
	if err := s.catalog.PutRestaurant(r); err != nil {
		return catalog.Restaurant{}, err
	}
	s.logger.Info("restaurant saved", zap.String("restaurant_id", r.ID), zap.String("by", by.ID))
	return s.catalog.Restaurant(r.ID)
}

func (s *Service) SetRestaurantActive(by auth.Principal, id string, active bool) (catalog.Restaurant, error) {
	if err := by.Require(auth.PermManageRestaurants); err != nil {
		return catalog.Restaurant{}, err
	}
	r, err := s.catalog.Restaurant(id)
	if err != nil {
		return catalog.Restaurant{}, err
	}
	r.IsActive = active
	return s.SaveRestaurant(by, r)
}
