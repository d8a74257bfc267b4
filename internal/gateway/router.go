package gateway

import (
	"net/http"
	"time"

	"delivery-system/internal/admin"
	"delivery-system/internal/auth"
	"delivery-system/internal/catalog"
	"delivery-system/internal/checkout"
	"delivery-system/internal/gateway/handlers"
	"delivery-system/internal/gateway/middleware"
	"delivery-system/internal/order"
	"delivery-system/internal/pricing"
	"delivery-system/internal/session"
	"delivery-system/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies are the services the HTTP surface adapts.
type Dependencies struct {
	Catalog   *catalog.Catalog
	Coupons   *pricing.CouponBook
	Directory *auth.Directory
	Sessions  *session.Registry
	Orders    *order.Lifecycle
	Checkout  *checkout.Service
	Admin     *admin.Service
	Tokens    *utils.JWTManager
	Logger    *zap.Logger
	Now       func() time.Time
	// RateLimit in limiter notation; empty disables limiting.
	RateLimit string
	// Health reports backing stores; nil means always healthy.
	Health func() map[string]string
}

func NewRouter(d Dependencies) (*gin.Engine, error) {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}

	r := gin.New()
	r.Use(middleware.CORS())
	r.Use(middleware.Logger(d.Logger))
	r.Use(gin.Recovery())
	if d.RateLimit != "" {
		limit, err := middleware.RateLimit(d.RateLimit)
		if err != nil {
			return nil, err
		}
		r.Use(limit)
	}

	authHandler := handlers.NewAuthHTTPHandler(d.Sessions, d.Directory, d.Tokens, d.Logger)
	catalogHandler := handlers.NewCatalogHTTPHandler(d.Catalog, d.Now)
	cartHandler := handlers.NewCartHTTPHandler(d.Catalog, d.Checkout, d.Sessions)
	orderHandler := handlers.NewOrderHTTPHandler(d.Orders)
	manageHandler := handlers.NewManageHTTPHandler(d.Catalog)
	adminHandler := handlers.NewAdminHTTPHandler(d.Admin, d.Coupons, d.Now)

	// --- Public API Group ---
	public := r.Group("/api/v1")
	{
		authGroup := public.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/register", authHandler.Register)
		}

		public.GET("/restaurants", catalogHandler.ListRestaurants)
		public.GET("/restaurants/:id", catalogHandler.GetRestaurant)
		public.GET("/restaurants/:id/categories", catalogHandler.ListCategories)
		public.GET("/restaurants/:id/products", catalogHandler.ListProducts)
		public.GET("/products/featured", catalogHandler.FeaturedProducts)
		public.GET("/products/:id", catalogHandler.GetProduct)
	}

	// --- Protected API Group ---
	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth(d.Tokens, d.Directory, d.Sessions))
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.Me)

		cartGroup := protected.Group("/cart", middleware.RequirePermission(auth.PermManageCart))
		{
			cartGroup.GET("", cartHandler.GetCart)
			cartGroup.DELETE("", cartHandler.ClearCart)
			cartGroup.GET("/quote", cartHandler.Quote)
			cartGroup.POST("/items", cartHandler.AddItem)
			cartGroup.PUT("/items/:index", cartHandler.UpdateItem)
			cartGroup.DELETE("/items/:index", cartHandler.RemoveItem)
		}
		protected.POST("/checkout", middleware.RequirePermission(auth.PermCreateOrder), cartHandler.Checkout)

		orders := protected.Group("/orders")
		{
			orders.GET("", orderHandler.ListOrders)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.PATCH("/:id/status", middleware.RequirePermission(auth.PermAdvanceOrder), orderHandler.AdvanceOrder)
		}

		manage := protected.Group("/manage", middleware.RequirePermission(auth.PermManageCatalog))
		{
			manage.GET("/products", manageHandler.ListProducts)
			manage.POST("/products", manageHandler.CreateProduct)
			manage.GET("/products/low-stock", manageHandler.LowStock)
			manage.PUT("/products/:id", manageHandler.UpdateProduct)
			manage.PATCH("/products/:id/active", manageHandler.SetProductActive)
			manage.PATCH("/products/:id/featured", manageHandler.SetProductFeatured)
			manage.PATCH("/products/:id/stock", manageHandler.AdjustStock)
			manage.GET("/categories", manageHandler.ListCategories)
			manage.POST("/categories", manageHandler.CreateCategory)
			manage.PUT("/categories/:id", manageHandler.UpdateCategory)
			manage.PATCH("/categories/:id/active", manageHandler.SetCategoryActive)
			manage.PUT("/hours", manageHandler.SetBusinessHours)
		}

		adminGroup := protected.Group("/admin", middleware.RequirePermission(auth.PermReadStats))
		{
			adminGroup.GET("/stats", adminHandler.Stats)
			adminGroup.GET("/customers", adminHandler.ListCustomers)
			adminGroup.PATCH("/customers/:id/active", adminHandler.SetCustomerActive)
			adminGroup.GET("/restaurants", adminHandler.ListRestaurants)
			adminGroup.PUT("/restaurants/:id", adminHandler.SaveRestaurant)
			adminGroup.PATCH("/restaurants/:id/active", adminHandler.SetRestaurantActive)
			adminGroup.GET("/coupons", adminHandler.ListCoupons)
			adminGroup.POST("/coupons", adminHandler.SaveCoupon)
		}
	}

	r.GET("/health", healthCheckHandler(d.Health, d.Now))
	return r, nil
}

func healthCheckHandler(check func() map[string]string, now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "healthy"
		httpStatus := http.StatusOK

		services := map[string]string{}
		if check != nil {
			services = check()
		}
		for _, s := range services {
			if s != "healthy" {
				status = "degraded"
				httpStatus = http.StatusServiceUnavailable
			}
		}

		c.JSON(httpStatus, gin.H{
			"status":    status,
			"message":   "Server is running",
			"services":  services,
			"timestamp": now(),
		})
	}
}
