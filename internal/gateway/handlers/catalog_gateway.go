package handlers

import (
	"net/http"
	"time"

	"delivery-system/internal/catalog"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CatalogHTTPHandler serves the public storefront reads. Inactive entries are
// hidden.
type CatalogHTTPHandler struct {
	catalog *catalog.Catalog
	now     func() time.Time
}

func NewCatalogHTTPHandler(cat *catalog.Catalog, now func() time.Time) *CatalogHTTPHandler {
	if now == nil {
		now = time.Now
	}
	return &CatalogHTTPHandler{catalog: cat, now: now}
}

type restaurantView struct {
	catalog.Restaurant
	IsOpen bool `json:"is_open"`
}

type productView struct {
	catalog.Product
	StartingPrice decimal.Decimal `json:"starting_price"`
}

type ProductsQuery struct {
	CategoryID string `form:"category_id"`
	Featured   bool   `form:"featured"`
}

func (h *CatalogHTTPHandler) viewRestaurant(r catalog.Restaurant) restaurantView {
	return restaurantView{Restaurant: r, IsOpen: r.IsActive && r.IsOpenAt(h.now())}
}

func viewProducts(products []catalog.Product) []productView {
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, productView{Product: p, StartingPrice: p.StartingPrice()})
	}
	return out
}

func (h *CatalogHTTPHandler) activeRestaurant(c *gin.Context) (catalog.Restaurant, bool) {
	r, err := h.catalog.Restaurant(c.Param("id"))
	if err != nil || !r.IsActive {
		c.JSON(http.StatusNotFound, errorResponse("Restaurant not found"))
		return catalog.Restaurant{}, false
	}
	return r, true
}

func (h *CatalogHTTPHandler) ListRestaurants(c *gin.Context) {
	restaurants := h.catalog.Restaurants(true)
	out := make([]restaurantView, 0, len(restaurants))
	for _, r := range restaurants {
		out = append(out, h.viewRestaurant(r))
	}
	c.JSON(http.StatusOK, successWithMetaResponse("Restaurants retrieved successfully", out, ListMeta{Total: len(out)}))
}

func (h *CatalogHTTPHandler) GetRestaurant(c *gin.Context) {
	r, ok := h.activeRestaurant(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, successResponse("Restaurant retrieved successfully", h.viewRestaurant(r)))
}

func (h *CatalogHTTPHandler) ListCategories(c *gin.Context) {
	r, ok := h.activeRestaurant(c)
	if !ok {
		return
	}
	cats := h.catalog.Categories(r.ID, true)
	c.JSON(http.StatusOK, successWithMetaResponse("Categories retrieved successfully", cats, ListMeta{Total: len(cats)}))
}

func (h *CatalogHTTPHandler) ListProducts(c *gin.Context) {
	r, ok := h.activeRestaurant(c)
	if !ok {
		return
	}
	var query ProductsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, "Invalid query parameters")
		return
	}
	if query.CategoryID != "" {
		cat, err := h.catalog.Category(query.CategoryID)
		if err != nil || !cat.IsActive || cat.RestaurantID != r.ID {
			c.JSON(http.StatusNotFound, errorResponse("Category not found"))
			return
		}
	}

	products := viewProducts(h.catalog.Products(catalog.ProductFilter{
		RestaurantID: r.ID,
		CategoryID:   query.CategoryID,
		FeaturedOnly: query.Featured,
		ActiveOnly:   true,
	}))
	c.JSON(http.StatusOK, successWithMetaResponse("Products retrieved successfully", products, ListMeta{Total: len(products)}))
}

func (h *CatalogHTTPHandler) FeaturedProducts(c *gin.Context) {
	products := viewProducts(h.catalog.Products(catalog.ProductFilter{FeaturedOnly: true, ActiveOnly: true}))
	c.JSON(http.StatusOK, successWithMetaResponse("Featured products retrieved successfully", products, ListMeta{Total: len(products)}))
}

func (h *CatalogHTTPHandler) GetProduct(c *gin.Context) {
	p, err := h.catalog.Product(c.Param("id"))
	if err != nil || !p.IsActive {
		c.JSON(http.StatusNotFound, errorResponse("Product not found"))
		return
	}
	c.JSON(http.StatusOK, successResponse("Product retrieved successfully", productView{Product: p, StartingPrice: p.StartingPrice()}))
}
