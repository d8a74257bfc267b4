package handlers

import (
	"net/http"

	"delivery-system/internal/catalog"

	"github.com/gin-gonic/gin"
)

// ManageHTTPHandler is the employee back office. Every write is scoped to the
// employee's own restaurant by the catalog.
type ManageHTTPHandler struct {
	catalog *catalog.Catalog
}

func NewManageHTTPHandler(cat *catalog.Catalog) *ManageHTTPHandler {
	return &ManageHTTPHandler{catalog: cat}
}

type ToggleRequest struct {
	Value *bool `json:"value" binding:"required"`
}

type AdjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

func bindToggle(c *gin.Context) (bool, bool) {
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return false, false
	}
	return *req.Value, true
}

func (h *ManageHTTPHandler) ListProducts(c *gin.Context) {
	p := principal(c)
	products := h.catalog.Products(catalog.ProductFilter{RestaurantID: p.RestaurantID})
	c.JSON(http.StatusOK, successWithMetaResponse("Products retrieved successfully", products, ListMeta{Total: len(products)}))
}

func (h *ManageHTTPHandler) CreateProduct(c *gin.Context) {
	var req catalog.Product
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	p := principal(c)
	if req.RestaurantID == "" {
		req.RestaurantID = p.RestaurantID
	}
	created, err := h.catalog.CreateProduct(p, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse("Product created", created))
}

func (h *ManageHTTPHandler) UpdateProduct(c *gin.Context) {
	var req catalog.Product
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	p := principal(c)
	req.ID = c.Param("id")
	if req.RestaurantID == "" {
		req.RestaurantID = p.RestaurantID
	}
	updated, err := h.catalog.UpdateProduct(p, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Product updated", updated))
}

func (h *ManageHTTPHandler) SetProductActive(c *gin.Context) {
	active, ok := bindToggle(c)
	if !ok {
		return
	}
	updated, err := h.catalog.SetProductActive(principal(c), c.Param("id"), active)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Product availability updated", updated))
}

func (h *ManageHTTPHandler) SetProductFeatured(c *gin.Context) {
	featured, ok := bindToggle(c)
	if !ok {
		return
	}
	updated, err := h.catalog.SetProductFeatured(principal(c), c.Param("id"), featured)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Product featured flag updated", updated))
}

func (h *ManageHTTPHandler) AdjustStock(c *gin.Context) {
	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	updated, err := h.catalog.AdjustStock(principal(c), c.Param("id"), req.Delta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Stock adjusted", updated))
}

func (h *ManageHTTPHandler) LowStock(c *gin.Context) {
	products, err := h.catalog.LowStock(principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successWithMetaResponse("Low stock products", products, ListMeta{Total: len(products)}))
}

func (h *ManageHTTPHandler) ListCategories(c *gin.Context) {
	cats := h.catalog.Categories(principal(c).RestaurantID, false)
	c.JSON(http.StatusOK, successWithMetaResponse("Categories retrieved successfully", cats, ListMeta{Total: len(cats)}))
}

func (h *ManageHTTPHandler) CreateCategory(c *gin.Context) {
	var req catalog.Category
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	p := principal(c)
	if req.RestaurantID == "" {
		req.RestaurantID = p.RestaurantID
	}
	created, err := h.catalog.CreateCategory(p, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse("Category created", created))
}

func (h *ManageHTTPHandler) UpdateCategory(c *gin.Context) {
	var req catalog.Category
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	p := principal(c)
	req.ID = c.Param("id")
	if req.RestaurantID == "" {
		req.RestaurantID = p.RestaurantID
	}
	updated, err := h.catalog.UpdateCategory(p, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Category updated", updated))
}

func (h *ManageHTTPHandler) SetCategoryActive(c *gin.Context) {
	active, ok := bindToggle(c)
	if !ok {
		return
	}
	updated, err := h.catalog.SetCategoryActive(principal(c), c.Param("id"), active)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Category availability updated", updated))
}

func (h *ManageHTTPHandler) SetBusinessHours(c *gin.Context) {
	var hours []catalog.BusinessHours
	if err := c.ShouldBindJSON(&hours); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	p := principal(c)
	r, err := h.catalog.SetBusinessHours(p, p.RestaurantID, hours)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Business hours updated", r))
}
