package handlers

import (
	"net/http"
	"time"

	"delivery-system/internal/admin"
	"delivery-system/internal/auth"
	"delivery-system/internal/catalog"
	"delivery-system/internal/pricing"

	"github.com/gin-gonic/gin"
)

type AdminHTTPHandler struct {
	admin   *admin.Service
	coupons *pricing.CouponBook
	now     func() time.Time
}

func NewAdminHTTPHandler(svc *admin.Service, coupons *pricing.CouponBook, now func() time.Time) *AdminHTTPHandler {
	if now == nil {
		now = time.Now
	}
	return &AdminHTTPHandler{admin: svc, coupons: coupons, now: now}
}

type StatsQuery struct {
	// Day is YYYY-MM-DD in the gateway's location; today when empty.
	Day string `form:"day"`
}

func (h *AdminHTTPHandler) Stats(c *gin.Context) {
	var query StatsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, "Invalid query parameters")
		return
	}
	now := h.now()
	day := now
	if query.Day != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, query.Day, now.Location())
		if err != nil {
			badRequest(c, "day must be YYYY-MM-DD")
			return
		}
		day = parsed
	}

	stats, err := h.admin.Stats(c.Request.Context(), principal(c), day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Dashboard stats", stats))
}

func (h *AdminHTTPHandler) ListCustomers(c *gin.Context) {
	customers, err := h.admin.Customers(principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successWithMetaResponse("Customers retrieved successfully", customers, ListMeta{Total: len(customers)}))
}

func (h *AdminHTTPHandler) SetCustomerActive(c *gin.Context) {
	active, ok := bindToggle(c)
	if !ok {
		return
	}
	p, err := h.admin.SetCustomerActive(principal(c), c.Param("id"), active)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Customer status updated", p))
}

func (h *AdminHTTPHandler) ListRestaurants(c *gin.Context) {
	restaurants, err := h.admin.Restaurants(principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successWithMetaResponse("Restaurants retrieved successfully", restaurants, ListMeta{Total: len(restaurants)}))
}

func (h *AdminHTTPHandler) SaveRestaurant(c *gin.Context) {
	var req catalog.Restaurant
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	req.ID = c.Param("id")
	r, err := h.admin.SaveRestaurant(principal(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Restaurant saved", r))
}

func (h *AdminHTTPHandler) SetRestaurantActive(c *gin.Context) {
	active, ok := bindToggle(c)
	if !ok {
		return
	}
	r, err := h.admin.SetRestaurantActive(principal(c), c.Param("id"), active)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Restaurant status updated", r))
}

func (h *AdminHTTPHandler) ListCoupons(c *gin.Context) {
	if err := principal(c).Require(auth.PermManageRestaurants); err != nil {
		respondError(c, err)
		return
	}
	coupons := h.coupons.List()
	c.JSON(http.StatusOK, successWithMetaResponse("Coupons retrieved successfully", coupons, ListMeta{Total: len(coupons)}))
}

func (h *AdminHTTPHandler) SaveCoupon(c *gin.Context) {
	if err := principal(c).Require(auth.PermManageRestaurants); err != nil {
		respondError(c, err)
		return
	}
	var req pricing.Coupon
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	if err := h.coupons.Put(req); err != nil {
		respondError(c, err)
		return
	}
	saved, err := h.coupons.Lookup(req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Coupon saved", saved))
}
