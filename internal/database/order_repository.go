package database

import (
	"context"
	"errors"
	"fmt"

	"delivery-system/internal/catalog"
	"delivery-system/internal/database/models"
	"delivery-system/internal/order"

	"gorm.io/gorm"
)

// OrderRepository keeps orders in postgres. Updates are guarded by the
// version column so concurrent gateways cannot overwrite each other.
type OrderRepository struct {
	db *gorm.DB
}

var _ order.Repository = (*OrderRepository)(nil)

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func preloadLines(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *OrderRepository) Create(ctx context.Context, o order.Order) error {
	rec := toRecord(o)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: duplicate id %s", order.ErrInvalidOrder, o.ID)
		}
		return fmt.Errorf("failed to create order %s: %w", o.ID, err)
	}
	return nil
}

func (r *OrderRepository) Get(ctx context.Context, id string) (order.Order, error) {
	var rec models.OrderRecord
	err := r.db.WithContext(ctx).
		Preload("Lines", preloadLines).
		First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return order.Order{}, fmt.Errorf("%w: %s", order.ErrNotFound, id)
	}
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	return toOrder(rec), nil
}

// Update writes the mutable columns only. Lines and totals are fixed at
// creation.
func (r *OrderRepository) Update(ctx context.Context, o order.Order, expectedVersion int) (order.Order, error) {
	rec := toRecord(o)
	res := r.db.WithContext(ctx).
		Model(&models.OrderRecord{}).
		Where("id = ? AND version = ?", o.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":     rec.Status,
			"history":    rec.History,
			"updated_at": o.UpdatedAt,
			"version":    expectedVersion + 1,
		})
	if res.Error != nil {
		return order.Order{}, fmt.Errorf("failed to update order %s: %w", o.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.OrderRecord{}).Where("id = ?", o.ID).Count(&count).Error; err != nil {
			return order.Order{}, fmt.Errorf("failed to update order %s: %w", o.ID, err)
		}
		if count == 0 {
			return order.Order{}, fmt.Errorf("%w: %s", order.ErrNotFound, o.ID)
		}
		return order.Order{}, fmt.Errorf("%w: %s expected version %d", order.ErrVersionConflict, o.ID, expectedVersion)
	}
	o.Version = expectedVersion + 1
	return o, nil
}

func (r *OrderRepository) List(ctx context.Context, f order.Filter) ([]order.Order, error) {
	q := r.db.WithContext(ctx).Model(&models.OrderRecord{}).Preload("Lines", preloadLines)
	if f.CustomerID != "" {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.RestaurantID != "" {
		q = q.Where("restaurant_id = ?", f.RestaurantID)
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		q = q.Where("status IN ?", statuses)
	}
	if !f.Since.IsZero() {
		q = q.Where("created_at >= ?", f.Since)
	}
	if !f.Until.IsZero() {
		q = q.Where("created_at < ?", f.Until)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var recs []models.OrderRecord
	if err := q.Order("created_at DESC").Order("id DESC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	out := make([]order.Order, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toOrder(rec))
	}
	return out, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toRecord(o order.Order) models.OrderRecord {
	rec := models.OrderRecord{
		ID:            o.ID,
		CustomerID:    o.CustomerID,
		CustomerName:  o.CustomerName,
		RestaurantID:  o.RestaurantID,
		Status:        string(o.Status),
		Subtotal:      o.Subtotal,
		DeliveryFee:   o.DeliveryFee,
		Discount:      o.Discount,
		Total:         o.Total,
		CouponCode:    optional(o.CouponCode),
		PaymentMethod: string(o.PaymentMethod),
		Observations:  optional(o.Observations),
		Address: models.Address{
			Street:       o.Address.Street,
			Number:       o.Address.Number,
			Complement:   optional(o.Address.Complement),
			Neighborhood: o.Address.Neighborhood,
			City:         o.Address.City,
			State:        o.Address.State,
			ZipCode:      o.Address.ZipCode,
		},
		History:   make(models.StatusHistory, 0, len(o.History)),
		Version:   o.Version,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
	for _, h := range o.History {
		rec.History = append(rec.History, models.StatusChange{From: string(h.From), To: string(h.To), At: h.At, By: h.By})
	}
	for i, l := range o.Lines {
		addons := make(models.AddonList, 0, len(l.Addons))
		for _, a := range l.Addons {
			addons = append(addons, models.Addon{ID: a.ID, Name: a.Name, Price: a.Price})
		}
		rec.Lines = append(rec.Lines, models.OrderLineRecord{
			OrderID:       o.ID,
			Position:      i,
			ProductID:     l.ProductID,
			ProductName:   l.ProductName,
			VariationID:   l.VariationID,
			VariationName: l.VariationName,
			Addons:        addons,
			Quantity:      l.Quantity,
			UnitPrice:     l.UnitPrice,
			Subtotal:      l.Subtotal,
		})
	}
	return rec
}

func toOrder(rec models.OrderRecord) order.Order {
	o := order.Order{
		Totals: order.Totals{
			Subtotal:    rec.Subtotal,
			DeliveryFee: rec.DeliveryFee,
			Discount:    rec.Discount,
			Total:       rec.Total,
			CouponCode:  deref(rec.CouponCode),
		},
		ID:           rec.ID,
		CustomerID:   rec.CustomerID,
		CustomerName: rec.CustomerName,
		RestaurantID: rec.RestaurantID,
		Status:       order.Status(rec.Status),
		Address: order.Address{
			Street:       rec.Address.Street,
			Number:       rec.Address.Number,
			Complement:   deref(rec.Address.Complement),
			Neighborhood: rec.Address.Neighborhood,
			City:         rec.Address.City,
			State:        rec.Address.State,
			ZipCode:      rec.Address.ZipCode,
		},
		PaymentMethod: order.PaymentMethod(rec.PaymentMethod),
		Observations:  deref(rec.Observations),
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
		Version:       rec.Version,
	}
	for _, h := range rec.History {
		o.History = append(o.History, order.StatusChange{From: order.Status(h.From), To: order.Status(h.To), At: h.At, By: h.By})
	}
	for _, l := range rec.Lines {
		var addons []catalog.Addon
		for _, a := range l.Addons {
			addons = append(addons, catalog.Addon{ID: a.ID, Name: a.Name, Price: a.Price})
		}
		o.Lines = append(o.Lines, order.Line{
			ProductID:     l.ProductID,
			ProductName:   l.ProductName,
			VariationID:   l.VariationID,
			VariationName: l.VariationName,
			Addons:        addons,
			Quantity:      l.Quantity,
			UnitPrice:     l.UnitPrice,
			Subtotal:      l.Subtotal,
		})
	}
	return o
}
