package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type EventType string

const (
	EventCreated       EventType = "order.created"
	EventStatusChanged EventType = "order.status_changed"
)

type Event struct {
	Type         EventType       `json:"type"`
	OrderID      string          `json:"order_id"`
	CustomerID   string          `json:"customer_id"`
	RestaurantID string          `json:"restaurant_id"`
	From         Status          `json:"from,omitempty"`
	To           Status          `json:"to"`
	Total        decimal.Decimal `json:"total"`
	By           string          `json:"by"`
	At           time.Time       `json:"at"`
}

// Publisher fans order events out to other parts of the system.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
