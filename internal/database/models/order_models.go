package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderRecord struct {
	ID            string          `gorm:"primaryKey;type:varchar(64)"`
	CustomerID    string          `gorm:"type:varchar(64);index;not null"`
	CustomerName  string          `gorm:"type:varchar(128);not null"`
	RestaurantID  string          `gorm:"type:varchar(64);index;not null"`
	Status        string          `gorm:"type:varchar(32);index;not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DeliveryFee   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Discount      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Total         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CouponCode    *string         `gorm:"type:varchar(64)"`
	PaymentMethod string          `gorm:"type:varchar(32);not null"`
	Observations  *string         `gorm:"type:text"`
	Address       Address         `gorm:"embedded;embeddedPrefix:address_"`
	History       StatusHistory   `gorm:"type:jsonb;not null"`
	Version       int             `gorm:"not null"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	Lines []OrderLineRecord `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderRecord) TableName() string { return "orders" }

type Address struct {
	Street       string  `gorm:"type:varchar(255);not null"`
	Number       string  `gorm:"type:varchar(32);not null"`
	Complement   *string `gorm:"type:varchar(255)"`
	Neighborhood string  `gorm:"type:varchar(128);not null"`
	City         string  `gorm:"type:varchar(128);not null"`
	State        string  `gorm:"type:varchar(8);not null"`
	ZipCode      string  `gorm:"type:varchar(16);not null"`
}

type OrderLineRecord struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	OrderID       string          `gorm:"type:varchar(64);index;not null"`
	Position      int             `gorm:"not null"`
	ProductID     string          `gorm:"type:varchar(64);not null"`
	ProductName   string          `gorm:"type:varchar(128);not null"`
	VariationID   string          `gorm:"type:varchar(64);not null"`
	VariationName string          `gorm:"type:varchar(128);not null"`
	Addons        AddonList       `gorm:"type:jsonb;not null"`
	Quantity      int             `gorm:"not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

func (OrderLineRecord) TableName() string { return "order_lines" }
