package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order mirrors a remote-platform order. Tags are stored in wire form
// (`", "`-joined); all mutable fields are overwritten wholesale on ingest.
type Order struct {
	ID              string          `gorm:"column:id;type:text;primaryKey"`
	Number          string          `gorm:"column:number;type:text;not null"`
	CustomerID      string          `gorm:"column:customer_id;type:text;not null"`
	TotalPrice      decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null"`
	ShippingAddress string          `gorm:"column:shipping_address;type:text;not null;default:''"`
	Tags            string          `gorm:"column:tags;type:text;not null;default:''"`
	PaymentGateway  string          `gorm:"column:payment_gateway;type:text;not null;default:''"`
	Customer        Customer        `gorm:"foreignKey:CustomerID;references:ID"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
