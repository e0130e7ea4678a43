package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesCharge is a per-sale cost: a tax, a payment-processor fee or a
// commission. ValuePercentual is charged against the sale price; ValueFixed
// is a flat currency amount added to the cost basis independent of revenue.
// The charge name doubles as its classification key (see engine.Classify).
type SalesCharge struct {
	ID       string `gorm:"type:varchar(64);primaryKey"`
	TenantID string `gorm:"type:varchar(64);not null;index"`

	Name            string          `gorm:"type:varchar(200);not null"`
	ValuePercentual float64         `gorm:"not null;default:0"`
	ValueFixed      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Active          bool            `gorm:"default:true;index"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (SalesCharge) TableName() string {
	return "sales_charges"
}
