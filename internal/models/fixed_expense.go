package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FixedExpense is a recurring monthly cost (rent, utilities, accounting).
// Deletion is soft: Active flips to false and the record stops participating
// in aggregation.
type FixedExpense struct {
	ID       string `gorm:"type:varchar(64);primaryKey"`
	TenantID string `gorm:"type:varchar(64);not null;index"`

	Name   string          `gorm:"type:varchar(200);not null"`
	Value  decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Active bool            `gorm:"default:true;index"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (FixedExpense) TableName() string {
	return "fixed_expenses"
}
