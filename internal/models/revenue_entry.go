package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RevenueEntry is one month of billed revenue. The collection is append-only
// and read in bulk, newest month first with ties broken by insertion order.
type RevenueEntry struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement"`
	TenantID string `gorm:"type:varchar(64);not null;index"`

	Month  time.Time       `gorm:"type:date;not null;index"`
	Amount decimal.Decimal `gorm:"type:numeric(14,2);not null"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (RevenueEntry) TableName() string {
	return "revenue_entries"
}
