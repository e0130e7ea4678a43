package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollEntry is an indirect-labor cost. When CostPerHour is positive the
// monthly cost is CostPerHour times MonthlyHours (or the configured default
// hour count when MonthlyHours is zero); otherwise BaseSalary is used as-is.
type PayrollEntry struct {
	ID       string `gorm:"type:varchar(64);primaryKey"`
	TenantID string `gorm:"type:varchar(64);not null;index"`

	Name         string          `gorm:"type:varchar(200);not null"`
	CostPerHour  decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	MonthlyHours decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	BaseSalary   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Active       bool            `gorm:"default:true;index"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (PayrollEntry) TableName() string {
	return "payroll_entries"
}
