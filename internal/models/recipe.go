package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe carries the cost breakdown the pricing simulator quotes against.
// ScenarioID points at the markup block applied to it; the reserved
// sub-recipe scenario marks recipes that are internal components rather
// than sellable products.
type Recipe struct {
	ID       string `gorm:"type:varchar(64);primaryKey"`
	TenantID string `gorm:"type:varchar(64);not null;index"`

	Name            string          `gorm:"type:varchar(200);not null"`
	IngredientsCost decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	PackagingCost   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	LaborCost       decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	SubRecipesCost  decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	YieldQuantity   float64         `gorm:"not null;default:0"`
	ScenarioID      string          `gorm:"type:varchar(64);index"`
	Active          bool            `gorm:"default:true;index"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Recipe) TableName() string {
	return "recipes"
}
