package models

import (
	"time"

	"gorm.io/datatypes"
)

// Configuration is the generic per-tenant key-value blob store: selection
// maps, the markup scenario registry, revenue period filters and billing
// status all live here as opaque JSON keyed by (tenant, type). Writes are
// wholesale overwrites, never patches.
type Configuration struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement"`
	TenantID string `gorm:"type:varchar(64);not null;uniqueIndex:idx_configurations_tenant_type"`
	Type     string `gorm:"type:varchar(120);not null;uniqueIndex:idx_configurations_tenant_type"`

	Value datatypes.JSON `gorm:"type:jsonb;not null"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime;index"`
}

func (Configuration) TableName() string {
	return "configurations"
}
