package models

import "time"

// APIKey maps a login credential to a tenant. Tokens issued against a key
// carry the tenant id as a claim; every data row is scoped by that id.
type APIKey struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement"`
	Key      string `gorm:"type:varchar(128);not null;uniqueIndex"`
	TenantID string `gorm:"type:varchar(64);not null;index"`
	Name     string `gorm:"type:varchar(120)"`
	Role     string `gorm:"type:varchar(30);not null;default:'owner'"`
	Active   bool   `gorm:"default:true;index"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (APIKey) TableName() string {
	return "api_keys"
}
