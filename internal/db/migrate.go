package db

import (
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.APIKey{},
		&models.FixedExpense{},
		&models.PayrollEntry{},
		&models.SalesCharge{},
		&models.RevenueEntry{},
		&models.Configuration{},
		&models.Recipe{},
		&models.SystemSetting{},
	)
}
