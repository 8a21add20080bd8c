package db

import (
	"tippliga/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Fixture{},
		&models.Prediction{},
		&models.FixtureQuota{},
		&models.Predictor{},
		&models.SettlementRun{},
	)
}
