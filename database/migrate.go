package database

import (
	"parts-ledger/models"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Part{},
		&models.Location{},
		&models.InventoryRecord{},
		&models.MoveRecord{},
		&models.QuarterlyCount{},
		&models.QuarterlyCountRecord{},
	)
}
