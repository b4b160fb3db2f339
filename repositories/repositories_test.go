package repositories

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"parts-ledger/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// One connection so every query sees the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Part{},
		&models.Location{},
		&models.InventoryRecord{},
		&models.MoveRecord{},
		&models.QuarterlyCount{},
		&models.QuarterlyCountRecord{},
	))

	return db
}

func createUser(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	user := models.User{Name: name, Username: name, PinHash: "x", Role: models.RoleUser, IsActive: true}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createPart(t *testing.T, db *gorm.DB, code string) models.Part {
	t.Helper()
	part := models.Part{PartCode: code, PartName: "Part " + code, Unit: "PCS"}
	require.NoError(t, db.Create(&part).Error)
	return part
}

func createLocation(t *testing.T, db *gorm.DB, code string) models.Location {
	t.Helper()
	location := models.Location{LocationCode: code, Type: "rack", Zone: code[:1]}
	require.NoError(t, db.Create(&location).Error)
	return location
}
