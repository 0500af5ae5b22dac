package adapters

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"market_history/internal/feature/history/domain/entity"
)

var baseTime = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	// every pooled connection would otherwise get its own empty database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(Models()...)
	require.NoError(t, err, "failed to migrate tables")

	return db
}

// seedItem creates a catalog item.
func seedItem(t *testing.T, db *gorm.DB, region, id, category string) {
	t.Helper()

	err := db.Create(&ItemModel{Region: region, ID: id, Name: "item " + id, Category: category}).Error
	require.NoError(t, err, "failed to seed item")
}

// seedEntry creates an observation with the given low price.
func seedEntry(t *testing.T, db *gorm.DB, item entity.ItemRef, low *float64, at time.Time) {
	t.Helper()

	err := db.Create(&EntryModel{Region: item.Region, ItemID: item.ID, LowPrice: low, CreatedAt: at}).Error
	require.NoError(t, err, "failed to seed entry")
}

func ptr(v float64) *float64 { return &v }
