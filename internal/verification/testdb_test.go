package verification

import (
	"testing"

	"fixed-asset-api/internal/database"
	"fixed-asset-api/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// in-memory база живёт ровно в одном соединении
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func mustCycle(t *testing.T, db *gorm.DB, tag string, status models.CycleStatus) *models.VerificationCycle {
	t.Helper()
	cycle, err := CreateCycle(db, tag, status)
	require.NoError(t, err)
	return cycle
}

func mustAsset(t *testing.T, db *gorm.DB, code, name string) *models.Asset {
	t.Helper()
	asset := models.Asset{AssetCode: code, Name: name, IsActive: true}
	require.NoError(t, db.Create(&asset).Error)
	return &asset
}

func auditorInput(status models.VerificationStatus) VerificationInput {
	return VerificationInput{
		PerformedBy: "auditor@assets.local",
		Source:      models.SourceAuditor,
		Status:      status,
	}
}
