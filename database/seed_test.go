package database

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"studio-api/config"
	"studio-api/models"
	"studio-api/services"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func TestSeedAdmin(t *testing.T) {
	db := newTestDB(t)
	cfg := &config.Config{
		AdminName:     "Root",
		AdminEmail:    "root@example.com",
		AdminPassword: "Root123",
	}

	require.NoError(t, SeedAdmin(db, cfg))

	store := services.NewUserStore(db)
	admin, err := store.FindByEmail("root@example.com")
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, admin.Role)
	require.True(t, admin.IsActive)
	require.True(t, store.VerifyPassword(admin, "Root123"))

	t.Run("idempotent", func(t *testing.T) {
		require.NoError(t, SeedAdmin(db, cfg))

		var count int64
		require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
		require.EqualValues(t, 1, count)
	})
}

func TestSeedAdminSkippedWithoutConfig(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, SeedAdmin(db, &config.Config{}))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}
