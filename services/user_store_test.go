package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"studio-api/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func TestUserStoreCreate(t *testing.T) {
	store := NewUserStore(newTestDB(t))

	user, err := store.Create("  Ana  ", "A@X.com", "Abc123")
	require.NoError(t, err)

	require.NotEmpty(t, user.ID)
	require.Equal(t, "Ana", user.Name)
	require.Equal(t, "a@x.com", user.Email)
	require.Equal(t, models.RoleUser, user.Role)
	require.True(t, user.IsActive)
	require.Nil(t, user.LastLogin)

	require.NotEmpty(t, user.Password)
	require.NotEqual(t, "Abc123", user.Password)
	require.True(t, store.VerifyPassword(user, "Abc123"))
	require.False(t, store.VerifyPassword(user, "wrong"))
}

func TestUserStoreDuplicateEmail(t *testing.T) {
	store := NewUserStore(newTestDB(t))

	_, err := store.Create("Ana", "ana@example.com", "Abc123")
	require.NoError(t, err)

	cases := []string{"ana@example.com", "ANA@example.com", "Ana@Example.COM"}
	for _, email := range cases {
		t.Run(email, func(t *testing.T) {
			_, err := store.Create("Other", email, "Abc123")
			require.ErrorIs(t, err, ErrDuplicateEmail)
		})
	}
}

func TestUserStoreFind(t *testing.T) {
	store := NewUserStore(newTestDB(t))

	created, err := store.Create("Ana", "ana@example.com", "Abc123")
	require.NoError(t, err)

	t.Run("by email is case-insensitive", func(t *testing.T) {
		found, err := store.FindByEmail("ANA@Example.com")
		require.NoError(t, err)
		require.Equal(t, created.ID, found.ID)
	})

	t.Run("by id", func(t *testing.T) {
		found, err := store.FindByID(created.ID)
		require.NoError(t, err)
		require.Equal(t, created.Email, found.Email)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := store.FindByEmail("nobody@example.com")
		require.ErrorIs(t, err, ErrUserNotFound)

		_, err = store.FindByID("00000000-0000-0000-0000-000000000000")
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUserStoreUpdate(t *testing.T) {
	store := NewUserStore(newTestDB(t))

	user, err := store.Create("Ana", "ana@example.com", "Abc123")
	require.NoError(t, err)
	_, err = store.Create("Bob", "bob@example.com", "Abc123")
	require.NoError(t, err)

	t.Run("rehashes a new password", func(t *testing.T) {
		oldHash := user.Password

		password := "Xyz789"
		updated, err := store.Update(user.ID, UserPatch{Password: &password})
		require.NoError(t, err)
		require.NotEqual(t, oldHash, updated.Password)
		require.NotEqual(t, "Xyz789", updated.Password)
		require.True(t, store.VerifyPassword(updated, "Xyz789"))
		require.False(t, store.VerifyPassword(updated, "Abc123"))
	})

	t.Run("email change to a taken address conflicts", func(t *testing.T) {
		email := "BOB@example.com"
		_, err := store.Update(user.ID, UserPatch{Email: &email})
		require.ErrorIs(t, err, ErrDuplicateEmail)
	})

	t.Run("email change normalizes case", func(t *testing.T) {
		email := "Ana.New@Example.com"
		updated, err := store.Update(user.ID, UserPatch{Email: &email})
		require.NoError(t, err)
		require.Equal(t, "ana.new@example.com", updated.Email)
	})

	t.Run("setting own email back is not a conflict", func(t *testing.T) {
		email := "ANA.NEW@example.com"
		_, err := store.Update(user.ID, UserPatch{Email: &email})
		require.NoError(t, err)
	})

	t.Run("last login", func(t *testing.T) {
		now := time.Now()
		updated, err := store.Update(user.ID, UserPatch{LastLogin: &now})
		require.NoError(t, err)
		require.NotNil(t, updated.LastLogin)
	})

	t.Run("unknown id", func(t *testing.T) {
		name := "Nobody"
		_, err := store.Update("00000000-0000-0000-0000-000000000000", UserPatch{Name: &name})
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUserStoreDelete(t *testing.T) {
	store := NewUserStore(newTestDB(t))

	user, err := store.Create("Ana", "ana@example.com", "Abc123")
	require.NoError(t, err)

	require.NoError(t, store.Delete(user.ID))

	_, err = store.FindByID(user.ID)
	require.ErrorIs(t, err, ErrUserNotFound)

	require.ErrorIs(t, store.Delete(user.ID), ErrUserNotFound)
}

func TestUserStoreList(t *testing.T) {
	db := newTestDB(t)
	store := NewUserStore(db)

	base := time.Now().Add(-time.Hour)
	names := []string{"Ana Silva", "Bob Jones", "Carla Souza", "Dave Brown"}
	for i, name := range names {
		user, err := store.Create(name, fmt.Sprintf("user%d@example.com", i), "Abc123")
		require.NoError(t, err)

		// Stagger creation times so ordering is deterministic.
		createdAt := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, db.Model(&models.User{}).
			Where("id = ?", user.ID).
			Update("created_at", createdAt).Error)
	}

	// Deactivated users never show up.
	inactive, err := store.Create("Eve Hidden", "eve@example.com", "Abc123")
	require.NoError(t, err)
	active := false
	_, err = store.Update(inactive.ID, UserPatch{IsActive: &active})
	require.NoError(t, err)

	t.Run("newest first, inactive excluded", func(t *testing.T) {
		users, total, err := store.List(1, 10, "")
		require.NoError(t, err)
		require.EqualValues(t, 4, total)
		require.Len(t, users, 4)
		require.Equal(t, "Dave Brown", users[0].Name)
		require.Equal(t, "Ana Silva", users[3].Name)
	})

	t.Run("pagination", func(t *testing.T) {
		users, total, err := store.List(2, 3, "")
		require.NoError(t, err)
		require.EqualValues(t, 4, total)
		require.Len(t, users, 1)
	})

	t.Run("search matches name case-insensitively", func(t *testing.T) {
		users, total, err := store.List(1, 10, "aNa")
		require.NoError(t, err)
		require.EqualValues(t, 1, total)
		require.Equal(t, "Ana Silva", users[0].Name)
	})

	t.Run("search matches email", func(t *testing.T) {
		_, total, err := store.List(1, 10, "user2@")
		require.NoError(t, err)
		require.EqualValues(t, 1, total)
	})

	t.Run("search without hits", func(t *testing.T) {
		users, total, err := store.List(1, 10, "zzz")
		require.NoError(t, err)
		require.EqualValues(t, 0, total)
		require.Empty(t, users)
	})
}
