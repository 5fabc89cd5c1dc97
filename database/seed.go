package database

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"studio-api/config"
	"studio-api/models"
	"studio-api/services"
)

// SeedAdmin creates the bootstrap admin account when ADMIN_EMAIL and
// ADMIN_PASSWORD are configured and no user with that email exists yet.
// Registration always yields the user role, so this is the only way an
// admin comes into existence.
func SeedAdmin(db *gorm.DB, cfg *config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	store := services.NewUserStore(db)
	if _, err := store.FindByEmail(cfg.AdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, services.ErrUserNotFound) {
		return fmt.Errorf("seed admin: %w", err)
	}

	user, err := store.Create(cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	role := models.RoleAdmin
	if _, err := store.Update(user.ID, services.UserPatch{Role: &role}); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	log.Printf("Bootstrap admin created: %s", user.Email)
	return nil
}
