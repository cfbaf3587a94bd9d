package config

import (
	"errors"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"p9e.in/permits/models"
)

// SeedAdminUser creates the initial reviewer account from
// SEED_ADMIN_PHONE / SEED_ADMIN_PASSWORD. Skipped when the variables
// are unset or an admin already exists. Further reviewers are promoted
// through the users table, not through configuration.
func SeedAdminUser(db *gorm.DB) error {
	phone := os.Getenv("SEED_ADMIN_PHONE")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if phone == "" || password == "" {
		return nil
	}

	var existing models.User
	err := db.Where("role = ?", models.RoleAdmin).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Name:         "Safety Admin",
		Phone:        phone,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	logrus.WithField("phone", phone).Info("Seeded admin reviewer account")
	return nil
}
