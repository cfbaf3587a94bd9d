package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using system environment variables")
	}

	dsn := os.Getenv("DB_DSN")
	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	if err := Migrations(DB); err != nil {
		logrus.WithError(err).Fatal("Failed to run migrations")
	}

	// Seed the reviewer account (no-op when already present)
	if err := SeedAdminUser(DB); err != nil {
		logrus.WithError(err).Warn("Admin seeding skipped")
	}
}
