package db

import (
	"ecommerce_api/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus"

	"gorm.io/driver/mysql" // MySQL driver for GORM
	"gorm.io/gorm"         // GORM ORM library
)

// Connect opens the MySQL connection used by the server and the CLIs.
func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}

// Models lists every table in migration order.
func Models() []any {
	return []any{
		&domain.User{},
		&domain.Profile{},
		&domain.Category{},
		&domain.Product{},
		&domain.ProductReview{},
		&domain.Wishlist{},
	}
}

// Migrate performs automatic migration for the database schema
func Migrate(dsn string) {
	db, err := Connect(dsn) // Open a connection to the database
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Log fatal error if connection fails
	}
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := db.AutoMigrate(Models()...); err != nil {
		logrus.Fatalf("migration failed: %v", err) // Log fatal error if migration fails
	}
	logrus.Info("Migration completed.") // Log successful migration
}
