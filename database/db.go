package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/dorincreciun/go-pizza-api/internal/models"
)

// Connect opens the PostgreSQL connection using GORM.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Category{},
		&models.Product{},
		&models.Ingredient{},
	)
}
