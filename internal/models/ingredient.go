package models

import "time"

// Ingredient can be attached to any number of products.
type Ingredient struct {
	ID        uint   `gorm:"primaryKey"`
	Slug      string `gorm:"unique;not null"`
	Name      string `gorm:"not null"`
	ImageURL  *string
	Products  []Product `gorm:"many2many:product_ingredients"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
