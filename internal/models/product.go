package models

import "time"

const (
	ProductTypeSimple       = "SIMPLE"
	ProductTypeConfigurable = "CONFIGURABLE"

	// Shared by categories and products.
	ItemStatusActive   = "ACTIVE"
	ItemStatusInactive = "INACTIVE"
)

type Product struct {
	ID          uint   `gorm:"primaryKey"`
	Slug        string `gorm:"unique;not null"`
	Name        string `gorm:"not null"`
	Description *string
	Price       float64 `gorm:"not null"`
	ImageURL    *string
	Type        string `gorm:"size:16;not null;default:SIMPLE"`
	Status      string `gorm:"size:16;not null;default:ACTIVE"`
	CategoryID  uint   `gorm:"not null;index"`
	Category    Category
	Ingredients []Ingredient `gorm:"many2many:product_ingredients"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
