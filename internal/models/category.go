package models

import "time"

type Category struct {
	ID        uint   `gorm:"primaryKey"`
	Slug      string `gorm:"unique;not null"`
	Name      string `gorm:"not null"`
	Status    string `gorm:"size:16;not null;default:ACTIVE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
