package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User represents the users table in database. The password hash is
// never serialized outward; handlers return the projection built by the
// auth service instead.
type User struct {
	ID           string  `gorm:"primaryKey;size:36"`
	Email        string  `gorm:"unique;not null"`
	PasswordHash string  `gorm:"not null"`
	FirstName    *string `gorm:"size:100"`
	LastName     *string `gorm:"size:100"`
	ProfileImage *string
	Role         string `gorm:"size:16;not null;default:USER"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}
