package models

import (
	"time"
)

// RefreshToken is a single-use capability record. The token string
// itself is the unique key; rotation deletes the row before a new pair
// is issued.
type RefreshToken struct {
	Token     string `gorm:"primaryKey"`
	UserID    string `gorm:"size:36;not null;index"`
	User      *User  `gorm:"foreignKey:UserID"`
	ExpiresAt time.Time
	CreatedAt time.Time
}
