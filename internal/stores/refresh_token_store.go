package stores

import (
	"github.com/dorincreciun/go-pizza-api/internal/models"

	"gorm.io/gorm"
)

// RefreshTokenStore is the source of truth for refresh-token validity.
// Only the auth service writes through it.
type RefreshTokenStore interface {
	Create(rt *models.RefreshToken) error
	// FindByToken returns the record with its owning user preloaded, or
	// ErrNotFound.
	FindByToken(token string) (*models.RefreshToken, error)
	// DeleteByToken removes the row and reports whether it was still
	// present. Two concurrent rotations of the same token therefore
	// resolve to exactly one winner.
	DeleteByToken(token string) (bool, error)
	DeleteAllForUser(userID string) error
	CountForUser(userID string) (int64, error)
}

// GormRefreshTokenStore implements RefreshTokenStore using GORM.
type GormRefreshTokenStore struct{ DB *gorm.DB }

func (s *GormRefreshTokenStore) Create(rt *models.RefreshToken) error {
	return s.DB.Create(rt).Error
}

func (s *GormRefreshTokenStore) FindByToken(token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	if err := s.DB.Preload("User").First(&rt, "token = ?", token).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

func (s *GormRefreshTokenStore) DeleteByToken(token string) (bool, error) {
	res := s.DB.Where("token = ?", token).Delete(&models.RefreshToken{})
	return res.RowsAffected > 0, res.Error
}

func (s *GormRefreshTokenStore) DeleteAllForUser(userID string) error {
	return s.DB.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error
}

func (s *GormRefreshTokenStore) CountForUser(userID string) (int64, error) {
	var n int64
	err := s.DB.Model(&models.RefreshToken{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}
