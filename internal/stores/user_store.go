package stores

import (
	"github.com/dorincreciun/go-pizza-api/internal/models"

	"gorm.io/gorm"
)

var (
	ErrNotFound = gorm.ErrRecordNotFound
	ErrConflict = gorm.ErrDuplicatedKey
)

// UserStore abstracts user persistence.
type UserStore interface {
	// FindByEmail returns a user if it exists, or ErrNotFound.
	FindByEmail(email string) (*models.User, error)
	// Create persists a new user. Returns ErrConflict on a duplicate email.
	Create(u *models.User) error
	GetByID(id string) (*models.User, error)
	// Update applies only the given columns. A nil value in updates sets
	// the column to NULL; an absent key leaves it untouched.
	Update(id string, updates map[string]any) (*models.User, error)
}

// GormUserStore implements UserStore using GORM.
type GormUserStore struct{ DB *gorm.DB }

func (s *GormUserStore) FindByEmail(email string) (*models.User, error) {
	var u models.User
	if err := s.DB.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *GormUserStore) Create(u *models.User) error {
	return s.DB.Create(u).Error
}

func (s *GormUserStore) GetByID(id string) (*models.User, error) {
	var u models.User
	if err := s.DB.First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *GormUserStore) Update(id string, updates map[string]any) (*models.User, error) {
	if err := s.DB.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}
