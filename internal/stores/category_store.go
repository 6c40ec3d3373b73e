package stores

import (
	"github.com/dorincreciun/go-pizza-api/internal/models"

	"gorm.io/gorm"
)

type CategoryStore interface {
	Create(c *models.Category) error
	FindAll() ([]models.Category, error)
	GetByID(id uint) (*models.Category, error)
	FindBySlug(slug string) (*models.Category, error)
	Update(id uint, updates map[string]any) (*models.Category, error)
	Delete(id uint) error
}

type GormCategoryStore struct{ DB *gorm.DB }

func (s *GormCategoryStore) Create(c *models.Category) error {
	return s.DB.Create(c).Error
}

func (s *GormCategoryStore) FindAll() ([]models.Category, error) {
	var list []models.Category
	if err := s.DB.Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (s *GormCategoryStore) GetByID(id uint) (*models.Category, error) {
	var c models.Category
	if err := s.DB.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *GormCategoryStore) FindBySlug(slug string) (*models.Category, error) {
	var c models.Category
	if err := s.DB.Where("slug = ?", slug).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *GormCategoryStore) Update(id uint, updates map[string]any) (*models.Category, error) {
	if err := s.DB.Model(&models.Category{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

func (s *GormCategoryStore) Delete(id uint) error {
	return s.DB.Delete(&models.Category{}, id).Error
}
