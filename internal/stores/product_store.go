package stores

import (
	"github.com/dorincreciun/go-pizza-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductStore interface {
	// Create persists the product together with any attached ingredients.
	Create(p *models.Product) error
	// FindPage lists products newest first, optionally filtered by
	// category, and returns the total matching count for pagination meta.
	FindPage(categoryID *uint, page, limit int) ([]models.Product, int64, error)
	GetByID(id uint) (*models.Product, error)
	FindBySlug(slug string) (*models.Product, error)
	Update(id uint, updates map[string]any) (*models.Product, error)
	// ReplaceIngredients swaps the product's ingredient set wholesale; an
	// empty slice detaches everything.
	ReplaceIngredients(id uint, ingredients []models.Ingredient) error
	Delete(id uint) error
}

type GormProductStore struct{ DB *gorm.DB }

func (s *GormProductStore) Create(p *models.Product) error {
	if err := s.DB.Create(p).Error; err != nil {
		return err
	}
	return s.DB.Preload("Category").Preload("Ingredients").First(p, p.ID).Error
}

func (s *GormProductStore) FindPage(categoryID *uint, page, limit int) ([]models.Product, int64, error) {
	q := s.DB.Model(&models.Product{})
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.Product
	err := q.Preload("Category").
		Preload("Ingredients").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (s *GormProductStore) GetByID(id uint) (*models.Product, error) {
	var p models.Product
	if err := s.DB.Preload("Category").Preload("Ingredients").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *GormProductStore) FindBySlug(slug string) (*models.Product, error) {
	var p models.Product
	if err := s.DB.Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *GormProductStore) Update(id uint, updates map[string]any) (*models.Product, error) {
	if err := s.DB.Model(&models.Product{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

func (s *GormProductStore) ReplaceIngredients(id uint, ingredients []models.Ingredient) error {
	return s.DB.Model(&models.Product{ID: id}).Association("Ingredients").Replace(&ingredients)
}

// Delete also clears the product's product_ingredients rows.
func (s *GormProductStore) Delete(id uint) error {
	return s.DB.Select(clause.Associations).Delete(&models.Product{ID: id}).Error
}
