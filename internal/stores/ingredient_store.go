package stores

import (
	"github.com/dorincreciun/go-pizza-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IngredientStore interface {
	Create(i *models.Ingredient) error
	FindAll() ([]models.Ingredient, error)
	GetByID(id uint) (*models.Ingredient, error)
	// FindByIDs returns only the ingredients that exist; callers compare
	// lengths to detect unknown ids.
	FindByIDs(ids []uint) ([]models.Ingredient, error)
	FindBySlug(slug string) (*models.Ingredient, error)
	Update(id uint, updates map[string]any) (*models.Ingredient, error)
	Delete(id uint) error
}

type GormIngredientStore struct{ DB *gorm.DB }

func (s *GormIngredientStore) Create(i *models.Ingredient) error {
	return s.DB.Create(i).Error
}

func (s *GormIngredientStore) FindAll() ([]models.Ingredient, error) {
	var list []models.Ingredient
	if err := s.DB.Order("name ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (s *GormIngredientStore) GetByID(id uint) (*models.Ingredient, error) {
	var i models.Ingredient
	if err := s.DB.First(&i, id).Error; err != nil {
		return nil, err
	}
	return &i, nil
}

func (s *GormIngredientStore) FindByIDs(ids []uint) ([]models.Ingredient, error) {
	var list []models.Ingredient
	if err := s.DB.Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (s *GormIngredientStore) FindBySlug(slug string) (*models.Ingredient, error) {
	var i models.Ingredient
	if err := s.DB.Where("slug = ?", slug).First(&i).Error; err != nil {
		return nil, err
	}
	return &i, nil
}

func (s *GormIngredientStore) Update(id uint, updates map[string]any) (*models.Ingredient, error) {
	if err := s.DB.Model(&models.Ingredient{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Delete also clears the ingredient's product_ingredients rows so no
// product keeps a dangling reference.
func (s *GormIngredientStore) Delete(id uint) error {
	return s.DB.Select(clause.Associations).Delete(&models.Ingredient{ID: id}).Error
}
