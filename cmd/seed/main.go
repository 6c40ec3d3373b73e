package main

import (
	"log"

	"github.com/dorincreciun/go-pizza-api/config"
	"github.com/dorincreciun/go-pizza-api/database"
	"github.com/dorincreciun/go-pizza-api/internal/models"
)

func strPtr(s string) *string { return &s }

// Seeds the catalog with a baseline set of categories, products and
// ingredients. Safe to re-run: existing rows are wiped first.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration error: %v", err)
	}

	if err := db.Exec("DELETE FROM product_ingredients").Error; err != nil {
		log.Fatalf("Failed to clear product ingredients: %v", err)
	}
	if err := db.Where("1 = 1").Delete(&models.Product{}).Error; err != nil {
		log.Fatalf("Failed to clear products: %v", err)
	}
	if err := db.Where("1 = 1").Delete(&models.Ingredient{}).Error; err != nil {
		log.Fatalf("Failed to clear ingredients: %v", err)
	}
	if err := db.Where("1 = 1").Delete(&models.Category{}).Error; err != nil {
		log.Fatalf("Failed to clear categories: %v", err)
	}

	categories := []models.Category{
		{Slug: "pizza-clasica", Name: "Pizza Clasica", Status: models.ItemStatusActive},
		{Slug: "pizza-premium", Name: "Pizza Premium", Status: models.ItemStatusActive},
		{Slug: "pizza-vegetariana", Name: "Pizza Vegetariana", Status: models.ItemStatusActive},
		{Slug: "pizza-picanta", Name: "Pizza Picanta", Status: models.ItemStatusInactive},
		{Slug: "desert", Name: "Desert", Status: models.ItemStatusActive},
	}
	if err := db.Create(&categories).Error; err != nil {
		log.Fatalf("Failed to seed categories: %v", err)
	}
	bySlug := map[string]uint{}
	for _, c := range categories {
		bySlug[c.Slug] = c.ID
	}

	ingredients := []models.Ingredient{
		{Slug: "mozzarella", Name: "Mozzarella"},
		{Slug: "gorgonzola", Name: "Gorgonzola"},
		{Slug: "spicy-salami", Name: "Spicy Salami"},
		{Slug: "mushrooms", Name: "Mushrooms"},
		{Slug: "basil", Name: "Basil"},
		{Slug: "olives", Name: "Olives"},
	}
	if err := db.Create(&ingredients).Error; err != nil {
		log.Fatalf("Failed to seed ingredients: %v", err)
	}
	ingredientBySlug := map[string]models.Ingredient{}
	for _, i := range ingredients {
		ingredientBySlug[i.Slug] = i
	}
	pick := func(slugs ...string) []models.Ingredient {
		out := make([]models.Ingredient, 0, len(slugs))
		for _, s := range slugs {
			out = append(out, ingredientBySlug[s])
		}
		return out
	}

	products := []models.Product{
		{
			Slug:        "margherita",
			Name:        "Margherita",
			Description: strPtr("Tomato sauce, mozzarella, fresh basil"),
			Price:       8.50,
			Type:        models.ProductTypeSimple,
			Status:      models.ItemStatusActive,
			CategoryID:  bySlug["pizza-clasica"],
			Ingredients: pick("mozzarella", "basil"),
		},
		{
			Slug:        "diavola",
			Name:        "Diavola",
			Description: strPtr("Tomato sauce, mozzarella, spicy salami"),
			Price:       10.00,
			Type:        models.ProductTypeSimple,
			Status:      models.ItemStatusActive,
			CategoryID:  bySlug["pizza-clasica"],
			Ingredients: pick("mozzarella", "spicy-salami"),
		},
		{
			Slug:        "quattro-formaggi",
			Name:        "Quattro Formaggi",
			Description: strPtr("Mozzarella, gorgonzola, parmesan, ricotta"),
			Price:       12.50,
			Type:        models.ProductTypeConfigurable,
			Status:      models.ItemStatusActive,
			CategoryID:  bySlug["pizza-premium"],
			Ingredients: pick("mozzarella", "gorgonzola"),
		},
		{
			Slug:        "vegetariana",
			Name:        "Vegetariana",
			Description: strPtr("Grilled vegetables, tomato sauce, mozzarella"),
			Price:       9.50,
			Type:        models.ProductTypeSimple,
			Status:      models.ItemStatusActive,
			CategoryID:  bySlug["pizza-vegetariana"],
			Ingredients: pick("mozzarella", "mushrooms", "olives"),
		},
		{
			Slug:        "tiramisu",
			Name:        "Tiramisu",
			Description: strPtr("Classic Italian dessert"),
			Price:       5.00,
			Type:        models.ProductTypeSimple,
			Status:      models.ItemStatusActive,
			CategoryID:  bySlug["desert"],
		},
	}
	if err := db.Create(&products).Error; err != nil {
		log.Fatalf("Failed to seed products: %v", err)
	}

	log.Printf("Seeded %d categories, %d products, %d ingredients",
		len(categories), len(products), len(ingredients))
}
