package catalog_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dorincreciun/go-pizza-api/internal/handlers/catalog"
	"github.com/dorincreciun/go-pizza-api/internal/models"
	"github.com/dorincreciun/go-pizza-api/internal/stores"
)

func newCatalogRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Category{}, &models.Product{}, &models.Ingredient{}))

	categories := &catalog.CategoryHandler{Store: &stores.GormCategoryStore{DB: db}}
	products := &catalog.ProductHandler{
		Products:    &stores.GormProductStore{DB: db},
		Categories:  &stores.GormCategoryStore{DB: db},
		Ingredients: &stores.GormIngredientStore{DB: db},
	}
	ingredients := &catalog.IngredientHandler{Store: &stores.GormIngredientStore{DB: db}}

	r := gin.New()
	r.GET("/categories", categories.List)
	r.GET("/categories/:id", categories.Get)
	r.POST("/categories", categories.Create)
	r.PATCH("/categories/:id", categories.Update)
	r.DELETE("/categories/:id", categories.Delete)

	r.GET("/products", products.List)
	r.GET("/products/:id", products.Get)
	r.POST("/products", products.Create)
	r.PATCH("/products/:id", products.Update)
	r.DELETE("/products/:id", products.Delete)

	r.GET("/ingredients", ingredients.List)
	r.POST("/ingredients", ingredients.Create)
	r.PATCH("/ingredients/:id", ingredients.Update)
	r.DELETE("/ingredients/:id", ingredients.Delete)

	return r, db
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func body(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func data(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	return body(t, w)["data"].(map[string]any)
}

func createCategory(t *testing.T, r *gin.Engine, slug string) uint {
	t.Helper()
	w := do(t, r, http.MethodPost, "/categories", gin.H{"slug": slug, "name": slug})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return uint(data(t, w)["id"].(float64))
}

func TestCategoryCRUD(t *testing.T) {
	r, _ := newCatalogRouter(t)

	w := do(t, r, http.MethodPost, "/categories", gin.H{"slug": "pizza-clasica", "name": "Pizza Clasica"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := data(t, w)
	assert.Equal(t, "ACTIVE", created["status"])
	id := uint(created["id"].(float64))

	// Duplicate slug.
	w = do(t, r, http.MethodPost, "/categories", gin.H{"slug": "pizza-clasica", "name": "Other"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Missing fields.
	w = do(t, r, http.MethodPost, "/categories", gin.H{"slug": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Invalid status value.
	w = do(t, r, http.MethodPost, "/categories", gin.H{"slug": "y", "name": "Y", "status": "HIDDEN"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, fmt.Sprintf("/categories/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pizza-clasica", data(t, w)["slug"])

	w = do(t, r, http.MethodGet, "/categories/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodGet, "/categories/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Partial update touches only the given fields.
	w = do(t, r, http.MethodPatch, fmt.Sprintf("/categories/%d", id), gin.H{"status": "INACTIVE"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := data(t, w)
	assert.Equal(t, "INACTIVE", updated["status"])
	assert.Equal(t, "pizza-clasica", updated["slug"])

	w = do(t, r, http.MethodDelete, fmt.Sprintf("/categories/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, fmt.Sprintf("/categories/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCategoryUpdateSlugConflict(t *testing.T) {
	r, _ := newCatalogRouter(t)

	createCategory(t, r, "first")
	second := createCategory(t, r, "second")

	w := do(t, r, http.MethodPatch, fmt.Sprintf("/categories/%d", second), gin.H{"slug": "first"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Sending the current slug back is not a conflict.
	w = do(t, r, http.MethodPatch, fmt.Sprintf("/categories/%d", second), gin.H{"slug": "second"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProductCreateValidation(t *testing.T) {
	r, _ := newCatalogRouter(t)
	catID := createCategory(t, r, "pizza")

	// Unknown category.
	w := do(t, r, http.MethodPost, "/products", gin.H{
		"slug": "margherita", "name": "Margherita", "price": 8.5, "categoryId": 9999,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Non-positive price.
	w = do(t, r, http.MethodPost, "/products", gin.H{
		"slug": "margherita", "name": "Margherita", "price": 0, "categoryId": catID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/products", gin.H{
		"slug": "margherita", "name": "Margherita", "price": 8.5, "categoryId": catID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := data(t, w)
	assert.Equal(t, "SIMPLE", created["type"])
	assert.Equal(t, "ACTIVE", created["status"])
	cat := created["category"].(map[string]any)
	assert.Equal(t, "pizza", cat["slug"])

	// Duplicate slug.
	w = do(t, r, http.MethodPost, "/products", gin.H{
		"slug": "margherita", "name": "Again", "price": 9.0, "categoryId": catID,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestProductListPagingAndFilter(t *testing.T) {
	r, _ := newCatalogRouter(t)
	pizza := createCategory(t, r, "pizza")
	dessert := createCategory(t, r, "dessert")

	for i, cat := range []uint{pizza, pizza, dessert} {
		w := do(t, r, http.MethodPost, "/products", gin.H{
			"slug": fmt.Sprintf("p-%d", i), "name": fmt.Sprintf("P %d", i),
			"price": 5.0, "categoryId": cat,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := do(t, r, http.MethodGet, "/products?page=2&limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := body(t, w)
	meta := resp["meta"].(map[string]any)
	assert.EqualValues(t, 3, meta["total"])
	assert.EqualValues(t, 2, meta["page"])
	assert.EqualValues(t, 2, meta["limit"])
	assert.Len(t, resp["data"].([]any), 1)

	w = do(t, r, http.MethodGet, fmt.Sprintf("/products?categoryId=%d", pizza), nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = body(t, w)
	assert.EqualValues(t, 2, resp["meta"].(map[string]any)["total"])
	assert.Len(t, resp["data"].([]any), 2)

	// Filtering by a category that does not exist is a 404, not an
	// empty list.
	w = do(t, r, http.MethodGet, "/products?categoryId=9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodGet, "/products?categoryId=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductUpdate(t *testing.T) {
	r, _ := newCatalogRouter(t)
	catID := createCategory(t, r, "pizza")

	w := do(t, r, http.MethodPost, "/products", gin.H{
		"slug": "margherita", "name": "Margherita", "price": 8.5, "categoryId": catID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	id := uint(data(t, w)["id"].(float64))

	w = do(t, r, http.MethodPatch, fmt.Sprintf("/products/%d", id), gin.H{"price": 9.5, "status": "INACTIVE"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := data(t, w)
	assert.EqualValues(t, 9.5, updated["price"])
	assert.Equal(t, "INACTIVE", updated["status"])
	assert.Equal(t, "margherita", updated["slug"])

	// Moving to an unknown category fails.
	w = do(t, r, http.MethodPatch, fmt.Sprintf("/products/%d", id), gin.H{"categoryId": 9999})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPatch, "/products/9999", gin.H{"price": 1.0})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func createIngredient(t *testing.T, r *gin.Engine, slug string) uint {
	t.Helper()
	w := do(t, r, http.MethodPost, "/ingredients", gin.H{"slug": slug, "name": slug})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return uint(data(t, w)["id"].(float64))
}

func ingredientSlugs(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	raw := data(t, w)["ingredients"].([]any)
	slugs := make([]string, 0, len(raw))
	for _, v := range raw {
		slugs = append(slugs, v.(map[string]any)["slug"].(string))
	}
	return slugs
}

func TestProductIngredients(t *testing.T) {
	r, _ := newCatalogRouter(t)
	catID := createCategory(t, r, "pizza")
	mozzarella := createIngredient(t, r, "mozzarella")
	basil := createIngredient(t, r, "basil")

	// An unknown ingredient id fails before anything is written.
	w := do(t, r, http.MethodPost, "/products", gin.H{
		"slug": "margherita", "name": "Margherita", "price": 8.5,
		"categoryId": catID, "ingredientIds": []uint{9999},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/products", gin.H{
		"slug": "margherita", "name": "Margherita", "price": 8.5,
		"categoryId": catID, "ingredientIds": []uint{mozzarella, basil},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.ElementsMatch(t, []string{"mozzarella", "basil"}, ingredientSlugs(t, w))
	id := uint(data(t, w)["id"].(float64))

	w = do(t, r, http.MethodGet, fmt.Sprintf("/products/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.ElementsMatch(t, []string{"mozzarella", "basil"}, ingredientSlugs(t, w))

	// A non-nil list replaces the set wholesale.
	w = do(t, r, http.MethodPatch, fmt.Sprintf("/products/%d", id),
		gin.H{"ingredientIds": []uint{basil}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{"basil"}, ingredientSlugs(t, w))

	// An empty list detaches everything.
	w = do(t, r, http.MethodPatch, fmt.Sprintf("/products/%d", id),
		gin.H{"ingredientIds": []uint{}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Empty(t, ingredientSlugs(t, w))

	// Deleting an attached ingredient detaches it from the product.
	w = do(t, r, http.MethodPatch, fmt.Sprintf("/products/%d", id),
		gin.H{"ingredientIds": []uint{mozzarella}})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodDelete, fmt.Sprintf("/ingredients/%d", mozzarella), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, r, http.MethodGet, fmt.Sprintf("/products/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, ingredientSlugs(t, w))
}

func TestIngredientCRUD(t *testing.T) {
	r, _ := newCatalogRouter(t)

	w := do(t, r, http.MethodPost, "/ingredients", gin.H{"slug": "mozzarella", "name": "Mozzarella"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := uint(data(t, w)["id"].(float64))

	w = do(t, r, http.MethodPost, "/ingredients", gin.H{"slug": "mozzarella", "name": "Again"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodPatch, fmt.Sprintf("/ingredients/%d", id),
		gin.H{"imageUrl": "https://cdn.example.com/mozzarella.png"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://cdn.example.com/mozzarella.png", data(t, w)["imageUrl"])

	w = do(t, r, http.MethodGet, "/ingredients", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body(t, w)["data"].([]any), 1)

	w = do(t, r, http.MethodDelete, fmt.Sprintf("/ingredients/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/ingredients", nil)
	assert.Empty(t, body(t, w)["data"].([]any))
}
