package catalog

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dorincreciun/go-pizza-api/internal/httpx"
	"github.com/dorincreciun/go-pizza-api/internal/models"
	"github.com/dorincreciun/go-pizza-api/internal/stores"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type CreateProductRequest struct {
	Slug        string  `json:"slug" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	ImageURL    *string `json:"imageUrl"`
	Type        *string `json:"type" binding:"omitempty,oneof=SIMPLE CONFIGURABLE"`
	Status      *string `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
	CategoryID  uint    `json:"categoryId" binding:"required"`
	// IngredientIDs attaches existing ingredients to the product.
	IngredientIDs []uint `json:"ingredientIds"`
}

type UpdateProductRequest struct {
	Slug        *string  `json:"slug"`
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,gt=0"`
	ImageURL    *string  `json:"imageUrl"`
	Type        *string  `json:"type" binding:"omitempty,oneof=SIMPLE CONFIGURABLE"`
	Status      *string  `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
	CategoryID  *uint    `json:"categoryId"`
	// A non-nil IngredientIDs replaces the whole set; [] detaches all.
	IngredientIDs *[]uint `json:"ingredientIds"`
}

type ProductResponse struct {
	ID          uint             `json:"id"`
	Slug        string           `json:"slug"`
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Price       float64          `json:"price"`
	ImageURL    *string          `json:"imageUrl"`
	Type        string               `json:"type"`
	Status      string               `json:"status"`
	Category    CategoryResponse     `json:"category"`
	Ingredients []IngredientResponse `json:"ingredients"`
	CreatedAt   string               `json:"createdAt"`
	UpdatedAt   string               `json:"updatedAt"`
}

// PageMeta accompanies every list response.
type PageMeta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

type ProductHandler struct {
	Products    stores.ProductStore
	Categories  stores.CategoryStore
	Ingredients stores.IngredientStore
	Log         *zap.Logger
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, h.Log, httpx.BadRequest("slug, name, a positive price and categoryId are required"))
		return
	}

	if _, err := h.Categories.GetByID(req.CategoryID); err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			httpx.Error(c, h.Log, httpx.BadRequest(fmt.Sprintf("category with id %d does not exist", req.CategoryID)))
			return
		}
		httpx.Error(c, h.Log, err)
		return
	}

	if _, err := h.Products.FindBySlug(req.Slug); err == nil {
		httpx.Error(c, h.Log, httpx.Conflict(fmt.Sprintf("a product with slug %q already exists", req.Slug)))
		return
	} else if !errors.Is(err, stores.ErrNotFound) {
		httpx.Error(c, h.Log, err)
		return
	}

	ingredients, err := h.resolveIngredients(req.IngredientIDs)
	if err != nil {
		httpx.Error(c, h.Log, err)
		return
	}

	p := &models.Product{
		Slug:        req.Slug,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Type:        models.ProductTypeSimple,
		Status:      models.ItemStatusActive,
		CategoryID:  req.CategoryID,
		Ingredients: ingredients,
	}
	if req.Type != nil {
		p.Type = *req.Type
	}
	if req.Status != nil {
		p.Status = *req.Status
	}

	if err := h.Products.Create(p); err != nil {
		httpx.Error(c, h.Log, err)
		return
	}
	httpx.Data(c, http.StatusCreated, toProductResponse(p))
}

// List supports ?categoryId= filtering plus ?page= and ?limit= paging.
func (h *ProductHandler) List(c *gin.Context) {
	var categoryID *uint
	if raw := c.Query("categoryId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			httpx.Error(c, h.Log, httpx.BadRequest("categoryId must be a positive integer"))
			return
		}
		v := uint(id)
		if _, err := h.Categories.GetByID(v); err != nil {
			httpx.Error(c, h.Log, categoryNotFound(v, err))
			return
		}
		categoryID = &v
	}

	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", defaultPageSize)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	list, total, err := h.Products.FindPage(categoryID, page, limit)
	if err != nil {
		httpx.Error(c, h.Log, err)
		return
	}

	out := make([]ProductResponse, 0, len(list))
	for i := range list {
		out = append(out, toProductResponse(&list[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"data": out,
		"meta": PageMeta{Total: total, Page: page, Limit: limit},
	})
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseID(c, h.Log)
	if !ok {
		return
	}
	p, err := h.Products.GetByID(id)
	if err != nil {
		httpx.Error(c, h.Log, productNotFound(id, err))
		return
	}
	httpx.Data(c, http.StatusOK, toProductResponse(p))
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseID(c, h.Log)
	if !ok {
		return
	}
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, h.Log, httpx.BadRequest("invalid request body"))
		return
	}

	existing, err := h.Products.GetByID(id)
	if err != nil {
		httpx.Error(c, h.Log, productNotFound(id, err))
		return
	}

	if req.CategoryID != nil {
		if _, err := h.Categories.GetByID(*req.CategoryID); err != nil {
			if errors.Is(err, stores.ErrNotFound) {
				httpx.Error(c, h.Log, httpx.BadRequest(fmt.Sprintf("category with id %d does not exist", *req.CategoryID)))
				return
			}
			httpx.Error(c, h.Log, err)
			return
		}
	}

	if req.Slug != nil && *req.Slug != existing.Slug {
		if _, err := h.Products.FindBySlug(*req.Slug); err == nil {
			httpx.Error(c, h.Log, httpx.Conflict(fmt.Sprintf("a product with slug %q already exists", *req.Slug)))
			return
		} else if !errors.Is(err, stores.ErrNotFound) {
			httpx.Error(c, h.Log, err)
			return
		}
	}

	updates := map[string]any{}
	if req.Slug != nil {
		updates["slug"] = *req.Slug
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}

	if req.IngredientIDs != nil {
		ingredients, err := h.resolveIngredients(*req.IngredientIDs)
		if err != nil {
			httpx.Error(c, h.Log, err)
			return
		}
		if err := h.Products.ReplaceIngredients(id, ingredients); err != nil {
			httpx.Error(c, h.Log, err)
			return
		}
	}

	// An ingredient-only patch leaves no columns to update.
	var updated *models.Product
	if len(updates) > 0 {
		updated, err = h.Products.Update(id, updates)
	} else {
		updated, err = h.Products.GetByID(id)
	}
	if err != nil {
		httpx.Error(c, h.Log, err)
		return
	}
	httpx.Data(c, http.StatusOK, toProductResponse(updated))
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, h.Log)
	if !ok {
		return
	}
	if _, err := h.Products.GetByID(id); err != nil {
		httpx.Error(c, h.Log, productNotFound(id, err))
		return
	}
	if err := h.Products.Delete(id); err != nil {
		httpx.Error(c, h.Log, err)
		return
	}
	httpx.Data(c, http.StatusOK, gin.H{"message": "product deleted"})
}

// resolveIngredients maps ids to ingredient rows, rejecting unknown ids.
func (h *ProductHandler) resolveIngredients(ids []uint) ([]models.Ingredient, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	list, err := h.Ingredients.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(list) != len(ids) {
		return nil, httpx.BadRequest("one or more ingredient ids do not exist")
	}
	return list, nil
}

func toProductResponse(p *models.Product) ProductResponse {
	ingredients := make([]IngredientResponse, 0, len(p.Ingredients))
	for i := range p.Ingredients {
		ingredients = append(ingredients, toIngredientResponse(&p.Ingredients[i]))
	}
	return ProductResponse{
		ID:          p.ID,
		Slug:        p.Slug,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Type:        p.Type,
		Status:      p.Status,
		Category:    toCategoryResponse(&p.Category),
		Ingredients: ingredients,
		CreatedAt:   formatTime(p.CreatedAt),
		UpdatedAt:   formatTime(p.UpdatedAt),
	}
}

func productNotFound(id uint, err error) error {
	if errors.Is(err, stores.ErrNotFound) {
		return httpx.NotFound(fmt.Sprintf("product with id %d was not found", id))
	}
	return err
}

func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
