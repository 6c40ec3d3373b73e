package catalog

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dorincreciun/go-pizza-api/internal/httpx"
	"github.com/dorincreciun/go-pizza-api/internal/models"
	"github.com/dorincreciun/go-pizza-api/internal/stores"
)

type CreateIngredientRequest struct {
	Slug     string  `json:"slug" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	ImageURL *string `json:"imageUrl"`
}

type UpdateIngredientRequest struct {
	Slug     *string `json:"slug"`
	Name     *string `json:"name"`
	ImageURL *string `json:"imageUrl"`
}

type IngredientResponse struct {
	ID       uint    `json:"id"`
	Slug     string  `json:"slug"`
	Name     string  `json:"name"`
	ImageURL *string `json:"imageUrl"`
}

type IngredientHandler struct {
	Store stores.IngredientStore
	Log   *zap.Logger
}

func (h *IngredientHandler) Create(c *gin.Context) {
	var req CreateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, h.Log, httpx.BadRequest("slug and name are required"))
		return
	}

	if _, err := h.Store.FindBySlug(req.Slug); err == nil {
		httpx.Error(c, h.Log, httpx.Conflict(fmt.Sprintf("an ingredient with slug %q already exists", req.Slug)))
		return
	} else if !errors.Is(err, stores.ErrNotFound) {
		httpx.Error(c, h.Log, err)
		return
	}

	ing := &models.Ingredient{Slug: req.Slug, Name: req.Name, ImageURL: req.ImageURL}
	if err := h.Store.Create(ing); err != nil {
		httpx.Error(c, h.Log, err)
		return
	}
	httpx.Data(c, http.StatusCreated, toIngredientResponse(ing))
}

func (h *IngredientHandler) List(c *gin.Context) {
	list, err := h.Store.FindAll()
	if err != nil {
		httpx.Error(c, h.Log, err)
		return
	}
	out := make([]IngredientResponse, 0, len(list))
	for i := range list {
		out = append(out, toIngredientResponse(&list[i]))
	}
	httpx.Data(c, http.StatusOK, out)
}

func (h *IngredientHandler) Get(c *gin.Context) {
	id, ok := parseID(c, h.Log)
	if !ok {
		return
	}
	ing, err := h.Store.GetByID(id)
	if err != nil {
		httpx.Error(c, h.Log, ingredientNotFound(id, err))
		return
	}
	httpx.Data(c, http.StatusOK, toIngredientResponse(ing))
}

func (h *IngredientHandler) Update(c *gin.Context) {
	id, ok := parseID(c, h.Log)
	if !ok {
		return
	}
	var req UpdateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, h.Log, httpx.BadRequest("invalid request body"))
		return
	}

	existing, err := h.Store.GetByID(id)
	if err != nil {
		httpx.Error(c, h.Log, ingredientNotFound(id, err))
		return
	}

	if req.Slug != nil && *req.Slug != existing.Slug {
		if _, err := h.Store.FindBySlug(*req.Slug); err == nil {
			httpx.Error(c, h.Log, httpx.Conflict(fmt.Sprintf("an ingredient with slug %q already exists", *req.Slug)))
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
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}

	updated, err := h.Store.Update(id, updates)
	if err != nil {
		httpx.Error(c, h.Log, err)
		return
	}
	httpx.Data(c, http.StatusOK, toIngredientResponse(updated))
}

func (h *IngredientHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, h.Log)
	if !ok {
		return
	}
	if _, err := h.Store.GetByID(id); err != nil {
		httpx.Error(c, h.Log, ingredientNotFound(id, err))
		return
	}
	if err := h.Store.Delete(id); err != nil {
		httpx.Error(c, h.Log, err)
		return
	}
	httpx.Data(c, http.StatusOK, gin.H{"message": "ingredient deleted"})
}

func toIngredientResponse(i *models.Ingredient) IngredientResponse {
	return IngredientResponse{ID: i.ID, Slug: i.Slug, Name: i.Name, ImageURL: i.ImageURL}
}

func ingredientNotFound(id uint, err error) error {
	if errors.Is(err, stores.ErrNotFound) {
		return httpx.NotFound(fmt.Sprintf("ingredient with id %d was not found", id))
	}
	return err
}
