package catalog

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dorincreciun/go-pizza-api/internal/httpx"
	"github.com/dorincreciun/go-pizza-api/internal/models"
	"github.com/dorincreciun/go-pizza-api/internal/stores"
)

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

type CreateCategoryRequest struct {
	Slug   string  `json:"slug" binding:"required"`
	Name   string  `json:"name" binding:"required"`
	Status *string `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
}

type UpdateCategoryRequest struct {
	Slug   *string `json:"slug"`
	Name   *string `json:"name"`
	Status *string `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
}

type CategoryResponse struct {
	ID        uint   `json:"id"`
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type CategoryHandler struct {
	Store stores.CategoryStore
	Log   *zap.Logger
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, h.Log, httpx.BadRequest("slug and name are required"))
		return
	}

	if _, err := h.Store.FindBySlug(req.Slug); err == nil {
		httpx.Error(c, h.Log, httpx.Conflict(fmt.Sprintf("a category with slug %q already exists", req.Slug)))
		return
	} else if !errors.Is(err, stores.ErrNotFound) {
		httpx.Error(c, h.Log, err)
		return
	}

	cat := &models.Category{
		Slug:   req.Slug,
		Name:   req.Name,
		Status: models.ItemStatusActive,
	}
	if req.Status != nil {
		cat.Status = *req.Status
	}
	if err := h.Store.Create(cat); err != nil {
		httpx.Error(c, h.Log, err)
		return
	}
	httpx.Data(c, http.StatusCreated, toCategoryResponse(cat))
}

func (h *CategoryHandler) List(c *gin.Context) {
	list, err := h.Store.FindAll()
	if err != nil {
		httpx.Error(c, h.Log, err)
		return
	}
	out := make([]CategoryResponse, 0, len(list))
	for i := range list {
		out = append(out, toCategoryResponse(&list[i]))
	}
	httpx.Data(c, http.StatusOK, out)
}

func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := parseID(c, h.Log)
	if !ok {
		return
	}
	cat, err := h.Store.GetByID(id)
	if err != nil {
		httpx.Error(c, h.Log, categoryNotFound(id, err))
		return
	}
	httpx.Data(c, http.StatusOK, toCategoryResponse(cat))
}

func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := parseID(c, h.Log)
	if !ok {
		return
	}
	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, h.Log, httpx.BadRequest("invalid request body"))
		return
	}

	existing, err := h.Store.GetByID(id)
	if err != nil {
		httpx.Error(c, h.Log, categoryNotFound(id, err))
		return
	}

	if req.Slug != nil && *req.Slug != existing.Slug {
		if _, err := h.Store.FindBySlug(*req.Slug); err == nil {
			httpx.Error(c, h.Log, httpx.Conflict(fmt.Sprintf("a category with slug %q already exists", *req.Slug)))
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
	if req.Status != nil {
		updates["status"] = *req.Status
	}

	updated, err := h.Store.Update(id, updates)
	if err != nil {
		httpx.Error(c, h.Log, err)
		return
	}
	httpx.Data(c, http.StatusOK, toCategoryResponse(updated))
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, h.Log)
	if !ok {
		return
	}
	if _, err := h.Store.GetByID(id); err != nil {
		httpx.Error(c, h.Log, categoryNotFound(id, err))
		return
	}
	if err := h.Store.Delete(id); err != nil {
		httpx.Error(c, h.Log, err)
		return
	}
	httpx.Data(c, http.StatusOK, gin.H{"message": "category deleted"})
}

func toCategoryResponse(cat *models.Category) CategoryResponse {
	return CategoryResponse{
		ID:        cat.ID,
		Slug:      cat.Slug,
		Name:      cat.Name,
		Status:    cat.Status,
		CreatedAt: cat.CreatedAt.UTC().Format(isoMillis),
		UpdatedAt: cat.UpdatedAt.UTC().Format(isoMillis),
	}
}

func categoryNotFound(id uint, err error) error {
	if errors.Is(err, stores.ErrNotFound) {
		return httpx.NotFound(fmt.Sprintf("category with id %d was not found", id))
	}
	return err
}

func parseID(c *gin.Context, log *zap.Logger) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httpx.Error(c, log, httpx.BadRequest("id must be a positive integer"))
		return 0, false
	}
	return uint(id), true
}

func formatTime(t time.Time) string { return t.UTC().Format(isoMillis) }
