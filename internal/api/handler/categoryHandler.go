package handler

import (
	"errors"
	"net/http"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/service"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categoryService service.CategoryService
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// RegisterRoutes registers category routes: public list, admin-gated
// writes, and no per-item retrieval for flat reference data.
func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	categories := rg.Group("/categories")
	{
		categories.GET("", h.List)
		categories.POST("", authMW, middleware.RequireAdmin(), h.Create)
		categories.GET("/:slug", h.Retrieve)
		categories.DELETE("/:slug", authMW, middleware.RequireAdmin(), h.Delete)
	}
}

// List retrieves categories with optional name search
// GET /api/v1/categories?search=&limit=&offset=
func (h *CategoryHandler) List(c *gin.Context) {
	limit, offset := paginationParams(c)

	categories, err := h.categoryService.List(c.Query("search"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, categories)
}

// Create adds a category
// POST /api/v1/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.categoryService.Create(req)
	if err != nil {
		if errors.Is(err, service.ErrSlugTaken) || errors.Is(err, service.ErrInvalidSlug) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, category)
}

// Retrieve always answers 405: single-item detail views are not exposed
// for flat reference data
// GET /api/v1/categories/:slug
func (h *CategoryHandler) Retrieve(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
}

// Delete removes a category; dependent titles keep existing without one
// DELETE /api/v1/categories/:slug
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.categoryService.Delete(c.Param("slug")); err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
