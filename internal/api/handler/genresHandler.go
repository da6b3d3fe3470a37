package handler

import (
	"errors"
	"net/http"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/service"

	"github.com/gin-gonic/gin"
)

type GenreHandler struct {
	genreService service.GenreService
}

func NewGenreHandler(genreService service.GenreService) *GenreHandler {
	return &GenreHandler{
		genreService: genreService,
	}
}

// RegisterRoutes mirrors the category routes: list/create/delete only.
func (h *GenreHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	genres := rg.Group("/genres")
	{
		genres.GET("", h.List)
		genres.POST("", authMW, middleware.RequireAdmin(), h.Create)
		genres.GET("/:slug", h.Retrieve)
		genres.DELETE("/:slug", authMW, middleware.RequireAdmin(), h.Delete)
	}
}

// List retrieves genres with optional name search
// GET /api/v1/genres?search=&limit=&offset=
func (h *GenreHandler) List(c *gin.Context) {
	limit, offset := paginationParams(c)

	genres, err := h.genreService.List(c.Query("search"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, genres)
}

// Create adds a genre
// POST /api/v1/genres
func (h *GenreHandler) Create(c *gin.Context) {
	var req dto.CreateGenreDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	genre, err := h.genreService.Create(req)
	if err != nil {
		if errors.Is(err, service.ErrSlugTaken) || errors.Is(err, service.ErrInvalidSlug) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, genre)
}

// Retrieve always answers 405, same as categories
// GET /api/v1/genres/:slug
func (h *GenreHandler) Retrieve(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
}

// Delete removes a genre
// DELETE /api/v1/genres/:slug
func (h *GenreHandler) Delete(c *gin.Context) {
	if err := h.genreService.Delete(c.Param("slug")); err != nil {
		if errors.Is(err, service.ErrGenreNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
