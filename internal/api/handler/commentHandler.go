package handler

import (
	"errors"
	"net/http"
	"strconv"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// RegisterRoutes registers comment routes nested under a review.
func (h *CommentHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	comments := rg.Group("/titles/:title_id/reviews/:review_id/comments")
	{
		comments.GET("", h.List)
		comments.GET("/:comment_id", h.Get)
		comments.POST("", authMW, h.Create)
		comments.PATCH("/:comment_id", authMW, h.Update)
		comments.DELETE("/:comment_id", authMW, h.Delete)
	}
}

// List retrieves all comments on a review with pagination
// GET /api/v1/titles/:title_id/reviews/:review_id/comments?limit=&offset=
func (h *CommentHandler) List(c *gin.Context) {
	titleID, reviewID, ok := reviewPathIDs(c)
	if !ok {
		return
	}

	limit, offset := paginationParams(c)

	comments, err := h.commentService.ListByReview(titleID, reviewID, limit, offset)
	if err != nil {
		h.writeCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

// Get retrieves a single comment
// GET .../comments/:comment_id
func (h *CommentHandler) Get(c *gin.Context) {
	titleID, reviewID, commentID, ok := commentPathIDs(c)
	if !ok {
		return
	}

	comment, err := h.commentService.Get(titleID, reviewID, commentID)
	if err != nil {
		h.writeCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

// Create posts a comment on a review
// POST .../comments
func (h *CommentHandler) Create(c *gin.Context) {
	titleID, reviewID, ok := reviewPathIDs(c)
	if !ok {
		return
	}

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.CreateCommentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentService.Create(titleID, reviewID, userID.(string), req)
	if err != nil {
		h.writeCommentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// Update patches a comment (author or moderator/admin)
// PATCH .../comments/:comment_id
func (h *CommentHandler) Update(c *gin.Context) {
	titleID, reviewID, commentID, ok := commentPathIDs(c)
	if !ok {
		return
	}

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.UpdateCommentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentService.Update(titleID, reviewID, commentID, userID.(string), middleware.CallerRole(c), req)
	if err != nil {
		h.writeCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

// Delete removes a comment (author or moderator/admin)
// DELETE .../comments/:comment_id
func (h *CommentHandler) Delete(c *gin.Context) {
	titleID, reviewID, commentID, ok := commentPathIDs(c)
	if !ok {
		return
	}

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.commentService.Delete(titleID, reviewID, commentID, userID.(string), middleware.CallerRole(c)); err != nil {
		h.writeCommentError(c, err)
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

func commentPathIDs(c *gin.Context) (titleID, reviewID, commentID int64, ok bool) {
	titleID, reviewID, ok = reviewPathIDs(c)
	if !ok {
		return 0, 0, 0, false
	}
	commentID, err := strconv.ParseInt(c.Param("comment_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment ID"})
		return 0, 0, 0, false
	}
	return titleID, reviewID, commentID, true
}

func (h *CommentHandler) writeCommentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTitleNotFound),
		errors.Is(err, service.ErrReviewNotFound),
		errors.Is(err, service.ErrCommentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
