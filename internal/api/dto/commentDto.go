package dto

import (
	"time"

	"reviewhub/internal/api/models"
)

// CreateCommentDTO for POST .../reviews/:review_id/comments
type CreateCommentDTO struct {
	Text string `json:"text" binding:"required"`
}

// UpdateCommentDTO for PATCH
type UpdateCommentDTO struct {
	Text string `json:"text" binding:"required"`
}

type CommentResponse struct {
	ID       int64     `json:"id"`
	Author   string    `json:"author"`
	ReviewID int64     `json:"review_id"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
}

// FromModelToCommentResponse converts a Comment model to CommentResponse DTO
func FromModelToCommentResponse(comment *models.Comment) *CommentResponse {
	return &CommentResponse{
		ID:       comment.ID,
		Author:   comment.Author.Username,
		ReviewID: comment.ReviewID,
		Text:     comment.Text,
		PubDate:  comment.PubDate,
	}
}
