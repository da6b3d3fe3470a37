package service

import (
	"errors"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"

	"gorm.io/gorm"
)

var ErrCommentNotFound = errors.New("comment not found")

type CommentService interface {
	ListByReview(titleID, reviewID int64, limit, offset int) (*dto.Paginated[dto.CommentResponse], error)
	Get(titleID, reviewID, commentID int64) (*dto.CommentResponse, error)
	Create(titleID, reviewID int64, authorID string, in dto.CreateCommentDTO) (*dto.CommentResponse, error)
	Update(titleID, reviewID, commentID int64, callerID string, callerRole models.Role, in dto.UpdateCommentDTO) (*dto.CommentResponse, error)
	Delete(titleID, reviewID, commentID int64, callerID string, callerRole models.Role) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
}

func NewCommentService(commentRepo repository.CommentRepository, reviewRepo repository.ReviewRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		reviewRepo:  reviewRepo,
	}
}

func (s *commentService) ListByReview(titleID, reviewID int64, limit, offset int) (*dto.Paginated[dto.CommentResponse], error) {
	if err := s.reviewExists(titleID, reviewID); err != nil {
		return nil, err
	}

	comments, total, err := s.commentRepo.ListByReview(reviewID, limit, offset)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, *dto.FromModelToCommentResponse(&comments[i]))
	}

	return dto.NewPaginated(responses, total, limit, offset), nil
}

func (s *commentService) Get(titleID, reviewID, commentID int64) (*dto.CommentResponse, error) {
	comment, err := s.getCommentForReview(titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

// Create resolves the parent review from the path and attaches the
// caller as author. Comments have no uniqueness rule.
func (s *commentService) Create(titleID, reviewID int64, authorID string, in dto.CreateCommentDTO) (*dto.CommentResponse, error) {
	if err := s.reviewExists(titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ReviewID: reviewID,
		AuthorID: authorID,
		Text:     in.Text,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	// Reload with author data
	comment, err := s.commentRepo.GetByID(comment.ID)
	if err != nil {
		return nil, err
	}

	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) Update(titleID, reviewID, commentID int64, callerID string, callerRole models.Role, in dto.UpdateCommentDTO) (*dto.CommentResponse, error) {
	comment, err := s.getCommentForReview(titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if !canModify(callerID, callerRole, comment.AuthorID) {
		return nil, ErrForbidden
	}

	comment.Text = in.Text
	if err := s.commentRepo.Update(comment); err != nil {
		return nil, err
	}

	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) Delete(titleID, reviewID, commentID int64, callerID string, callerRole models.Role) error {
	comment, err := s.getCommentForReview(titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if !canModify(callerID, callerRole, comment.AuthorID) {
		return ErrForbidden
	}

	return s.commentRepo.Delete(commentID)
}

func (s *commentService) reviewExists(titleID, reviewID int64) error {
	review, err := s.reviewRepo.GetByID(reviewID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrReviewNotFound
	}
	if err != nil {
		return err
	}
	if review.TitleID != titleID {
		return ErrReviewNotFound
	}
	return nil
}

func (s *commentService) getCommentForReview(titleID, reviewID, commentID int64) (*models.Comment, error) {
	if err := s.reviewExists(titleID, reviewID); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(commentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	if comment.ReviewID != reviewID {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}
