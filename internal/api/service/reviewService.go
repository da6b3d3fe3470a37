package service

import (
	"context"
	"errors"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"

	"gorm.io/gorm"
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrAlreadyReviewed = errors.New("you have already reviewed this title")
	ErrForbidden       = errors.New("you don't have permission to modify this resource")
	ErrScoreOutOfRange = errors.New("score must be an integer from 1 to 10")
)

type ReviewService interface {
	ListByTitle(ctx context.Context, titleID int64, limit, offset int) (*dto.Paginated[dto.ReviewResponse], error)
	Get(titleID, reviewID int64) (*dto.ReviewResponse, error)
	Create(ctx context.Context, titleID int64, authorID string, in dto.CreateReviewDTO) (*dto.ReviewResponse, error)
	Update(titleID, reviewID int64, callerID string, callerRole models.Role, in dto.UpdateReviewDTO) (*dto.ReviewResponse, error)
	Delete(titleID, reviewID int64, callerID string, callerRole models.Role) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  repository.TitleRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, titleRepo repository.TitleRepository) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		titleRepo:  titleRepo,
	}
}

func (s *reviewService) ListByTitle(ctx context.Context, titleID int64, limit, offset int) (*dto.Paginated[dto.ReviewResponse], error) {
	if err := s.titleExists(ctx, titleID); err != nil {
		return nil, err
	}

	reviews, total, err := s.reviewRepo.ListByTitle(titleID, limit, offset)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, *dto.FromModelToReviewResponse(&reviews[i]))
	}

	return dto.NewPaginated(responses, total, limit, offset), nil
}

func (s *reviewService) Get(titleID, reviewID int64) (*dto.ReviewResponse, error) {
	review, err := s.getReviewForTitle(titleID, reviewID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

// Create attaches the caller as author and rejects a second review for
// the same title. The pre-check is authoritative for the friendly error;
// the translated unique violation covers the concurrent-insert race.
func (s *reviewService) Create(ctx context.Context, titleID int64, authorID string, in dto.CreateReviewDTO) (*dto.ReviewResponse, error) {
	if err := s.titleExists(ctx, titleID); err != nil {
		return nil, err
	}

	if in.Score < 1 || in.Score > 10 {
		return nil, ErrScoreOutOfRange
	}

	if _, err := s.reviewRepo.GetByTitleAndAuthor(titleID, authorID); err == nil {
		return nil, ErrAlreadyReviewed
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	review := &models.Review{
		TitleID:  titleID,
		AuthorID: authorID,
		Text:     in.Text,
		Score:    in.Score,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}

	// Reload with author data
	review, err := s.reviewRepo.GetByID(review.ID)
	if err != nil {
		return nil, err
	}

	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) Update(titleID, reviewID int64, callerID string, callerRole models.Role, in dto.UpdateReviewDTO) (*dto.ReviewResponse, error) {
	review, err := s.getReviewForTitle(titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if !canModify(callerID, callerRole, review.AuthorID) {
		return nil, ErrForbidden
	}

	if in.Text != nil {
		review.Text = *in.Text
	}
	if in.Score != nil {
		if *in.Score < 1 || *in.Score > 10 {
			return nil, ErrScoreOutOfRange
		}
		review.Score = *in.Score
	}

	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}

	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) Delete(titleID, reviewID int64, callerID string, callerRole models.Role) error {
	review, err := s.getReviewForTitle(titleID, reviewID)
	if err != nil {
		return err
	}

	if !canModify(callerID, callerRole, review.AuthorID) {
		return ErrForbidden
	}

	return s.reviewRepo.Delete(reviewID)
}

// canModify: unsafe methods require the caller to be the author or hold
// a moderating role.
func canModify(callerID string, callerRole models.Role, authorID string) bool {
	return callerID == authorID || callerRole.CanModerate()
}

func (s *reviewService) titleExists(ctx context.Context, titleID int64) error {
	_, err := s.titleRepo.GetByID(ctx, titleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTitleNotFound
	}
	return err
}

// getReviewForTitle resolves a review and checks it belongs to the title
// from the URL path.
func (s *reviewService) getReviewForTitle(titleID, reviewID int64) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(reviewID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	if review.TitleID != titleID {
		return nil, ErrReviewNotFound
	}
	return review, nil
}
