package service

import (
	"context"
	"testing"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockReviewRepository mocks the ReviewRepository interface
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(review *models.Review) error {
	args := m.Called(review)
	return args.Error(0)
}

func (m *MockReviewRepository) Update(review *models.Review) error {
	args := m.Called(review)
	return args.Error(0)
}

func (m *MockReviewRepository) Delete(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockReviewRepository) GetByID(id int64) (*models.Review, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) GetByTitleAndAuthor(titleID int64, authorID string) (*models.Review, error) {
	args := m.Called(titleID, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByTitle(titleID int64, limit, offset int) ([]models.Review, int64, error) {
	args := m.Called(titleID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Review), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewRepository) AverageScore(titleID int64) (*float64, error) {
	args := m.Called(titleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*float64), args.Error(1)
}

// MockTitleRepository mocks the TitleRepository interface
type MockTitleRepository struct {
	mock.Mock
}

func (m *MockTitleRepository) Create(ctx context.Context, title *models.Title) error {
	args := m.Called(ctx, title)
	return args.Error(0)
}

func (m *MockTitleRepository) Update(ctx context.Context, title *models.Title) error {
	args := m.Called(ctx, title)
	return args.Error(0)
}

func (m *MockTitleRepository) ReplaceGenres(ctx context.Context, title *models.Title, genres []models.Genre) error {
	args := m.Called(ctx, title, genres)
	return args.Error(0)
}

func (m *MockTitleRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTitleRepository) GetByID(ctx context.Context, id int64) (*models.Title, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Title), args.Error(1)
}

func (m *MockTitleRepository) List(ctx context.Context, filter repository.TitleFilter, limit, offset int) ([]models.Title, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Title), args.Get(1).(int64), args.Error(2)
}

func TestCreateReview_Success(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewReviewService(reviewRepo, titleRepo)

	title := &models.Title{ID: 1, Name: "Dune", Year: 1965}
	created := &models.Review{
		ID:       7,
		TitleID:  1,
		AuthorID: "user-123",
		Text:     "great",
		Score:    9,
		Author:   models.User{ID: "user-123", Username: "alice"},
	}

	titleRepo.On("GetByID", mock.Anything, int64(1)).Return(title, nil)
	reviewRepo.On("GetByTitleAndAuthor", int64(1), "user-123").Return(nil, gorm.ErrRecordNotFound)
	reviewRepo.On("Create", mock.AnythingOfType("*models.Review")).
		Run(func(args mock.Arguments) {
			args.Get(0).(*models.Review).ID = 7
		}).
		Return(nil)
	reviewRepo.On("GetByID", int64(7)).Return(created, nil)

	resp, err := svc.Create(context.Background(), 1, "user-123", dto.CreateReviewDTO{Text: "great", Score: 9})

	assert.NoError(t, err)
	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, "alice", resp.Author)
	assert.Equal(t, 9, resp.Score)
	reviewRepo.AssertExpectations(t)
}

func TestCreateReview_TitleMissing(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewReviewService(reviewRepo, titleRepo)

	titleRepo.On("GetByID", mock.Anything, int64(42)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Create(context.Background(), 42, "user-123", dto.CreateReviewDTO{Text: "great", Score: 9})

	assert.ErrorIs(t, err, ErrTitleNotFound)
	reviewRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreateReview_ScoreBounds(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewReviewService(reviewRepo, titleRepo)

	title := &models.Title{ID: 1, Name: "Dune"}
	titleRepo.On("GetByID", mock.Anything, int64(1)).Return(title, nil)

	for _, score := range []int{0, 11, -5} {
		_, err := svc.Create(context.Background(), 1, "user-123", dto.CreateReviewDTO{Text: "x", Score: score})
		assert.ErrorIs(t, err, ErrScoreOutOfRange, "score %d", score)
	}

	reviewRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreateReview_SecondReviewRejected(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewReviewService(reviewRepo, titleRepo)

	title := &models.Title{ID: 1, Name: "Dune"}
	existing := &models.Review{ID: 7, TitleID: 1, AuthorID: "user-123"}

	titleRepo.On("GetByID", mock.Anything, int64(1)).Return(title, nil)
	reviewRepo.On("GetByTitleAndAuthor", int64(1), "user-123").Return(existing, nil)

	_, err := svc.Create(context.Background(), 1, "user-123", dto.CreateReviewDTO{Text: "again", Score: 5})

	assert.ErrorIs(t, err, ErrAlreadyReviewed)
	reviewRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreateReview_DuplicateRace(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewReviewService(reviewRepo, titleRepo)

	title := &models.Title{ID: 1, Name: "Dune"}

	titleRepo.On("GetByID", mock.Anything, int64(1)).Return(title, nil)
	reviewRepo.On("GetByTitleAndAuthor", int64(1), "user-123").Return(nil, gorm.ErrRecordNotFound)
	// concurrent insert slipped past the pre-check
	reviewRepo.On("Create", mock.AnythingOfType("*models.Review")).Return(repository.ErrDuplicateKey)

	_, err := svc.Create(context.Background(), 1, "user-123", dto.CreateReviewDTO{Text: "again", Score: 5})

	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestUpdateReview_AuthorAllowed(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewReviewService(reviewRepo, titleRepo)

	review := &models.Review{ID: 7, TitleID: 1, AuthorID: "user-123", Text: "old", Score: 5}

	reviewRepo.On("GetByID", int64(7)).Return(review, nil)
	reviewRepo.On("Update", review).Return(nil)

	newScore := 8
	resp, err := svc.Update(1, 7, "user-123", models.RoleUser, dto.UpdateReviewDTO{Score: &newScore})

	assert.NoError(t, err)
	assert.Equal(t, 8, resp.Score)
	assert.Equal(t, "old", resp.Text)
}

func TestUpdateReview_ModeratorAllowed(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewReviewService(reviewRepo, titleRepo)

	review := &models.Review{ID: 7, TitleID: 1, AuthorID: "user-123", Text: "old", Score: 5}

	reviewRepo.On("GetByID", int64(7)).Return(review, nil)
	reviewRepo.On("Update", review).Return(nil)

	newText := "cleaned up"
	_, err := svc.Update(1, 7, "mod-999", models.RoleModerator, dto.UpdateReviewDTO{Text: &newText})

	assert.NoError(t, err)
}

func TestUpdateReview_OtherUserForbidden(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewReviewService(reviewRepo, titleRepo)

	review := &models.Review{ID: 7, TitleID: 1, AuthorID: "user-123"}

	reviewRepo.On("GetByID", int64(7)).Return(review, nil)

	newText := "hijack"
	_, err := svc.Update(1, 7, "user-456", models.RoleUser, dto.UpdateReviewDTO{Text: &newText})

	assert.ErrorIs(t, err, ErrForbidden)
	reviewRepo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestDeleteReview_WrongTitleInPath(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewReviewService(reviewRepo, titleRepo)

	review := &models.Review{ID: 7, TitleID: 1, AuthorID: "user-123"}

	reviewRepo.On("GetByID", int64(7)).Return(review, nil)

	// review 7 belongs to title 1, not title 2
	err := svc.Delete(2, 7, "user-123", models.RoleUser)

	assert.ErrorIs(t, err, ErrReviewNotFound)
	reviewRepo.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestDeleteReview_AdminAllowed(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewReviewService(reviewRepo, titleRepo)

	review := &models.Review{ID: 7, TitleID: 1, AuthorID: "user-123"}

	reviewRepo.On("GetByID", int64(7)).Return(review, nil)
	reviewRepo.On("Delete", int64(7)).Return(nil)

	err := svc.Delete(1, 7, "admin-1", models.RoleAdmin)

	assert.NoError(t, err)
	reviewRepo.AssertExpectations(t)
}

func TestListReviews_PaginatedWithTotal(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewReviewService(reviewRepo, titleRepo)

	title := &models.Title{ID: 1, Name: "Dune"}
	reviews := []models.Review{
		{ID: 1, TitleID: 1, AuthorID: "u1", Score: 8, Author: models.User{Username: "alice"}},
		{ID: 2, TitleID: 1, AuthorID: "u2", Score: 4, Author: models.User{Username: "bob"}},
	}

	titleRepo.On("GetByID", mock.Anything, int64(1)).Return(title, nil)
	reviewRepo.On("ListByTitle", int64(1), 20, 0).Return(reviews, int64(12), nil)

	page, err := svc.ListByTitle(context.Background(), 1, 20, 0)

	assert.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, int64(12), page.Total)
	assert.Equal(t, "alice", page.Data[0].Author)
}

func TestListReviews_PassesRequestContext(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewReviewService(reviewRepo, titleRepo)

	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "req-42")

	titleRepo.On("GetByID", mock.MatchedBy(func(c context.Context) bool {
		return c.Value(ctxKey{}) == "req-42"
	}), int64(1)).Return(&models.Title{ID: 1}, nil)
	reviewRepo.On("ListByTitle", int64(1), 20, 0).Return([]models.Review{}, int64(0), nil)

	_, err := svc.ListByTitle(ctx, 1, 20, 0)

	assert.NoError(t, err)
	titleRepo.AssertExpectations(t)
}
