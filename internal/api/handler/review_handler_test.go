package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockReviewService mocks the ReviewService interface
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) ListByTitle(ctx context.Context, titleID int64, limit, offset int) (*dto.Paginated[dto.ReviewResponse], error) {
	args := m.Called(ctx, titleID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.ReviewResponse]), args.Error(1)
}

func (m *MockReviewService) Get(titleID, reviewID int64) (*dto.ReviewResponse, error) {
	args := m.Called(titleID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Create(ctx context.Context, titleID int64, authorID string, in dto.CreateReviewDTO) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, titleID, authorID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Update(titleID, reviewID int64, callerID string, callerRole models.Role, in dto.UpdateReviewDTO) (*dto.ReviewResponse, error) {
	args := m.Called(titleID, reviewID, callerID, callerRole, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Delete(titleID, reviewID int64, callerID string, callerRole models.Role) error {
	args := m.Called(titleID, reviewID, callerID, callerRole)
	return args.Error(0)
}

// fakeAuth stands in for the JWT middleware in handler tests.
func fakeAuth(userID string, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("username", "tester")
		c.Set("role", role)
		c.Next()
	}
}

func setupReviewRouter(svc service.ReviewService, userID string, role models.Role) *gin.Engine {
	router := setupRouter()
	h := NewReviewHandler(svc)
	h.RegisterRoutes(router.Group("/api/v1"), fakeAuth(userID, role))
	return router
}

func TestListReviews_OK(t *testing.T) {
	mockSvc := new(MockReviewService)
	router := setupReviewRouter(mockSvc, "user-123", models.RoleUser)

	page := dto.NewPaginated([]dto.ReviewResponse{
		{ID: 1, Author: "alice", TitleID: 5, Score: 8},
	}, 1, 20, 0)

	mockSvc.On("ListByTitle", mock.Anything, int64(5), 20, 0).Return(page, nil)

	req, _ := http.NewRequest("GET", "/api/v1/titles/5/reviews", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.Paginated[dto.ReviewResponse]
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, int64(1), response.Total)
	assert.Equal(t, "alice", response.Data[0].Author)

	mockSvc.AssertExpectations(t)
}

func TestListReviews_BadTitleID(t *testing.T) {
	mockSvc := new(MockReviewService)
	router := setupReviewRouter(mockSvc, "user-123", models.RoleUser)

	req, _ := http.NewRequest("GET", "/api/v1/titles/abc/reviews", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateReview_Created(t *testing.T) {
	mockSvc := new(MockReviewService)
	router := setupReviewRouter(mockSvc, "user-123", models.RoleUser)

	in := dto.CreateReviewDTO{Text: "great", Score: 9}
	created := &dto.ReviewResponse{ID: 7, Author: "alice", TitleID: 5, Text: "great", Score: 9}

	mockSvc.On("Create", mock.Anything, int64(5), "user-123", in).Return(created, nil)

	body, _ := json.Marshal(in)
	req, _ := http.NewRequest("POST", "/api/v1/titles/5/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestCreateReview_DuplicateIs400(t *testing.T) {
	mockSvc := new(MockReviewService)
	router := setupReviewRouter(mockSvc, "user-123", models.RoleUser)

	in := dto.CreateReviewDTO{Text: "again", Score: 5}
	mockSvc.On("Create", mock.Anything, int64(5), "user-123", in).Return(nil, service.ErrAlreadyReviewed)

	body, _ := json.Marshal(in)
	req, _ := http.NewRequest("POST", "/api/v1/titles/5/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestCreateReview_ScoreOutOfBindingRange(t *testing.T) {
	mockSvc := new(MockReviewService)
	router := setupReviewRouter(mockSvc, "user-123", models.RoleUser)

	body, _ := json.Marshal(map[string]interface{}{"text": "x", "score": 11})
	req, _ := http.NewRequest("POST", "/api/v1/titles/5/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateReview_UnknownTitleIs404(t *testing.T) {
	mockSvc := new(MockReviewService)
	router := setupReviewRouter(mockSvc, "user-123", models.RoleUser)

	in := dto.CreateReviewDTO{Text: "x", Score: 5}
	mockSvc.On("Create", mock.Anything, int64(404), "user-123", in).Return(nil, service.ErrTitleNotFound)

	body, _ := json.Marshal(in)
	req, _ := http.NewRequest("POST", "/api/v1/titles/404/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateReview_ForbiddenIs403(t *testing.T) {
	mockSvc := new(MockReviewService)
	router := setupReviewRouter(mockSvc, "user-456", models.RoleUser)

	text := "hijack"
	in := dto.UpdateReviewDTO{Text: &text}
	mockSvc.On("Update", int64(5), int64(7), "user-456", models.RoleUser, in).
		Return(nil, service.ErrForbidden)

	body, _ := json.Marshal(in)
	req, _ := http.NewRequest("PATCH", "/api/v1/titles/5/reviews/7", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestDeleteReview_NoContent(t *testing.T) {
	mockSvc := new(MockReviewService)
	router := setupReviewRouter(mockSvc, "user-123", models.RoleUser)

	mockSvc.On("Delete", int64(5), int64(7), "user-123", models.RoleUser).Return(nil)

	req, _ := http.NewRequest("DELETE", "/api/v1/titles/5/reviews/7", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockSvc.AssertExpectations(t)
}
