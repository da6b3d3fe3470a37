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

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, username, email string) (*models.User, error) {
	args := m.Called(ctx, username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) ObtainToken(ctx context.Context, username, code string) (string, error) {
	args := m.Called(ctx, username, code)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestSignup_Success(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/auth/signup", handler.Signup)

	user := &models.User{
		ID:       "user-123",
		Username: "alice",
		Email:    "alice@example.com",
	}

	mockAuthService.On("Signup", mock.Anything, "alice", "alice@example.com").Return(user, nil)

	reqBody := dto.SignupRequest{
		Username: "alice",
		Email:    "alice@example.com",
	}
	body, _ := json.Marshal(reqBody)

	req, _ := http.NewRequest("POST", "/auth/signup", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.SignupResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "alice", response.Username)
	assert.Equal(t, "alice@example.com", response.Email)

	mockAuthService.AssertExpectations(t)
}

func TestSignup_UsernameTaken(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/auth/signup", handler.Signup)

	mockAuthService.On("Signup", mock.Anything, "alice", "new@example.com").
		Return(nil, service.ErrUsernameTaken)

	reqBody := dto.SignupRequest{
		Username: "alice",
		Email:    "new@example.com",
	}
	body, _ := json.Marshal(reqBody)

	req, _ := http.NewRequest("POST", "/auth/signup", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockAuthService.AssertExpectations(t)
}

func TestSignup_ReservedUsername(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/auth/signup", handler.Signup)

	mockAuthService.On("Signup", mock.Anything, "me", "me@example.com").
		Return(nil, service.ErrReservedUsername)

	reqBody := dto.SignupRequest{
		Username: "me",
		Email:    "me@example.com",
	}
	body, _ := json.Marshal(reqBody)

	req, _ := http.NewRequest("POST", "/auth/signup", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignup_MissingEmail(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/auth/signup", handler.Signup)

	body, _ := json.Marshal(map[string]string{"username": "alice"})

	req, _ := http.NewRequest("POST", "/auth/signup", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockAuthService.AssertNotCalled(t, "Signup", mock.Anything, mock.Anything, mock.Anything)
}

func TestSignup_InvalidJSON(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/auth/signup", handler.Signup)

	req, _ := http.NewRequest("POST", "/auth/signup", bytes.NewBuffer([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestObtainToken_Success(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/auth/token", handler.ObtainToken)

	mockAuthService.On("ObtainToken", mock.Anything, "alice", "ABC234").
		Return("signed-token", nil)

	reqBody := dto.TokenRequest{
		Username:         "alice",
		ConfirmationCode: "ABC234",
	}
	body, _ := json.Marshal(reqBody)

	req, _ := http.NewRequest("POST", "/auth/token", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.TokenResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "signed-token", response.Token)

	mockAuthService.AssertExpectations(t)
}

func TestObtainToken_UnknownUserIs404(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/auth/token", handler.ObtainToken)

	mockAuthService.On("ObtainToken", mock.Anything, "ghost", "ABC234").
		Return("", service.ErrUserNotFound)

	reqBody := dto.TokenRequest{
		Username:         "ghost",
		ConfirmationCode: "ABC234",
	}
	body, _ := json.Marshal(reqBody)

	req, _ := http.NewRequest("POST", "/auth/token", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	// unknown username is 404, not 400: the identity does not exist
	assert.Equal(t, http.StatusNotFound, w.Code)
	mockAuthService.AssertExpectations(t)
}

func TestObtainToken_WrongCodeIs400(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/auth/token", handler.ObtainToken)

	mockAuthService.On("ObtainToken", mock.Anything, "alice", "WRONG1").
		Return("", service.ErrInvalidCode)

	reqBody := dto.TokenRequest{
		Username:         "alice",
		ConfirmationCode: "WRONG1",
	}
	body, _ := json.Marshal(reqBody)

	req, _ := http.NewRequest("POST", "/auth/token", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockAuthService.AssertExpectations(t)
}
