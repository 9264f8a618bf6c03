package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"notifyhub/internal/microservices/http-api/handler"
	"notifyhub/internal/microservices/http-api/models"
	"notifyhub/internal/microservices/http-api/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, password, email, phone string) (*models.User, error) {
	args := m.Called(ctx, username, password, email, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*models.User), args.Error(2)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func (m *MockAuthService) UpdateFCMToken(ctx context.Context, userID, token string) error {
	args := m.Called(ctx, userID, token)
	return args.Error(0)
}

func setupAuthRouter(mockService *MockAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewAuthHandler(mockService)

	h.RegisterRoutes(r.Group("/api/auth"))

	users := r.Group("/api/users")
	users.Use(mockAuthMiddleware("test-user-id"))
	h.RegisterProtectedRoutes(users)
	return r
}

func TestAuthHandler_Register(t *testing.T) {
	mockService := new(MockAuthService)
	r := setupAuthRouter(mockService)

	t.Run("Created", func(t *testing.T) {
		user := &models.User{ID: "user-1", Username: "ali", Email: "ali@example.com"}
		mockService.On("Register", mock.Anything, "ali", "s3cretpass", "ali@example.com", "").
			Return(user, nil).Once()

		body, _ := json.Marshal(map[string]string{
			"username": "ali",
			"password": "s3cretpass",
			"email":    "ali@example.com",
		})
		req, _ := http.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("UsernameTaken", func(t *testing.T) {
		mockService.On("Register", mock.Anything, "taken", "s3cretpass", "taken@example.com", "").
			Return(nil, service.ErrNameInUse).Once()

		body, _ := json.Marshal(map[string]string{
			"username": "taken",
			"password": "s3cretpass",
			"email":    "taken@example.com",
		})
		req, _ := http.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestAuthHandler_UpdateFCMToken(t *testing.T) {
	mockService := new(MockAuthService)
	r := setupAuthRouter(mockService)

	t.Run("Updated", func(t *testing.T) {
		mockService.On("UpdateFCMToken", mock.Anything, "test-user-id", "device-token-abc").
			Return(nil).Once()

		body, _ := json.Marshal(map[string]string{"fcm_token": "device-token-abc"})
		req, _ := http.NewRequest(http.MethodPut, "/api/users/fcm-token", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("EmptyTokenDetachesDevice", func(t *testing.T) {
		mockService.On("UpdateFCMToken", mock.Anything, "test-user-id", "").
			Return(nil).Once()

		req, _ := http.NewRequest(http.MethodPut, "/api/users/fcm-token", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		mockService.On("UpdateFCMToken", mock.Anything, "test-user-id", "device-token-abc").
			Return(errors.New("connection refused")).Once()

		body, _ := json.Marshal(map[string]string{"fcm_token": "device-token-abc"})
		req, _ := http.NewRequest(http.MethodPut, "/api/users/fcm-token", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
