package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"notifyhub/internal/config"
	"notifyhub/internal/microservices/http-api/models"
)

func testAuthService(userRepo *MockUserRepository) AuthService {
	cfg := &config.Config{
		JWTSecret:      "test-secret",
		AccessTokenTTL: 15 * time.Minute,
	}
	return NewAuthService(userRepo, cfg)
}

func TestRegister_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := testAuthService(mockUserRepo)

	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(nil, nil)
	mockUserRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

	user, err := authService.Register(context.Background(), "testuser", "password123", "test@example.com", "+989120000000")

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, "testuser", user.Username)
	assert.Equal(t, "test@example.com", user.Email)
	assert.NotEqual(t, "password123", user.Password)
	mockUserRepo.AssertExpectations(t)
}

func TestRegister_UsernameExists(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := testAuthService(mockUserRepo)

	existingUser := &models.User{Username: "testuser"}
	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(existingUser, nil)

	user, err := authService.Register(context.Background(), "testuser", "password123", "test@example.com", "")

	assert.Error(t, err)
	assert.Equal(t, ErrNameInUse, err)
	assert.Nil(t, user)
	mockUserRepo.AssertExpectations(t)
}

func TestLogin_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := testAuthService(mockUserRepo)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-id",
		Username: "testuser",
		Password: string(hashedPassword),
		IsOwner:  true,
	}

	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(user, nil)

	token, returnedUser, err := authService.Login(context.Background(), "testuser", "password123")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.Username, returnedUser.Username)

	claims, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-id", claims.UserID)
	assert.True(t, claims.IsOwner)
	mockUserRepo.AssertExpectations(t)
}

func TestLogin_InvalidPassword(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := testAuthService(mockUserRepo)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-id",
		Username: "testuser",
		Password: string(hashedPassword),
	}

	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(user, nil)

	token, returnedUser, err := authService.Login(context.Background(), "testuser", "wrongpassword")

	assert.Error(t, err)
	assert.Equal(t, ErrInvalidCredentials, err)
	assert.Empty(t, token)
	assert.Nil(t, returnedUser)
	mockUserRepo.AssertExpectations(t)
}

func TestLogin_UserNotFound(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := testAuthService(mockUserRepo)

	mockUserRepo.On("FindByUsername", mock.Anything, "nonexistent").Return(nil, nil)

	token, user, err := authService.Login(context.Background(), "nonexistent", "password123")

	assert.Error(t, err)
	assert.Equal(t, ErrInvalidCredentials, err)
	assert.Empty(t, token)
	assert.Nil(t, user)
	mockUserRepo.AssertExpectations(t)
}

func TestValidateToken_Expired(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := testAuthService(mockUserRepo)

	claims := Claims{
		UserID:   "user-id",
		Username: "testuser",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-id",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte("test-secret"))

	validatedClaims, err := authService.ValidateToken(tokenString)

	assert.Error(t, err)
	assert.Equal(t, ErrInvalidToken, err)
	assert.Nil(t, validatedClaims)
}

func TestValidateToken_Malformed(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := testAuthService(mockUserRepo)

	validatedClaims, err := authService.ValidateToken("invalid.token.here")

	assert.Error(t, err)
	assert.Nil(t, validatedClaims)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := testAuthService(mockUserRepo)

	claims := Claims{
		UserID: "user-id",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-id",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte("other-secret"))

	validatedClaims, err := authService.ValidateToken(tokenString)

	assert.Error(t, err)
	assert.Equal(t, ErrInvalidToken, err)
	assert.Nil(t, validatedClaims)
}

func TestUpdateFCMToken_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := testAuthService(mockUserRepo)

	mockUserRepo.On("FindByID", mock.Anything, "user-1").
		Return(&models.User{ID: "user-1", Username: "testuser"}, nil)
	mockUserRepo.On("UpdateFCMToken", mock.Anything, "user-1", "device-token-abc").Return(nil)

	err := authService.UpdateFCMToken(context.Background(), "user-1", "device-token-abc")

	assert.NoError(t, err)
	mockUserRepo.AssertExpectations(t)
}

func TestUpdateFCMToken_UnknownUser(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := testAuthService(mockUserRepo)

	mockUserRepo.On("FindByID", mock.Anything, "ghost").Return(nil, nil)

	err := authService.UpdateFCMToken(context.Background(), "ghost", "device-token-abc")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	mockUserRepo.AssertNotCalled(t, "UpdateFCMToken", mock.Anything, mock.Anything, mock.Anything)
}
