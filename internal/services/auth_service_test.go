package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"catalog/internal/dto"
	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"
)

const testJWTSecret = "test_jwt_secret"

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)

	user := &models.User{ID: 7, Name: "Ana", Email: "a@x.com", Password: "password123"}
	mockRepo.On("FindByEmail", ctx, "a@x.com").Return(user, nil)

	resp, err := authService.Login(ctx, dto.LoginRequest{Email: "a@x.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.ExpiresAt)

	claims, err := authService.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, float64(7), claims["user_id"])
	assert.Equal(t, "a@x.com", claims["email"])

	_, err = authService.Login(ctx, dto.LoginRequest{Email: "a@x.com", Password: "wrongpass"})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginUnknownEmail(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)

	mockRepo.On("FindByEmail", ctx, "ghost@x.com").Return(nil, repositories.ErrNotFound).Once()

	_, err := authService.Login(ctx, dto.LoginRequest{Email: "ghost@x.com", Password: "whatever1"})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	boom := errors.New("db down")
	mockRepo.On("FindByEmail", ctx, "a@x.com").Return(nil, boom).Once()
	_, err = authService.Login(ctx, dto.LoginRequest{Email: "a@x.com", Password: "whatever1"})
	assert.ErrorIs(t, err, boom)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_NoSecretIssuesNoTokens(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "", time.Hour)

	_, err := authService.Login(context.Background(), dto.LoginRequest{Email: "a@x.com", Password: "password123"})
	assert.ErrorIs(t, err, services.ErrNoSigningKey)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 1})
	token, err := unsigned.SignedString([]byte(""))
	require.NoError(t, err)
	_, err = authService.ValidateToken(token)
	assert.ErrorIs(t, err, services.ErrNoSigningKey)

	mockRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := services.NewAuthService(new(MockUserRepository), testJWTSecret, time.Hour)

	sign := func(secret string, claims jwt.MapClaims) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		s, err := token.SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}

	t.Run("wrong secret", func(t *testing.T) {
		_, err := authService.ValidateToken(sign("other", jwt.MapClaims{"user_id": 1}))
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		_, err := authService.ValidateToken(sign(testJWTSecret, jwt.MapClaims{
			"user_id": 1,
			"exp":     time.Now().Add(-time.Minute).Unix(),
		}))
		assert.Error(t, err)
	})

	t.Run("unsigned", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": 1})
		s, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = authService.ValidateToken(s)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := authService.ValidateToken("not-a-token")
		assert.Error(t, err)
	})
}
