package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"catalog/internal/domain"
	"catalog/internal/dto"
	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"
)

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t, nil)

	u, err := c.users.CreateUser(ctx, dto.CreateUserRequest{Name: "Ana", Email: "a@x.com", Password: "12345678"})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "Ana", u.Name)
	assert.Equal(t, "a@x.com", u.Email)
	assert.NotEmpty(t, u.CreatedAt)

	_, err = c.users.CreateUser(ctx, dto.CreateUserRequest{Name: "Other", Email: "a@x.com", Password: "12345678"})
	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "email", conflict.Field)

	_, err = c.users.CreateUser(ctx, dto.CreateUserRequest{Name: "Al", Email: "al@x.com", Password: "12345678"})
	var vErr *domain.ValidationError
	assert.True(t, errors.As(err, &vErr))
}

func TestUserService_Updates(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t, nil)
	ana := c.user(t, "Ana", "a@x.com")
	c.user(t, "Bea", "b@x.com")

	got, err := c.users.UpdateUser(ctx, ana.ID, dto.UpdateUserRequest{Name: "Ana Maria", Email: "am@x.com", Password: "abcdefgh"})
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", got.Name)
	assert.Equal(t, ana.CreatedAt, got.CreatedAt)

	_, err = c.users.PatchUser(ctx, ana.ID, dto.PartialUpdateUserRequest{Email: strPtr("b@x.com")})
	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))

	got, err = c.users.PatchUser(ctx, ana.ID, dto.PartialUpdateUserRequest{Email: strPtr("am@x.com")})
	require.NoError(t, err, "re-submitting the own email is not a conflict")
	assert.Equal(t, "Ana Maria", got.Name)

	_, err = c.users.PatchUser(ctx, 404, dto.PartialUpdateUserRequest{})
	var notFound *domain.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestUserService_DeleteOwnerOfProducts(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t, nil)
	books := c.category(t, "Books")
	ana := c.user(t, "Ana", "a@x.com")
	p, err := c.products.CreateProduct(ctx, novelRequest(ana.ID, books.ID))
	require.NoError(t, err)

	_, err = c.users.DeleteUser(ctx, ana.ID)
	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))

	_, err = c.users.GetUser(ctx, ana.ID)
	require.NoError(t, err, "user is kept")

	_, err = c.products.DeleteProduct(ctx, p.ID)
	require.NoError(t, err)

	resp, err := c.users.DeleteUser(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "User with ID 1 deleted successfully", resp.Message)
}

func TestUserService_GetAllUsers(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	svc := services.NewUserService(userRepo, repositories.NewMemoryProductRepository(nil, nil), nil)

	userRepo.On("FindAll", ctx).Return([]models.User{
		{ID: 1, Name: "Ana", Email: "a@x.com", Password: "12345678"},
		{ID: 2, Name: "Bea", Email: "b@x.com", Password: "12345678"},
	}, nil).Once()

	users, err := svc.GetAllUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Bea", users[1].Name)
	userRepo.AssertExpectations(t)
}

func TestUserService_StoreConflictBecomesConflictError(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	svc := services.NewUserService(userRepo, repositories.NewMemoryProductRepository(nil, nil), nil)

	userRepo.On("FindByEmail", ctx, "a@x.com").Return(nil, repositories.ErrNotFound).Once()
	userRepo.On("Save", ctx, mock.AnythingOfType("*models.User")).
		Return(repositories.ErrDuplicate).Once()

	_, err := svc.CreateUser(ctx, dto.CreateUserRequest{Name: "Ana", Email: "a@x.com", Password: "12345678"})

	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict), "lost race on the unique index, got %v", err)
	userRepo.AssertExpectations(t)
}
