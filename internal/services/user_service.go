package services

import (
	"context"
	"errors"
	"fmt"

	"catalog/internal/domain"
	"catalog/internal/dto"
	"catalog/internal/repositories"
)

const kindUser = "User"

// UserService handles business logic related to users.
type UserService struct {
	userRepo    repositories.UserRepository
	productRepo repositories.ProductRepository
	notifier    *Notifier
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository, productRepo repositories.ProductRepository, notifier *Notifier) *UserService {
	return &UserService{
		userRepo:    userRepo,
		productRepo: productRepo,
		notifier:    notifier,
	}
}

// GetAllUsers retrieves all users.
func (s *UserService) GetAllUsers(ctx context.Context) ([]dto.UserResponse, error) {
	rows, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(rows))
	for _, row := range rows {
		u, err := domain.UserFromEntity(row)
		if err != nil {
			return nil, fmt.Errorf("stored user %d is invalid: %w", row.ID, err)
		}
		out = append(out, u.ToResponse())
	}
	return out, nil
}

// GetUser retrieves a single user by its ID.
func (s *UserService) GetUser(ctx context.Context, id uint) (*dto.UserResponse, error) {
	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := u.ToResponse()
	return &resp, nil
}

// CreateUser registers a new user. The email must not be taken.
func (s *UserService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := s.ensureEmailFree(ctx, req.Email, 0); err != nil {
		return nil, err
	}
	u, err := domain.UserFromCreateRequest(req)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, u, "user.created")
}

// UpdateUser replaces every field of a user.
func (s *UserService) UpdateUser(ctx context.Context, id uint, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Email != u.Email {
		if err := s.ensureEmailFree(ctx, req.Email, id); err != nil {
			return nil, err
		}
	}
	if err := u.ApplyUpdate(req); err != nil {
		return nil, err
	}
	return s.save(ctx, u, "user.updated")
}

// PatchUser replaces only the fields present in req.
func (s *UserService) PatchUser(ctx context.Context, id uint, req dto.PartialUpdateUserRequest) (*dto.UserResponse, error) {
	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Email != nil && *req.Email != u.Email {
		if err := s.ensureEmailFree(ctx, *req.Email, id); err != nil {
			return nil, err
		}
	}
	if err := u.ApplyPartialUpdate(req); err != nil {
		return nil, err
	}
	return s.save(ctx, u, "user.updated")
}

// DeleteUser hard-deletes a user that owns no products.
func (s *UserService) DeleteUser(ctx context.Context, id uint) (*dto.DeleteResponse, error) {
	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	owned, err := s.productRepo.CountByOwnerID(ctx, id)
	if err != nil {
		return nil, err
	}
	if owned > 0 {
		return nil, &domain.ConflictError{
			Kind:    kindUser,
			Field:   "id",
			Value:   id,
			Message: fmt.Sprintf("User with ID %d still owns %d products", id, owned),
		}
	}
	row := u.ToEntity()
	if err := s.userRepo.Delete(ctx, &row); err != nil {
		return nil, deleteError(kindUser, id, err)
	}
	s.notifier.changed(ctx, "user.deleted", id, nil)
	return deleted(kindUser, id), nil
}

func (s *UserService) load(ctx context.Context, id uint) (*domain.User, error) {
	row, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(kindUser, id, err)
	}
	return domain.UserFromEntity(*row)
}

// ensureEmailFree fails with a ConflictError when another user than self has email.
func (s *UserService) ensureEmailFree(ctx context.Context, email string, self uint) error {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return &domain.ConflictError{Kind: kindUser, Field: "email", Value: email}
	}
	return nil
}

func (s *UserService) save(ctx context.Context, u *domain.User, eventType string) (*dto.UserResponse, error) {
	row := u.ToEntity()
	if err := s.userRepo.Save(ctx, &row); err != nil {
		return nil, saveError(kindUser, "email", u.Email, err)
	}
	u.ID = row.ID
	resp := u.ToResponse()
	s.notifier.changed(ctx, eventType, u.ID, resp)
	return &resp, nil
}
