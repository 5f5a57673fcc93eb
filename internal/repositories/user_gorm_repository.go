package repositories

import (
	"context"
	"fmt"

	"catalog/internal/models"

	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// FindAll retrieves all users ordered by ID.
func (r *GORMUserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	return users, nil
}

// FindByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err, "failed to get user by ID %d", id)
	}
	return &user, nil
}

// FindByIDs retrieves the users with the given IDs. Missing IDs are skipped.
func (r *GORMUserRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to get users by IDs: %w", err)
	}
	return users, nil
}

// FindByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, translate(err, "failed to get user by email %s", email)
	}
	return &user, nil
}

// Save inserts the user when it has no ID yet, otherwise updates every column.
func (r *GORMUserRepository) Save(ctx context.Context, user *models.User) error {
	db := r.db.WithContext(ctx)
	var err error
	if user.ID == 0 {
		err = db.Create(user).Error
	} else {
		err = db.Save(user).Error
	}
	if err != nil {
		return translate(err, "failed to save user")
	}
	return nil
}

// Delete hard-deletes the user.
func (r *GORMUserRepository) Delete(ctx context.Context, user *models.User) error {
	res := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", user.ID)
	if res.Error != nil {
		return translate(res.Error, "failed to delete user %d", user.ID)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %d not found for deletion: %w", user.ID, ErrNotFound)
	}
	return nil
}
