package repositories

import (
	"context"
	"fmt"

	"catalog/internal/models"

	"gorm.io/gorm"
)

// GORMCategoryRepository is a GORM implementation of CategoryRepository.
type GORMCategoryRepository struct {
	db *gorm.DB
}

// NewGORMCategoryRepository creates a new instance of GORMCategoryRepository.
func NewGORMCategoryRepository(db *gorm.DB) *GORMCategoryRepository {
	return &GORMCategoryRepository{db: db}
}

func (r *GORMCategoryRepository) FindAll(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get all categories: %w", err)
	}
	return categories, nil
}

func (r *GORMCategoryRepository) FindByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, translate(err, "failed to get category by ID %d", id)
	}
	return &category, nil
}

func (r *GORMCategoryRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var categories []models.Category
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get categories by IDs: %w", err)
	}
	return categories, nil
}

func (r *GORMCategoryRepository) FindByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "name = ?", name).Error; err != nil {
		return nil, translate(err, "failed to get category by name %s", name)
	}
	return &category, nil
}

// ExistsByName reports whether a category with exactly this name exists.
func (r *GORMCategoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Category{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count categories named %s: %w", name, err)
	}
	return count > 0, nil
}

func (r *GORMCategoryRepository) Save(ctx context.Context, category *models.Category) error {
	db := r.db.WithContext(ctx)
	var err error
	if category.ID == 0 {
		err = db.Create(category).Error
	} else {
		err = db.Save(category).Error
	}
	if err != nil {
		return translate(err, "failed to save category")
	}
	return nil
}

func (r *GORMCategoryRepository) Delete(ctx context.Context, category *models.Category) error {
	res := r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", category.ID)
	if res.Error != nil {
		return translate(res.Error, "failed to delete category %d", category.ID)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("category with ID %d not found for deletion: %w", category.ID, ErrNotFound)
	}
	return nil
}
