package services

import (
	"context"
	"fmt"

	"catalog/internal/domain"
	"catalog/internal/dto"
	"catalog/internal/repositories"
)

const kindCategory = "Category"

// CategoryService handles business logic related to categories.
type CategoryService struct {
	categoryRepo repositories.CategoryRepository
	productRepo  repositories.ProductRepository
	notifier     *Notifier
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categoryRepo repositories.CategoryRepository, productRepo repositories.ProductRepository, notifier *Notifier) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		notifier:     notifier,
	}
}

// GetAllCategories retrieves all categories.
func (s *CategoryService) GetAllCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	rows, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(rows))
	for _, row := range rows {
		c, err := domain.CategoryFromEntity(row)
		if err != nil {
			return nil, fmt.Errorf("stored category %d is invalid: %w", row.ID, err)
		}
		out = append(out, c.ToResponse())
	}
	return out, nil
}

// GetCategory retrieves a single category by its ID.
func (s *CategoryService) GetCategory(ctx context.Context, id uint) (*dto.CategoryResponse, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := c.ToResponse()
	return &resp, nil
}

// CreateCategory creates a category with a name not used yet.
func (s *CategoryService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if err := s.ensureNameFree(ctx, req.Name); err != nil {
		return nil, err
	}
	c, err := domain.CategoryFromCreateRequest(req)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, c, "category.created")
}

// UpdateCategory replaces name and description.
func (s *CategoryService) UpdateCategory(ctx context.Context, id uint, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != c.Name {
		if err := s.ensureNameFree(ctx, req.Name); err != nil {
			return nil, err
		}
	}
	if err := c.ApplyUpdate(req); err != nil {
		return nil, err
	}
	return s.save(ctx, c, "category.updated")
}

// PatchCategory replaces only the fields present in req.
func (s *CategoryService) PatchCategory(ctx context.Context, id uint, req dto.PartialUpdateCategoryRequest) (*dto.CategoryResponse, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil && *req.Name != c.Name {
		if err := s.ensureNameFree(ctx, *req.Name); err != nil {
			return nil, err
		}
	}
	if err := c.ApplyPartialUpdate(req); err != nil {
		return nil, err
	}
	return s.save(ctx, c, "category.updated")
}

// DeleteCategory hard-deletes a category no product belongs to.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) (*dto.DeleteResponse, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.productRepo.CountByCategoryID(ctx, id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, inUse(kindCategory, id)
	}
	row := c.ToEntity()
	if err := s.categoryRepo.Delete(ctx, &row); err != nil {
		return nil, deleteError(kindCategory, id, err)
	}
	s.notifier.changed(ctx, "category.deleted", id, nil)
	return deleted(kindCategory, id), nil
}

// CountProducts counts the products in a category. An unknown category has
// no products, so it yields a zero count rather than an error.
func (s *CategoryService) CountProducts(ctx context.Context, id uint) (*dto.CategoryProductCount, error) {
	count, err := s.productRepo.CountByCategoryID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.CategoryProductCount{CategoryID: id, Count: count}, nil
}

func (s *CategoryService) load(ctx context.Context, id uint) (*domain.Category, error) {
	row, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(kindCategory, id, err)
	}
	return domain.CategoryFromEntity(*row)
}

func (s *CategoryService) ensureNameFree(ctx context.Context, name string) error {
	exists, err := s.categoryRepo.ExistsByName(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return &domain.ConflictError{Kind: kindCategory, Field: "name", Value: name}
	}
	return nil
}

func (s *CategoryService) save(ctx context.Context, c *domain.Category, eventType string) (*dto.CategoryResponse, error) {
	row := c.ToEntity()
	if err := s.categoryRepo.Save(ctx, &row); err != nil {
		return nil, saveError(kindCategory, "name", c.Name, err)
	}
	c.ID = row.ID
	c.UpdatedAt = row.UpdatedAt
	resp := c.ToResponse()
	s.notifier.changed(ctx, eventType, c.ID, resp)
	return &resp, nil
}
