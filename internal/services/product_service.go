package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/singleflight"

	"catalog/internal/domain"
	"catalog/internal/dto"
	"catalog/internal/models"
	"catalog/internal/repositories"
)

const kindProduct = "Product"

// ProductService handles business logic related to products.
type ProductService struct {
	productRepo  repositories.ProductRepository
	userRepo     repositories.UserRepository
	categoryRepo repositories.CategoryRepository
	notifier     *Notifier
	loads        singleflight.Group
}

// NewProductService creates a new ProductService.
func NewProductService(
	productRepo repositories.ProductRepository,
	userRepo repositories.UserRepository,
	categoryRepo repositories.CategoryRepository,
	notifier *Notifier,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		notifier:     notifier,
	}
}

// GetAllProducts retrieves all products with owners and categories resolved.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]dto.ProductResponse, error) {
	return s.ListProducts(ctx, dto.ProductFilter{})
}

// ListProducts retrieves the products selected by filter. The first set
// criterion wins in the order owner id, owner name, category id, category name.
func (s *ProductService) ListProducts(ctx context.Context, filter dto.ProductFilter) ([]dto.ProductResponse, error) {
	var (
		rows []models.Product
		err  error
	)
	switch {
	case filter.OwnerID != 0:
		rows, err = s.productRepo.FindByOwnerID(ctx, filter.OwnerID)
	case filter.OwnerName != "":
		rows, err = s.productRepo.FindByOwnerName(ctx, filter.OwnerName)
	case filter.CategoryID != 0 && filter.MinPrice != nil:
		rows, err = s.productRepo.FindByCategoryIDAndPriceGreaterThan(ctx, filter.CategoryID, *filter.MinPrice)
	case filter.CategoryID != 0:
		rows, err = s.productRepo.FindByCategoryID(ctx, filter.CategoryID)
	case filter.CategoryName != "":
		rows, err = s.productRepo.FindByCategoryName(ctx, filter.CategoryName)
	case filter.MinPrice != nil:
		return nil, &domain.ValidationError{Field: "minPrice", Message: "requires categoryId"}
	default:
		rows, err = s.productRepo.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	products := make([]*domain.Product, 0, len(rows))
	for _, row := range rows {
		p, err := domain.ProductFromEntity(row)
		if err != nil {
			return nil, fmt.Errorf("stored product %d is invalid: %w", row.ID, err)
		}
		products = append(products, p)
	}
	return s.shape(ctx, products)
}

// GetProduct retrieves a single product. Responses are served from the cache
// when one is configured; concurrent misses for the same ID share one load.
func (s *ProductService) GetProduct(ctx context.Context, id uint) (*dto.ProductResponse, error) {
	key := fmt.Sprintf("product:%d", id)

	var cached dto.ProductResponse
	if s.notifier.cached(ctx, key, &cached) {
		return &cached, nil
	}

	v, err, _ := s.loads.Do(key, func() (any, error) {
		// The load is shared by every waiter and outlives any one caller.
		ctx := context.WithoutCancel(ctx)
		gen := s.notifier.snapshot()
		p, err := s.load(ctx, id)
		if err != nil {
			return nil, err
		}
		resp, err := s.shapeOne(ctx, p)
		if err != nil {
			return nil, err
		}
		s.notifier.store(ctx, key, resp, gen)
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	resp := *v.(*dto.ProductResponse)
	return &resp, nil
}

// CreateProduct creates a product owned by req.UserID in the categories of req.CategoryIDs.
func (s *ProductService) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := s.ensureNameFree(ctx, req.Name, 0); err != nil {
		return nil, err
	}
	if _, err := s.resolveOwner(ctx, req.UserID); err != nil {
		return nil, err
	}
	if _, err := s.resolveCategories(ctx, req.CategoryIDs); err != nil {
		return nil, err
	}
	p, err := domain.ProductFromCreateRequest(req)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, p, "product.created")
}

// UpdateProduct replaces name, description, price, categories and, when
// given, stock. The owner never changes.
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != p.Name {
		if err := s.ensureNameFree(ctx, req.Name, id); err != nil {
			return nil, err
		}
	}
	if _, err := s.resolveCategories(ctx, req.CategoryIDs); err != nil {
		return nil, err
	}
	if err := p.ApplyUpdate(req); err != nil {
		return nil, err
	}
	return s.save(ctx, p, "product.updated")
}

// PatchProduct replaces only the fields present in req. Categories are
// resolved again only when supplied.
func (s *ProductService) PatchProduct(ctx context.Context, id uint, req dto.PartialUpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil && *req.Name != p.Name {
		if err := s.ensureNameFree(ctx, *req.Name, id); err != nil {
			return nil, err
		}
	}
	if req.CategoryIDs != nil {
		if _, err := s.resolveCategories(ctx, req.CategoryIDs); err != nil {
			return nil, err
		}
	}
	if err := p.ApplyPartialUpdate(req); err != nil {
		return nil, err
	}
	return s.save(ctx, p, "product.updated")
}

// DeleteProduct hard-deletes a product and its category links.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) (*dto.DeleteResponse, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	row := p.ToEntity()
	if err := s.productRepo.Delete(ctx, &row); err != nil {
		return nil, deleteError(kindProduct, id, err)
	}
	s.notifier.changed(ctx, "product.deleted", id, nil)
	return deleted(kindProduct, id), nil
}

func (s *ProductService) load(ctx context.Context, id uint) (*domain.Product, error) {
	row, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(kindProduct, id, err)
	}
	return domain.ProductFromEntity(*row)
}

func (s *ProductService) ensureNameFree(ctx context.Context, name string, self uint) error {
	existing, err := s.productRepo.FindByName(ctx, name)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return &domain.ConflictError{Kind: kindProduct, Field: "name", Value: name}
	}
	return nil
}

func (s *ProductService) resolveOwner(ctx context.Context, id uint) (*domain.User, error) {
	row, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(kindUser, id, err)
	}
	return domain.UserFromEntity(*row)
}

// resolveCategories loads every category in ids, in order, and fails with a
// NotFoundError naming the first missing one.
func (s *ProductService) resolveCategories(ctx context.Context, ids []uint) ([]*domain.Category, error) {
	rows, err := s.categoryRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Category, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	out := make([]*domain.Category, 0, len(ids))
	for _, id := range ids {
		row, ok := byID[id]
		if !ok {
			return nil, &domain.NotFoundError{Kind: kindCategory, Key: id}
		}
		c, err := domain.CategoryFromEntity(row)
		if err != nil {
			return nil, fmt.Errorf("stored category %d is invalid: %w", id, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *ProductService) save(ctx context.Context, p *domain.Product, eventType string) (*dto.ProductResponse, error) {
	row := p.ToEntity()
	if err := s.productRepo.Save(ctx, &row); err != nil {
		if errors.Is(err, repositories.ErrInUse) {
			return nil, fmt.Errorf("product references a missing owner or category: %w", err)
		}
		return nil, saveError(kindProduct, "name", p.Name, err)
	}
	p.ID = row.ID
	p.UpdatedAt = row.UpdatedAt

	resp, err := s.shapeOne(ctx, p)
	if err != nil {
		return nil, err
	}
	s.notifier.changed(ctx, eventType, p.ID, resp)
	return resp, nil
}

func (s *ProductService) shapeOne(ctx context.Context, p *domain.Product) (*dto.ProductResponse, error) {
	out, err := s.shape(ctx, []*domain.Product{p})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// shape resolves owners and categories for all products with one query each.
// Owners or categories deleted behind the service's back are left out.
func (s *ProductService) shape(ctx context.Context, products []*domain.Product) ([]dto.ProductResponse, error) {
	var ownerIDs, categoryIDs []uint
	for _, p := range products {
		ownerIDs = append(ownerIDs, p.OwnerID)
		categoryIDs = append(categoryIDs, p.CategoryIDs...)
	}

	owners := make(map[uint]*domain.User)
	if len(ownerIDs) > 0 {
		rows, err := s.userRepo.FindByIDs(ctx, ownerIDs)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			u, err := domain.UserFromEntity(row)
			if err != nil {
				return nil, fmt.Errorf("stored user %d is invalid: %w", row.ID, err)
			}
			owners[u.ID] = u
		}
	}

	categories := make(map[uint]*domain.Category)
	if len(categoryIDs) > 0 {
		rows, err := s.categoryRepo.FindByIDs(ctx, categoryIDs)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			c, err := domain.CategoryFromEntity(row)
			if err != nil {
				return nil, fmt.Errorf("stored category %d is invalid: %w", row.ID, err)
			}
			categories[c.ID] = c
		}
	}

	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		cats := make([]*domain.Category, 0, len(p.CategoryIDs))
		for _, id := range p.CategoryIDs {
			if c, ok := categories[id]; ok {
				cats = append(cats, c)
			}
		}
		out = append(out, p.ToResponse(owners[p.OwnerID], cats))
	}
	return out, nil
}
