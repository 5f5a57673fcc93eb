package repositories

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"catalog/internal/models"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
// Name based lookups resolve owners and categories through the sibling
// memory repositories.
type MemoryProductRepository struct {
	products   map[uint]models.Product
	nextID     uint
	users      *MemoryUserRepository
	categories *MemoryCategoryRepository
	mu         sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository(users *MemoryUserRepository, categories *MemoryCategoryRepository) *MemoryProductRepository {
	return &MemoryProductRepository{
		products:   make(map[uint]models.Product),
		nextID:     1,
		users:      users,
		categories: categories,
	}
}

func (r *MemoryProductRepository) FindAll(_ context.Context) ([]models.Product, error) {
	return r.filter(func(models.Product) bool { return true }), nil
}

func (r *MemoryProductRepository) FindByID(_ context.Context, id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %d: %w", id, ErrNotFound)
	}
	return clone(p), nil
}

func (r *MemoryProductRepository) FindByName(_ context.Context, name string) (*models.Product, error) {
	found := r.filter(func(p models.Product) bool { return p.Name == name })
	if len(found) == 0 {
		return nil, fmt.Errorf("product named %s: %w", name, ErrNotFound)
	}
	return &found[0], nil
}

func (r *MemoryProductRepository) FindByOwnerID(_ context.Context, userID uint) ([]models.Product, error) {
	return r.filter(func(p models.Product) bool { return p.UserID == userID }), nil
}

func (r *MemoryProductRepository) FindByOwnerName(_ context.Context, ownerName string) ([]models.Product, error) {
	return r.filter(func(p models.Product) bool {
		name, ok := r.users.name(p.UserID)
		return ok && name == ownerName
	}), nil
}

func (r *MemoryProductRepository) FindByCategoryID(_ context.Context, categoryID uint) ([]models.Product, error) {
	return r.filter(func(p models.Product) bool { return slices.Contains(p.CategoryIDs, categoryID) }), nil
}

func (r *MemoryProductRepository) FindByCategoryName(_ context.Context, categoryName string) ([]models.Product, error) {
	return r.filter(func(p models.Product) bool {
		for _, id := range p.CategoryIDs {
			if name, ok := r.categories.name(id); ok && name == categoryName {
				return true
			}
		}
		return false
	}), nil
}

func (r *MemoryProductRepository) FindByCategoryIDAndPriceGreaterThan(_ context.Context, categoryID uint, price float64) ([]models.Product, error) {
	return r.filter(func(p models.Product) bool {
		return slices.Contains(p.CategoryIDs, categoryID) && p.Price.InexactFloat64() > price
	}), nil
}

func (r *MemoryProductRepository) CountByCategoryID(ctx context.Context, categoryID uint) (int64, error) {
	found, _ := r.FindByCategoryID(ctx, categoryID)
	return int64(len(found)), nil
}

func (r *MemoryProductRepository) CountByOwnerID(ctx context.Context, userID uint) (int64, error) {
	found, _ := r.FindByOwnerID(ctx, userID)
	return int64(len(found)), nil
}

func (r *MemoryProductRepository) Save(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, p := range r.products {
		if id != product.ID && p.Name == product.Name {
			return fmt.Errorf("failed to save product: name %s: %w", product.Name, ErrDuplicate)
		}
	}
	now := time.Now()
	if product.ID == 0 {
		product.ID = r.nextID
		r.nextID++
		if product.CreatedAt.IsZero() {
			product.CreatedAt = now
		}
	} else if _, ok := r.products[product.ID]; !ok {
		return fmt.Errorf("product with ID %d not found for update: %w", product.ID, ErrNotFound)
	}
	product.UpdatedAt = now
	r.products[product.ID] = *clone(*product)
	return nil
}

func (r *MemoryProductRepository) Delete(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return fmt.Errorf("product with ID %d not found for deletion: %w", product.ID, ErrNotFound)
	}
	delete(r.products, product.ID)
	return nil
}

// filter returns copies of the matching products ordered by ID.
func (r *MemoryProductRepository) filter(match func(models.Product) bool) []models.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	found := []models.Product{}
	for _, p := range r.products {
		if match(p) {
			found = append(found, *clone(p))
		}
	}
	slices.SortFunc(found, func(a, b models.Product) int { return int(a.ID) - int(b.ID) })
	return found
}

func clone(p models.Product) *models.Product {
	p.CategoryIDs = slices.Clone(p.CategoryIDs)
	if p.CategoryIDs == nil {
		p.CategoryIDs = []uint{}
	}
	p.Owner = nil
	return &p
}
