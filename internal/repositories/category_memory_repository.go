package repositories

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"catalog/internal/models"
)

// MemoryCategoryRepository is an in-memory implementation of CategoryRepository.
type MemoryCategoryRepository struct {
	categories map[uint]models.Category
	nextID     uint
	mu         sync.RWMutex
}

// NewMemoryCategoryRepository creates a new instance of MemoryCategoryRepository.
func NewMemoryCategoryRepository() *MemoryCategoryRepository {
	return &MemoryCategoryRepository{
		categories: make(map[uint]models.Category),
		nextID:     1,
	}
}

func (r *MemoryCategoryRepository) FindAll(_ context.Context) ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Category, 0, len(r.categories))
	for _, c := range r.categories {
		list = append(list, c)
	}
	slices.SortFunc(list, func(a, b models.Category) int { return int(a.ID) - int(b.ID) })
	return list, nil
}

func (r *MemoryCategoryRepository) FindByID(_ context.Context, id uint) (*models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.categories[id]
	if !ok {
		return nil, fmt.Errorf("category with ID %d: %w", id, ErrNotFound)
	}
	return &c, nil
}

func (r *MemoryCategoryRepository) FindByIDs(_ context.Context, ids []uint) ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found []models.Category
	for _, id := range ids {
		if c, ok := r.categories[id]; ok {
			found = append(found, c)
		}
	}
	return found, nil
}

func (r *MemoryCategoryRepository) FindByName(_ context.Context, name string) (*models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.categories {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("category named %s: %w", name, ErrNotFound)
}

func (r *MemoryCategoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	_, err := r.FindByName(ctx, name)
	return err == nil, nil
}

func (r *MemoryCategoryRepository) Save(_ context.Context, category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, c := range r.categories {
		if id != category.ID && c.Name == category.Name {
			return fmt.Errorf("failed to save category: name %s: %w", category.Name, ErrDuplicate)
		}
	}
	now := time.Now()
	if category.ID == 0 {
		category.ID = r.nextID
		r.nextID++
		if category.CreatedAt.IsZero() {
			category.CreatedAt = now
		}
	} else if _, ok := r.categories[category.ID]; !ok {
		return fmt.Errorf("category with ID %d not found for update: %w", category.ID, ErrNotFound)
	}
	category.UpdatedAt = now
	r.categories[category.ID] = *category
	return nil
}

func (r *MemoryCategoryRepository) Delete(_ context.Context, category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[category.ID]; !ok {
		return fmt.Errorf("category with ID %d not found for deletion: %w", category.ID, ErrNotFound)
	}
	delete(r.categories, category.ID)
	return nil
}

func (r *MemoryCategoryRepository) name(id uint) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.categories[id]
	return c.Name, ok
}
