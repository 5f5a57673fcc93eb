package repositories

import (
	"context"
	"fmt"

	"catalog/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
// Category membership is kept in the product_categories join table and loaded
// explicitly after every product query.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// FindAll retrieves all products from the database.
func (r *GORMProductRepository) FindAll(ctx context.Context) ([]models.Product, error) {
	return r.find(ctx, r.db.WithContext(ctx), "failed to get all products")
}

// FindByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	return r.first(ctx, "products.id = ?", id)
}

// FindByName retrieves the product with exactly this name.
func (r *GORMProductRepository) FindByName(ctx context.Context, name string) (*models.Product, error) {
	return r.first(ctx, "products.name = ?", name)
}

// FindByOwnerID retrieves the products owned by a user.
func (r *GORMProductRepository) FindByOwnerID(ctx context.Context, userID uint) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Where("products.user_id = ?", userID)
	return r.find(ctx, q, "failed to get products of user %d", userID)
}

// FindByOwnerName retrieves the products whose owner has exactly this name.
func (r *GORMProductRepository) FindByOwnerName(ctx context.Context, ownerName string) ([]models.Product, error) {
	q := r.db.WithContext(ctx).
		Joins("JOIN users ON users.id = products.user_id").
		Where("users.name = ?", ownerName)
	return r.find(ctx, q, "failed to get products of owner %s", ownerName)
}

// FindByCategoryID retrieves the products attached to a category.
func (r *GORMProductRepository) FindByCategoryID(ctx context.Context, categoryID uint) ([]models.Product, error) {
	q := r.joinCategories(ctx).Where("product_categories.category_id = ?", categoryID)
	return r.find(ctx, q, "failed to get products of category %d", categoryID)
}

// FindByCategoryName retrieves the products attached to the category with this name.
func (r *GORMProductRepository) FindByCategoryName(ctx context.Context, categoryName string) ([]models.Product, error) {
	q := r.joinCategories(ctx).
		Joins("JOIN categories ON categories.id = product_categories.category_id").
		Where("categories.name = ?", categoryName)
	return r.find(ctx, q, "failed to get products of category %s", categoryName)
}

// FindByCategoryIDAndPriceGreaterThan retrieves the products of a category priced strictly above price.
func (r *GORMProductRepository) FindByCategoryIDAndPriceGreaterThan(ctx context.Context, categoryID uint, price float64) ([]models.Product, error) {
	q := r.joinCategories(ctx).
		Where("product_categories.category_id = ?", categoryID).
		Where("products.price > ?", decimal.NewFromFloat(price))
	return r.find(ctx, q, "failed to get products of category %d above %v", categoryID, price)
}

// CountByCategoryID counts the products attached to a category.
func (r *GORMProductRepository) CountByCategoryID(ctx context.Context, categoryID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProductCategory{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count products of category %d: %w", categoryID, err)
	}
	return count, nil
}

// CountByOwnerID counts the products owned by a user.
func (r *GORMProductRepository) CountByOwnerID(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count products of user %d: %w", userID, err)
	}
	return count, nil
}

// Save writes the product row and replaces its join rows in one transaction.
// A product without ID is inserted and receives its ID from the database.
func (r *GORMProductRepository) Save(ctx context.Context, product *models.Product) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if product.ID == 0 {
			if err := tx.Omit("Owner").Create(product).Error; err != nil {
				return err
			}
		} else if err := tx.Omit("Owner").Save(product).Error; err != nil {
			return err
		}

		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductCategory{}).Error; err != nil {
			return err
		}
		if len(product.CategoryIDs) == 0 {
			return nil
		}
		links := make([]models.ProductCategory, 0, len(product.CategoryIDs))
		for i, categoryID := range product.CategoryIDs {
			links = append(links, models.ProductCategory{
				ProductID:  product.ID,
				CategoryID: categoryID,
				Position:   i,
			})
		}
		return tx.Omit("Product", "Category").Create(&links).Error
	})
	if err != nil {
		return translate(err, "failed to save product")
	}
	return nil
}

// Delete removes the product and its join rows.
func (r *GORMProductRepository) Delete(ctx context.Context, product *models.Product) error {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductCategory{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Product{}, "id = ?", product.ID)
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return translate(err, "failed to delete product %d", product.ID)
	}
	if affected == 0 {
		return fmt.Errorf("product with ID %d not found for deletion: %w", product.ID, ErrNotFound)
	}
	return nil
}

func (r *GORMProductRepository) joinCategories(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Joins("JOIN product_categories ON product_categories.product_id = products.id")
}

func (r *GORMProductRepository) first(ctx context.Context, query string, arg any) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where(query, arg).First(&product).Error; err != nil {
		return nil, translate(err, "failed to get product where %s (%v)", query, arg)
	}
	products := []models.Product{product}
	if err := r.loadCategoryIDs(ctx, products); err != nil {
		return nil, err
	}
	return &products[0], nil
}

func (r *GORMProductRepository) find(ctx context.Context, q *gorm.DB, format string, args ...any) ([]models.Product, error) {
	var products []models.Product
	if err := q.Select("products.*").Order("products.id ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
	}
	if err := r.loadCategoryIDs(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

// loadCategoryIDs fills CategoryIDs of every product from the join table.
func (r *GORMProductRepository) loadCategoryIDs(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]uint, len(products))
	index := make(map[uint]int, len(products))
	for i := range products {
		ids[i] = products[i].ID
		index[products[i].ID] = i
		products[i].CategoryIDs = []uint{}
	}

	var links []models.ProductCategory
	err := r.db.WithContext(ctx).
		Where("product_id IN ?", ids).
		Order("product_id ASC, position ASC").
		Find(&links).Error
	if err != nil {
		return fmt.Errorf("failed to load product categories: %w", err)
	}
	for _, link := range links {
		i := index[link.ProductID]
		products[i].CategoryIDs = append(products[i].CategoryIDs, link.CategoryID)
	}
	return nil
}
