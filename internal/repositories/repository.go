package repositories

import (
	"context"
	"errors"

	"catalog/internal/models"
)

var (
	// ErrNotFound is returned (wrapped) when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned (wrapped) when the store rejects a write on a unique index.
	ErrDuplicate = errors.New("duplicate key")
	// ErrInUse is returned (wrapped) when a write breaks a foreign key: a delete of a
	// still referenced record, or a row pointing at a missing one.
	ErrInUse = errors.New("record still referenced")
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	FindAll(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, user *models.User) error
}

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	FindAll(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id uint) (*models.Category, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Category, error)
	FindByName(ctx context.Context, name string) (*models.Category, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Save(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, category *models.Category) error
}

// ProductRepository defines the interface for product data access. Every
// product it returns carries its CategoryIDs; Save and Delete keep the join
// rows in step with the product row.
type ProductRepository interface {
	FindAll(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id uint) (*models.Product, error)
	FindByName(ctx context.Context, name string) (*models.Product, error)
	FindByOwnerID(ctx context.Context, userID uint) ([]models.Product, error)
	FindByOwnerName(ctx context.Context, ownerName string) ([]models.Product, error)
	FindByCategoryID(ctx context.Context, categoryID uint) ([]models.Product, error)
	FindByCategoryName(ctx context.Context, categoryName string) ([]models.Product, error)
	FindByCategoryIDAndPriceGreaterThan(ctx context.Context, categoryID uint, price float64) ([]models.Product, error)
	CountByCategoryID(ctx context.Context, categoryID uint) (int64, error)
	CountByOwnerID(ctx context.Context, userID uint) (int64, error)
	Save(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, product *models.Product) error
}
