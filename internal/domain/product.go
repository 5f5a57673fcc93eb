package domain

import (
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"catalog/internal/dto"
	"catalog/internal/models"

	"github.com/shopspring/decimal"
)

// Product is a validated catalog product. It references its owner and
// categories by id only; services resolve them before shaping a response.
type Product struct {
	ID          uint
	Name        string
	Description string
	Price       float64
	Stock       int
	OwnerID     uint
	CategoryIDs []uint
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type productFields struct {
	name        string
	description string
	price       float64
	stock       int
	ownerID     uint
	categoryIDs []uint
}

// NewProduct builds a product and checks its business rules.
func NewProduct(id uint, name, description string, price float64, stock int, ownerID uint, categoryIDs []uint, createdAt, updatedAt time.Time) (*Product, error) {
	f := productFields{
		name:        name,
		description: description,
		price:       price,
		stock:       stock,
		ownerID:     ownerID,
		categoryIDs: categoryIDs,
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &Product{
		ID:          id,
		Name:        name,
		Description: description,
		Price:       price,
		Stock:       stock,
		OwnerID:     ownerID,
		CategoryIDs: slices.Clone(categoryIDs),
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

func (f productFields) validate() error {
	if utf8.RuneCountInString(strings.TrimSpace(f.name)) < 3 {
		return invalid("name", "must be at least 3 characters")
	}
	if utf8.RuneCountInString(f.name) > 150 {
		return invalid("name", "must be at most 150 characters")
	}
	if err := validatePrice(f.price); err != nil {
		return err
	}
	if utf8.RuneCountInString(f.description) > 500 {
		return invalid("description", "must be at most 500 characters")
	}
	if f.stock < 0 {
		return invalid("stock", "cannot be negative")
	}
	if f.ownerID == 0 {
		return invalid("userId", "is required")
	}
	return validateCategoryIDs(f.categoryIDs)
}

// maxPrice is the first value that no longer fits the decimal(12,2) column.
var maxPrice = decimal.New(1, 10)

func validatePrice(price float64) error {
	if price <= 0 {
		return invalid("price", "must be greater than 0")
	}
	d := decimal.NewFromFloat(price)
	if !d.Equal(d.Round(2)) {
		return invalid("price", "must have at most 2 decimal places")
	}
	if d.GreaterThanOrEqual(maxPrice) {
		return invalid("price", "must be less than %s", maxPrice.String())
	}
	return nil
}

func validateCategoryIDs(ids []uint) error {
	if len(ids) == 0 {
		return invalid("categoryIds", "must contain at least one category")
	}
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			return invalid("categoryIds", "must contain positive ids")
		}
		if _, dup := seen[id]; dup {
			return invalid("categoryIds", "must not contain duplicates (%d)", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func (p *Product) fields() productFields {
	return productFields{
		name:        p.Name,
		description: p.Description,
		price:       p.Price,
		stock:       p.Stock,
		ownerID:     p.OwnerID,
		categoryIDs: p.CategoryIDs,
	}
}

func (p *Product) assign(f productFields) {
	p.Name = f.name
	p.Description = f.description
	p.Price = f.price
	p.Stock = f.stock
	p.CategoryIDs = slices.Clone(f.categoryIDs)
	p.UpdatedAt = time.Now()
}

// ProductFromCreateRequest builds a new, not yet persisted product.
func ProductFromCreateRequest(req dto.CreateProductRequest) (*Product, error) {
	now := time.Now()
	return NewProduct(0, req.Name, req.Description, req.Price, req.Stock, req.UserID, req.CategoryIDs, now, now)
}

// ProductFromEntity rehydrates a product from its stored row and join rows.
func ProductFromEntity(e models.Product) (*Product, error) {
	return NewProduct(e.ID, e.Name, e.Description, e.Price.InexactFloat64(), e.Stock, e.UserID, e.CategoryIDs, e.CreatedAt, e.UpdatedAt)
}

// ToEntity returns the row to store together with the category ids for the join table.
func (p *Product) ToEntity() models.Product {
	return models.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       decimal.NewFromFloat(p.Price),
		Stock:       p.Stock,
		UserID:      p.OwnerID,
		CategoryIDs: slices.Clone(p.CategoryIDs),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToResponse shapes the product with its resolved owner and categories.
// Either may be nil/empty when the caller could not resolve them.
func (p *Product) ToResponse(owner *User, categories []*Category) dto.ProductResponse {
	resp := dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Categories:  make([]dto.CategoryResponse, 0, len(categories)),
		CategoryIDs: slices.Clone(p.CategoryIDs),
		UserID:      p.OwnerID,
		CreatedAt:   FormatTimestamp(p.CreatedAt),
		UpdatedAt:   FormatTimestamp(p.UpdatedAt),
	}
	if owner != nil {
		resp.User = owner.ToSummary()
		resp.UserName = owner.Name
		resp.UserEmail = owner.Email
	}
	for _, c := range categories {
		resp.Categories = append(resp.Categories, c.ToSummary())
	}
	return resp
}

// ApplyUpdate replaces name, description, price and categories, and stock when
// given. The owner never changes. On error the product is left untouched.
func (p *Product) ApplyUpdate(req dto.UpdateProductRequest) error {
	f := p.fields()
	f.name = req.Name
	f.description = req.Description
	f.price = req.Price
	f.categoryIDs = req.CategoryIDs
	if req.Stock != nil {
		f.stock = *req.Stock
	}
	if err := f.validate(); err != nil {
		return err
	}
	p.assign(f)
	return nil
}

// ApplyPartialUpdate replaces the fields present in req. Categories are only
// replaced when req.CategoryIDs is non-nil.
func (p *Product) ApplyPartialUpdate(req dto.PartialUpdateProductRequest) error {
	f := p.fields()
	if req.Name != nil {
		f.name = *req.Name
	}
	if req.Description != nil {
		f.description = *req.Description
	}
	if req.Price != nil {
		f.price = *req.Price
	}
	if req.Stock != nil {
		f.stock = *req.Stock
	}
	if req.CategoryIDs != nil {
		f.categoryIDs = req.CategoryIDs
	}
	if err := f.validate(); err != nil {
		return err
	}
	p.assign(f)
	return nil
}

// ReduceStock takes quantity units out of stock.
func (p *Product) ReduceStock(quantity int) error {
	if quantity < 0 {
		return invalid("quantity", "cannot be negative")
	}
	if quantity > p.Stock {
		return &InsufficientStockError{Requested: quantity, Available: p.Stock}
	}
	p.Stock -= quantity
	return nil
}

// IncreaseStock adds quantity units to stock.
func (p *Product) IncreaseStock(quantity int) {
	p.Stock += quantity
}

// HasCategory reports whether the product belongs to the category.
func (p *Product) HasCategory(categoryID uint) bool {
	return slices.Contains(p.CategoryIDs, categoryID)
}

// AddCategory attaches the product to one more category.
func (p *Product) AddCategory(categoryID uint) error {
	ids := append(slices.Clone(p.CategoryIDs), categoryID)
	if err := validateCategoryIDs(ids); err != nil {
		return err
	}
	p.CategoryIDs = ids
	return nil
}

// RemoveCategory detaches the product from a category. A product must keep
// at least one category.
func (p *Product) RemoveCategory(categoryID uint) error {
	ids := slices.DeleteFunc(slices.Clone(p.CategoryIDs), func(id uint) bool { return id == categoryID })
	if len(ids) == len(p.CategoryIDs) {
		return &NotFoundError{Kind: "Category", Key: categoryID}
	}
	if err := validateCategoryIDs(ids); err != nil {
		return err
	}
	p.CategoryIDs = ids
	return nil
}
