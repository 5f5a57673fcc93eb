package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"catalog/internal/dto"
	"catalog/internal/models"
)

// Category groups products. The product side of the relation lives in the join table.
type Category struct {
	ID          uint
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewCategory builds a category and checks its business rules.
func NewCategory(id uint, name, description string, createdAt, updatedAt time.Time) (*Category, error) {
	if err := validateCategory(name, description); err != nil {
		return nil, err
	}
	return &Category{
		ID:          id,
		Name:        name,
		Description: description,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

func validateCategory(name, description string) error {
	if strings.TrimSpace(name) == "" {
		return invalid("name", "is required")
	}
	if utf8.RuneCountInString(name) > 120 {
		return invalid("name", "must be at most 120 characters")
	}
	if utf8.RuneCountInString(description) > 500 {
		return invalid("description", "must be at most 500 characters")
	}
	return nil
}

// CategoryFromCreateRequest builds a new, not yet persisted category.
func CategoryFromCreateRequest(req dto.CreateCategoryRequest) (*Category, error) {
	now := time.Now()
	return NewCategory(0, req.Name, req.Description, now, now)
}

// CategoryFromEntity rehydrates a category from its stored row.
func CategoryFromEntity(e models.Category) (*Category, error) {
	return NewCategory(e.ID, e.Name, e.Description, e.CreatedAt, e.UpdatedAt)
}

// ToEntity returns the row to store.
func (c *Category) ToEntity() models.Category {
	return models.Category{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ToResponse returns the API view of the category.
func (c *Category) ToResponse() dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   FormatTimestamp(c.CreatedAt),
		UpdatedAt:   FormatTimestamp(c.UpdatedAt),
	}
}

// ToSummary returns the category block nested in product responses.
func (c *Category) ToSummary() dto.CategoryResponse {
	return dto.CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description}
}

// ApplyUpdate replaces name and description.
func (c *Category) ApplyUpdate(req dto.UpdateCategoryRequest) error {
	if err := validateCategory(req.Name, req.Description); err != nil {
		return err
	}
	c.Name = req.Name
	c.Description = req.Description
	c.UpdatedAt = time.Now()
	return nil
}

// ApplyPartialUpdate replaces the fields present in req.
func (c *Category) ApplyPartialUpdate(req dto.PartialUpdateCategoryRequest) error {
	name, description := c.Name, c.Description
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if err := validateCategory(name, description); err != nil {
		return err
	}
	c.Name, c.Description = name, description
	c.UpdatedAt = time.Now()
	return nil
}
