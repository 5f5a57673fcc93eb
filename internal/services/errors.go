package services

import (
	"errors"
	"fmt"

	"catalog/internal/domain"
	"catalog/internal/dto"
	"catalog/internal/repositories"
)

// loadError turns a repository miss into a NotFoundError.
func loadError(kind string, id uint, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return &domain.NotFoundError{Kind: kind, Key: id}
	}
	return fmt.Errorf("failed to load %s %d: %w", kind, id, err)
}

// saveError turns a unique index violation into a ConflictError on field.
func saveError(kind, field string, value any, err error) error {
	if errors.Is(err, repositories.ErrDuplicate) {
		return &domain.ConflictError{Kind: kind, Field: field, Value: value}
	}
	return fmt.Errorf("failed to save %s: %w", kind, err)
}

// deleteError turns a foreign key violation into a ConflictError.
func deleteError(kind string, id uint, err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return &domain.NotFoundError{Kind: kind, Key: id}
	case errors.Is(err, repositories.ErrInUse):
		return inUse(kind, id)
	default:
		return fmt.Errorf("failed to delete %s %d: %w", kind, id, err)
	}
}

func inUse(kind string, id uint) *domain.ConflictError {
	return &domain.ConflictError{
		Kind:    kind,
		Field:   "id",
		Value:   id,
		Message: fmt.Sprintf("%s with ID %d is still referenced by products", kind, id),
	}
}

func deleted(kind string, id uint) *dto.DeleteResponse {
	return &dto.DeleteResponse{
		Message: fmt.Sprintf("%s with ID %d deleted successfully", kind, id),
		Kind:    kind,
		ID:      id,
	}
}
