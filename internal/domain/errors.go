package domain

import "fmt"

// ValidationError is returned when a record or request breaks a business rule.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError is returned when a referenced record does not exist.
type NotFoundError struct {
	Kind string
	Key  any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %v not found", e.Kind, e.Key)
}

// ConflictError is returned when a unique field is already taken or a record
// is still referenced by others.
type ConflictError struct {
	Kind    string
	Field   string
	Value   any
	Message string
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s with %s '%v' already exists", e.Kind, e.Field, e.Value)
}

// InsufficientStockError is returned by Product.ReduceStock.
type InsufficientStockError struct {
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock (requested: %d, available: %d)", e.Requested, e.Available)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
