package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("sweet not found")
	ErrInvalidID           = errors.New("invalid sweet ID")
	ErrQuantityNotPositive = errors.New("quantity must be positive")
	ErrDuplicateRequest    = errors.New("duplicate request")
	ErrEmailTaken          = errors.New("email already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUnauthorized        = errors.New("authentication required")
	ErrForbidden           = errors.New("admin access required")
)

// InsufficientStockError carries the fresh stock level alongside the
// rejected request so callers can show a precise message.
type InsufficientStockError struct {
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: available %d, requested %d", e.Available, e.Requested)
}

// ValidationError collects every violated field on create/update,
// not just the first.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %v", e.Errors)
}
