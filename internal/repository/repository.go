package repository

import (
	"context"

	"github.com/RaihanulHaque/rimu-world/internal/domain"
)

// ProductFilter defines filter criteria for listing products.
type ProductFilter struct {
	Type *domain.ProductType
}

// ProductRepository defines the interface for product persistence operations.
// Every successful Insert/Delete is durably committed before the call returns.
type ProductRepository interface {
	// Insert adds a new product record. Fails with a duplicate-identifier
	// error if the id is already present.
	Insert(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by its identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// List returns products matching the filter, newest first.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)

	// Delete removes a product and returns the image references of the
	// deleted record so the caller can clean up stored images.
	Delete(ctx context.Context, id string) ([]string, error)
}

// SequenceAllocator issues product identifiers. Values are strictly
// increasing, durable across restarts, and never reissued, even when the
// creation that consumed one subsequently fails.
type SequenceAllocator interface {
	Next(ctx context.Context) (string, error)
}
