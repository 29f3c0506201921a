package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockledger/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByCode finds a product by its normalized code
	FindByCode(ctx context.Context, code string) (*Product, error)

	// FindAll finds products matching the filter, ordered by name
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Search finds products whose name or code matches the term
	Search(ctx context.Context, term string) ([]Product, error)

	// Categories returns the distinct non-empty categories in use
	Categories(ctx context.Context) ([]string, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// ExistsByID checks whether a product exists
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// StoreRepository defines the interface for store persistence
type StoreRepository interface {
	// FindByID finds a store by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Store, error)

	// FindByCode finds a store by its code
	FindByCode(ctx context.Context, code string) (*Store, error)

	// FindAll returns all stores ordered by code
	FindAll(ctx context.Context) ([]Store, error)

	// Save creates or updates a store
	Save(ctx context.Context, store *Store) error

	// ExistsByID checks whether a store exists
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}
