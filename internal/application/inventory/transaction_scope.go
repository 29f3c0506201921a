package inventory

import (
	"context"

	"github.com/stockledger/backend/internal/domain/catalog"
	"github.com/stockledger/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the ledger repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed. A cancelled
	// context aborts the transaction uncommitted.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the ledger repositories
// within a transaction. All repositories returned share the same
// underlying database transaction.
type TransactionalRepositories interface {
	// Movements returns the movement log repository scoped to the current transaction
	Movements() inventory.MovementRepository
	// Levels returns the level projection repository scoped to the current transaction
	Levels() inventory.StockLevelRepository
	// Products returns the product repository scoped to the current transaction
	Products() catalog.ProductRepository
	// Stores returns the store repository scoped to the current transaction
	Stores() catalog.StoreRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support
// is not required.
type NoOpTransactionScope struct {
	movements inventory.MovementRepository
	levels    inventory.StockLevelRepository
	products  catalog.ProductRepository
	stores    catalog.StoreRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	movements inventory.MovementRepository,
	levels inventory.StockLevelRepository,
	products catalog.ProductRepository,
	stores catalog.StoreRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		movements: movements,
		levels:    levels,
		products:  products,
		stores:    stores,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Movements returns the movement log repository.
func (s *NoOpTransactionScope) Movements() inventory.MovementRepository {
	return s.movements
}

// Levels returns the level projection repository.
func (s *NoOpTransactionScope) Levels() inventory.StockLevelRepository {
	return s.levels
}

// Products returns the product repository.
func (s *NoOpTransactionScope) Products() catalog.ProductRepository {
	return s.products
}

// Stores returns the store repository.
func (s *NoOpTransactionScope) Stores() catalog.StoreRepository {
	return s.stores
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
