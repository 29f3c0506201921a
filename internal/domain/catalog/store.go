package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/stockledger/backend/internal/domain/shared"
)

// DefaultStoreCode is the code of the implicit store that single-store
// deployments operate against.
const DefaultStoreCode = "MAIN"

// Store represents a physical store location. Multi-store deployments
// register one per location; single-store deployments only ever see the
// default store.
type Store struct {
	shared.BaseAggregateRoot
	Code string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name string `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (Store) TableName() string {
	return "stores"
}

// NewStore creates a new store with a unique code
func NewStore(code, name string) (*Store, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Store code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Store code cannot exceed 50 characters")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Store name cannot be empty")
	}

	return &Store{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
	}, nil
}

// NewDefaultStore creates the implicit default store
func NewDefaultStore() *Store {
	store, _ := NewStore(DefaultStoreCode, "Main Store")
	return store
}

// IsDefaultStore reports whether id refers to the implicit default store
// placeholder (uuid.Nil) used by single-store callers.
func IsDefaultStore(id uuid.UUID) bool {
	return id == uuid.Nil
}
