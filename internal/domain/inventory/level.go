package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/stockledger/backend/internal/domain/shared"
)

// StockLevel is the projected current quantity for a (store, product) key.
// It is derived from the movement log and never independently
// authoritative: re-deriving from the log must always reproduce it.
// The composite key is StoreID + ProductID, one row per key.
type StockLevel struct {
	shared.BaseAggregateRoot
	StoreID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_level_store_product,priority:1"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_level_store_product,priority:2"`
	Quantity  int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (StockLevel) TableName() string {
	return "stock_levels"
}

// NewStockLevel creates an empty level for a key. Levels are created
// lazily on the first movement for the key.
func NewStockLevel(storeID, productID uuid.UUID) *StockLevel {
	return &StockLevel{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StoreID:           storeID,
		ProductID:         productID,
		Quantity:          0,
	}
}

// Apply validates a movement against the current level and applies its
// delta. A Sale that would drive the level negative is rejected with
// INSUFFICIENT_STOCK and leaves the level unchanged. The caller must
// persist the level and the movement in the same transaction.
func (l *StockLevel) Apply(movement *Movement) error {
	if movement.Kind == MovementKindSale && l.Quantity < movement.Quantity {
		return shared.NewDomainErrorf("INSUFFICIENT_STOCK",
			"Sale of %d exceeds current level %d", movement.Quantity, l.Quantity)
	}

	l.Quantity += movement.Delta()
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	l.AddDomainEvent(NewMovementAppliedEvent(l, movement))

	return nil
}

// Reset forces the projection to a recomputed quantity. Used by rebuild
// when repairing or verifying the projection against the log.
func (l *StockLevel) Reset(quantity int64) {
	l.Quantity = quantity
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}
