package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockledger/backend/internal/domain/shared"
)

// MovementKind represents the kind of stock movement
type MovementKind string

const (
	// MovementKindStockIn represents stock received into a store
	MovementKindStockIn MovementKind = "STOCK_IN"
	// MovementKindSale represents stock sold to a customer
	MovementKindSale MovementKind = "SALE"
	// MovementKindAdjustment represents a signed correction (breakage, recount)
	MovementKindAdjustment MovementKind = "ADJUSTMENT"
)

// String returns the string representation of MovementKind
func (k MovementKind) String() string {
	return string(k)
}

// IsValid returns true if the movement kind is one of the enumerated values
func (k MovementKind) IsValid() bool {
	switch k {
	case MovementKindStockIn, MovementKindSale, MovementKindAdjustment:
		return true
	}
	return false
}

// Delta returns the signed contribution of a movement of this kind to the
// stock level. StockIn adds, Sale subtracts, Adjustment carries its sign.
func (k MovementKind) Delta(quantity int64) int64 {
	if k == MovementKindSale {
		return -quantity
	}
	return quantity
}

// Movement is an immutable record of a single stock change for a
// (store, product) key. Once appended it is never updated or deleted;
// corrections are new compensating movements. The movement log is the
// single source of truth for stock levels.
type Movement struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey"`
	Sequence  int64        `gorm:"autoIncrement;uniqueIndex"` // authoritative append order
	StoreID   uuid.UUID    `gorm:"type:uuid;not null;index:idx_movement_key,priority:1"`
	ProductID uuid.UUID    `gorm:"type:uuid;not null;index:idx_movement_key,priority:2"`
	Kind      MovementKind `gorm:"type:varchar(20);not null;index"`
	Quantity  int64        `gorm:"not null"` // positive for StockIn/Sale, signed for Adjustment
	UnitPrice decimal.NullDecimal
	Note      string    `gorm:"type:varchar(255)"`
	CreatedAt time.Time `gorm:"type:timestamptz;not null;index"`
}

// TableName returns the table name for GORM
func (Movement) TableName() string {
	return "movements"
}

// NewMovement creates a movement record with a server-assigned identity
// and timestamp. Caller-supplied ids or timestamps are never accepted.
func NewMovement(storeID, productID uuid.UUID, kind MovementKind, quantity int64, unitPrice decimal.NullDecimal, note string) (*Movement, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainErrorf("INVALID_KIND", "Movement kind %q is not recognized", string(kind))
	}
	if err := validateQuantity(kind, quantity); err != nil {
		return nil, err
	}
	if unitPrice.Valid && unitPrice.Decimal.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unit price cannot be negative")
	}

	return &Movement{
		ID:        uuid.New(),
		StoreID:   storeID,
		ProductID: productID,
		Kind:      kind,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Note:      note,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Delta returns the signed level contribution of this movement
func (m *Movement) Delta() int64 {
	return m.Kind.Delta(m.Quantity)
}

func validateQuantity(kind MovementKind, quantity int64) error {
	switch kind {
	case MovementKindStockIn, MovementKindSale:
		if quantity <= 0 {
			return shared.NewDomainErrorf("INVALID_QUANTITY", "Quantity must be positive for %s, got %d", kind, quantity)
		}
	case MovementKindAdjustment:
		if quantity == 0 {
			return shared.NewDomainError("INVALID_QUANTITY", "Adjustment quantity cannot be zero")
		}
	}
	return nil
}
