package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/stockledger/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeStockLevel = "StockLevel"

// Event type constants
const (
	EventTypeMovementApplied = "MovementApplied"
	EventTypeLowStock        = "LowStock"
)

// MovementAppliedEvent is raised after a movement has been committed to
// the log and the level projection updated. Delivery to subscribers is
// best-effort and at-most-once; consumers needing stronger guarantees
// must provide their own durability.
type MovementAppliedEvent struct {
	shared.BaseDomainEvent
	MovementID uuid.UUID    `json:"movement_id"`
	StoreID    uuid.UUID    `json:"store_id"`
	ProductID  uuid.UUID    `json:"product_id"`
	Kind       MovementKind `json:"kind"`
	Quantity   int64        `json:"quantity"`
	NewLevel   int64        `json:"new_level"`
	AppliedAt  time.Time    `json:"applied_at"`
}

// NewMovementAppliedEvent creates a new MovementAppliedEvent
func NewMovementAppliedEvent(level *StockLevel, movement *Movement) *MovementAppliedEvent {
	return &MovementAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMovementApplied, AggregateTypeStockLevel, level.ID),
		MovementID:      movement.ID,
		StoreID:         level.StoreID,
		ProductID:       level.ProductID,
		Kind:            movement.Kind,
		Quantity:        movement.Quantity,
		NewLevel:        level.Quantity,
		AppliedAt:       movement.CreatedAt,
	}
}

// EventType returns the event type name
func (e *MovementAppliedEvent) EventType() string {
	return EventTypeMovementApplied
}

// LowStockEvent is raised when a movement leaves the level at or below
// the configured threshold.
type LowStockEvent struct {
	shared.BaseDomainEvent
	MovementID uuid.UUID `json:"movement_id"`
	StoreID    uuid.UUID `json:"store_id"`
	ProductID  uuid.UUID `json:"product_id"`
	NewLevel   int64     `json:"new_level"`
	Threshold  int64     `json:"threshold"`
}

// NewLowStockEvent creates a new LowStockEvent
func NewLowStockEvent(level *StockLevel, movement *Movement, threshold int64) *LowStockEvent {
	return &LowStockEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLowStock, AggregateTypeStockLevel, level.ID),
		MovementID:      movement.ID,
		StoreID:         level.StoreID,
		ProductID:       level.ProductID,
		NewLevel:        level.Quantity,
		Threshold:       threshold,
	}
}

// EventType returns the event type name
func (e *LowStockEvent) EventType() string {
	return EventTypeLowStock
}
