package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockledger/backend/internal/domain/inventory"
)

// RecordMovementInput carries a movement submission. StoreID may be
// uuid.Nil in single-store deployments, resolving to the default store.
type RecordMovementInput struct {
	StoreID   uuid.UUID
	ProductID uuid.UUID
	Kind      inventory.MovementKind
	Quantity  int64
	UnitPrice decimal.NullDecimal
	Note      string
}

// MovementResult is returned after a movement has been committed
type MovementResult struct {
	MovementID uuid.UUID `json:"movement_id"`
	StoreID    uuid.UUID `json:"store_id"`
	ProductID  uuid.UUID `json:"product_id"`
	NewLevel   int64     `json:"new_level"`
	AppliedAt  time.Time `json:"applied_at"`
}

// MovementResponse is the read-side representation of a logged movement
type MovementResponse struct {
	ID        uuid.UUID           `json:"id"`
	Sequence  int64               `json:"sequence"`
	StoreID   uuid.UUID           `json:"store_id"`
	ProductID uuid.UUID           `json:"product_id"`
	Kind      string              `json:"kind"`
	Quantity  int64               `json:"quantity"`
	UnitPrice decimal.NullDecimal `json:"unit_price"`
	Note      string              `json:"note,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// ToMovementResponse converts a domain movement to its response form
func ToMovementResponse(m *inventory.Movement) MovementResponse {
	return MovementResponse{
		ID:        m.ID,
		Sequence:  m.Sequence,
		StoreID:   m.StoreID,
		ProductID: m.ProductID,
		Kind:      m.Kind.String(),
		Quantity:  m.Quantity,
		UnitPrice: m.UnitPrice,
		Note:      m.Note,
		CreatedAt: m.CreatedAt,
	}
}

// ToMovementResponses converts a slice of domain movements
func ToMovementResponses(movements []inventory.Movement) []MovementResponse {
	responses := make([]MovementResponse, 0, len(movements))
	for i := range movements {
		responses = append(responses, ToMovementResponse(&movements[i]))
	}
	return responses
}
