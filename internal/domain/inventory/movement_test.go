package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockledger/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovementKind_IsValid(t *testing.T) {
	assert.True(t, MovementKindStockIn.IsValid())
	assert.True(t, MovementKindSale.IsValid())
	assert.True(t, MovementKindAdjustment.IsValid())
	assert.False(t, MovementKind("TRANSFER").IsValid())
	assert.False(t, MovementKind("").IsValid())
}

func TestMovementKind_Delta(t *testing.T) {
	assert.Equal(t, int64(10), MovementKindStockIn.Delta(10))
	assert.Equal(t, int64(-10), MovementKindSale.Delta(10))
	assert.Equal(t, int64(-3), MovementKindAdjustment.Delta(-3))
	assert.Equal(t, int64(3), MovementKindAdjustment.Delta(3))
}

func TestNewMovement(t *testing.T) {
	storeID := uuid.New()
	productID := uuid.New()

	t.Run("creates movement with server-assigned identity", func(t *testing.T) {
		m, err := NewMovement(storeID, productID, MovementKindStockIn, 20, decimal.NullDecimal{}, "delivery")

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, m.ID)
		assert.Equal(t, storeID, m.StoreID)
		assert.Equal(t, productID, m.ProductID)
		assert.Equal(t, int64(20), m.Quantity)
		assert.Equal(t, "delivery", m.Note)
		assert.False(t, m.CreatedAt.IsZero())
		assert.Equal(t, int64(20), m.Delta())
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		m, err := NewMovement(storeID, productID, MovementKind("transfer"), 5, decimal.NullDecimal{}, "")

		require.Error(t, err)
		assert.Nil(t, m)
		assert.True(t, shared.IsDomainError(err, "INVALID_KIND"))
	})

	t.Run("rejects non-positive stock-in quantity", func(t *testing.T) {
		_, err := NewMovement(storeID, productID, MovementKindStockIn, 0, decimal.NullDecimal{}, "")
		assert.True(t, shared.IsDomainError(err, "INVALID_QUANTITY"))

		_, err = NewMovement(storeID, productID, MovementKindStockIn, -4, decimal.NullDecimal{}, "")
		assert.True(t, shared.IsDomainError(err, "INVALID_QUANTITY"))
	})

	t.Run("rejects non-positive sale quantity", func(t *testing.T) {
		_, err := NewMovement(storeID, productID, MovementKindSale, -1, decimal.NullDecimal{}, "")
		assert.True(t, shared.IsDomainError(err, "INVALID_QUANTITY"))
	})

	t.Run("allows negative adjustment but not zero", func(t *testing.T) {
		m, err := NewMovement(storeID, productID, MovementKindAdjustment, -3, decimal.NullDecimal{}, "breakage")
		require.NoError(t, err)
		assert.Equal(t, int64(-3), m.Delta())

		_, err = NewMovement(storeID, productID, MovementKindAdjustment, 0, decimal.NullDecimal{}, "")
		assert.True(t, shared.IsDomainError(err, "INVALID_QUANTITY"))
	})

	t.Run("rejects negative unit price", func(t *testing.T) {
		price := decimal.NewNullDecimal(decimal.NewFromInt(-1))
		_, err := NewMovement(storeID, productID, MovementKindSale, 1, price, "")
		assert.True(t, shared.IsDomainError(err, "INVALID_INPUT"))
	})
}
