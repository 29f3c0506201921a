package catalog

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	t.Run("creates product with normalized code", func(t *testing.T) {
		p, err := NewProduct("Rice 1kg", "r1", "grains", decimal.NewFromInt(40), decimal.NewFromInt(50))

		require.NoError(t, err)
		assert.Equal(t, "Rice 1kg", p.Name)
		assert.Equal(t, "R1", p.Code)
		assert.Equal(t, "grains", p.Category)
		assert.True(t, p.PurchasePrice.Equal(decimal.NewFromInt(40)))
		assert.True(t, p.SellingPrice.Equal(decimal.NewFromInt(50)))
		assert.Len(t, p.GetDomainEvents(), 1)
	})

	t.Run("code and category are optional", func(t *testing.T) {
		p, err := NewProduct("Loose Candy", "", "", decimal.Zero, decimal.Zero)

		require.NoError(t, err)
		assert.Empty(t, p.Code)
		assert.Empty(t, p.Category)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewProduct("   ", "", "", decimal.Zero, decimal.Zero)
		require.Error(t, err)
	})

	t.Run("rejects over-long name", func(t *testing.T) {
		_, err := NewProduct(strings.Repeat("x", 201), "", "", decimal.Zero, decimal.Zero)
		require.Error(t, err)
	})

	t.Run("rejects negative prices", func(t *testing.T) {
		_, err := NewProduct("Rice", "", "", decimal.NewFromInt(-1), decimal.Zero)
		require.Error(t, err)
	})
}

func TestProduct_Apply(t *testing.T) {
	newProduct := func(t *testing.T) *Product {
		t.Helper()
		p, err := NewProduct("Rice 1kg", "R1", "grains", decimal.NewFromInt(40), decimal.NewFromInt(50))
		require.NoError(t, err)
		p.ClearDomainEvents()
		return p
	}

	t.Run("updates only supplied fields", func(t *testing.T) {
		p := newProduct(t)
		name := "Rice 1kg Premium"
		price := decimal.NewFromInt(55)

		err := p.Apply(ProductUpdate{Name: &name, SellingPrice: &price})

		require.NoError(t, err)
		assert.Equal(t, "Rice 1kg Premium", p.Name)
		assert.Equal(t, "R1", p.Code)
		assert.True(t, p.SellingPrice.Equal(decimal.NewFromInt(55)))
		assert.True(t, p.PurchasePrice.Equal(decimal.NewFromInt(40)))
		assert.Len(t, p.GetDomainEvents(), 1)
	})

	t.Run("normalizes a new code", func(t *testing.T) {
		p := newProduct(t)
		code := "r1-new"

		require.NoError(t, p.Apply(ProductUpdate{Code: &code}))
		assert.Equal(t, "R1-NEW", p.Code)
	})

	t.Run("rejects invalid updates without partial application", func(t *testing.T) {
		p := newProduct(t)
		name := ""
		price := decimal.NewFromInt(60)

		err := p.Apply(ProductUpdate{Name: &name, SellingPrice: &price})

		require.Error(t, err)
		assert.Equal(t, "Rice 1kg", p.Name)
	})
}
