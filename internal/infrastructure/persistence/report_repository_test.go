package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockledger/backend/internal/domain/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seedKey records a stock-in so the key has a level row to report on
func seedKey(t *testing.T, db *gorm.DB, storeID, productID uuid.UUID, quantity int64) {
	t.Helper()
	ctx := context.Background()

	movements := NewGormMovementRepository(db)
	levels := NewGormStockLevelRepository(db)

	movement := mustMovement(t, storeID, productID, inventory.MovementKindStockIn, quantity, decimal.NullDecimal{})
	require.NoError(t, movements.Append(ctx, movement))

	level, err := levels.GetOrCreate(ctx, storeID, productID)
	require.NoError(t, err)
	require.NoError(t, level.Apply(movement))
	require.NoError(t, levels.SaveWithLock(ctx, level))
}

func TestGormReportRepository_CurrentStock(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	storeID := uuid.New()

	products := NewGormProductRepository(db)
	beans := mustProduct(t, "Beans", "B-1", "Coffee")
	tea := mustProduct(t, "Tea", "T-1", "Tea")
	require.NoError(t, products.Save(ctx, beans))
	require.NoError(t, products.Save(ctx, tea))

	seedKey(t, db, storeID, beans.ID, 12)

	lines, err := NewGormReportRepository(db).CurrentStock(ctx, storeID)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	// Ordered by name; Tea has no level row and reports zero
	assert.Equal(t, "Beans", lines[0].Name)
	assert.Equal(t, int64(12), lines[0].Quantity)
	assert.Equal(t, "Tea", lines[1].Name)
	assert.Zero(t, lines[1].Quantity)
}

func TestGormReportRepository_CurrentStockIsolatesStores(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	storeA, storeB := uuid.New(), uuid.New()

	products := NewGormProductRepository(db)
	beans := mustProduct(t, "Beans", "", "")
	require.NoError(t, products.Save(ctx, beans))

	seedKey(t, db, storeA, beans.ID, 9)

	lines, err := NewGormReportRepository(db).CurrentStock(ctx, storeB)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Zero(t, lines[0].Quantity)
}

func TestGormReportRepository_LowStock(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	storeID := uuid.New()

	products := NewGormProductRepository(db)
	low := mustProduct(t, "Low", "", "")
	lower := mustProduct(t, "Lower", "", "")
	plenty := mustProduct(t, "Plenty", "", "")
	require.NoError(t, products.Save(ctx, low))
	require.NoError(t, products.Save(ctx, lower))
	require.NoError(t, products.Save(ctx, plenty))

	seedKey(t, db, storeID, low.ID, 5)
	seedKey(t, db, storeID, lower.ID, 2)
	seedKey(t, db, storeID, plenty.ID, 50)

	lines, err := NewGormReportRepository(db).LowStock(ctx, storeID, 5)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	// Ascending by level, threshold is inclusive
	assert.Equal(t, "Lower", lines[0].Name)
	assert.Equal(t, int64(2), lines[0].Quantity)
	assert.Equal(t, "Low", lines[1].Name)
	assert.Equal(t, int64(5), lines[1].Quantity)
}

func TestGormReportRepository_DailySummary(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	storeID := uuid.New()

	products := NewGormProductRepository(db)
	beans := mustProduct(t, "Beans", "", "")
	tea := mustProduct(t, "Tea", "", "")
	require.NoError(t, products.Save(ctx, beans))
	require.NoError(t, products.Save(ctx, tea))

	movements := NewGormMovementRepository(db)

	// Today: one stock-in, three sales
	require.NoError(t, movements.Append(ctx, mustMovement(t, storeID, beans.ID, inventory.MovementKindStockIn, 50, decimal.NullDecimal{})))
	require.NoError(t, movements.Append(ctx, mustMovement(t, storeID, beans.ID, inventory.MovementKindSale, 3, price(10))))
	require.NoError(t, movements.Append(ctx, mustMovement(t, storeID, beans.ID, inventory.MovementKindSale, 2, price(10))))
	require.NoError(t, movements.Append(ctx, mustMovement(t, storeID, tea.ID, inventory.MovementKindSale, 4, price(5))))

	// Yesterday's sale must not count
	stale := mustMovement(t, storeID, beans.ID, inventory.MovementKindSale, 100, price(10))
	stale.CreatedAt = time.Now().UTC().Add(-36 * time.Hour)
	require.NoError(t, movements.Append(ctx, stale))

	summary, err := NewGormReportRepository(db).DailySummary(ctx, storeID, time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, int64(3), summary.SaleCount)
	assert.Equal(t, int64(9), summary.ItemsSold)
	assert.True(t, summary.Revenue.Equal(decimal.NewFromInt(70)), "revenue was %s", summary.Revenue)
	assert.Equal(t, int64(1), summary.StockInCount)
	assert.Equal(t, int64(50), summary.ItemsReceived)

	require.Len(t, summary.TopSold, 2)
	assert.Equal(t, "Beans", summary.TopSold[0].Name)
	assert.Equal(t, int64(5), summary.TopSold[0].Quantity)
	assert.Equal(t, "Tea", summary.TopSold[1].Name)
	assert.Equal(t, int64(4), summary.TopSold[1].Quantity)
}

func TestGormReportRepository_DailySummaryWindowBounds(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	storeID := uuid.New()

	products := NewGormProductRepository(db)
	beans := mustProduct(t, "Beans", "", "")
	require.NoError(t, products.Save(ctx, beans))

	movements := NewGormMovementRepository(db)
	day := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)

	atMidnight := mustMovement(t, storeID, beans.ID, inventory.MovementKindSale, 1, price(10))
	atMidnight.CreatedAt = day
	require.NoError(t, movements.Append(ctx, atMidnight))

	// Sub-second timestamp inside the last second of the day
	lastSecond := mustMovement(t, storeID, beans.ID, inventory.MovementKindSale, 2, price(10))
	lastSecond.CreatedAt = day.Add(24*time.Hour - 500*time.Millisecond)
	require.NoError(t, movements.Append(ctx, lastSecond))

	nextMidnight := mustMovement(t, storeID, beans.ID, inventory.MovementKindSale, 4, price(10))
	nextMidnight.CreatedAt = day.Add(24 * time.Hour)
	require.NoError(t, movements.Append(ctx, nextMidnight))

	summary, err := NewGormReportRepository(db).DailySummary(ctx, storeID, day)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.SaleCount)
	assert.Equal(t, int64(3), summary.ItemsSold)

	// The movement at next midnight belongs to the following day
	next, err := NewGormReportRepository(db).DailySummary(ctx, storeID, day.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), next.SaleCount)
	assert.Equal(t, int64(4), next.ItemsSold)
}

func TestGormReportRepository_DailySummaryEmptyDay(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	summary, err := NewGormReportRepository(db).DailySummary(ctx, uuid.New(), time.Now().UTC())
	require.NoError(t, err)

	assert.Zero(t, summary.SaleCount)
	assert.Zero(t, summary.ItemsSold)
	assert.True(t, summary.Revenue.Equal(decimal.Zero))
	assert.Zero(t, summary.StockInCount)
	assert.Empty(t, summary.TopSold)
}
