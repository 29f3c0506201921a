package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appinv "github.com/stockledger/backend/internal/application/inventory"
	"github.com/stockledger/backend/internal/domain/catalog"
	"github.com/stockledger/backend/internal/domain/inventory"
	"github.com/stockledger/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing.
// The movements table is created by hand so its sequence column is the
// rowid and gets assigned on insert the way bigserial does in postgres.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&catalog.Product{}, &catalog.Store{}, &inventory.StockLevel{}))

	require.NoError(t, db.Exec(`CREATE TABLE movements (
		sequence INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		store_id TEXT NOT NULL,
		product_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		unit_price NUMERIC,
		note TEXT,
		created_at DATETIME NOT NULL
	)`).Error)

	return db
}

func mustMovement(t *testing.T, storeID, productID uuid.UUID, kind inventory.MovementKind, quantity int64, price decimal.NullDecimal) *inventory.Movement {
	t.Helper()
	movement, err := inventory.NewMovement(storeID, productID, kind, quantity, price, "")
	require.NoError(t, err)
	return movement
}

func price(value int64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromInt(value), Valid: true}
}

func TestGormMovementRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("append assigns increasing sequences", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormMovementRepository(db)
		storeID, productID := uuid.New(), uuid.New()

		first := mustMovement(t, storeID, productID, inventory.MovementKindStockIn, 10, decimal.NullDecimal{})
		second := mustMovement(t, storeID, productID, inventory.MovementKindSale, 3, price(5))
		require.NoError(t, repo.Append(ctx, first))
		require.NoError(t, repo.Append(ctx, second))

		assert.Greater(t, second.Sequence, first.Sequence)
	})

	t.Run("find by id", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormMovementRepository(db)
		storeID, productID := uuid.New(), uuid.New()

		movement := mustMovement(t, storeID, productID, inventory.MovementKindStockIn, 10, price(4))
		require.NoError(t, repo.Append(ctx, movement))

		found, err := repo.FindByID(ctx, movement.ID)
		require.NoError(t, err)
		assert.Equal(t, movement.ID, found.ID)
		assert.Equal(t, inventory.MovementKindStockIn, found.Kind)
		assert.True(t, found.UnitPrice.Valid)
		assert.True(t, found.UnitPrice.Decimal.Equal(decimal.NewFromInt(4)))

		_, err = repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("list for key returns most recent first", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormMovementRepository(db)
		storeID, productID := uuid.New(), uuid.New()

		for i := int64(1); i <= 3; i++ {
			require.NoError(t, repo.Append(ctx, mustMovement(t, storeID, productID, inventory.MovementKindStockIn, i, decimal.NullDecimal{})))
		}
		// Another key's movement must not appear
		require.NoError(t, repo.Append(ctx, mustMovement(t, storeID, uuid.New(), inventory.MovementKindStockIn, 99, decimal.NullDecimal{})))

		movements, err := repo.ListForKey(ctx, storeID, productID, inventory.TimeRange{}, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, movements, 3)
		assert.Equal(t, int64(3), movements[0].Quantity)
		assert.Equal(t, int64(1), movements[2].Quantity)
	})

	t.Run("list for key honors time range bounds", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormMovementRepository(db)
		storeID, productID := uuid.New(), uuid.New()

		old := mustMovement(t, storeID, productID, inventory.MovementKindStockIn, 1, decimal.NullDecimal{})
		old.CreatedAt = time.Now().UTC().Add(-48 * time.Hour)
		require.NoError(t, repo.Append(ctx, old))
		require.NoError(t, repo.Append(ctx, mustMovement(t, storeID, productID, inventory.MovementKindStockIn, 2, decimal.NullDecimal{})))

		from := time.Now().UTC().Add(-time.Hour)
		movements, err := repo.ListForKey(ctx, storeID, productID, inventory.TimeRange{From: &from}, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, movements, 1)
		assert.Equal(t, int64(2), movements[0].Quantity)
	})

	t.Run("list for store with nil id spans all stores", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormMovementRepository(db)

		require.NoError(t, repo.Append(ctx, mustMovement(t, uuid.New(), uuid.New(), inventory.MovementKindStockIn, 1, decimal.NullDecimal{})))
		require.NoError(t, repo.Append(ctx, mustMovement(t, uuid.New(), uuid.New(), inventory.MovementKindStockIn, 2, decimal.NullDecimal{})))

		movements, err := repo.ListForStore(ctx, uuid.Nil, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Len(t, movements, 2)
	})

	t.Run("sum deltas folds kinds into signed contributions", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormMovementRepository(db)
		storeID, productID := uuid.New(), uuid.New()

		require.NoError(t, repo.Append(ctx, mustMovement(t, storeID, productID, inventory.MovementKindStockIn, 10, decimal.NullDecimal{})))
		require.NoError(t, repo.Append(ctx, mustMovement(t, storeID, productID, inventory.MovementKindSale, 4, price(9))))
		require.NoError(t, repo.Append(ctx, mustMovement(t, storeID, productID, inventory.MovementKindAdjustment, -2, decimal.NullDecimal{})))

		sum, err := repo.SumDeltas(ctx, storeID, productID)
		require.NoError(t, err)
		assert.Equal(t, int64(4), sum)

		count, err := repo.CountForKey(ctx, storeID, productID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("sum deltas of empty key is zero", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormMovementRepository(db)

		sum, err := repo.SumDeltas(ctx, uuid.New(), uuid.New())
		require.NoError(t, err)
		assert.Zero(t, sum)
	})
}

func TestGormStockLevelRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("get or create creates an empty projection once", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormStockLevelRepository(db)
		storeID, productID := uuid.New(), uuid.New()

		level, err := repo.GetOrCreate(ctx, storeID, productID)
		require.NoError(t, err)
		assert.Zero(t, level.Quantity)
		assert.Equal(t, 1, level.Version)

		again, err := repo.GetOrCreate(ctx, storeID, productID)
		require.NoError(t, err)
		assert.Equal(t, level.ID, again.ID)
	})

	t.Run("save with lock persists an applied movement", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormStockLevelRepository(db)
		storeID, productID := uuid.New(), uuid.New()

		level, err := repo.GetOrCreate(ctx, storeID, productID)
		require.NoError(t, err)

		movement := mustMovement(t, storeID, productID, inventory.MovementKindStockIn, 10, decimal.NullDecimal{})
		require.NoError(t, level.Apply(movement))
		require.NoError(t, repo.SaveWithLock(ctx, level))

		persisted, err := repo.FindByKey(ctx, storeID, productID)
		require.NoError(t, err)
		assert.Equal(t, int64(10), persisted.Quantity)
		assert.Equal(t, 2, persisted.Version)
	})

	t.Run("stale version loses the write race", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormStockLevelRepository(db)
		storeID, productID := uuid.New(), uuid.New()

		_, err := repo.GetOrCreate(ctx, storeID, productID)
		require.NoError(t, err)

		// Two readers load the same version
		readerA, err := repo.FindByKey(ctx, storeID, productID)
		require.NoError(t, err)
		readerB, err := repo.FindByKey(ctx, storeID, productID)
		require.NoError(t, err)

		require.NoError(t, readerA.Apply(mustMovement(t, storeID, productID, inventory.MovementKindStockIn, 5, decimal.NullDecimal{})))
		require.NoError(t, repo.SaveWithLock(ctx, readerA))

		require.NoError(t, readerB.Apply(mustMovement(t, storeID, productID, inventory.MovementKindStockIn, 7, decimal.NullDecimal{})))
		err = repo.SaveWithLock(ctx, readerB)
		require.Error(t, err)
		assert.True(t, shared.IsDomainError(err, "CONCURRENCY_CONFLICT"))

		// Only the first write is visible
		persisted, err := repo.FindByKey(ctx, storeID, productID)
		require.NoError(t, err)
		assert.Equal(t, int64(5), persisted.Quantity)
	})

	t.Run("keys lists projections per store", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormStockLevelRepository(db)
		storeA, storeB := uuid.New(), uuid.New()

		_, err := repo.GetOrCreate(ctx, storeA, uuid.New())
		require.NoError(t, err)
		_, err = repo.GetOrCreate(ctx, storeA, uuid.New())
		require.NoError(t, err)
		_, err = repo.GetOrCreate(ctx, storeB, uuid.New())
		require.NoError(t, err)

		keys, err := repo.Keys(ctx, storeA)
		require.NoError(t, err)
		assert.Len(t, keys, 2)

		all, err := repo.Keys(ctx, uuid.Nil)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})
}

func TestGormTransactionScope(t *testing.T) {
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		db := setupTestDB(t)
		scope := NewGormTransactionScope(db)
		storeID, productID := uuid.New(), uuid.New()

		err := scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
			movement := mustMovement(t, storeID, productID, inventory.MovementKindStockIn, 10, decimal.NullDecimal{})
			if err := repos.Movements().Append(ctx, movement); err != nil {
				return err
			}
			level, err := repos.Levels().GetOrCreate(ctx, storeID, productID)
			if err != nil {
				return err
			}
			if err := level.Apply(movement); err != nil {
				return err
			}
			return repos.Levels().SaveWithLock(ctx, level)
		})
		require.NoError(t, err)

		level, err := NewGormStockLevelRepository(db).FindByKey(ctx, storeID, productID)
		require.NoError(t, err)
		assert.Equal(t, int64(10), level.Quantity)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db := setupTestDB(t)
		scope := NewGormTransactionScope(db)
		storeID, productID := uuid.New(), uuid.New()

		err := scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
			movement := mustMovement(t, storeID, productID, inventory.MovementKindStockIn, 10, decimal.NullDecimal{})
			if err := repos.Movements().Append(ctx, movement); err != nil {
				return err
			}
			return errors.New("abort")
		})
		require.Error(t, err)

		count, err := NewGormMovementRepository(db).CountForKey(ctx, storeID, productID)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}
