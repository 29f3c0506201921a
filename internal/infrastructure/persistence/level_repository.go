package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stockledger/backend/internal/domain/inventory"
	"github.com/stockledger/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockLevelRepository implements StockLevelRepository using GORM
type GormStockLevelRepository struct {
	db *gorm.DB
}

// NewGormStockLevelRepository creates a new GormStockLevelRepository
func NewGormStockLevelRepository(db *gorm.DB) *GormStockLevelRepository {
	return &GormStockLevelRepository{db: db}
}

// FindByKey finds the level row for a (store, product) key
func (r *GormStockLevelRepository) FindByKey(ctx context.Context, storeID, productID uuid.UUID) (*inventory.StockLevel, error) {
	var level inventory.StockLevel
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		First(&level).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &level, nil
}

// GetOrCreate returns the level row for a key, creating an empty one
// lazily on first use. Concurrent creators race on the unique key; the
// loser fetches the winner's row.
func (r *GormStockLevelRepository) GetOrCreate(ctx context.Context, storeID, productID uuid.UUID) (*inventory.StockLevel, error) {
	level, err := r.FindByKey(ctx, storeID, productID)
	if err == nil {
		return level, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	level = inventory.NewStockLevel(storeID, productID)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_id"}, {Name: "product_id"}},
			DoNothing: true,
		}).
		Create(level)
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		return r.FindByKey(ctx, storeID, productID)
	}
	return level, nil
}

// Save creates or updates a level row without a version check
func (r *GormStockLevelRepository) Save(ctx context.Context, level *inventory.StockLevel) error {
	return r.db.WithContext(ctx).Save(level).Error
}

// SaveWithLock updates a level row with an optimistic version check
func (r *GormStockLevelRepository) SaveWithLock(ctx context.Context, level *inventory.StockLevel) error {
	result := r.db.WithContext(ctx).
		Model(level).
		Where("id = ? AND version = ?", level.ID, level.Version-1).
		Updates(map[string]interface{}{
			"quantity":   level.Quantity,
			"version":    level.Version,
			"updated_at": level.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENCY_CONFLICT", "Stock level was modified by another transaction")
	}
	return nil
}

// Keys lists every projection key known for a store. A nil store ID
// lists keys across all stores.
func (r *GormStockLevelRepository) Keys(ctx context.Context, storeID uuid.UUID) ([]inventory.LevelKey, error) {
	query := r.db.WithContext(ctx).Model(&inventory.StockLevel{})
	if storeID != uuid.Nil {
		query = query.Where("store_id = ?", storeID)
	}

	var keys []inventory.LevelKey
	if err := query.
		Select("store_id, product_id").
		Order("store_id ASC, product_id ASC").
		Scan(&keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

// Ensure GormStockLevelRepository implements StockLevelRepository
var _ inventory.StockLevelRepository = (*GormStockLevelRepository)(nil)
