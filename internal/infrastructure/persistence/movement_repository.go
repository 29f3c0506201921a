package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stockledger/backend/internal/domain/inventory"
	"github.com/stockledger/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// signedDelta folds the movement kind into its signed level contribution
const signedDelta = "CASE WHEN kind = 'SALE' THEN -quantity ELSE quantity END"

// GormMovementRepository implements MovementRepository using GORM.
// The movements table is append-only; this repository never issues an
// UPDATE or DELETE against it.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Append appends a movement to the log
func (r *GormMovementRepository) Append(ctx context.Context, movement *inventory.Movement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// FindByID finds a movement by its ID
func (r *GormMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Movement, error) {
	var movement inventory.Movement
	if err := r.db.WithContext(ctx).First(&movement, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// ListForKey lists movements for a (store, product) key, most recent
// first, optionally bounded by a time range
func (r *GormMovementRepository) ListForKey(ctx context.Context, storeID, productID uuid.UUID, rng inventory.TimeRange, filter shared.Filter) ([]inventory.Movement, error) {
	query := r.db.WithContext(ctx).
		Model(&inventory.Movement{}).
		Where("store_id = ? AND product_id = ?", storeID, productID)

	if rng.From != nil {
		query = query.Where("created_at >= ?", *rng.From)
	}
	if rng.To != nil {
		query = query.Where("created_at <= ?", *rng.To)
	}

	var movements []inventory.Movement
	if err := query.
		Order("sequence DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// ListForStore lists movements for a store, most recent first.
// A nil store ID lists movements across all stores.
func (r *GormMovementRepository) ListForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]inventory.Movement, error) {
	query := r.db.WithContext(ctx).Model(&inventory.Movement{})
	if storeID != uuid.Nil {
		query = query.Where("store_id = ?", storeID)
	}

	var movements []inventory.Movement
	if err := query.
		Order("sequence DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// SumDeltas returns the signed sum of all movement deltas for a key
func (r *GormMovementRepository) SumDeltas(ctx context.Context, storeID, productID uuid.UUID) (int64, error) {
	var result struct {
		Total int64
	}
	if err := r.db.WithContext(ctx).
		Model(&inventory.Movement{}).
		Select("COALESCE(SUM("+signedDelta+"), 0) AS total").
		Where("store_id = ? AND product_id = ?", storeID, productID).
		Scan(&result).Error; err != nil {
		return 0, err
	}
	return result.Total, nil
}

// CountForKey counts movements recorded for a key
func (r *GormMovementRepository) CountForKey(ctx context.Context, storeID, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.Movement{}).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormMovementRepository implements MovementRepository
var _ inventory.MovementRepository = (*GormMovementRepository)(nil)
