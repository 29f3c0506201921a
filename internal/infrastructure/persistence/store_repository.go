package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/stockledger/backend/internal/domain/catalog"
	"github.com/stockledger/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormStoreRepository implements StoreRepository using GORM
type GormStoreRepository struct {
	db *gorm.DB
}

// NewGormStoreRepository creates a new GormStoreRepository
func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// FindByID finds a store by its ID
func (r *GormStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Store, error) {
	var store catalog.Store
	if err := r.db.WithContext(ctx).First(&store, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &store, nil
}

// FindByCode finds a store by its code
func (r *GormStoreRepository) FindByCode(ctx context.Context, code string) (*catalog.Store, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	var store catalog.Store
	if err := r.db.WithContext(ctx).First(&store, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &store, nil
}

// FindAll returns all stores ordered by code
func (r *GormStoreRepository) FindAll(ctx context.Context) ([]catalog.Store, error) {
	var stores []catalog.Store
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// Save creates or updates a store. A unique-constraint violation on
// the code column is reported as DUPLICATE_CODE.
func (r *GormStoreRepository) Save(ctx context.Context, store *catalog.Store) error {
	if err := r.db.WithContext(ctx).Save(store).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.NewDomainErrorf("DUPLICATE_CODE", "Store code %s is already in use", store.Code)
		}
		return err
	}
	return nil
}

// ExistsByID checks whether a store exists
func (r *GormStoreRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Store{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormStoreRepository implements StoreRepository
var _ catalog.StoreRepository = (*GormStoreRepository)(nil)
