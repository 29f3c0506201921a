package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockledger/backend/internal/domain/shared"
)

// TimeRange bounds a movement history query. Nil endpoints are open.
type TimeRange struct {
	From *time.Time
	To   *time.Time
}

// LevelKey identifies a (store, product) projection key
type LevelKey struct {
	StoreID   uuid.UUID
	ProductID uuid.UUID
}

// MovementRepository defines the interface for the append-only movement log.
// Movements are never updated or deleted.
type MovementRepository interface {
	// Append appends a movement to the log. The storage layer assigns the
	// insertion sequence; within a single key the append order is the
	// authoritative causal order used for projection.
	Append(ctx context.Context, movement *Movement) error

	// FindByID finds a movement by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Movement, error)

	// ListForKey lists movements for a (store, product) key, most recent
	// first, optionally bounded by a time range.
	ListForKey(ctx context.Context, storeID, productID uuid.UUID, rng TimeRange, filter shared.Filter) ([]Movement, error)

	// ListForStore lists movements for a store, most recent first.
	// A nil store ID lists movements across all stores.
	ListForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]Movement, error)

	// SumDeltas returns the signed sum of all movement deltas for a key.
	// This is the ground truth the level projection must agree with.
	SumDeltas(ctx context.Context, storeID, productID uuid.UUID) (int64, error)

	// CountForKey counts movements recorded for a key
	CountForKey(ctx context.Context, storeID, productID uuid.UUID) (int64, error)
}

// StockLevelRepository defines the interface for the level projection
type StockLevelRepository interface {
	// FindByKey finds the level row for a (store, product) key
	FindByKey(ctx context.Context, storeID, productID uuid.UUID) (*StockLevel, error)

	// GetOrCreate returns the level row for a key, creating an empty one
	// lazily on first use
	GetOrCreate(ctx context.Context, storeID, productID uuid.UUID) (*StockLevel, error)

	// Save creates or updates a level row without a version check
	Save(ctx context.Context, level *StockLevel) error

	// SaveWithLock updates a level row with an optimistic version check.
	// It fails with CONCURRENCY_CONFLICT when the persisted version no
	// longer matches the one the aggregate was loaded at.
	SaveWithLock(ctx context.Context, level *StockLevel) error

	// Keys lists every projection key known for a store. A nil store ID
	// lists keys across all stores.
	Keys(ctx context.Context, storeID uuid.UUID) ([]LevelKey, error)
}

// StockLine is a read-model row pairing a product with its projected level.
// Products with no movement history appear with a level of zero.
type StockLine struct {
	ProductID     uuid.UUID       `json:"product_id"`
	Name          string          `json:"name"`
	Code          string          `json:"code,omitempty"`
	Category      string          `json:"category,omitempty"`
	Quantity      int64           `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
}

// ProductSales is a read-model row for top-sold rankings
type ProductSales struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int64     `json:"quantity"`
}

// DailySummary aggregates one UTC day of ledger activity for a store
type DailySummary struct {
	Date          time.Time       `json:"date"`
	SaleCount     int64           `json:"sale_count"`
	ItemsSold     int64           `json:"items_sold"`
	Revenue       decimal.Decimal `json:"revenue"`
	StockInCount  int64           `json:"stock_in_count"`
	ItemsReceived int64           `json:"items_received"`
	TopSold       []ProductSales  `json:"top_sold"`
}

// ReportRepository serves the ledger's read-side queries. Reports are
// single consistent reads over committed history and need no locking.
type ReportRepository interface {
	// CurrentStock returns every product with its projected level for a
	// store, ordered by product name
	CurrentStock(ctx context.Context, storeID uuid.UUID) ([]StockLine, error)

	// LowStock returns products whose level is at or below the threshold,
	// ordered ascending by level
	LowStock(ctx context.Context, storeID uuid.UUID, threshold int64) ([]StockLine, error)

	// DailySummary aggregates the movements of one UTC day
	// [00:00:00, 23:59:59] inclusive
	DailySummary(ctx context.Context, storeID uuid.UUID, day time.Time) (*DailySummary, error)
}
