package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LevelCache is a read-through cache for hot (store, product) level
// lookups. A stale entry that outlives a committed write is a
// correctness bug. Entries are stamped with the level row's version and
// Set is a compare-and-swap: a write carrying an older version than the
// cached entry is discarded, so delayed write-throughs and racing
// read-populates can never clobber a newer committed level.
type LevelCache interface {
	// Get returns the cached level for a key and whether it was present
	Get(ctx context.Context, storeID, productID uuid.UUID) (int64, bool, error)

	// Set populates the entry for a key with a bounded time-to-live.
	// The write is dropped without error when the cached entry already
	// carries an equal or newer version.
	Set(ctx context.Context, storeID, productID uuid.UUID, level, version int64, ttl time.Duration) error

	// Invalidate drops the entry for a key
	Invalidate(ctx context.Context, storeID, productID uuid.UUID) error
}
