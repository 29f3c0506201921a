package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stockledger/backend/internal/domain/inventory"
	"github.com/stockledger/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	// DefaultLowStockThreshold matches the original single-store behavior
	DefaultLowStockThreshold int64 = 5
	// DefaultOperationTimeout bounds storage calls when the caller
	// supplies no deadline
	DefaultOperationTimeout = 10 * time.Second
	// DefaultNotifyTimeout bounds post-commit notification and cache
	// maintenance; failures there never fail the committed movement
	DefaultNotifyTimeout = 2 * time.Second
	// DefaultCacheTTL bounds how long a cached level may live
	DefaultCacheTTL = time.Hour
	// DefaultMaxRetries is how many times a movement is retried on an
	// optimistic-lock conflict before CONCURRENCY_CONFLICT is returned
	DefaultMaxRetries = 5
)

// Config tunes the ledger service
type Config struct {
	LowStockThreshold int64
	OperationTimeout  time.Duration
	NotifyTimeout     time.Duration
	CacheTTL          time.Duration
	MaxRetries        int
}

// DefaultServiceConfig returns the default ledger tuning
func DefaultServiceConfig() Config {
	return Config{
		LowStockThreshold: DefaultLowStockThreshold,
		OperationTimeout:  DefaultOperationTimeout,
		NotifyTimeout:     DefaultNotifyTimeout,
		CacheTTL:          DefaultCacheTTL,
		MaxRetries:        DefaultMaxRetries,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultServiceConfig()
	if c.LowStockThreshold <= 0 {
		c.LowStockThreshold = d.LowStockThreshold
	}
	if c.OperationTimeout <= 0 {
		c.OperationTimeout = d.OperationTimeout
	}
	if c.NotifyTimeout <= 0 {
		c.NotifyTimeout = d.NotifyTimeout
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = d.CacheTTL
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = d.MaxRetries
	}
	return c
}

// LedgerService is the transactional boundary of the inventory ledger.
// A movement is validated against the projected level and committed
// together with the projection update in one transaction; notification
// and cache maintenance happen after commit and are best-effort.
type LedgerService struct {
	scope          TransactionScope
	movements      inventory.MovementRepository
	levels         inventory.StockLevelRepository
	reports        inventory.ReportRepository
	cfg            Config
	logger         *zap.Logger
	defaultStoreID uuid.UUID
	eventPublisher shared.EventPublisher
	cache          LevelCache
}

// NewLedgerService creates a new LedgerService. The movement and level
// repositories passed here serve the read side; writes go through the
// transaction scope.
func NewLedgerService(
	scope TransactionScope,
	movements inventory.MovementRepository,
	levels inventory.StockLevelRepository,
	reports inventory.ReportRepository,
	cfg Config,
	logger *zap.Logger,
) *LedgerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerService{
		scope:     scope,
		movements: movements,
		levels:    levels,
		reports:   reports,
		cfg:       cfg.withDefaults(),
		logger:    logger,
	}
}

// SetEventPublisher sets the publisher informed of committed movements
func (s *LedgerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetLevelCache sets the read-through cache for level lookups
func (s *LedgerService) SetLevelCache(cache LevelCache) {
	s.cache = cache
}

// SetDefaultStore sets the store that uuid.Nil store IDs resolve to
func (s *LedgerService) SetDefaultStore(storeID uuid.UUID) {
	s.defaultStoreID = storeID
}

// RecordMovement validates and applies a movement: the level is read and
// checked inside the transaction, the movement is appended to the log and
// the projection updated atomically, and the new level is returned. An
// optimistic-lock conflict on the level row retries the whole
// validate-then-commit sequence up to the configured maximum.
func (s *LedgerService) RecordMovement(ctx context.Context, input RecordMovementInput) (*MovementResult, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	// Kind and quantity are rejected before touching storage.
	if !input.Kind.IsValid() {
		return nil, shared.NewDomainErrorf("INVALID_KIND", "Movement kind %q is not recognized", string(input.Kind))
	}
	storeID := s.resolveStore(input.StoreID)

	var (
		result       *MovementResult
		levelVersion int64
		events       []shared.DomainEvent
	)

	for attempt := 0; ; attempt++ {
		err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			exists, err := repos.Stores().ExistsByID(ctx, storeID)
			if err != nil {
				return wrapStorageError(err)
			}
			if !exists {
				return shared.NewDomainErrorf("NOT_FOUND", "Store %s does not exist", storeID)
			}
			exists, err = repos.Products().ExistsByID(ctx, input.ProductID)
			if err != nil {
				return wrapStorageError(err)
			}
			if !exists {
				return shared.NewDomainErrorf("NOT_FOUND", "Product %s does not exist", input.ProductID)
			}

			movement, err := inventory.NewMovement(storeID, input.ProductID, input.Kind, input.Quantity, input.UnitPrice, input.Note)
			if err != nil {
				return err
			}

			// Authoritative read: the level row, never the cache.
			level, err := repos.Levels().GetOrCreate(ctx, storeID, input.ProductID)
			if err != nil {
				return wrapStorageError(err)
			}

			if err := level.Apply(movement); err != nil {
				return err
			}
			if err := repos.Movements().Append(ctx, movement); err != nil {
				return wrapStorageError(err)
			}
			if err := repos.Levels().SaveWithLock(ctx, level); err != nil {
				return err
			}

			levelVersion = int64(level.Version)
			events = level.GetDomainEvents()
			level.ClearDomainEvents()
			if level.Quantity <= s.cfg.LowStockThreshold {
				events = append(events, inventory.NewLowStockEvent(level, movement, s.cfg.LowStockThreshold))
			}

			result = &MovementResult{
				MovementID: movement.ID,
				StoreID:    storeID,
				ProductID:  input.ProductID,
				NewLevel:   level.Quantity,
				AppliedAt:  movement.CreatedAt,
			}
			return nil
		})
		if err == nil {
			break
		}
		if shared.IsDomainError(err, "CONCURRENCY_CONFLICT") && attempt < s.cfg.MaxRetries {
			s.logger.Debug("level row contended, retrying movement",
				zap.String("store_id", storeID.String()),
				zap.String("product_id", input.ProductID.String()),
				zap.Int("attempt", attempt+1),
			)
			continue
		}
		return nil, wrapStorageError(err)
	}

	s.afterCommit(ctx, storeID, input.ProductID, result.NewLevel, levelVersion, events)

	return result, nil
}

// CurrentLevel returns the projected level for a key, consulting the
// read-through cache first. A key with no movement history is at level 0.
func (s *LedgerService) CurrentLevel(ctx context.Context, storeID, productID uuid.UUID) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	storeID = s.resolveStore(storeID)

	if s.cache != nil {
		if level, ok, err := s.cache.Get(ctx, storeID, productID); err == nil && ok {
			return level, nil
		} else if err != nil {
			s.logger.Warn("level cache read failed", zap.Error(err))
		}
	}

	level, err := s.levels.FindByKey(ctx, storeID, productID)
	if err != nil {
		if shared.IsDomainError(err, "NOT_FOUND") {
			return 0, nil
		}
		return 0, wrapStorageError(err)
	}

	if s.cache != nil {
		// Populate stamped with the row version read above; a concurrent
		// writer's newer entry wins the compare-and-swap.
		if err := s.cache.Set(ctx, storeID, productID, level.Quantity, int64(level.Version), s.cfg.CacheTTL); err != nil {
			s.logger.Warn("level cache write failed", zap.Error(err))
		}
	}

	return level.Quantity, nil
}

// Rebuild recomputes the level for a key by summing its full movement
// history, persists the recomputed value, and returns it. The result
// must be identical to the incrementally maintained projection; callers
// use it for repair and verification.
func (s *LedgerService) Rebuild(ctx context.Context, storeID, productID uuid.UUID) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	storeID = s.resolveStore(storeID)

	var rebuilt int64
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		sum, err := repos.Movements().SumDeltas(ctx, storeID, productID)
		if err != nil {
			return wrapStorageError(err)
		}
		level, err := repos.Levels().GetOrCreate(ctx, storeID, productID)
		if err != nil {
			return wrapStorageError(err)
		}
		if level.Quantity != sum {
			s.logger.Warn("level projection diverged from movement log",
				zap.String("store_id", storeID.String()),
				zap.String("product_id", productID.String()),
				zap.Int64("projected", level.Quantity),
				zap.Int64("recomputed", sum),
			)
		}
		level.Reset(sum)
		if err := repos.Levels().SaveWithLock(ctx, level); err != nil {
			return err
		}
		rebuilt = sum
		return nil
	})
	if err != nil {
		return 0, wrapStorageError(err)
	}

	s.invalidateCache(ctx, storeID, productID)

	return rebuilt, nil
}

// GetCurrentStock returns every product with its projected level for a
// store, ordered by product name. Two calls with no intervening writes
// return identical results.
func (s *LedgerService) GetCurrentStock(ctx context.Context, storeID uuid.UUID) ([]inventory.StockLine, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	lines, err := s.reports.CurrentStock(ctx, s.resolveStore(storeID))
	if err != nil {
		return nil, wrapStorageError(err)
	}
	return lines, nil
}

// GetLowStock returns products whose level is at or below the threshold,
// ordered ascending by level. A non-positive threshold selects the
// configured default.
func (s *LedgerService) GetLowStock(ctx context.Context, storeID uuid.UUID, threshold int64) ([]inventory.StockLine, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if threshold <= 0 {
		threshold = s.cfg.LowStockThreshold
	}
	lines, err := s.reports.LowStock(ctx, s.resolveStore(storeID), threshold)
	if err != nil {
		return nil, wrapStorageError(err)
	}
	return lines, nil
}

// GetMovementHistory lists the movements for a key, most recent first,
// optionally bounded by a time range.
func (s *LedgerService) GetMovementHistory(ctx context.Context, storeID, productID uuid.UUID, rng inventory.TimeRange, filter shared.Filter) ([]MovementResponse, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	movements, err := s.movements.ListForKey(ctx, s.resolveStore(storeID), productID, rng, filter)
	if err != nil {
		return nil, wrapStorageError(err)
	}
	return ToMovementResponses(movements), nil
}

// GetDailySummary aggregates one UTC day of ledger activity for a store
func (s *LedgerService) GetDailySummary(ctx context.Context, storeID uuid.UUID, day time.Time) (*inventory.DailySummary, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	summary, err := s.reports.DailySummary(ctx, s.resolveStore(storeID), day)
	if err != nil {
		return nil, wrapStorageError(err)
	}
	return summary, nil
}

// afterCommit performs the best-effort post-commit work: event
// publication and cache write-through. It runs under a detached
// short-timeout context so a slow or failing collaborator can neither
// roll back nor delay the committed movement.
func (s *LedgerService) afterCommit(ctx context.Context, storeID, productID uuid.UUID, newLevel, levelVersion int64, events []shared.DomainEvent) {
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.NotifyTimeout)
	defer cancel()

	if s.eventPublisher != nil && len(events) > 0 {
		if err := s.eventPublisher.Publish(notifyCtx, events...); err != nil {
			s.logger.Warn("event publication failed after commit",
				zap.String("store_id", storeID.String()),
				zap.String("product_id", productID.String()),
				zap.Error(err),
			)
		}
	}

	if s.cache != nil {
		// Version-stamped write: if a later commit already populated the
		// entry, this delayed write-through is dropped by the cache.
		if err := s.cache.Set(notifyCtx, storeID, productID, newLevel, levelVersion, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("level cache write-through failed, invalidating",
				zap.String("store_id", storeID.String()),
				zap.String("product_id", productID.String()),
				zap.Error(err),
			)
			if err := s.cache.Invalidate(notifyCtx, storeID, productID); err != nil {
				s.logger.Error("level cache invalidation failed, entry may be stale",
					zap.String("store_id", storeID.String()),
					zap.String("product_id", productID.String()),
					zap.Error(err),
				)
			}
		}
	}
}

func (s *LedgerService) invalidateCache(ctx context.Context, storeID, productID uuid.UUID) {
	if s.cache == nil {
		return
	}
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.NotifyTimeout)
	defer cancel()
	if err := s.cache.Invalidate(notifyCtx, storeID, productID); err != nil {
		s.logger.Warn("level cache invalidation failed", zap.Error(err))
	}
}

func (s *LedgerService) resolveStore(storeID uuid.UUID) uuid.UUID {
	if storeID == uuid.Nil {
		return s.defaultStoreID
	}
	return storeID
}

// withTimeout applies the default operation timeout when the caller
// supplied no deadline of its own.
func (s *LedgerService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.cfg.OperationTimeout)
}

// wrapStorageError classifies infrastructure failures as retryable
// STORAGE_UNAVAILABLE while letting typed domain errors pass through.
func wrapStorageError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := shared.AsDomainError(err); ok {
		return err
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", shared.ErrStorageUnavailable, err)
}
