package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	inventoryapp "github.com/stockledger/backend/internal/application/inventory"
	"github.com/stockledger/backend/internal/infrastructure/cache"
	"github.com/stockledger/backend/internal/infrastructure/config"
	"github.com/stockledger/backend/internal/infrastructure/logger"
	"github.com/stockledger/backend/internal/infrastructure/persistence"
)

// verify recomputes every stock level from the movement log and repairs
// projections that drifted. Exits non-zero when any divergence was found
// so it can gate deployments and scheduled checks.
func main() {
	var storeFlag string
	flag.StringVar(&storeFlag, "store", "", "Limit verification to one store ID (default: all stores)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	storeID := uuid.Nil
	if storeFlag != "" {
		storeID, err = uuid.Parse(storeFlag)
		if err != nil {
			log.Fatal("Invalid store ID", zap.String("store", storeFlag))
		}
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	levels := persistence.NewGormStockLevelRepository(db.DB)
	movements := persistence.NewGormMovementRepository(db.DB)
	reports := persistence.NewGormReportRepository(db.DB)
	scope := persistence.NewGormTransactionScope(db.DB)

	service := inventoryapp.NewLedgerService(scope, movements, levels, reports, inventoryapp.Config{
		LowStockThreshold: cfg.Ledger.LowStockThreshold,
		OperationTimeout:  cfg.Ledger.OperationTimeout,
		NotifyTimeout:     cfg.Ledger.NotifyTimeout,
		CacheTTL:          cfg.Ledger.CacheTTL,
		MaxRetries:        cfg.Ledger.MaxRetries,
	}, log)

	// With redis enabled, attaching the cache lets Rebuild drop the stale
	// entry for every repaired key instead of waiting for the TTL.
	if cfg.Redis.Enabled {
		factory := cache.NewLevelCacheFactory(cfg.Redis, cache.WithLogger(log), cache.WithInMemoryFallback(false))
		levelCache, err := factory.Create()
		if err != nil {
			log.Warn("Level cache unavailable, repaired keys will age out of the cache", zap.Error(err))
		} else {
			service.SetLevelCache(levelCache)
		}
	}

	ctx := context.Background()

	keys, err := levels.Keys(ctx, storeID)
	if err != nil {
		log.Fatal("Failed to list level keys", zap.Error(err))
	}

	var checked, repaired, failed int
	for _, key := range keys {
		before, err := levels.FindByKey(ctx, key.StoreID, key.ProductID)
		if err != nil {
			log.Error("Failed to read projection",
				zap.String("store_id", key.StoreID.String()),
				zap.String("product_id", key.ProductID.String()),
				zap.Error(err),
			)
			failed++
			continue
		}

		rebuilt, err := service.Rebuild(ctx, key.StoreID, key.ProductID)
		if err != nil {
			log.Error("Rebuild failed",
				zap.String("store_id", key.StoreID.String()),
				zap.String("product_id", key.ProductID.String()),
				zap.Error(err),
			)
			failed++
			continue
		}

		checked++
		if before.Quantity != rebuilt {
			repaired++
			log.Warn("Projection repaired",
				zap.String("store_id", key.StoreID.String()),
				zap.String("product_id", key.ProductID.String()),
				zap.Int64("projected", before.Quantity),
				zap.Int64("recomputed", rebuilt),
			)
		}
	}

	log.Info("Verification finished",
		zap.Int("checked", checked),
		zap.Int("repaired", repaired),
		zap.Int("failed", failed),
	)

	if repaired > 0 || failed > 0 {
		_ = logger.Sync(log)
		os.Exit(1)
	}
}
