package cache

import (
	"fmt"

	appinventory "github.com/stockledger/backend/internal/application/inventory"
	"github.com/stockledger/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// LevelCacheFactory creates level caches based on configuration
type LevelCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// LevelCacheFactoryOption is a functional option for configuring the factory
type LevelCacheFactoryOption func(*LevelCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) LevelCacheFactoryOption {
	return func(f *LevelCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory
// cache when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) LevelCacheFactoryOption {
	return func(f *LevelCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewLevelCacheFactory creates a new factory
func NewLevelCacheFactory(cfg config.RedisConfig, opts ...LevelCacheFactoryOption) *LevelCacheFactory {
	f := &LevelCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Create builds a level cache. With Redis enabled it connects to Redis,
// falling back to an in-memory cache when the connection fails and
// fallback is allowed. With Redis disabled it returns an in-memory
// cache directly.
func (f *LevelCacheFactory) Create() (appinventory.LevelCache, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("redis disabled, using in-memory level cache")
		return NewInMemoryLevelCache(), nil
	}

	cache, err := NewRedisLevelCache(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err != nil {
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("failed to create redis level cache: %w", err)
		}
		f.logger.Warn("redis unavailable, falling back to in-memory level cache",
			zap.Error(err),
		)
		return NewInMemoryLevelCache(), nil
	}

	f.logger.Info("using redis level cache",
		zap.String("host", f.redisConfig.Host),
		zap.Int("port", f.redisConfig.Port),
	)
	return cache, nil
}
