package cache

import (
	"fmt"

	"github.com/candinya/rss-translate-layer/types"
	"go.uber.org/zap"
)

func NewStore(cfg *types.ConfigCache, l *zap.Logger) (Store, error) {
	switch cfg.Backend {
	case types.CacheBackendSQLite:
		return NewSQLiteStore(cfg.Path, cfg.SizeLimit, l)
	case types.CacheBackendRedis:
		return NewRedisStore(cfg.Redis.URL, cfg.Redis.Prefix, l)
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", cfg.Backend)
	}
}
