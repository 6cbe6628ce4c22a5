package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/seobrain/internal/cache"
	"github.com/yungbote/seobrain/internal/clients/redis"
	"github.com/yungbote/seobrain/internal/platform/logger"
)

const (
	CacheBackendRedis  = "redis"
	CacheBackendMemory = "memory"
	CacheBackendNone   = "none"
)

var connectRedis = redis.Connect

// resolveCache never fails on an unreachable Redis; the cache degrades to
// always-miss instead. The returned client is nil unless Redis is in use.
func resolveCache(ctx context.Context, log *logger.Logger, cfg Config) (*cache.Cache, *goredis.Client, error) {
	switch cfg.CacheBackend {
	case CacheBackendNone:
		log.Info("Response cache disabled")
		return cache.Disabled(), nil, nil
	case CacheBackendMemory:
		log.Info("Response cache in memory")
		return cache.New(cache.NewMemoryStore(), log), nil, nil
	case "", CacheBackendRedis:
		rdb, err := connectRedis(ctx, log, redis.Config{
			URL:      cfg.RedisURL,
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Warn("Redis unavailable, response cache degraded to always-miss", "error", err)
			return cache.Disabled(), nil, nil
		}
		return cache.New(cache.NewRedisStore(rdb), log), rdb, nil
	default:
		return nil, nil, fmt.Errorf("unsupported CACHE_BACKEND %q (allowed: redis, memory, none)", cfg.CacheBackend)
	}
}
