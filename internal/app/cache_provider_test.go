package app

import (
	"context"
	"errors"
	"testing"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/seobrain/internal/cache"
	"github.com/yungbote/seobrain/internal/clients/redis"
	"github.com/yungbote/seobrain/internal/platform/logger"
)

func TestResolveCacheBackends(t *testing.T) {
	ctx := context.Background()

	mem, rdb, err := resolveCache(ctx, logger.Nop(), Config{CacheBackend: CacheBackendMemory})
	if err != nil || rdb != nil {
		t.Fatalf("memory: rdb=%v err=%v", rdb, err)
	}
	mem.Set(ctx, "ollama", "prompt", cache.Options{}, "reply", 0)
	if v, ok := mem.Get(ctx, "ollama", "prompt", cache.Options{}); !ok || v != "reply" {
		t.Fatalf("memory round trip: want=reply got=%q ok=%v", v, ok)
	}

	none, _, err := resolveCache(ctx, logger.Nop(), Config{CacheBackend: CacheBackendNone})
	if err != nil {
		t.Fatalf("none: %v", err)
	}
	none.Set(ctx, "ollama", "prompt", cache.Options{}, "reply", 0)
	if _, ok := none.Get(ctx, "ollama", "prompt", cache.Options{}); ok {
		t.Fatalf("disabled cache should miss")
	}

	if _, _, err := resolveCache(ctx, logger.Nop(), Config{CacheBackend: "memcached"}); err == nil {
		t.Fatalf("unknown backend should fail")
	}
}

func TestResolveCacheDegradesWhenRedisUnreachable(t *testing.T) {
	orig := connectRedis
	connectRedis = func(context.Context, *logger.Logger, redis.Config) (*goredis.Client, error) {
		return nil, errors.New("redis ping: connection refused")
	}
	t.Cleanup(func() { connectRedis = orig })

	ctx := context.Background()
	c, rdb, err := resolveCache(ctx, logger.Nop(), Config{CacheBackend: CacheBackendRedis, RedisAddr: "localhost:1"})
	if err != nil {
		t.Fatalf("unreachable redis should not fail startup: %v", err)
	}
	if rdb != nil {
		t.Fatalf("client should be nil when degraded")
	}
	c.Set(ctx, "ollama", "prompt", cache.Options{}, "reply", 0)
	if _, ok := c.Get(ctx, "ollama", "prompt", cache.Options{}); ok {
		t.Fatalf("degraded cache should miss")
	}
}
