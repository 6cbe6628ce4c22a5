package cache

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

func testRedis(tb testing.TB) *goredis.Client {
	tb.Helper()
	addr := strings.TrimSpace(os.Getenv("TEST_REDIS_ADDR"))
	if addr == "" {
		tb.Skip("TEST_REDIS_ADDR not set")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr, DialTimeout: 2 * time.Second})
	tb.Cleanup(func() { _ = rdb.Close() })
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		tb.Skipf("redis unavailable: %v", err)
	}
	return rdb
}

func TestRedisStoreRoundTripAndInvalidate(t *testing.T) {
	rdb := testRedis(t)
	ctx := context.Background()
	c := New(NewRedisStore(rdb), nil)
	svc := "itest" + time.Now().Format("150405.000000")
	t.Cleanup(func() { c.Invalidate(ctx, svc+":*") })

	c.Set(ctx, svc, "x", Options{"temperature": 0.7}, "y", time.Minute)
	got, ok := c.Get(ctx, svc, "x", Options{"temperature": 0.7})
	if !ok || got != "y" {
		t.Fatalf("round trip: want=(y,true) got=(%q,%v)", got, ok)
	}
	if n := c.Invalidate(ctx, svc+":*"); n != 1 {
		t.Fatalf("invalidate: want=1 got=%d", n)
	}
}
