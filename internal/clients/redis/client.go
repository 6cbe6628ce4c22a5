package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/seobrain/internal/platform/logger"
)

type Config struct {
	// URL takes precedence over Addr and accepts redis:// or rediss:// forms.
	URL      string
	Addr     string
	Password string
	DB       int
}

// Connect builds a client from URL or host:port input and pings it.
func Connect(ctx context.Context, log *logger.Logger, cfg Config) (*goredis.Client, error) {
	opts, err := options(cfg)
	if err != nil {
		return nil, err
	}
	rdb := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	if log != nil {
		log.With("client", "Redis").Info("Redis connected", "addr", opts.Addr, "db", opts.DB)
	}
	return rdb, nil
}

func options(cfg Config) (*goredis.Options, error) {
	u := strings.TrimSpace(cfg.URL)
	if strings.HasPrefix(u, "redis://") || strings.HasPrefix(u, "rediss://") {
		opt, err := goredis.ParseURL(u)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		if opt.DialTimeout == 0 {
			opt.DialTimeout = 5 * time.Second
		}
		return opt, nil
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		addr = u
	}
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	return &goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	}, nil
}
