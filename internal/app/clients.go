package app

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/seobrain/internal/cache"
	"github.com/yungbote/seobrain/internal/data/db"
	"github.com/yungbote/seobrain/internal/platform/gcp"
	"github.com/yungbote/seobrain/internal/platform/imagegen"
	"github.com/yungbote/seobrain/internal/platform/llm"
	"github.com/yungbote/seobrain/internal/platform/logger"
)

// MaxImageDimension bounds the longest side of every stored image.
const MaxImageDimension = 1920

type Clients struct {
	DB     *db.Service
	Redis  *goredis.Client
	Cache  *cache.Cache
	Bucket gcp.BucketService
	LLM    *llm.Engine
	Images *imagegen.Service
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	var out Clients

	database, err := db.Open(log, db.Config{
		Driver:           cfg.DBDriver,
		PostgresHost:     cfg.PostgresHost,
		PostgresPort:     cfg.PostgresPort,
		PostgresUser:     cfg.PostgresUser,
		PostgresPassword: cfg.PostgresPassword,
		PostgresName:     cfg.PostgresName,
		PostgresSSLMode:  cfg.PostgresSSLMode,
		SQLitePath:       cfg.SQLitePath,
		SlowThreshold:    time.Second,
	})
	if err != nil {
		return out, fmt.Errorf("init database: %w", err)
	}
	out.DB = database

	out.Cache, out.Redis, err = resolveCache(ctx, log, cfg)
	if err != nil {
		out.Close()
		return Clients{}, fmt.Errorf("init cache: %w", err)
	}

	out.Bucket, err = resolveBucketService(ctx, log, cfg)
	if err != nil {
		out.Close()
		return Clients{}, err
	}

	out.LLM, err = llm.New(log, llm.Config{
		BaseURL:        cfg.LLMBaseURL,
		APIKey:         cfg.LLMAPIKey,
		Model:          cfg.LLMModel,
		Timeout:        cfg.LLMTimeout,
		JSONMode:       cfg.LLMJSONMode,
		JSONMaxRetries: cfg.LLMJSONRetry,
	})
	if err != nil {
		out.Close()
		return Clients{}, fmt.Errorf("init llm client: %w", err)
	}

	out.Images, err = imagegen.New(log, imagegen.Config{
		BaseURL:      cfg.ImageBaseURL,
		APIKey:       cfg.ImageAPIKey,
		Model:        cfg.ImageModel,
		Timeout:      cfg.ImageTimeout,
		MaxRetries:   cfg.ImageMaxRetries,
		KeyPrefix:    cfg.ImageKeyPrefix,
		MaxDimension: MaxImageDimension,
	}, out.Bucket)
	if err != nil {
		out.Close()
		return Clients{}, fmt.Errorf("init image client: %w", err)
	}
	return out, nil
}

func (c Clients) Close() {
	if c.Bucket != nil {
		_ = c.Bucket.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.DB != nil {
		_ = c.DB.Close()
	}
}
