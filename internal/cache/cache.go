package cache

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/yungbote/seobrain/internal/platform/logger"
)

const Namespace = "seobrain:cache:"

// Kind selects the default TTL of an entry.
type Kind string

const (
	KindText        Kind = "text"
	KindTranslation Kind = "translation"
	KindImageURL    Kind = "image_url"
)

var defaultTTLs = map[Kind]time.Duration{
	KindText:        24 * time.Hour,
	KindTranslation: 7 * 24 * time.Hour,
	KindImageURL:    30 * 24 * time.Hour,
}

func TTLFor(k Kind) time.Duration {
	if d, ok := defaultTTLs[k]; ok {
		return d
	}
	return defaultTTLs[KindText]
}

type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Errors int64 `json:"errors"`
}

// Cache is a content-addressed response cache. Backend failures are logged and
// degrade to a miss (reads) or a no-op (writes); callers never see them.
type Cache struct {
	store  Store
	log    *logger.Logger
	hits   atomic.Int64
	misses atomic.Int64
	errs   atomic.Int64
}

func New(store Store, baseLog *logger.Logger) *Cache {
	if store == nil {
		store = NopStore{}
	}
	if baseLog == nil {
		baseLog = logger.Nop()
	}
	return &Cache{store: store, log: baseLog.With("service", "ResponseCache")}
}

// Disabled returns a cache that always misses.
func Disabled() *Cache {
	return New(NopStore{}, nil)
}

func (c *Cache) Get(ctx context.Context, service, prompt string, opts Options) (string, bool) {
	key := Namespace + Key(service, prompt, opts)
	v, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.errs.Add(1)
		c.misses.Add(1)
		c.log.Warn("cache get failed, treating as miss", "service", service, "error", err)
		return "", false
	}
	if !ok {
		c.misses.Add(1)
		return "", false
	}
	c.hits.Add(1)
	return v, true
}

// Set stores value for ttl; ttl <= 0 uses the text default.
func (c *Cache) Set(ctx context.Context, service, prompt string, opts Options, value string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = TTLFor(KindText)
	}
	key := Namespace + Key(service, prompt, opts)
	if err := c.store.Set(ctx, key, value, ttl); err != nil {
		c.errs.Add(1)
		c.log.Warn("cache set failed, skipping", "service", service, "error", err)
	}
}

// Invalidate deletes entries whose namespaced key matches pattern, e.g.
// "ollama:*" or "*". It returns the number of removed entries.
func (c *Cache) Invalidate(ctx context.Context, pattern string) int {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		pattern = "*"
	}
	n, err := c.store.DeleteMatching(ctx, Namespace+pattern)
	if err != nil {
		c.errs.Add(1)
		c.log.Warn("cache invalidate failed", "pattern", pattern, "deleted", n, "error", err)
	}
	c.log.Info("cache invalidated", "pattern", pattern, "deleted", n)
	return n
}

func (c *Cache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load(), Errors: c.errs.Load()}
}
