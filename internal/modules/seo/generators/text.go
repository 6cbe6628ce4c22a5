// Package generators wraps the LLM and image backends with the response cache.
// Only responses that pass validation are cached.
package generators

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/seobrain/internal/cache"
	"github.com/yungbote/seobrain/internal/modules/seo/prompts"
	"github.com/yungbote/seobrain/internal/platform/llm"
	"github.com/yungbote/seobrain/internal/platform/logger"
)

const (
	DefaultTextService  = "ollama"
	DefaultImageService = "image"
)

type TextRequest struct {
	Prompt      prompts.Prompt
	Temperature float64
	MaxTokens   int
	// Validate rejects a response; rejected responses are never cached.
	Validate func(string) error
	// Variant separates cache entries of otherwise identical prompts, e.g. a
	// page revision being regenerated.
	Variant string
}

// TextGenerator is what page generation, analysis and improvement call.
type TextGenerator interface {
	GenerateText(ctx context.Context, req TextRequest) (string, error)
}

type CachedText struct {
	log     *logger.Logger
	client  llm.Client
	cache   *cache.Cache
	service string
	ttl     time.Duration
}

type TextOption func(*CachedText)

func WithTextService(service string) TextOption {
	return func(t *CachedText) {
		if s := strings.TrimSpace(service); s != "" {
			t.service = s
		}
	}
}

func WithTextTTL(ttl time.Duration) TextOption {
	return func(t *CachedText) {
		if ttl > 0 {
			t.ttl = ttl
		}
	}
}

func NewCachedText(baseLog *logger.Logger, client llm.Client, c *cache.Cache, opts ...TextOption) *CachedText {
	if c == nil {
		c = cache.Disabled()
	}
	t := &CachedText{
		log:     baseLog.With("service", "CachedTextGenerator"),
		client:  client,
		cache:   c,
		service: DefaultTextService,
		ttl:     cache.TTLFor(cache.KindText),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

func (t *CachedText) cacheOptions(req TextRequest) cache.Options {
	opts := cache.Options{
		"model":       t.client.Model(),
		"system":      req.Prompt.System,
		"prompt":      string(req.Prompt.Name),
		"version":     req.Prompt.Version,
		"temperature": req.Temperature,
		"max_tokens":  req.MaxTokens,
		"json":        req.Prompt.JSON(),
	}
	if req.Variant != "" {
		opts["variant"] = req.Variant
	}
	return opts
}

func (t *CachedText) GenerateText(ctx context.Context, req TextRequest) (string, error) {
	opts := t.cacheOptions(req)
	if hit, ok := t.cache.Get(ctx, t.service, req.Prompt.User, opts); ok {
		if req.Validate == nil || req.Validate(hit) == nil {
			return hit, nil
		}
		t.log.Warn("cached response failed validation, regenerating", "prompt", req.Prompt.Name)
	}

	out, err := t.client.GenerateText(ctx, llm.Request{
		System:      req.Prompt.System,
		Prompt:      req.Prompt.User,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		JSON:        req.Prompt.JSON(),
		SchemaName:  req.Prompt.SchemaName,
		Schema:      req.Prompt.Schema,
	})
	if err != nil {
		return "", fmt.Errorf("%s: generate: %w", req.Prompt.Name, err)
	}
	if req.Validate != nil {
		if err := req.Validate(out); err != nil {
			return "", err
		}
	}
	t.cache.Set(ctx, t.service, req.Prompt.User, opts, out, t.ttl)
	return out, nil
}
