package generators

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/seobrain/internal/cache"
	"github.com/yungbote/seobrain/internal/modules/seo/prompts"
	"github.com/yungbote/seobrain/internal/platform/imagegen"
	"github.com/yungbote/seobrain/internal/platform/logger"
)

type ImageRequest struct {
	Prompt      prompts.Prompt
	AspectRatio string
	// Name seeds the object key.
	Name    string
	Variant string
}

// ImageGenerator returns the public URL of a generated image.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req ImageRequest) (string, error)
}

// CachedImage caches the resulting URL, never the image bytes.
type CachedImage struct {
	log     *logger.Logger
	gen     imagegen.Generator
	cache   *cache.Cache
	service string
	ttl     time.Duration
}

func NewCachedImage(baseLog *logger.Logger, gen imagegen.Generator, c *cache.Cache) *CachedImage {
	if c == nil {
		c = cache.Disabled()
	}
	return &CachedImage{
		log:     baseLog.With("service", "CachedImageGenerator"),
		gen:     gen,
		cache:   c,
		service: DefaultImageService,
		ttl:     cache.TTLFor(cache.KindImageURL),
	}
}

func imagePromptText(p prompts.Prompt) string {
	if strings.TrimSpace(p.System) == "" {
		return p.User
	}
	return p.System + "\n\n" + p.User
}

func (g *CachedImage) GenerateImage(ctx context.Context, req ImageRequest) (string, error) {
	text := imagePromptText(req.Prompt)
	opts := cache.Options{"model": g.gen.Model(), "aspect_ratio": req.AspectRatio}
	if req.Variant != "" {
		opts["variant"] = req.Variant
	}
	if url, ok := g.cache.Get(ctx, g.service, text, opts); ok && strings.TrimSpace(url) != "" {
		return url, nil
	}
	res, err := g.gen.Generate(ctx, imagegen.Request{Prompt: text, AspectRatio: req.AspectRatio, Name: req.Name})
	if err != nil {
		return "", fmt.Errorf("%s: generate image: %w", req.Prompt.Name, err)
	}
	if res == nil || !res.Success || strings.TrimSpace(res.URL) == "" {
		return "", errors.New("image generation returned no url")
	}
	g.cache.Set(ctx, g.service, text, opts, res.URL, g.ttl)
	g.log.Debug("image url cached", "prompt", req.Prompt.Name, "key", res.Key)
	return res.URL, nil
}
