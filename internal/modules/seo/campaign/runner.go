// Package campaign drives page generation for every target city of a campaign.
package campaign

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/yungbote/seobrain/internal/data/repos"
	types "github.com/yungbote/seobrain/internal/domain"
	"github.com/yungbote/seobrain/internal/modules/seo/content"
	"github.com/yungbote/seobrain/internal/modules/seo/generators"
	"github.com/yungbote/seobrain/internal/modules/seo/pagegen"
	"github.com/yungbote/seobrain/internal/modules/seo/prompts"
	"github.com/yungbote/seobrain/internal/observability"
	"github.com/yungbote/seobrain/internal/platform/dbctx"
	"github.com/yungbote/seobrain/internal/platform/logger"
)

var (
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrMainImageFailed  = errors.New("main product image generation failed")
	ErrNoTargetCities   = errors.New("no target cities")
	ErrAlreadyRunning   = errors.New("campaign run already in progress")
)

const (
	DefaultTargetCities  = 200
	DefaultBatchSize     = 10
	DefaultRatePerSecond = 5
	DefaultBurst         = 10
	DefaultCityTimeout   = 5 * time.Minute
)

type Config struct {
	TargetCities  int
	BatchSize     int
	RatePerSecond float64
	Burst         int
	// BatchPause is slept between batches in addition to the limiter.
	BatchPause  time.Duration
	CityTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.TargetCities <= 0 {
		c.TargetCities = DefaultTargetCities
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.RatePerSecond <= 0 {
		c.RatePerSecond = DefaultRatePerSecond
	}
	if c.Burst <= 0 {
		c.Burst = DefaultBurst
	}
	if c.CityTimeout <= 0 {
		c.CityTimeout = DefaultCityTimeout
	}
	return c
}

// PageGenerator is satisfied by *pagegen.Service.
type PageGenerator interface {
	Generate(ctx context.Context, in pagegen.Input) *pagegen.Result
}

type CityResult struct {
	City   string    `json:"city"`
	Slug   string    `json:"slug"`
	PageID uuid.UUID `json:"page_id,omitempty"`
	State  string    `json:"state"`
	Error  string    `json:"error,omitempty"`
}

type RunResult struct {
	CampaignID   uuid.UUID    `json:"campaign_id"`
	Status       string       `json:"status"`
	Generated    int          `json:"generated"`
	Failed       int          `json:"failed"`
	Skipped      int          `json:"skipped"`
	MainImageURL string       `json:"main_image_url"`
	Results      []CityResult `json:"results"`
}

type Runner struct {
	log       *logger.Logger
	cities    repos.CityProfileRepo
	campaigns repos.ProductCampaignRepo
	pages     repos.GeneratedCityPageRepo
	gen       PageGenerator
	images    generators.ImageGenerator
	cfg       Config
	limiter   *rate.Limiter

	mu      sync.Mutex
	running map[uuid.UUID]bool
	now     func() time.Time
}

func New(baseLog *logger.Logger, rp repos.Repos, gen PageGenerator, images generators.ImageGenerator, cfg Config) *Runner {
	cfg = cfg.withDefaults()
	return &Runner{
		log:       baseLog.With("service", "CampaignRunner"),
		cities:    rp.Cities,
		campaigns: rp.Campaigns,
		pages:     rp.Pages,
		gen:       gen,
		images:    images,
		cfg:       cfg,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		running:   map[uuid.UUID]bool{},
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// IsRunning reports whether Run is in progress for campaignID in this process.
func (r *Runner) IsRunning(campaignID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running[campaignID]
}

func (r *Runner) acquire(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running[id] {
		return false
	}
	r.running[id] = true
	return true
}

func (r *Runner) release(id uuid.UUID) {
	r.mu.Lock()
	delete(r.running, id)
	r.mu.Unlock()
}

// Run generates the main product image, then every target city page in
// sequential batches. City failures are recorded and never abort the run.
func (r *Runner) Run(ctx context.Context, campaignID uuid.UUID) (_ *RunResult, err error) {
	if !r.acquire(campaignID) {
		return nil, ErrAlreadyRunning
	}
	defer r.release(campaignID)

	ctx, span := observability.StartSpan(ctx, "campaign.Run", attribute.String("campaign.id", campaignID.String()))
	defer func() { observability.EndSpan(span, err) }()

	dbc := dbctx.Background(ctx)
	campaign, err := r.campaigns.GetByID(dbc, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}
	log := r.log.With("campaign_id", campaign.ID, "product", campaign.ProductName)

	targets, err := r.cities.ListTopByPopulation(dbc, r.cfg.TargetCities)
	if err != nil {
		return nil, fmt.Errorf("load target cities: %w", err)
	}
	if len(targets) == 0 {
		r.markFailed(ctx, campaign.ID, ErrNoTargetCities)
		return nil, ErrNoTargetCities
	}

	started := r.now()
	if err = r.campaigns.UpdateFields(dbc, campaign.ID, map[string]interface{}{
		"status":            types.CampaignStatusGenerating,
		"target_city_count": len(targets),
		"started_at":        started,
		"completed_at":      nil,
		"last_error":        "",
	}); err != nil {
		return nil, fmt.Errorf("mark generating: %w", err)
	}
	log.Info("campaign run started", "targets", len(targets), "batch_size", r.cfg.BatchSize)

	mainURL, err := r.mainImage(ctx, campaign)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrMainImageFailed, err)
		r.markFailed(ctx, campaign.ID, err)
		log.Error("campaign aborted", "error", err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("campaign.targets", len(targets)))

	res := &RunResult{CampaignID: campaign.ID, MainImageURL: mainURL}
	published, err := r.pages.ListPublishedCityIDs(dbc, campaign.ID)
	if err != nil {
		err = fmt.Errorf("load published pages: %w", err)
		r.markFailed(ctx, campaign.ID, err)
		return nil, err
	}
	done := make(map[uuid.UUID]bool, len(published))
	for _, id := range published {
		done[id] = true
	}

	pending := make([]*types.CityProfile, 0, len(targets))
	for _, city := range targets {
		if done[city.ID] {
			res.Skipped++
			res.Generated++
			res.Results = append(res.Results, CityResult{
				City:  city.DisplayName(),
				Slug:  content.PageSlug(campaign, city),
				State: types.PageStatePublished,
			})
			continue
		}
		pending = append(pending, city)
	}

	for start := 0; start < len(pending); start += r.cfg.BatchSize {
		if ctx.Err() != nil {
			log.Warn("campaign run interrupted", "remaining", len(pending)-start)
			break
		}
		if start > 0 && r.cfg.BatchPause > 0 {
			if !sleepCtx(ctx, r.cfg.BatchPause) {
				break
			}
		}
		end := min(start+r.cfg.BatchSize, len(pending))
		batch := r.runBatch(ctx, campaign, mainURL, pending[start:end])
		for _, cr := range batch {
			if cr.Error == "" {
				res.Generated++
			} else {
				res.Failed++
			}
		}
		res.Results = append(res.Results, batch...)

		if uerr := r.campaigns.UpdateFields(dbctx.Background(context.WithoutCancel(ctx)), campaign.ID, map[string]interface{}{
			"cities_generated": res.Generated,
			"cities_failed":    res.Failed,
		}); uerr != nil {
			log.Warn("persist batch counters failed", "error", uerr)
		}
		log.Info("batch complete", "batch", start/r.cfg.BatchSize+1, "generated", res.Generated, "failed", res.Failed)
	}

	res.Status = types.CampaignStatusPartial
	if res.Generated == len(targets) {
		res.Status = types.CampaignStatusOptimizing
	}
	completed := r.now()
	if err = r.campaigns.UpdateFields(dbctx.Background(context.WithoutCancel(ctx)), campaign.ID, map[string]interface{}{
		"status":           res.Status,
		"cities_generated": res.Generated,
		"cities_failed":    res.Failed,
		"completed_at":     completed,
	}); err != nil {
		return res, fmt.Errorf("persist final status: %w", err)
	}
	log.Info("campaign run finished",
		"status", res.Status,
		"generated", res.Generated,
		"failed", res.Failed,
		"skipped", res.Skipped,
		"elapsed", completed.Sub(started).String(),
	)
	return res, nil
}

// mainImage reuses a URL from an earlier run; otherwise it generates one and
// stores it on the campaign.
func (r *Runner) mainImage(ctx context.Context, campaign *types.ProductCampaign) (string, error) {
	if campaign.MainImageURL != "" {
		return campaign.MainImageURL, nil
	}
	p, err := prompts.MainProductImage(campaign)
	if err != nil {
		return "", err
	}
	url, err := r.images.GenerateImage(ctx, generators.ImageRequest{
		Prompt:      p,
		AspectRatio: prompts.AspectProduct,
		Name:        "main/" + content.Slugify(campaign.Slug),
	})
	if err != nil {
		return "", err
	}
	if url == "" {
		return "", errors.New("empty image url")
	}
	if err := r.campaigns.UpdateFields(dbctx.Background(ctx), campaign.ID, map[string]interface{}{"main_image_url": url}); err != nil {
		// The image exists; a rerun regenerates it (or hits the cache).
		r.log.Warn("persist main image url", "campaign_id", campaign.ID, "error", err)
	}
	return url, nil
}

// runBatch generates every city concurrently. Each goroutine returns nil so a
// failing city never cancels its siblings.
func (r *Runner) runBatch(ctx context.Context, campaign *types.ProductCampaign, mainURL string, cities []*types.CityProfile) []CityResult {
	out := make([]CityResult, len(cities))
	var eg errgroup.Group
	eg.SetLimit(r.cfg.BatchSize)
	for i, city := range cities {
		eg.Go(func() error {
			out[i] = r.runCity(ctx, campaign, mainURL, city)
			return nil
		})
	}
	_ = eg.Wait()
	return out
}

func (r *Runner) runCity(ctx context.Context, campaign *types.ProductCampaign, mainURL string, city *types.CityProfile) CityResult {
	cr := CityResult{City: city.DisplayName(), Slug: content.PageSlug(campaign, city), State: types.PageStatePending}
	if err := r.limiter.Wait(ctx); err != nil {
		cr.State = types.PageStateFailed
		cr.Error = err.Error()
		return cr
	}
	cctx, cancel := context.WithTimeout(ctx, r.cfg.CityTimeout)
	defer cancel()

	res := r.gen.Generate(cctx, pagegen.Input{Campaign: campaign, City: city, MainImageURL: mainURL})
	cr.State = res.State
	if res.Page != nil {
		cr.PageID = res.Page.ID
	}
	if res.Err != nil {
		cr.State = types.PageStateFailed
		cr.Error = res.Err.Error()
		if errors.Is(res.Err, context.DeadlineExceeded) && ctx.Err() == nil {
			cr.Error = fmt.Sprintf("city timed out after %s: %v", r.cfg.CityTimeout, res.Err)
		}
	}
	return cr
}

func (r *Runner) markFailed(ctx context.Context, id uuid.UUID, cause error) {
	dbc := dbctx.Background(context.WithoutCancel(ctx))
	if err := r.campaigns.UpdateFields(dbc, id, map[string]interface{}{
		"status":       types.CampaignStatusFailed,
		"last_error":   cause.Error(),
		"completed_at": r.now(),
	}); err != nil {
		r.log.Warn("mark campaign failed", "campaign_id", id, "error", err)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
