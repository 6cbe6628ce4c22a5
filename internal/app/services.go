package app

import (
	"fmt"

	"github.com/yungbote/seobrain/internal/data/repos"
	"github.com/yungbote/seobrain/internal/modules/seo/campaign"
	"github.com/yungbote/seobrain/internal/modules/seo/generators"
	"github.com/yungbote/seobrain/internal/modules/seo/improver"
	"github.com/yungbote/seobrain/internal/modules/seo/pagegen"
	"github.com/yungbote/seobrain/internal/modules/seo/prompts"
	"github.com/yungbote/seobrain/internal/modules/seo/scheduler"
	"github.com/yungbote/seobrain/internal/modules/seo/winners"
	"github.com/yungbote/seobrain/internal/platform/imagegen"
	"github.com/yungbote/seobrain/internal/platform/logger"
)

type Services struct {
	Text      *generators.CachedText
	Images    *generators.CachedImage
	Pages     *pagegen.Service
	Campaigns *campaign.Runner
	Winners   *winners.Analyzer
	Improver  *improver.Service
	Scheduler *scheduler.Scheduler
}

func wireServices(log *logger.Logger, cfg Config, clients Clients, rp repos.Repos) (Services, error) {
	styles := prompts.DefaultStyles()
	if cfg.CityStylesPath != "" {
		loaded, err := prompts.LoadStyles(cfg.CityStylesPath)
		if err != nil {
			return Services{}, fmt.Errorf("load city styles: %w", err)
		}
		styles = loaded
		log.Info("City styles loaded", "path", cfg.CityStylesPath)
	}

	text := generators.NewCachedText(
		log,
		clients.LLM,
		clients.Cache,
		generators.WithTextService(cfg.TextCacheName),
		generators.WithTextTTL(cfg.CacheTextTTL),
	)
	images := generators.NewCachedImage(log, clients.Images, clients.Cache)

	var cards imagegen.Bucket
	if cfg.SocialCardsEnabled {
		cards = clients.Bucket
	}
	pages := pagegen.New(log, rp.Pages, text, images, cards, styles, pagegen.Config{
		RequireReview: cfg.PageRequireReview,
		SiteBaseURL:   cfg.SiteBaseURL,
		BusinessName:  cfg.BusinessName,
		Currency:      cfg.Currency,
		SocialCards:   cfg.SocialCardsEnabled,
	})

	runner := campaign.New(log, rp, pages, images, campaign.Config{
		TargetCities:  cfg.TargetCities,
		BatchSize:     cfg.BatchSize,
		RatePerSecond: cfg.RatePerSecond,
		Burst:         cfg.RateBurst,
		BatchPause:    cfg.BatchPause,
		CityTimeout:   cfg.CityTimeout,
	})

	analyzer := winners.New(log, rp, text)
	improve := improver.New(log, rp, text, pages)
	sched := scheduler.New(log, rp.Campaigns, analyzer, improve, scheduler.Config{
		Spec:      cfg.OptimizerCron,
		Threshold: cfg.OptimizerThreshold,
		TopCount:  cfg.OptimizerTopCount,
	})

	return Services{
		Text:      text,
		Images:    images,
		Pages:     pages,
		Campaigns: runner,
		Winners:   analyzer,
		Improver:  improve,
		Scheduler: sched,
	}, nil
}
