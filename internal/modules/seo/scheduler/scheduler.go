// Package scheduler periodically analyzes optimizing campaigns and proposes
// improvement plans for their weakest pages. Plans are never executed here.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	rcron "github.com/robfig/cron/v3"

	"github.com/yungbote/seobrain/internal/data/repos"
	types "github.com/yungbote/seobrain/internal/domain"
	"github.com/yungbote/seobrain/internal/modules/seo/winners"
	"github.com/yungbote/seobrain/internal/platform/dbctx"
	"github.com/yungbote/seobrain/internal/platform/logger"
)

const (
	DefaultSpec      = "@every 6h"
	DefaultThreshold = 30
	DefaultTopCount  = winners.DefaultTopCount
	stopTimeout      = 30 * time.Second
)

type Config struct {
	Spec      string
	Threshold float64
	TopCount  int
	// MaxProposals caps new plans per campaign per run; 0 means no cap.
	MaxProposals int
}

type Analyzer interface {
	Analyze(ctx context.Context, campaignID uuid.UUID, topCount int) (*winners.Analysis, error)
}

type Improver interface {
	ListUnderperformers(ctx context.Context, campaignID uuid.UUID, threshold float64) ([]*types.GeneratedCityPage, error)
	HasOpenPlan(ctx context.Context, pageID uuid.UUID) (bool, error)
	Propose(ctx context.Context, pageID uuid.UUID, patternID *uuid.UUID) (*types.ImprovementPlan, error)
}

// Summary counts what one pass did.
type Summary struct {
	Campaigns int `json:"campaigns"`
	Patterns  int `json:"patterns"`
	Proposed  int `json:"proposed"`
	Skipped   int `json:"skipped"`
	Errors    int `json:"errors"`
}

type Scheduler struct {
	log       *logger.Logger
	campaigns repos.ProductCampaignRepo
	analyzer  Analyzer
	improver  Improver
	cfg       Config

	mu   sync.Mutex
	cron *rcron.Cron
	stop context.CancelFunc
}

func New(baseLog *logger.Logger, campaigns repos.ProductCampaignRepo, analyzer Analyzer, improver Improver, cfg Config) *Scheduler {
	if cfg.Spec == "" {
		cfg.Spec = DefaultSpec
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.TopCount <= 0 {
		cfg.TopCount = DefaultTopCount
	}
	return &Scheduler{
		log:       baseLog.With("service", "OptimizationScheduler"),
		campaigns: campaigns,
		analyzer:  analyzer,
		improver:  improver,
		cfg:       cfg,
	}
}

// Start registers the optimization pass and starts the cron loop. Overlapping
// passes are skipped.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return errors.New("scheduler already started")
	}
	clog := cronLogger{log: s.log}
	c := rcron.New(
		rcron.WithLogger(clog),
		rcron.WithChain(rcron.Recover(clog), rcron.SkipIfStillRunning(clog)),
	)
	runCtx, cancel := context.WithCancel(ctx)
	if _, err := c.AddFunc(s.cfg.Spec, func() {
		if _, err := s.RunOnce(runCtx); err != nil {
			s.log.Warn("optimization pass failed", "error", err)
		}
	}); err != nil {
		cancel()
		return fmt.Errorf("invalid optimizer schedule %q: %w", s.cfg.Spec, err)
	}
	s.cron, s.stop = c, cancel
	c.Start()
	s.log.Info("optimization scheduler started", "spec", s.cfg.Spec, "threshold", s.cfg.Threshold)
	return nil
}

// Stop cancels a running pass and waits for it to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	c, cancel := s.cron, s.stop
	s.cron, s.stop = nil, nil
	s.mu.Unlock()
	if c == nil {
		return
	}
	cancel()
	select {
	case <-c.Stop().Done():
	case <-time.After(stopTimeout):
		s.log.Warn("timed out waiting for optimization pass to stop")
	}
	s.log.Info("optimization scheduler stopped")
}

// RunOnce analyzes every optimizing campaign and proposes plans for its
// underperforming pages that have no open plan.
func (s *Scheduler) RunOnce(ctx context.Context) (Summary, error) {
	var sum Summary
	campaigns, err := s.campaigns.ListByStatus(dbctx.Background(ctx), types.CampaignStatusOptimizing)
	if err != nil {
		return sum, fmt.Errorf("list optimizing campaigns: %w", err)
	}
	for _, c := range campaigns {
		if ctx.Err() != nil {
			return sum, ctx.Err()
		}
		sum.Campaigns++
		s.runCampaign(ctx, c, &sum)
	}
	s.log.Info("optimization pass complete",
		"campaigns", sum.Campaigns,
		"patterns", sum.Patterns,
		"proposed", sum.Proposed,
		"skipped", sum.Skipped,
		"errors", sum.Errors,
	)
	return sum, nil
}

func (s *Scheduler) runCampaign(ctx context.Context, c *types.ProductCampaign, sum *Summary) {
	log := s.log.With("campaign_id", c.ID)
	analysis, err := s.analyzer.Analyze(ctx, c.ID, s.cfg.TopCount)
	if err != nil {
		sum.Errors++
		log.Warn("winner analysis failed", "error", err)
		return
	}
	if !analysis.Found {
		return
	}
	sum.Patterns++
	patternID := analysis.Pattern.ID

	losers, err := s.improver.ListUnderperformers(ctx, c.ID, s.cfg.Threshold)
	if err != nil {
		sum.Errors++
		log.Warn("list underperformers failed", "error", err)
		return
	}
	proposed := 0
	for _, page := range losers {
		if s.cfg.MaxProposals > 0 && proposed >= s.cfg.MaxProposals {
			break
		}
		open, err := s.improver.HasOpenPlan(ctx, page.ID)
		if err != nil {
			sum.Errors++
			log.Warn("open plan lookup failed", "page_id", page.ID, "error", err)
			continue
		}
		if open {
			sum.Skipped++
			continue
		}
		if _, err := s.improver.Propose(ctx, page.ID, &patternID); err != nil {
			sum.Errors++
			log.Warn("proposal failed", "page_id", page.ID, "error", err)
			continue
		}
		proposed++
		sum.Proposed++
	}
}

// cronLogger adapts the service logger to cron.Logger.
type cronLogger struct{ log *logger.Logger }

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
