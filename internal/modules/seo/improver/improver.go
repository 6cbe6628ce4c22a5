// Package improver proposes and, after a human decision, applies graduated
// rewrites to underperforming pages.
package improver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/seobrain/internal/data/repos"
	types "github.com/yungbote/seobrain/internal/domain"
	"github.com/yungbote/seobrain/internal/modules/seo/content"
	"github.com/yungbote/seobrain/internal/modules/seo/generators"
	"github.com/yungbote/seobrain/internal/modules/seo/pagegen"
	"github.com/yungbote/seobrain/internal/modules/seo/prompts"
	"github.com/yungbote/seobrain/internal/modules/seo/winners"
	"github.com/yungbote/seobrain/internal/observability"
	"github.com/yungbote/seobrain/internal/platform/dbctx"
	"github.com/yungbote/seobrain/internal/platform/logger"
)

const (
	ProposalTemperature = 0.7
	ProposalMaxTokens   = 2000
	DefaultThreshold    = 30
)

var (
	ErrPageNotFound     = errors.New("page not found")
	ErrPlanNotFound     = errors.New("improvement plan not found")
	ErrUnknownOption    = errors.New("unknown option")
	ErrPlanNotProposed  = errors.New("improvement plan is not awaiting a decision")
	ErrMissingReference = errors.New("page campaign or city missing")
)

// Regenerator is satisfied by *pagegen.Service.
type Regenerator interface {
	Regenerate(ctx context.Context, req pagegen.RegenerateRequest) (*types.GeneratedCityPage, error)
}

type Service struct {
	log       *logger.Logger
	pages     repos.GeneratedCityPageRepo
	cities    repos.CityProfileRepo
	campaigns repos.ProductCampaignRepo
	patterns  repos.WinnerPatternRepo
	plans     repos.ImprovementPlanRepo
	text      generators.TextGenerator
	regen     Regenerator
}

func New(baseLog *logger.Logger, rp repos.Repos, text generators.TextGenerator, regen Regenerator) *Service {
	return &Service{
		log:       baseLog.With("service", "LoserImprover"),
		pages:     rp.Pages,
		cities:    rp.Cities,
		campaigns: rp.Campaigns,
		patterns:  rp.Patterns,
		plans:     rp.Plans,
		text:      text,
		regen:     regen,
	}
}

// pageStats is the structural snapshot the model compares with the pattern.
type pageStats struct {
	Slug            string            `json:"slug"`
	Score           float64           `json:"score"`
	Metrics         types.PageMetrics `json:"metrics"`
	Title           string            `json:"title"`
	TitleLength     int               `json:"title_length"`
	MetaDescription string            `json:"meta_description"`
	H1              string            `json:"h1"`
	IntroWordCount  int               `json:"intro_word_count"`
	BenefitCount    int               `json:"benefit_count"`
	FAQCount        int               `json:"faq_count"`
	KeywordCount    int               `json:"keyword_count"`
	Revision        int               `json:"revision"`
}

func statsFor(p *types.GeneratedCityPage) pageStats {
	return pageStats{
		Slug:            p.Slug,
		Score:           winners.Score(p.Metrics()),
		Metrics:         p.Metrics(),
		Title:           p.Title,
		TitleLength:     len([]rune(p.Title)),
		MetaDescription: p.MetaDescription,
		H1:              p.H1,
		IntroWordCount:  content.WordCount(p.Introduction),
		BenefitCount:    len(p.BenefitList()),
		FAQCount:        len(p.FAQList()),
		KeywordCount:    len(p.KeywordList()),
		Revision:        p.Revision,
	}
}

// Propose asks the model for three graduated options and stores them as a
// proposed plan. A nil patternID selects the campaign's latest pattern. Model
// or validation failures fall back to FallbackOptions.
func (s *Service) Propose(ctx context.Context, pageID uuid.UUID, patternID *uuid.UUID) (_ *types.ImprovementPlan, err error) {
	ctx, span := observability.StartSpan(ctx, "improver.Propose", attribute.String("page.id", pageID.String()))
	defer func() { observability.EndSpan(span, err) }()

	dbc := dbctx.Background(ctx)
	page, err := s.pages.GetByID(dbc, pageID)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, ErrPageNotFound
	}
	pattern, err := s.pattern(dbc, page.CampaignID, patternID)
	if err != nil {
		return nil, err
	}

	stats := statsFor(page)
	options, source := s.options(ctx, stats, pattern)
	plan := &types.ImprovementPlan{
		PageID:          page.ID,
		CampaignID:      page.CampaignID,
		PatternID:       &pattern.ID,
		Options:         types.MustJSON(options),
		Source:          source,
		Status:          types.PlanStatusProposed,
		ScoreAtProposal: stats.Score,
	}
	if err = s.plans.Create(dbc, plan); err != nil {
		return nil, fmt.Errorf("persist plan: %w", err)
	}
	span.SetAttributes(attribute.String("plan.source", source))
	s.log.Info("improvement plan proposed", "page_id", page.ID, "plan_id", plan.ID, "source", source, "score", stats.Score)
	return plan, nil
}

func (s *Service) pattern(dbc dbctx.Context, campaignID uuid.UUID, patternID *uuid.UUID) (*types.WinnerPattern, error) {
	var (
		w   *types.WinnerPattern
		err error
	)
	if patternID != nil && *patternID != uuid.Nil {
		w, err = s.patterns.GetByID(dbc, *patternID)
	} else {
		w, err = s.patterns.LatestByCampaign(dbc, campaignID)
	}
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, winners.ErrPatternNotFound
	}
	return w, nil
}

func (s *Service) options(ctx context.Context, stats pageStats, pattern *types.WinnerPattern) ([]types.DecisionOption, string) {
	fallback := func(reason error) ([]types.DecisionOption, string) {
		s.log.Warn("using fallback improvement options", "page", stats.Slug, "error", reason)
		return FallbackOptions(), types.PlanSourceFallback
	}
	pageJSON, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fallback(err)
	}
	decoded, err := winners.Decode(pattern)
	if err != nil {
		return fallback(err)
	}
	patternJSON, err := json.MarshalIndent(decoded, "", "  ")
	if err != nil {
		return fallback(err)
	}
	p, err := prompts.ImprovementOptions(string(pageJSON), string(patternJSON))
	if err != nil {
		return fallback(err)
	}
	raw, err := s.text.GenerateText(ctx, generators.TextRequest{
		Prompt:      p,
		Temperature: ProposalTemperature,
		MaxTokens:   ProposalMaxTokens,
		Validate:    func(out string) error { _, err := content.ParseOptions(out); return err },
	})
	if err != nil {
		return fallback(err)
	}
	opts, err := content.ParseOptions(raw)
	if err != nil {
		return fallback(err)
	}
	return opts, types.PlanSourceLLM
}

func (s *Service) Get(ctx context.Context, planID uuid.UUID) (*types.ImprovementPlan, error) {
	plan, err := s.plans.GetByID(dbctx.Background(ctx), planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

// Select records the human decision and executes the chosen option. Only one
// caller wins the proposed → selected transition.
func (s *Service) Select(ctx context.Context, planID uuid.UUID, optionID string) (*types.ImprovementPlan, *Report, error) {
	plan, err := s.Get(ctx, planID)
	if err != nil {
		return nil, nil, err
	}
	opt, ok := plan.Option(optionID)
	if !ok {
		return nil, nil, fmt.Errorf("%w %q", ErrUnknownOption, optionID)
	}
	dbc := dbctx.Background(ctx)
	won, err := s.plans.TransitionStatus(dbc, plan.ID, types.PlanStatusProposed, types.PlanStatusSelected,
		map[string]interface{}{"selected_option": opt.ID})
	if err != nil {
		return nil, nil, err
	}
	if !won {
		return nil, nil, ErrPlanNotProposed
	}
	s.log.Info("improvement option selected", "plan_id", plan.ID, "option", opt.ID, "level", opt.Level)

	report, execErr := s.Execute(ctx, plan, opt)
	updates := map[string]interface{}{}
	to := types.PlanStatusExecuted
	if execErr != nil {
		to = types.PlanStatusFailed
		updates["last_error"] = execErr.Error()
	}
	if report != nil {
		updates["execution_report"] = types.MustJSON(report)
	}
	if _, err := s.plans.TransitionStatus(dbctx.Background(context.WithoutCancel(ctx)), plan.ID, types.PlanStatusSelected, to, updates); err != nil {
		s.log.Warn("plan status update failed", "plan_id", plan.ID, "error", err)
	}
	out, err := s.Get(ctx, plan.ID)
	if err != nil {
		return nil, report, err
	}
	return out, report, execErr
}

// ListUnderperformers returns published pages scoring below threshold, worst first.
func (s *Service) ListUnderperformers(ctx context.Context, campaignID uuid.UUID, threshold float64) ([]*types.GeneratedCityPage, error) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	all, err := s.pages.ListByCampaign(dbctx.Background(ctx), campaignID)
	if err != nil {
		return nil, err
	}
	var out []*types.GeneratedCityPage
	for _, p := range all {
		if p.Published && winners.Score(p.Metrics()) < threshold {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return winners.Score(out[i].Metrics()) < winners.Score(out[j].Metrics())
	})
	return out, nil
}

// HasOpenPlan reports whether the page already awaits or is running a decision.
func (s *Service) HasOpenPlan(ctx context.Context, pageID uuid.UUID) (bool, error) {
	return s.plans.HasOpenForPage(dbctx.Background(ctx), pageID)
}
