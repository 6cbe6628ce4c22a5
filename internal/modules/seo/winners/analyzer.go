// Package winners extracts a reusable page pattern from a campaign's best pages.
package winners

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/seobrain/internal/data/repos"
	types "github.com/yungbote/seobrain/internal/domain"
	"github.com/yungbote/seobrain/internal/modules/seo/content"
	"github.com/yungbote/seobrain/internal/modules/seo/generators"
	"github.com/yungbote/seobrain/internal/modules/seo/prompts"
	"github.com/yungbote/seobrain/internal/observability"
	"github.com/yungbote/seobrain/internal/platform/dbctx"
	"github.com/yungbote/seobrain/internal/platform/logger"
)

const (
	DefaultTopCount     = 10
	AnalysisTemperature = 0.3
	AnalysisMaxTokens   = 1500
)

var (
	ErrPatternNotFound  = errors.New("winner pattern not found")
	ErrCampaignNotFound = errors.New("campaign not found")
)

// Analysis is the outcome of one run. Found is false when the campaign has
// no published pages yet.
type Analysis struct {
	Found   bool                 `json:"found"`
	Pattern *types.WinnerPattern `json:"pattern,omitempty"`
	Parsed  *content.Pattern     `json:"parsed,omitempty"`
	Pages   []PageSummary        `json:"pages,omitempty"`
}

type Analyzer struct {
	log       *logger.Logger
	campaigns repos.ProductCampaignRepo
	pages     repos.GeneratedCityPageRepo
	patterns  repos.WinnerPatternRepo
	text      generators.TextGenerator
}

func New(baseLog *logger.Logger, rp repos.Repos, text generators.TextGenerator) *Analyzer {
	return &Analyzer{
		log:       baseLog.With("service", "WinnerAnalyzer"),
		campaigns: rp.Campaigns,
		pages:     rp.Pages,
		patterns:  rp.Patterns,
		text:      text,
	}
}

func (a *Analyzer) Analyze(ctx context.Context, campaignID uuid.UUID, topCount int) (_ *Analysis, err error) {
	if topCount <= 0 {
		topCount = DefaultTopCount
	}
	ctx, span := observability.StartSpan(ctx, "winners.Analyze",
		attribute.String("campaign.id", campaignID.String()),
		attribute.Int("analysis.top_count", topCount),
	)
	defer func() { observability.EndSpan(span, err) }()

	dbc := dbctx.Background(ctx)
	campaign, err := a.campaigns.GetByID(dbc, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}
	top, err := a.pages.ListTopByRevenue(dbc, campaignID, topCount)
	if err != nil {
		return nil, fmt.Errorf("load top pages: %w", err)
	}
	if len(top) == 0 {
		a.log.Info("no pages to analyze", "campaign_id", campaignID)
		return &Analysis{Found: false}, nil
	}

	summaries := make([]PageSummary, len(top))
	slugs := make([]string, len(top))
	ids := make([]string, len(top))
	sum, minScore := 0.0, math.Inf(1)
	for i, p := range top {
		summaries[i] = Summarize(p)
		slugs[i] = p.CitySlug
		ids[i] = p.ID.String()
		sum += summaries[i].Score
		minScore = math.Min(minScore, summaries[i].Score)
	}
	pagesJSON, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return nil, err
	}

	p, err := prompts.WinnerPattern(campaign.ProductType, string(pagesJSON), len(top))
	if err != nil {
		return nil, err
	}
	raw, err := a.text.GenerateText(ctx, generators.TextRequest{
		Prompt:      p,
		Temperature: AnalysisTemperature,
		MaxTokens:   AnalysisMaxTokens,
		Validate:    func(out string) error { _, err := content.ParsePattern(out); return err },
	})
	if err != nil {
		return nil, fmt.Errorf("pattern extraction: %w", err)
	}
	parsed, err := content.ParsePattern(raw)
	if err != nil {
		return nil, err
	}

	row := &types.WinnerPattern{
		CampaignID:         campaignID,
		ProductType:        campaign.ProductType,
		PatternName:        parsed.PatternName,
		ContentStructure:   types.MustJSON(parsed.ContentStructure),
		SEOStructure:       types.MustJSON(parsed.SEOStructure),
		ConversionElements: types.MustJSON(parsed.ConversionElements),
		SourceCitySlugs:    types.JSONList(slugs),
		SourcePageIDs:      types.JSONList(ids),
		AvgScore:           math.Round(sum/float64(len(top))*100) / 100,
		MinScore:           minScore,
		SampleSize:         len(top),
		Confidence:         Confidence(len(top)),
	}
	if err := a.patterns.Create(dbc, row); err != nil {
		return nil, fmt.Errorf("persist pattern: %w", err)
	}
	span.SetAttributes(attribute.Int("analysis.sample_size", row.SampleSize))
	a.log.Info("winner pattern stored",
		"campaign_id", campaignID,
		"pattern_id", row.ID,
		"pattern", row.PatternName,
		"sample_size", row.SampleSize,
		"confidence", row.Confidence,
	)
	return &Analysis{Found: true, Pattern: row, Parsed: parsed, Pages: summaries}, nil
}

// Latest returns the newest pattern of the campaign.
func (a *Analyzer) Latest(ctx context.Context, campaignID uuid.UUID) (*types.WinnerPattern, error) {
	w, err := a.patterns.LatestByCampaign(dbctx.Background(ctx), campaignID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, ErrPatternNotFound
	}
	return w, nil
}

func (a *Analyzer) List(ctx context.Context, campaignID uuid.UUID) ([]*types.WinnerPattern, error) {
	return a.patterns.ListByCampaign(dbctx.Background(ctx), campaignID)
}

// Decode restores the structured view of a stored pattern.
func Decode(w *types.WinnerPattern) (*content.Pattern, error) {
	if w == nil {
		return nil, ErrPatternNotFound
	}
	out := &content.Pattern{PatternName: w.PatternName}
	parts := []struct {
		raw []byte
		dst any
	}{
		{w.ContentStructure, &out.ContentStructure},
		{w.SEOStructure, &out.SEOStructure},
		{w.ConversionElements, &out.ConversionElements},
	}
	for _, p := range parts {
		if len(p.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(p.raw, p.dst); err != nil {
			return nil, fmt.Errorf("decode pattern %s: %w", w.ID, err)
		}
	}
	return out, nil
}
