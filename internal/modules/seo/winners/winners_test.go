package winners

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/seobrain/internal/data/repos"
	"github.com/yungbote/seobrain/internal/data/repos/testutil"
	types "github.com/yungbote/seobrain/internal/domain"
	"github.com/yungbote/seobrain/internal/modules/seo/prompts"
	"github.com/yungbote/seobrain/internal/modules/seo/seotest"
	"github.com/yungbote/seobrain/internal/platform/dbctx"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		m    types.PageMetrics
		want float64
	}{
		{"zero", types.PageMetrics{}, 0},
		{"caps", types.PageMetrics{Conversions: 10, Views: 500, Revenue: 1000}, 100},
		{"clamped above caps", types.PageMetrics{Conversions: 50, Views: 9000, Revenue: 1e6}, 100},
		{"half", types.PageMetrics{Conversions: 5, Views: 250, Revenue: 500}, 50},
		{"conversions only", types.PageMetrics{Conversions: 2}, 10},
		{"negative revenue clamps to zero", types.PageMetrics{Revenue: -40}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Score(tc.m); math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("Score: want=%v got=%v", tc.want, got)
			}
		})
	}
}

func TestScoreMonotonic(t *testing.T) {
	base := types.PageMetrics{Views: 100, Conversions: 2, Revenue: 200}
	s := Score(base)
	bumps := []types.PageMetrics{
		{Views: 101, Conversions: 2, Revenue: 200},
		{Views: 100, Conversions: 3, Revenue: 200},
		{Views: 100, Conversions: 2, Revenue: 201},
	}
	for _, b := range bumps {
		if Score(b) < s {
			t.Fatalf("score decreased for %+v", b)
		}
	}
}

func TestConfidence(t *testing.T) {
	for n, want := range map[int]float64{0: 25, 1: 25, 3: 26, 5: 43, 10: 85, 40: 85} {
		if got := Confidence(n); got != want {
			t.Fatalf("Confidence(%d): want=%v got=%v", n, want, got)
		}
	}
}

func TestAnalyzeRecordsProvenance(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	rp := repos.New(db, testutil.Logger(t))
	campaign := testutil.SeedCampaign(t, ctx, db)
	testutil.SeedPage(t, ctx, db, campaign, testutil.SeedCity(t, ctx, db, "Austin", "TX", 3), types.PageMetrics{Views: 400, Conversions: 8, Revenue: 900})
	testutil.SeedPage(t, ctx, db, campaign, testutil.SeedCity(t, ctx, db, "Boise", "ID", 2), types.PageMetrics{Views: 200, Conversions: 3, Revenue: 300})
	testutil.SeedPage(t, ctx, db, campaign, testutil.SeedCity(t, ctx, db, "Camden", "NJ", 1), types.PageMetrics{Views: 50, Revenue: 10})

	text := seotest.NewText()
	a := New(testutil.Logger(t), rp, text)
	got, err := a.Analyze(ctx, campaign.ID, 10)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !got.Found || got.Pattern == nil {
		t.Fatalf("want a pattern, got %+v", got)
	}
	w := got.Pattern
	if w.SampleSize != 3 || len(w.SourceCitySlugList()) != 3 {
		t.Fatalf("provenance: sample=%d slugs=%v", w.SampleSize, w.SourceCitySlugList())
	}
	if w.SourceCitySlugList()[0] != "austin-tx" {
		t.Fatalf("sources must be ordered by revenue: %v", w.SourceCitySlugList())
	}
	if w.Confidence != Confidence(3) || w.MinScore > w.AvgScore {
		t.Fatalf("scores: confidence=%v min=%v avg=%v", w.Confidence, w.MinScore, w.AvgScore)
	}
	req := text.LastRequest(prompts.PromptWinnerPattern)
	if req.Temperature != AnalysisTemperature {
		t.Fatalf("temperature: want=%v got=%v", AnalysisTemperature, req.Temperature)
	}

	latest, err := a.Latest(ctx, campaign.ID)
	if err != nil || latest.ID != w.ID {
		t.Fatalf("Latest: got=%v err=%v", latest, err)
	}
	decoded, err := Decode(latest)
	if err != nil || decoded.SEOStructure.TitleFormat == "" || decoded.ContentStructure.FAQCount != 18 {
		t.Fatalf("Decode: %+v err=%v", decoded, err)
	}
}

func TestAnalyzeWithoutPages(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	rp := repos.New(db, testutil.Logger(t))
	campaign := testutil.SeedCampaign(t, ctx, db)
	text := seotest.NewText()

	got, err := New(testutil.Logger(t), rp, text).Analyze(ctx, campaign.ID, 0)
	if err != nil || got.Found {
		t.Fatalf("want Found=false nil error, got %+v err=%v", got, err)
	}
	if text.CallCount(prompts.PromptWinnerPattern) != 0 {
		t.Fatalf("model must not be called without pages")
	}
	if _, err := New(testutil.Logger(t), rp, text).Latest(ctx, uuid.New()); err != ErrPatternNotFound {
		t.Fatalf("Latest: want ErrPatternNotFound got %v", err)
	}
}

func TestAnalyzeRejectsMalformedPattern(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	rp := repos.New(db, testutil.Logger(t))
	campaign := testutil.SeedCampaign(t, ctx, db)
	testutil.SeedPage(t, ctx, db, campaign, testutil.SeedCity(t, ctx, db, "Austin", "TX", 3), types.PageMetrics{Views: 10})
	text := seotest.NewText()
	text.Replies[prompts.PromptWinnerPattern] = `{"pattern_name":"x","surprise":true}`

	if _, err := New(testutil.Logger(t), rp, text).Analyze(ctx, campaign.ID, 5); err == nil {
		t.Fatalf("want validation error")
	}
	if n, _ := rp.Patterns.ListByCampaign(dbctx.Background(ctx), campaign.ID); len(n) != 0 {
		t.Fatalf("invalid pattern persisted")
	}
}
