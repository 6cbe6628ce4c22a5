package improver

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yungbote/seobrain/internal/data/repos"
	"github.com/yungbote/seobrain/internal/data/repos/testutil"
	types "github.com/yungbote/seobrain/internal/domain"
	"github.com/yungbote/seobrain/internal/modules/seo/content"
	"github.com/yungbote/seobrain/internal/modules/seo/generators"
	"github.com/yungbote/seobrain/internal/modules/seo/pagegen"
	"github.com/yungbote/seobrain/internal/modules/seo/prompts"
	"github.com/yungbote/seobrain/internal/modules/seo/seotest"
	"github.com/yungbote/seobrain/internal/modules/seo/winners"
	"github.com/yungbote/seobrain/internal/platform/dbctx"
)

type fixture struct {
	ctx    context.Context
	repos  repos.Repos
	text   *seotest.Text
	images *seotest.Images
	svc    *Service
	page   *types.GeneratedCityPage
}

func newFixture(t *testing.T, withPattern bool) *fixture {
	t.Helper()
	db := testutil.DB(t)
	ctx := context.Background()
	rp := repos.New(db, testutil.Logger(t))
	campaign := testutil.SeedCampaign(t, ctx, db)
	city := testutil.SeedCity(t, ctx, db, "Austin", "TX", 960000)
	page := testutil.SeedPage(t, ctx, db, campaign, city, types.PageMetrics{Views: 20, Conversions: 0, Revenue: 0})

	text := seotest.NewText()
	images := &seotest.Images{}
	if withPattern {
		if _, err := winners.New(testutil.Logger(t), rp, text).Analyze(ctx, campaign.ID, 10); err != nil {
			t.Fatalf("seed pattern: %v", err)
		}
	}
	gen := pagegen.New(testutil.Logger(t), rp.Pages, text, images, nil, nil, pagegen.Config{})
	return &fixture{
		ctx:    ctx,
		repos:  rp,
		text:   text,
		images: images,
		svc:    New(testutil.Logger(t), rp, text, gen),
		page:   page,
	}
}

func TestFallbackOptionsAreValid(t *testing.T) {
	if err := content.CheckOptions(FallbackOptions()); err != nil {
		t.Fatalf("fallback ladder invalid: %v", err)
	}
}

func TestProposeUsesModelOptions(t *testing.T) {
	f := newFixture(t, true)
	plan, err := f.svc.Propose(f.ctx, f.page.ID, nil)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if plan.Source != types.PlanSourceLLM || plan.Status != types.PlanStatusProposed || plan.PatternID == nil {
		t.Fatalf("plan: %+v", plan)
	}
	if got := len(plan.OptionList()); got != 3 {
		t.Fatalf("options: want=3 got=%d", got)
	}
	if req := f.text.LastRequest(prompts.PromptImprovementOptions); req.Temperature != ProposalTemperature {
		t.Fatalf("temperature: got=%v", req.Temperature)
	}
}

func TestProposeFallsBackWhenModelFails(t *testing.T) {
	f := newFixture(t, true)
	f.text.FailWhen = func(req generators.TextRequest) bool {
		return req.Prompt.Name == prompts.PromptImprovementOptions
	}
	plan, err := f.svc.Propose(f.ctx, f.page.ID, nil)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if plan.Source != types.PlanSourceFallback {
		t.Fatalf("source: want=%q got=%q", types.PlanSourceFallback, plan.Source)
	}
	opts := plan.OptionList()
	if diff := cmp.Diff(FallbackOptions(), opts); diff != "" {
		t.Fatalf("fallback options mismatch (-want +got):\n%s", diff)
	}
	for _, o := range opts {
		if len(o.Pros) == 0 || len(o.Cons) == 0 {
			t.Fatalf("option %s has empty pros/cons", o.ID)
		}
	}
}

func TestProposeFallsBackOnMalformedOptions(t *testing.T) {
	f := newFixture(t, true)
	f.text.Replies[prompts.PromptImprovementOptions] = `{"options":[{"id":"A"}]}`
	plan, err := f.svc.Propose(f.ctx, f.page.ID, nil)
	if err != nil || plan.Source != types.PlanSourceFallback || len(plan.OptionList()) != 3 {
		t.Fatalf("want fallback plan, got %+v err=%v", plan, err)
	}
}

func TestProposeRequiresPattern(t *testing.T) {
	f := newFixture(t, false)
	if _, err := f.svc.Propose(f.ctx, f.page.ID, nil); !errors.Is(err, winners.ErrPatternNotFound) {
		t.Fatalf("want ErrPatternNotFound got %v", err)
	}
}

func TestSelectConservativePatchesTitleOnly(t *testing.T) {
	f := newFixture(t, true)
	plan, err := f.svc.Propose(f.ctx, f.page.ID, nil)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	out, report, err := f.svc.Select(f.ctx, plan.ID, "A")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if out.Status != types.PlanStatusExecuted || out.SelectedOption != "A" {
		t.Fatalf("plan after select: %+v", out)
	}
	if report.TitleAfter != "Business Cards in Austin, TX | 500 from $49.99" {
		t.Fatalf("title: got=%q", report.TitleAfter)
	}
	if report.MissingFAQs != 17 || report.MissingBenefits != 11 {
		t.Fatalf("missing counts: faqs=%d benefits=%d", report.MissingFAQs, report.MissingBenefits)
	}
	page, _ := f.repos.Pages.GetByID(dbctx.Background(f.ctx), f.page.ID)
	if page.Title != report.TitleAfter || page.Introduction != f.page.Introduction || page.Revision != 2 {
		t.Fatalf("conservative must only touch the title: %+v", page)
	}
	if f.text.CallCount(prompts.PromptIntroduction) != 0 {
		t.Fatalf("conservative must not call the model for content")
	}

	if _, _, err := f.svc.Select(f.ctx, plan.ID, "B"); !errors.Is(err, ErrPlanNotProposed) {
		t.Fatalf("second decision: want ErrPlanNotProposed got %v", err)
	}
}

func TestSelectModerateAndAggressive(t *testing.T) {
	tests := []struct {
		option   string
		wantHero bool
	}{
		{"B", false},
		{"C", true},
	}
	for _, tc := range tests {
		t.Run(tc.option, func(t *testing.T) {
			f := newFixture(t, true)
			plan, err := f.svc.Propose(f.ctx, f.page.ID, nil)
			if err != nil {
				t.Fatalf("Propose: %v", err)
			}
			_, report, err := f.svc.Select(f.ctx, plan.ID, tc.option)
			if err != nil {
				t.Fatalf("Select: %v", err)
			}
			if f.text.CallCount(prompts.PromptIntroduction) != 1 || f.text.CallCount(prompts.PromptFAQs) != 1 {
				t.Fatalf("content not regenerated")
			}
			if (f.images.Count() > 0) != tc.wantHero {
				t.Fatalf("hero regenerated=%v want=%v", f.images.Count() > 0, tc.wantHero)
			}
			if report.Revision != 2 || report.MissingFAQs != 3 || report.MissingBenefits != 2 {
				t.Fatalf("report: %+v", report)
			}
			if g := f.text.LastRequest(prompts.PromptIntroduction).Variant; g != "rev-2" {
				t.Fatalf("variant: got=%q", g)
			}
		})
	}
}

func TestSelectUnknownOption(t *testing.T) {
	f := newFixture(t, true)
	plan, err := f.svc.Propose(f.ctx, f.page.ID, nil)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if _, _, err := f.svc.Select(f.ctx, plan.ID, "D"); !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("want ErrUnknownOption got %v", err)
	}
	if open, _ := f.svc.HasOpenPlan(f.ctx, f.page.ID); !open {
		t.Fatalf("plan must stay open after a rejected decision")
	}
}

func TestListUnderperformers(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	rp := repos.New(db, testutil.Logger(t))
	campaign := testutil.SeedCampaign(t, ctx, db)
	testutil.SeedPage(t, ctx, db, campaign, testutil.SeedCity(t, ctx, db, "Austin", "TX", 3), types.PageMetrics{Views: 500, Conversions: 10, Revenue: 1000})
	mid := testutil.SeedPage(t, ctx, db, campaign, testutil.SeedCity(t, ctx, db, "Boise", "ID", 2), types.PageMetrics{Views: 100, Conversions: 2})
	low := testutil.SeedPage(t, ctx, db, campaign, testutil.SeedCity(t, ctx, db, "Camden", "NJ", 1), types.PageMetrics{})

	svc := New(testutil.Logger(t), rp, seotest.NewText(), nil)
	got, err := svc.ListUnderperformers(ctx, campaign.ID, 30)
	if err != nil {
		t.Fatalf("ListUnderperformers: %v", err)
	}
	if len(got) != 2 || got[0].ID != low.ID || got[1].ID != mid.ID {
		t.Fatalf("unexpected underperformers: %d", len(got))
	}
}
