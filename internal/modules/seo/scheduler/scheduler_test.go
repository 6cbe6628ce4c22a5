package scheduler

import (
	"context"
	"testing"

	"github.com/yungbote/seobrain/internal/data/repos"
	"github.com/yungbote/seobrain/internal/data/repos/testutil"
	types "github.com/yungbote/seobrain/internal/domain"
	"github.com/yungbote/seobrain/internal/modules/seo/improver"
	"github.com/yungbote/seobrain/internal/modules/seo/seotest"
	"github.com/yungbote/seobrain/internal/modules/seo/winners"
	"github.com/yungbote/seobrain/internal/platform/dbctx"
)

func TestRunOnceProposesForLosersOnly(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	rp := repos.New(db, testutil.Logger(t))

	active := testutil.SeedCampaign(t, ctx, db)
	if err := rp.Campaigns.UpdateFields(dbctx.Background(ctx), active.ID, map[string]interface{}{"status": types.CampaignStatusOptimizing}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	idle := testutil.SeedCampaign(t, ctx, db)

	winner := testutil.SeedPage(t, ctx, db, active, testutil.SeedCity(t, ctx, db, "Austin", "TX", 3), types.PageMetrics{Views: 600, Conversions: 12, Revenue: 1500})
	loser := testutil.SeedPage(t, ctx, db, active, testutil.SeedCity(t, ctx, db, "Boise", "ID", 2), types.PageMetrics{Views: 10})
	idlePage := testutil.SeedPage(t, ctx, db, idle, testutil.SeedCity(t, ctx, db, "Camden", "NJ", 1), types.PageMetrics{})

	text := seotest.NewText()
	imp := improver.New(testutil.Logger(t), rp, text, nil)
	s := New(testutil.Logger(t), rp.Campaigns, winners.New(testutil.Logger(t), rp, text), imp, Config{})

	sum, err := s.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if sum.Campaigns != 1 || sum.Patterns != 1 || sum.Proposed != 1 || sum.Errors != 0 {
		t.Fatalf("summary: %+v", sum)
	}
	for page, want := range map[*types.GeneratedCityPage]bool{winner: false, loser: true, idlePage: false} {
		open, err := imp.HasOpenPlan(ctx, page.ID)
		if err != nil || open != want {
			t.Fatalf("page %s open plan: want=%v got=%v err=%v", page.Slug, want, open, err)
		}
	}

	again, err := s.RunOnce(ctx)
	if err != nil {
		t.Fatalf("second RunOnce: %v", err)
	}
	if again.Proposed != 0 || again.Skipped != 1 {
		t.Fatalf("open plans must not be re-proposed: %+v", again)
	}
	plans, _ := rp.Plans.ListByPage(dbctx.Background(ctx), loser.ID)
	if len(plans) != 1 || plans[0].Status != types.PlanStatusProposed {
		t.Fatalf("plans must stay proposed: %d", len(plans))
	}
}

func TestStartRejectsBadSpec(t *testing.T) {
	s := New(testutil.Logger(t), nil, nil, nil, Config{Spec: "not a schedule"})
	if err := s.Start(context.Background()); err == nil {
		s.Stop()
		t.Fatalf("want error for invalid spec")
	}
}

func TestStartStop(t *testing.T) {
	s := New(testutil.Logger(t), nil, nil, nil, Config{Spec: "@every 1h"})
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Start(context.Background()); err == nil {
		t.Fatalf("second Start must fail")
	}
	s.Stop()
	s.Stop()
}
