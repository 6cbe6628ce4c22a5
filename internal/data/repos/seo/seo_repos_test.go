package seo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/seobrain/internal/data/repos/testutil"
	types "github.com/yungbote/seobrain/internal/domain"
	"github.com/yungbote/seobrain/internal/platform/dbctx"
)

func TestCityProfileRepoCreateAndRank(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewCityProfileRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}

	testutil.SeedCity(t, ctx, db, "Austin", "TX", 960000)
	testutil.SeedCity(t, ctx, db, "Denver", "CO", 715000)
	testutil.SeedCity(t, ctx, db, "Miami", "FL", 440000)

	top, err := repo.ListTopByPopulation(dbc, 2)
	if err != nil {
		t.Fatalf("ListTopByPopulation: %v", err)
	}
	if len(top) != 2 || top[0].Slug != "austin-tx" || top[1].Slug != "denver-co" {
		t.Fatalf("unexpected ranking: %+v", top)
	}

	dup := &types.CityProfile{Name: "Austin", State: "Texas", StateCode: "TX", Slug: "austin-tx"}
	if err := repo.Create(dbc, dup); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate slug: want ErrDuplicate got %v", err)
	}

	got, err := repo.GetBySlug(dbc, "miami-fl")
	if err != nil || got == nil || got.Name != "Miami" {
		t.Fatalf("GetBySlug: got=%v err=%v", got, err)
	}
	if missing, err := repo.GetByID(dbc, uuid.New()); err != nil || missing != nil {
		t.Fatalf("GetByID missing: want nil,nil got %v,%v", missing, err)
	}
	if n, err := repo.Count(dbc); err != nil || n != 3 {
		t.Fatalf("Count: want=3 got=%d err=%v", n, err)
	}
}

func TestGeneratedCityPageRepoUpsertKeepsMetrics(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewGeneratedCityPageRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}

	campaign := testutil.SeedCampaign(t, ctx, db)
	city := testutil.SeedCity(t, ctx, db, "Austin", "TX", 960000)
	seeded := testutil.SeedPage(t, ctx, db, campaign, city, types.PageMetrics{Views: 120, Conversions: 4, Revenue: 300})

	updated, err := repo.Upsert(dbc, &types.GeneratedCityPage{
		CampaignID: campaign.ID,
		CityID:     city.ID,
		CitySlug:   city.Slug,
		Slug:       seeded.Slug,
		Title:      "New title",
		State:      types.PageStatePublished,
		Published:  true,
		Revision:   2,
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if updated.ID != seeded.ID {
		t.Fatalf("id changed on upsert: want=%s got=%s", seeded.ID, updated.ID)
	}
	if updated.Title != "New title" || updated.Revision != 2 {
		t.Fatalf("content not updated: title=%q revision=%d", updated.Title, updated.Revision)
	}
	if updated.Views != 120 || updated.Conversions != 4 || updated.Revenue != 300 {
		t.Fatalf("metrics clobbered: %+v", updated.Metrics())
	}
}

func TestGeneratedCityPageRepoRankingAndMetrics(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewGeneratedCityPageRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}

	campaign := testutil.SeedCampaign(t, ctx, db)
	a := testutil.SeedPage(t, ctx, db, campaign, testutil.SeedCity(t, ctx, db, "Austin", "TX", 3), types.PageMetrics{Revenue: 100})
	b := testutil.SeedPage(t, ctx, db, campaign, testutil.SeedCity(t, ctx, db, "Boise", "ID", 2), types.PageMetrics{Revenue: 900})
	c := testutil.SeedPage(t, ctx, db, campaign, testutil.SeedCity(t, ctx, db, "Camden", "NJ", 1), types.PageMetrics{Revenue: 500})

	top, err := repo.ListTopByRevenue(dbc, campaign.ID, 2)
	if err != nil {
		t.Fatalf("ListTopByRevenue: %v", err)
	}
	if len(top) != 2 || top[0].ID != b.ID || top[1].ID != c.ID {
		t.Fatalf("unexpected order")
	}

	if err := repo.IncrementMetrics(dbc, a.ID, types.PageMetrics{Views: 10, Clicks: 2, Conversions: 1, Revenue: 50.5}); err != nil {
		t.Fatalf("IncrementMetrics: %v", err)
	}
	got, err := repo.GetByID(dbc, a.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Views != 10 || got.Clicks != 2 || got.Conversions != 1 || got.Revenue != 150.5 {
		t.Fatalf("metrics: %+v", got.Metrics())
	}

	ids, err := repo.ListPublishedCityIDs(dbc, campaign.ID)
	if err != nil {
		t.Fatalf("ListPublishedCityIDs: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("published city ids: want=3 got=%d", len(ids))
	}
}

func TestWinnerPatternRepoLatest(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewWinnerPatternRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}
	campaignID := uuid.New()

	older := &types.WinnerPattern{CampaignID: campaignID, ProductType: "flyers", PatternName: "old", CreatedAt: time.Now().Add(-time.Hour)}
	newer := &types.WinnerPattern{CampaignID: campaignID, ProductType: "flyers", PatternName: "new", CreatedAt: time.Now()}
	for _, p := range []*types.WinnerPattern{older, newer} {
		if err := repo.Create(dbc, p); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	latest, err := repo.LatestByCampaign(dbc, campaignID)
	if err != nil || latest == nil || latest.PatternName != "new" {
		t.Fatalf("LatestByCampaign: got=%v err=%v", latest, err)
	}
	byType, err := repo.ListByProductType(dbc, "flyers", 0)
	if err != nil || len(byType) != 2 {
		t.Fatalf("ListByProductType: n=%d err=%v", len(byType), err)
	}
}

func TestImprovementPlanRepoTransitions(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewImprovementPlanRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}
	pageID := uuid.New()

	plan := &types.ImprovementPlan{PageID: pageID, CampaignID: uuid.New(), Source: types.PlanSourceFallback}
	if err := repo.Create(dbc, plan); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if plan.Status != types.PlanStatusProposed {
		t.Fatalf("default status: want=%s got=%s", types.PlanStatusProposed, plan.Status)
	}
	open, err := repo.HasOpenForPage(dbc, pageID)
	if err != nil || !open {
		t.Fatalf("HasOpenForPage: want=true got=%v err=%v", open, err)
	}

	won, err := repo.TransitionStatus(dbc, plan.ID, types.PlanStatusProposed, types.PlanStatusSelected, map[string]interface{}{"selected_option": "B"})
	if err != nil || !won {
		t.Fatalf("first transition: won=%v err=%v", won, err)
	}
	won, err = repo.TransitionStatus(dbc, plan.ID, types.PlanStatusProposed, types.PlanStatusSelected, nil)
	if err != nil || won {
		t.Fatalf("second transition should lose: won=%v err=%v", won, err)
	}
	got, err := repo.GetByID(dbc, plan.ID)
	if err != nil || got.SelectedOption != "B" || got.Status != types.PlanStatusSelected {
		t.Fatalf("GetByID: got=%+v err=%v", got, err)
	}
}
