package testutil

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/seobrain/internal/domain"
)

func SeedCity(tb testing.TB, ctx context.Context, tx *gorm.DB, name, stateCode string, population int) *types.CityProfile {
	tb.Helper()
	slug := strings.ToLower(strings.ReplaceAll(name, " ", "-")) + "-" + strings.ToLower(stateCode)
	c := &types.CityProfile{
		ID:            uuid.New(),
		Name:          name,
		State:         stateCode,
		StateCode:     stateCode,
		Slug:          slug,
		Population:    population,
		Industries:    types.JSONList([]string{"technology", "healthcare"}),
		Neighborhoods: types.JSONList([]string{"Downtown", "Riverside", "Old Town"}),
		Venues:        types.JSONList([]string{"Convention Center", "City Arena"}),
		FamousFor:     types.JSONList([]string{"live music"}),
		ZipCodes:      types.JSONList([]string{"00001"}),
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed city: %v", err)
	}
	return c
}

func SeedCampaign(tb testing.TB, ctx context.Context, tx *gorm.DB) *types.ProductCampaign {
	tb.Helper()
	c := &types.ProductCampaign{
		ID:          uuid.New(),
		ProductName: "Business Cards",
		ProductType: "business_cards",
		Slug:        "business-cards",
		Quantity:    500,
		Size:        "3.5x2",
		Material:    "16pt matte",
		Turnaround:  "next-day",
		Price:       49.99,
		OnlineOnly:  true,
		Keywords:    types.JSONList([]string{"business cards", "custom business cards"}),
		Industries:  types.JSONList([]string{"real estate"}),
		Status:      types.CampaignStatusQueued,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed campaign: %v", err)
	}
	return c
}

func SeedPage(tb testing.TB, ctx context.Context, tx *gorm.DB, campaign *types.ProductCampaign, city *types.CityProfile, m types.PageMetrics) *types.GeneratedCityPage {
	tb.Helper()
	p := &types.GeneratedCityPage{
		ID:           uuid.New(),
		CampaignID:   campaign.ID,
		CityID:       city.ID,
		CitySlug:     city.Slug,
		Slug:         campaign.Slug + "-" + city.Slug,
		Title:        campaign.ProductName + " in " + city.DisplayName(),
		H1:           campaign.ProductName + " in " + city.Name,
		Introduction: "Intro for " + city.Name,
		Keywords:     types.JSONList([]string{"business cards " + strings.ToLower(city.Name)}),
		Benefits:     types.MustJSON([]types.Benefit{{Title: "Fast", Description: "Next-day"}}),
		FAQs:         types.MustJSON([]types.FAQ{{Question: "How fast?", Answer: "Next day."}}),
		State:        types.PageStatePublished,
		Published:    true,
		Revision:     1,
		Views:        m.Views,
		Clicks:       m.Clicks,
		Conversions:  m.Conversions,
		Revenue:      m.Revenue,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed page: %v", err)
	}
	return p
}
