package domain

import "github.com/yungbote/seobrain/internal/domain/seo"

type CityProfile = seo.CityProfile
type ProductCampaign = seo.ProductCampaign
type GeneratedCityPage = seo.GeneratedCityPage
type WinnerPattern = seo.WinnerPattern
type ImprovementPlan = seo.ImprovementPlan

type Benefit = seo.Benefit
type FAQ = seo.FAQ
type PageMetrics = seo.PageMetrics
type DecisionOption = seo.DecisionOption
type ImpactRange = seo.ImpactRange

const (
	CampaignStatusQueued     = seo.CampaignStatusQueued
	CampaignStatusGenerating = seo.CampaignStatusGenerating
	CampaignStatusOptimizing = seo.CampaignStatusOptimizing
	CampaignStatusPartial    = seo.CampaignStatusPartial
	CampaignStatusFailed     = seo.CampaignStatusFailed
	CampaignStatusArchived   = seo.CampaignStatusArchived

	PageStatePending          = seo.PageStatePending
	PageStateContentGenerated = seo.PageStateContentGenerated
	PageStateImageGenerated   = seo.PageStateImageGenerated
	PageStateMetadataBuilt    = seo.PageStateMetadataBuilt
	PageStatePublished        = seo.PageStatePublished
	PageStateReview           = seo.PageStateReview
	PageStateFailed           = seo.PageStateFailed

	ImprovementLevelConservative = seo.ImprovementLevelConservative
	ImprovementLevelModerate     = seo.ImprovementLevelModerate
	ImprovementLevelAggressive   = seo.ImprovementLevelAggressive

	PlanStatusProposed = seo.PlanStatusProposed
	PlanStatusSelected = seo.PlanStatusSelected
	PlanStatusExecuted = seo.PlanStatusExecuted
	PlanStatusFailed   = seo.PlanStatusFailed

	PlanSourceLLM      = seo.PlanSourceLLM
	PlanSourceFallback = seo.PlanSourceFallback
)

var (
	StringList = seo.StringList
	JSONList   = seo.JSONList
	MustJSON   = seo.MustJSON
)

// Models lists every persisted type in migration order.
func Models() []any {
	return []any{
		&CityProfile{},
		&ProductCampaign{},
		&GeneratedCityPage{},
		&WinnerPattern{},
		&ImprovementPlan{},
	}
}
