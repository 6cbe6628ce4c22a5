package winners

import (
	"math"

	types "github.com/yungbote/seobrain/internal/domain"
	"github.com/yungbote/seobrain/internal/modules/seo/content"
)

const (
	conversionsCap = 10
	viewsCap       = 500
	revenueCap     = 1000

	conversionsWeight = 0.5
	viewsWeight       = 0.3
	revenueWeight     = 0.2
)

// SummaryIntroChars bounds the introduction excerpt sent to the model.
const SummaryIntroChars = 300

func norm(x, limit float64) float64 {
	return math.Max(0, math.Min(100, 100*x/limit))
}

// Score rates a page 0..100 from its engagement counters. It is
// non-decreasing in conversions, views and revenue.
func Score(m types.PageMetrics) float64 {
	return conversionsWeight*norm(float64(m.Conversions), conversionsCap) +
		viewsWeight*norm(float64(m.Views), viewsCap) +
		revenueWeight*norm(m.Revenue, revenueCap)
}

// Confidence grows linearly with the sample until ten pages, capped at 85.
func Confidence(sampleSize int) float64 {
	if sampleSize >= 10 {
		return 85
	}
	return math.Max(25, math.Round(85*float64(sampleSize)/10))
}

type PageSummary struct {
	Slug          string  `json:"slug"`
	Score         float64 `json:"score"`
	Views         int64   `json:"views"`
	Conversions   int64   `json:"conversions"`
	Revenue       float64 `json:"revenue"`
	Title         string  `json:"title"`
	Introduction  string  `json:"introduction"`
	BenefitsCount int     `json:"benefits_count"`
	FAQCount      int     `json:"faq_count"`
}

func Summarize(p *types.GeneratedCityPage) PageSummary {
	m := p.Metrics()
	return PageSummary{
		Slug:          p.Slug,
		Score:         math.Round(Score(m)*100) / 100,
		Views:         m.Views,
		Conversions:   m.Conversions,
		Revenue:       m.Revenue,
		Title:         p.Title,
		Introduction:  content.Truncate(p.Introduction, SummaryIntroChars),
		BenefitsCount: len(p.BenefitList()),
		FAQCount:      len(p.FAQList()),
	}
}
