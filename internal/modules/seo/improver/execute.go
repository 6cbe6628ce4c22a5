package improver

import (
	"context"
	"fmt"

	types "github.com/yungbote/seobrain/internal/domain"
	"github.com/yungbote/seobrain/internal/modules/seo/content"
	"github.com/yungbote/seobrain/internal/modules/seo/pagegen"
	"github.com/yungbote/seobrain/internal/modules/seo/winners"
	"github.com/yungbote/seobrain/internal/platform/dbctx"
)

// Report describes what an executed option changed.
type Report struct {
	OptionID        string   `json:"option_id"`
	Level           string   `json:"level"`
	Sections        []string `json:"sections,omitempty"`
	TitleBefore     string   `json:"title_before,omitempty"`
	TitleAfter      string   `json:"title_after,omitempty"`
	MissingFAQs     int      `json:"missing_faqs"`
	MissingBenefits int      `json:"missing_benefits"`
	Revision        int      `json:"revision"`
}

var levelSections = map[string][]pagegen.Section{
	types.ImprovementLevelModerate: {
		pagegen.SectionIntro, pagegen.SectionBenefits, pagegen.SectionFAQs,
		pagegen.SectionMetadata, pagegen.SectionSchema,
	},
	types.ImprovementLevelAggressive: {
		pagegen.SectionIntro, pagegen.SectionBenefits, pagegen.SectionFAQs,
		pagegen.SectionMetadata, pagegen.SectionSchema, pagegen.SectionHero,
	},
}

// Execute applies opt to the plan's page.
func (s *Service) Execute(ctx context.Context, plan *types.ImprovementPlan, opt types.DecisionOption) (*Report, error) {
	dbc := dbctx.Background(ctx)
	page, err := s.pages.GetByID(dbc, plan.PageID)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, ErrPageNotFound
	}
	campaign, err := s.campaigns.GetByID(dbc, page.CampaignID)
	if err != nil {
		return nil, err
	}
	city, err := s.cities.GetByID(dbc, page.CityID)
	if err != nil {
		return nil, err
	}
	if campaign == nil || city == nil {
		return nil, ErrMissingReference
	}
	var pattern *content.Pattern
	if plan.PatternID != nil {
		w, err := s.patterns.GetByID(dbc, *plan.PatternID)
		if err != nil {
			return nil, err
		}
		if w != nil {
			if pattern, err = winners.Decode(w); err != nil {
				return nil, err
			}
		}
	}

	report := &Report{OptionID: opt.ID, Level: opt.Level, TitleBefore: page.Title, Revision: page.Revision}
	if pattern != nil {
		report.MissingFAQs = max(0, pattern.ContentStructure.FAQCount-len(page.FAQList()))
		report.MissingBenefits = max(0, pattern.ContentStructure.BenefitCount-len(page.BenefitList()))
	}

	if opt.Level == types.ImprovementLevelConservative {
		return s.patchTitle(dbc, page, city, campaign, pattern, report)
	}
	sections, ok := levelSections[opt.Level]
	if !ok {
		return report, fmt.Errorf("unsupported level %q", opt.Level)
	}
	updated, err := s.regen.Regenerate(ctx, pagegen.RegenerateRequest{
		Page:     page,
		Campaign: campaign,
		City:     city,
		Sections: sections,
		Guidance: opt.Action,
	})
	if err != nil {
		return report, err
	}
	for _, sec := range sections {
		report.Sections = append(report.Sections, string(sec))
	}
	report.TitleAfter = updated.Title
	report.Revision = updated.Revision
	report.MissingFAQs = max(0, report.MissingFAQs-(len(updated.FAQList())-len(page.FAQList())))
	report.MissingBenefits = max(0, report.MissingBenefits-(len(updated.BenefitList())-len(page.BenefitList())))
	s.log.Info("improvement executed", "page_id", page.ID, "level", opt.Level, "revision", updated.Revision)
	return report, nil
}

// patchTitle rewrites only the title using the pattern's title format.
func (s *Service) patchTitle(dbc dbctx.Context, page *types.GeneratedCityPage, city *types.CityProfile, campaign *types.ProductCampaign, pattern *content.Pattern, report *Report) (*Report, error) {
	report.TitleAfter = page.Title
	if pattern == nil || pattern.SEOStructure.TitleFormat == "" {
		return report, nil
	}
	title := content.TitleFromFormat(pattern.SEOStructure.TitleFormat, city, campaign)
	if title == "" || title == page.Title {
		return report, nil
	}
	revision := page.Revision + 1
	if err := s.pages.UpdateFields(dbc, page.ID, map[string]interface{}{
		"title":    title,
		"revision": revision,
	}); err != nil {
		return report, err
	}
	report.Sections = []string{"title"}
	report.TitleAfter = title
	report.Revision = revision
	s.log.Info("title patched", "page_id", page.ID, "title", title)
	return report, nil
}
