package pagegen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/datatypes"

	types "github.com/yungbote/seobrain/internal/domain"
	"github.com/yungbote/seobrain/internal/modules/seo/content"
	"github.com/yungbote/seobrain/internal/modules/seo/prompts"
	"github.com/yungbote/seobrain/internal/observability"
	"github.com/yungbote/seobrain/internal/platform/dbctx"
)

type Section string

const (
	SectionIntro    Section = "intro"
	SectionBenefits Section = "benefits"
	SectionFAQs     Section = "faqs"
	SectionHero     Section = "hero"
	SectionMetadata Section = "metadata"
	SectionSchema   Section = "schema"
)

var ErrNothingToRegenerate = errors.New("no sections to regenerate")

type RegenerateRequest struct {
	Page     *types.GeneratedCityPage
	Campaign *types.ProductCampaign
	City     *types.CityProfile
	Sections []Section
	// Guidance is passed to the content and hero prompts.
	Guidance string
}

// Regenerate reruns the requested sections of an existing page and bumps its
// revision. Sections not requested keep their stored values.
func (s *Service) Regenerate(ctx context.Context, req RegenerateRequest) (*types.GeneratedCityPage, error) {
	page, city, campaign := req.Page, req.City, req.Campaign
	if page == nil || city == nil || campaign == nil {
		return nil, errors.New("regenerate: page, city and campaign required")
	}
	want := map[Section]bool{}
	for _, sec := range req.Sections {
		want[sec] = true
	}
	if len(want) == 0 {
		return nil, ErrNothingToRegenerate
	}

	ctx, span := observability.StartSpan(ctx, "pagegen.Regenerate",
		attribute.String("page.id", page.ID.String()),
		attribute.Int("page.revision", page.Revision+1),
	)
	var err error
	defer func() { observability.EndSpan(span, err) }()

	revision := page.Revision + 1
	variant := fmt.Sprintf("rev-%d", revision)
	var popts []prompts.Option
	if req.Guidance != "" {
		popts = append(popts, prompts.WithGuidance(req.Guidance))
	}
	updates := map[string]interface{}{}

	faqs := page.FAQList()
	heroURL := page.HeroImageURL

	if want[SectionIntro] {
		var p prompts.Prompt
		if p, err = prompts.Introduction(city, campaign, popts...); err != nil {
			return nil, err
		}
		var intro string
		if intro, err = s.introduction(ctx, p, variant); err != nil {
			return nil, fmt.Errorf("regenerate intro: %w", err)
		}
		updates["introduction"] = intro
	}
	if want[SectionBenefits] {
		var p prompts.Prompt
		if p, err = prompts.Benefits(city, campaign, popts...); err != nil {
			return nil, err
		}
		var benefits []types.Benefit
		if benefits, err = s.benefits(ctx, p, variant); err != nil {
			return nil, fmt.Errorf("regenerate benefits: %w", err)
		}
		updates["benefits"] = types.MustJSON(benefits)
	}
	if want[SectionFAQs] {
		var p prompts.Prompt
		if p, err = prompts.FAQs(city, campaign, popts...); err != nil {
			return nil, err
		}
		if faqs, err = s.faqs(ctx, p, variant); err != nil {
			return nil, fmt.Errorf("regenerate faqs: %w", err)
		}
		updates["faqs"] = types.MustJSON(faqs)
	}
	if want[SectionHero] {
		if heroURL, err = s.generateHero(ctx, city, campaign, variant, req.Guidance); err != nil {
			return nil, fmt.Errorf("regenerate hero: %w", err)
		}
		updates["hero_image_url"] = heroURL
	}

	meta := content.Metadata{
		Title:           page.Title,
		MetaDescription: page.MetaDescription,
		H1:              page.H1,
		Keywords:        page.KeywordList(),
	}
	if want[SectionMetadata] {
		meta = content.BuildMetadata(city, campaign)
		updates["title"] = meta.Title
		updates["meta_description"] = meta.MetaDescription
		updates["h1"] = meta.H1
		updates["keywords"] = types.JSONList(meta.Keywords)
		if card := s.renderSocialCard(ctx, city, campaign, meta, page.Slug, revision); card != "" {
			updates["social_card_url"] = card
		}
	}
	// The graph embeds FAQs, hero image and metadata, so it follows any of them.
	if want[SectionSchema] || want[SectionFAQs] || want[SectionHero] || want[SectionMetadata] {
		var schema json.RawMessage
		if schema, err = s.buildSchema(city, campaign, meta, faqs, heroURL, page.MainImageURL, page.Slug); err != nil {
			return nil, fmt.Errorf("regenerate schema: %w", err)
		}
		updates["schema_markup"] = datatypes.JSON(schema)
	}

	updates["revision"] = revision
	updates["last_error"] = ""
	dbc := dbctx.Background(ctx)
	if err = s.pages.UpdateFields(dbc, page.ID, updates); err != nil {
		return nil, fmt.Errorf("persist regeneration: %w", err)
	}
	var out *types.GeneratedCityPage
	if out, err = s.pages.GetByID(dbc, page.ID); err != nil {
		return nil, err
	}
	s.log.Info("page regenerated", "page_id", page.ID, "revision", revision, "sections", req.Sections)
	return out, nil
}

// ParseSections maps names like "intro,faqs" onto sections.
func ParseSections(names []string) ([]Section, error) {
	known := map[Section]bool{
		SectionIntro: true, SectionBenefits: true, SectionFAQs: true,
		SectionHero: true, SectionMetadata: true, SectionSchema: true,
	}
	out := make([]Section, 0, len(names))
	for _, n := range names {
		sec := Section(n)
		if !known[sec] {
			return nil, fmt.Errorf("unknown section %q", n)
		}
		out = append(out, sec)
	}
	return out, nil
}
