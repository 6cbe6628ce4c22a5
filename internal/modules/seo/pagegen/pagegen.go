// Package pagegen builds one localized landing page per (campaign, city).
package pagegen

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/yungbote/seobrain/internal/data/repos"
	types "github.com/yungbote/seobrain/internal/domain"
	"github.com/yungbote/seobrain/internal/imaging"
	"github.com/yungbote/seobrain/internal/modules/seo/content"
	"github.com/yungbote/seobrain/internal/modules/seo/generators"
	"github.com/yungbote/seobrain/internal/modules/seo/prompts"
	"github.com/yungbote/seobrain/internal/observability"
	"github.com/yungbote/seobrain/internal/platform/dbctx"
	"github.com/yungbote/seobrain/internal/platform/gcp"
	"github.com/yungbote/seobrain/internal/platform/imagegen"
	"github.com/yungbote/seobrain/internal/platform/logger"
)

const (
	DefaultContentTemperature = 0.7
	DefaultIntroMaxTokens     = 1200
	DefaultListMaxTokens      = 2500
)

type Config struct {
	// RequireReview stores finished pages in the review state, unpublished.
	RequireReview bool
	SiteBaseURL   string
	BusinessName  string
	Currency      string
	SocialCards   bool
	Temperature   float64
}

// Input is one page to build. MainImageURL is shared across the campaign.
type Input struct {
	Campaign     *types.ProductCampaign
	City         *types.CityProfile
	MainImageURL string
}

// Result is recorded for every city, successful or not.
type Result struct {
	Page  *types.GeneratedCityPage
	State string
	Err   error
}

type Service struct {
	log    *logger.Logger
	pages  repos.GeneratedCityPageRepo
	text   generators.TextGenerator
	images generators.ImageGenerator
	// cards is optional; without it no social card is rendered.
	cards  imagegen.Bucket
	styles *prompts.StyleTable
	cfg    Config
	now    func() time.Time
}

func New(
	baseLog *logger.Logger,
	pages repos.GeneratedCityPageRepo,
	text generators.TextGenerator,
	images generators.ImageGenerator,
	cards imagegen.Bucket,
	styles *prompts.StyleTable,
	cfg Config,
) *Service {
	if styles == nil {
		styles = prompts.DefaultStyles()
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = DefaultContentTemperature
	}
	cfg.SiteBaseURL = strings.TrimRight(strings.TrimSpace(cfg.SiteBaseURL), "/")
	return &Service{
		log:    baseLog.With("service", "CityPageGenerator"),
		pages:  pages,
		text:   text,
		images: images,
		cards:  cards,
		styles: styles,
		cfg:    cfg,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// generated holds the outputs of the content and image steps.
type generated struct {
	intro    string
	benefits []types.Benefit
	faqs     []types.FAQ
	heroURL  string
}

// Generate runs pending → content_generated → image_generated →
// metadata_built → published (or review). Any step failure ends in failed and
// the failure is recorded on the row unless a published page already exists.
func (s *Service) Generate(ctx context.Context, in Input) (res *Result) {
	city, campaign := in.City, in.Campaign
	ctx, span := observability.StartSpan(ctx, "pagegen.Generate",
		attribute.String("campaign.id", campaign.ID.String()),
		attribute.String("city.slug", city.Slug),
	)
	res = &Result{State: types.PageStatePending}
	defer func() {
		span.SetAttributes(attribute.String("page.state", res.State))
		observability.EndSpan(span, res.Err)
	}()

	log := s.log.With("campaign_id", campaign.ID, "city", city.Slug)
	fail := func(step string, err error) *Result {
		res.Err = fmt.Errorf("%s: %w", step, err)
		log.Warn("page generation failed", "step", step, "after_state", res.State, "error", err)
		s.recordFailure(ctx, in, res.Err)
		res.State = types.PageStateFailed
		return res
	}

	var g generated
	var err error
	if g.intro, g.benefits, g.faqs, err = s.generateContent(ctx, city, campaign, "", nil); err != nil {
		return fail("content", err)
	}
	res.State = types.PageStateContentGenerated

	if g.heroURL, err = s.generateHero(ctx, city, campaign, "", ""); err != nil {
		return fail("hero_image", err)
	}
	res.State = types.PageStateImageGenerated

	slug := content.PageSlug(campaign, city)
	meta := content.BuildMetadata(city, campaign)
	schema, err := s.buildSchema(city, campaign, meta, g.faqs, g.heroURL, in.MainImageURL, slug)
	if err != nil {
		return fail("schema", err)
	}
	res.State = types.PageStateMetadataBuilt

	page := &types.GeneratedCityPage{
		CampaignID:      campaign.ID,
		CityID:          city.ID,
		CitySlug:        city.Slug,
		Slug:            slug,
		Title:           meta.Title,
		MetaDescription: meta.MetaDescription,
		H1:              meta.H1,
		Keywords:        types.JSONList(meta.Keywords),
		Introduction:    g.intro,
		Benefits:        types.MustJSON(g.benefits),
		FAQs:            types.MustJSON(g.faqs),
		SchemaMarkup:    datatypes.JSON(schema),
		HeroImageURL:    g.heroURL,
		MainImageURL:    in.MainImageURL,
		SocialCardURL:   s.renderSocialCard(ctx, city, campaign, meta, slug, 1),
		Revision:        1,
	}
	if s.cfg.RequireReview {
		page.State = types.PageStateReview
	} else {
		now := s.now()
		page.State = types.PageStatePublished
		page.Published = true
		page.PublishedAt = &now
	}

	stored, err := s.pages.Upsert(dbctx.Background(ctx), page)
	if err != nil {
		return fail("persist", err)
	}
	res.Page = stored
	res.State = page.State
	log.Info("page generated", "page_id", stored.ID, "state", page.State, "slug", slug)
	return res
}

// generateContent runs the intro, benefits and FAQ prompts concurrently.
func (s *Service) generateContent(ctx context.Context, city *types.CityProfile, campaign *types.ProductCampaign, variant string, popts []prompts.Option) (string, []types.Benefit, []types.FAQ, error) {
	introP, err := prompts.Introduction(city, campaign, popts...)
	if err != nil {
		return "", nil, nil, err
	}
	benefitsP, err := prompts.Benefits(city, campaign, popts...)
	if err != nil {
		return "", nil, nil, err
	}
	faqsP, err := prompts.FAQs(city, campaign, popts...)
	if err != nil {
		return "", nil, nil, err
	}

	var (
		intro    string
		benefits []types.Benefit
		faqs     []types.FAQ
	)
	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		intro, err = s.introduction(gctx, introP, variant)
		return err
	})
	eg.Go(func() error {
		var err error
		benefits, err = s.benefits(gctx, benefitsP, variant)
		return err
	})
	eg.Go(func() error {
		var err error
		faqs, err = s.faqs(gctx, faqsP, variant)
		return err
	})
	if err := eg.Wait(); err != nil {
		return "", nil, nil, err
	}
	return intro, benefits, faqs, nil
}

func (s *Service) introduction(ctx context.Context, p prompts.Prompt, variant string) (string, error) {
	raw, err := s.text.GenerateText(ctx, generators.TextRequest{
		Prompt:      p,
		Temperature: s.cfg.Temperature,
		MaxTokens:   DefaultIntroMaxTokens,
		Variant:     variant,
		Validate:    func(out string) error { _, err := content.ParseIntroduction(out); return err },
	})
	if err != nil {
		return "", err
	}
	return content.ParseIntroduction(raw)
}

func (s *Service) benefits(ctx context.Context, p prompts.Prompt, variant string) ([]types.Benefit, error) {
	raw, err := s.text.GenerateText(ctx, generators.TextRequest{
		Prompt:      p,
		Temperature: s.cfg.Temperature,
		MaxTokens:   DefaultListMaxTokens,
		Variant:     variant,
		Validate:    func(out string) error { _, err := content.ParseBenefits(out); return err },
	})
	if err != nil {
		return nil, err
	}
	return content.ParseBenefits(raw)
}

func (s *Service) faqs(ctx context.Context, p prompts.Prompt, variant string) ([]types.FAQ, error) {
	raw, err := s.text.GenerateText(ctx, generators.TextRequest{
		Prompt:      p,
		Temperature: s.cfg.Temperature,
		MaxTokens:   DefaultListMaxTokens,
		Variant:     variant,
		Validate:    func(out string) error { _, err := content.ParseFAQs(out); return err },
	})
	if err != nil {
		return nil, err
	}
	return content.ParseFAQs(raw)
}

func (s *Service) generateHero(ctx context.Context, city *types.CityProfile, campaign *types.ProductCampaign, variant, guidance string) (string, error) {
	var popts []prompts.Option
	if guidance != "" {
		popts = append(popts, prompts.WithGuidance(guidance))
	}
	p, err := prompts.HeroImage(city, campaign, s.styles, popts...)
	if err != nil {
		return "", err
	}
	return s.images.GenerateImage(ctx, generators.ImageRequest{
		Prompt:      p,
		AspectRatio: prompts.AspectHero,
		Name:        "hero/" + content.PageSlug(campaign, city),
		Variant:     variant,
	})
}

func (s *Service) pageURL(slug string) string {
	if s.cfg.SiteBaseURL == "" {
		return ""
	}
	return s.cfg.SiteBaseURL + "/" + slug
}

func (s *Service) buildSchema(city *types.CityProfile, campaign *types.ProductCampaign, meta content.Metadata, faqs []types.FAQ, heroURL, mainURL, slug string) ([]byte, error) {
	return content.BuildSchema(content.SchemaInput{
		City:         city,
		Campaign:     campaign,
		Metadata:     meta,
		FAQs:         faqs,
		HeroImageURL: heroURL,
		MainImageURL: mainURL,
		PageURL:      s.pageURL(slug),
		BusinessName: s.cfg.BusinessName,
		Currency:     s.cfg.Currency,
	})
}

// renderSocialCard returns the card URL, or "" when rendering or upload fails.
func (s *Service) renderSocialCard(ctx context.Context, city *types.CityProfile, campaign *types.ProductCampaign, meta content.Metadata, slug string, revision int) string {
	if !s.cfg.SocialCards || s.cards == nil {
		return ""
	}
	png, err := imaging.RenderSocialCard(imaging.SocialCard{
		Title:    meta.H1,
		Subtitle: fmt.Sprintf("%d %s from %s", campaign.Quantity, strings.ToLower(campaign.ProductName), prompts.FormatPrice(campaign.Price)),
		Footer:   s.cfg.BusinessName,
	})
	if err != nil {
		s.log.Warn("social card render failed", "city", city.Slug, "error", err)
		return ""
	}
	key := fmt.Sprintf("cards/%s-r%d.png", slug, revision)
	if err := s.cards.UploadFile(dbctx.Background(ctx), gcp.BucketCategorySocialCard, key, bytes.NewReader(png)); err != nil {
		s.log.Warn("social card upload failed", "city", city.Slug, "error", err)
		return ""
	}
	return s.cards.GetPublicURL(gcp.BucketCategorySocialCard, key)
}

func (s *Service) recordFailure(ctx context.Context, in Input, cause error) {
	// A cancelled parent context must not block recording the failure.
	dbc := dbctx.Background(context.WithoutCancel(ctx))
	existing, err := s.pages.GetByCampaignAndCity(dbc, in.Campaign.ID, in.City.ID)
	if err != nil {
		s.log.Warn("lookup before failure record failed", "city", in.City.Slug, "error", err)
		return
	}
	if existing != nil && (existing.Published || existing.State == types.PageStateReview) {
		return
	}
	page := &types.GeneratedCityPage{
		CampaignID:   in.Campaign.ID,
		CityID:       in.City.ID,
		CitySlug:     in.City.Slug,
		Slug:         content.PageSlug(in.Campaign, in.City),
		MainImageURL: in.MainImageURL,
		State:        types.PageStateFailed,
		LastError:    truncateErr(cause),
		Revision:     1,
	}
	if _, err := s.pages.Upsert(dbc, page); err != nil {
		s.log.Warn("failure record failed", "city", in.City.Slug, "error", err)
	}
}

const maxErrorBytes = 1000

// truncateErr cuts on a rune boundary so the stored text stays valid UTF-8.
func truncateErr(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if len(msg) <= maxErrorBytes {
		return msg
	}
	cut := maxErrorBytes
	for cut > 0 && !utf8.RuneStart(msg[cut]) {
		cut--
	}
	return msg[:cut]
}
