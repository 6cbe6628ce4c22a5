package seo

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Page generation states. Failed is reachable from every other state.
const (
	PageStatePending          = "pending"
	PageStateContentGenerated = "content_generated"
	PageStateImageGenerated   = "image_generated"
	PageStateMetadataBuilt    = "metadata_built"
	PageStatePublished        = "published"
	PageStateReview           = "review"
	PageStateFailed           = "failed"
)

type Benefit struct {
	Title       string `json:"title" validate:"required,max=120"`
	Description string `json:"description" validate:"required"`
}

type FAQ struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

type GeneratedCityPage struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CampaignID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_page_campaign_city;uniqueIndex:idx_page_campaign_slug" json:"campaign_id"`
	CityID          uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_page_campaign_city;index" json:"city_id"`
	CitySlug        string         `gorm:"column:city_slug;not null;index" json:"city_slug"`
	Slug            string         `gorm:"column:slug;not null;uniqueIndex:idx_page_campaign_slug" json:"slug"`
	Title           string         `gorm:"column:title" json:"title"`
	MetaDescription string         `gorm:"column:meta_description" json:"meta_description"`
	H1              string         `gorm:"column:h1" json:"h1"`
	Keywords        datatypes.JSON `gorm:"column:keywords" json:"keywords"`
	Introduction    string         `gorm:"column:introduction" json:"introduction"`
	Benefits        datatypes.JSON `gorm:"column:benefits" json:"benefits"`
	FAQs            datatypes.JSON `gorm:"column:faqs" json:"faqs"`
	SchemaMarkup    datatypes.JSON `gorm:"column:schema_markup" json:"schema_markup"`
	HeroImageURL    string         `gorm:"column:hero_image_url" json:"hero_image_url"`
	MainImageURL    string         `gorm:"column:main_image_url" json:"main_image_url"`
	SocialCardURL   string         `gorm:"column:social_card_url" json:"social_card_url,omitempty"`

	State       string     `gorm:"column:state;not null;index" json:"state"`
	Published   bool       `gorm:"column:published;not null;default:false;index" json:"published"`
	PublishedAt *time.Time `gorm:"column:published_at" json:"published_at,omitempty"`
	LastError   string     `gorm:"column:last_error" json:"last_error,omitempty"`
	Revision    int        `gorm:"column:revision;not null;default:1" json:"revision"`

	Views       int64   `gorm:"column:views;not null;default:0" json:"views"`
	Clicks      int64   `gorm:"column:clicks;not null;default:0" json:"clicks"`
	Conversions int64   `gorm:"column:conversions;not null;default:0" json:"conversions"`
	Revenue     float64 `gorm:"column:revenue;not null;default:0;index" json:"revenue"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (GeneratedCityPage) TableName() string { return "generated_city_page" }

func (p *GeneratedCityPage) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.State == "" {
		p.State = PageStatePending
	}
	return nil
}

func (p *GeneratedCityPage) BenefitList() []Benefit {
	var out []Benefit
	if len(p.Benefits) > 0 {
		_ = json.Unmarshal(p.Benefits, &out)
	}
	return out
}

func (p *GeneratedCityPage) FAQList() []FAQ {
	var out []FAQ
	if len(p.FAQs) > 0 {
		_ = json.Unmarshal(p.FAQs, &out)
	}
	return out
}

func (p *GeneratedCityPage) KeywordList() []string { return StringList(p.Keywords) }

// PageMetrics are the engagement counters fed by the analytics collaborator.
type PageMetrics struct {
	Views       int64   `json:"views"`
	Clicks      int64   `json:"clicks"`
	Conversions int64   `json:"conversions"`
	Revenue     float64 `json:"revenue"`
}

func (p *GeneratedCityPage) Metrics() PageMetrics {
	return PageMetrics{Views: p.Views, Clicks: p.Clicks, Conversions: p.Conversions, Revenue: p.Revenue}
}
