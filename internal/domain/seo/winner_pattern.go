package seo

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WinnerPattern is the structural recipe extracted from top-performing pages.
// Rows are append-only.
type WinnerPattern struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CampaignID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"campaign_id"`
	ProductType        string         `gorm:"column:product_type;not null;index" json:"product_type"`
	PatternName        string         `gorm:"column:pattern_name;not null" json:"pattern_name"`
	ContentStructure   datatypes.JSON `gorm:"column:content_structure" json:"content_structure"`
	SEOStructure       datatypes.JSON `gorm:"column:seo_structure" json:"seo_structure"`
	ConversionElements datatypes.JSON `gorm:"column:conversion_elements" json:"conversion_elements"`
	SourceCitySlugs    datatypes.JSON `gorm:"column:source_city_slugs" json:"source_city_slugs"`
	SourcePageIDs      datatypes.JSON `gorm:"column:source_page_ids" json:"source_page_ids"`
	AvgScore           float64        `gorm:"column:avg_score;not null" json:"avg_score"`
	MinScore           float64        `gorm:"column:min_score;not null" json:"min_score"`
	SampleSize         int            `gorm:"column:sample_size;not null" json:"sample_size"`
	Confidence         float64        `gorm:"column:confidence;not null" json:"confidence"`
	CreatedAt          time.Time      `gorm:"not null;index" json:"created_at"`
}

func (WinnerPattern) TableName() string { return "winner_pattern" }

func (w *WinnerPattern) BeforeCreate(*gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

func (w *WinnerPattern) SourceCitySlugList() []string { return StringList(w.SourceCitySlugs) }
