package seo

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	CampaignStatusQueued     = "queued"
	CampaignStatusGenerating = "generating"
	CampaignStatusOptimizing = "optimizing"
	CampaignStatusPartial    = "partial"
	CampaignStatusFailed     = "failed"
	CampaignStatusArchived   = "archived"
)

// ProductCampaign pairs the immutable product description with the mutable
// generation status of its campaign.
type ProductCampaign struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProductName string         `gorm:"column:product_name;not null" json:"product_name"`
	ProductType string         `gorm:"column:product_type;not null;index" json:"product_type"`
	Slug        string         `gorm:"column:slug;not null;index" json:"slug"`
	Quantity    int            `gorm:"column:quantity;not null" json:"quantity"`
	Size        string         `gorm:"column:size" json:"size"`
	Material    string         `gorm:"column:material" json:"material"`
	Turnaround  string         `gorm:"column:turnaround" json:"turnaround"`
	Price       float64        `gorm:"column:price;not null" json:"price"`
	OnlineOnly  bool           `gorm:"column:online_only;not null;default:false" json:"online_only"`
	Keywords    datatypes.JSON `gorm:"column:keywords" json:"keywords"`
	Industries  datatypes.JSON `gorm:"column:industries" json:"industries"`

	Status          string     `gorm:"column:status;not null;index" json:"status"`
	TargetCityCount int        `gorm:"column:target_city_count;not null;default:0" json:"target_city_count"`
	CitiesGenerated int        `gorm:"column:cities_generated;not null;default:0" json:"cities_generated"`
	CitiesFailed    int        `gorm:"column:cities_failed;not null;default:0" json:"cities_failed"`
	MainImageURL    string     `gorm:"column:main_image_url" json:"main_image_url,omitempty"`
	LastError       string     `gorm:"column:last_error" json:"last_error,omitempty"`
	StartedAt       *time.Time `gorm:"column:started_at" json:"started_at,omitempty"`
	CompletedAt     *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt       time.Time  `gorm:"not null;index" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"not null" json:"updated_at"`
}

func (ProductCampaign) TableName() string { return "product_campaign" }

func (p *ProductCampaign) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = CampaignStatusQueued
	}
	return nil
}

func (p *ProductCampaign) KeywordList() []string  { return StringList(p.Keywords) }
func (p *ProductCampaign) IndustryList() []string { return StringList(p.Industries) }
