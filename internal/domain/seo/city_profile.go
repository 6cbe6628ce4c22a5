package seo

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CityProfile struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string         `gorm:"column:name;not null;index" json:"name"`
	State         string         `gorm:"column:state;not null" json:"state"`
	StateCode     string         `gorm:"column:state_code;not null;index" json:"state_code"`
	Slug          string         `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	Population    int            `gorm:"column:population;not null;default:0;index" json:"population"`
	Industries    datatypes.JSON `gorm:"column:industries" json:"industries"`
	Neighborhoods datatypes.JSON `gorm:"column:neighborhoods" json:"neighborhoods"`
	Venues        datatypes.JSON `gorm:"column:venues" json:"venues"`
	FamousFor     datatypes.JSON `gorm:"column:famous_for" json:"famous_for"`
	ZipCodes      datatypes.JSON `gorm:"column:zip_codes" json:"zip_codes"`
	Latitude      *float64       `gorm:"column:latitude" json:"latitude,omitempty"`
	Longitude     *float64       `gorm:"column:longitude" json:"longitude,omitempty"`
	CreatedAt     time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null" json:"updated_at"`
}

func (CityProfile) TableName() string { return "city_profile" }

func (c *CityProfile) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (c *CityProfile) IndustryList() []string     { return StringList(c.Industries) }
func (c *CityProfile) NeighborhoodList() []string { return StringList(c.Neighborhoods) }
func (c *CityProfile) VenueList() []string        { return StringList(c.Venues) }
func (c *CityProfile) FamousForList() []string    { return StringList(c.FamousFor) }
func (c *CityProfile) ZipCodeList() []string      { return StringList(c.ZipCodes) }

// DisplayName renders "Austin, TX", falling back to the full state name.
func (c *CityProfile) DisplayName() string {
	st := strings.TrimSpace(c.StateCode)
	if st == "" {
		st = strings.TrimSpace(c.State)
	}
	if st == "" {
		return c.Name
	}
	return c.Name + ", " + st
}
