package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/seobrain/internal/data/repos/seo"
	"github.com/yungbote/seobrain/internal/platform/logger"
)

type CityProfileRepo = seo.CityProfileRepo
type ProductCampaignRepo = seo.ProductCampaignRepo
type GeneratedCityPageRepo = seo.GeneratedCityPageRepo
type WinnerPatternRepo = seo.WinnerPatternRepo
type ImprovementPlanRepo = seo.ImprovementPlanRepo

var ErrDuplicate = seo.ErrDuplicate

type Repos struct {
	Cities    CityProfileRepo
	Campaigns ProductCampaignRepo
	Pages     GeneratedCityPageRepo
	Patterns  WinnerPatternRepo
	Plans     ImprovementPlanRepo
}

func New(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		Cities:    seo.NewCityProfileRepo(db, log),
		Campaigns: seo.NewProductCampaignRepo(db, log),
		Pages:     seo.NewGeneratedCityPageRepo(db, log),
		Patterns:  seo.NewWinnerPatternRepo(db, log),
		Plans:     seo.NewImprovementPlanRepo(db, log),
	}
}
