package seo

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/seobrain/internal/domain"
	"github.com/yungbote/seobrain/internal/platform/dbctx"
	"github.com/yungbote/seobrain/internal/platform/logger"
)

type GeneratedCityPageRepo interface {
	// Upsert writes the page keyed by (campaign, city) and returns the stored row.
	// Metric counters of an existing row are left alone.
	Upsert(dbc dbctx.Context, page *types.GeneratedCityPage) (*types.GeneratedCityPage, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.GeneratedCityPage, error)
	GetByCampaignAndCity(dbc dbctx.Context, campaignID, cityID uuid.UUID) (*types.GeneratedCityPage, error)
	ListByCampaign(dbc dbctx.Context, campaignID uuid.UUID) ([]*types.GeneratedCityPage, error)
	ListTopByRevenue(dbc dbctx.Context, campaignID uuid.UUID, limit int) ([]*types.GeneratedCityPage, error)
	ListPublishedCityIDs(dbc dbctx.Context, campaignID uuid.UUID) ([]uuid.UUID, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	IncrementMetrics(dbc dbctx.Context, id uuid.UUID, delta types.PageMetrics) error
}

type generatedCityPageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGeneratedCityPageRepo(db *gorm.DB, baseLog *logger.Logger) GeneratedCityPageRepo {
	return &generatedCityPageRepo{db: db, log: baseLog.With("repo", "GeneratedCityPageRepo")}
}

var pageContentColumns = []string{
	"city_slug",
	"slug",
	"title",
	"meta_description",
	"h1",
	"keywords",
	"introduction",
	"benefits",
	"faqs",
	"schema_markup",
	"hero_image_url",
	"main_image_url",
	"social_card_url",
	"state",
	"published",
	"published_at",
	"last_error",
	"revision",
	"updated_at",
}

func (r *generatedCityPageRepo) Upsert(dbc dbctx.Context, page *types.GeneratedCityPage) (*types.GeneratedCityPage, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if page == nil {
		return nil, nil
	}
	if page.ID == uuid.Nil {
		page.ID = uuid.New()
	}
	page.UpdatedAt = time.Now().UTC()
	err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "campaign_id"}, {Name: "city_id"}},
			DoUpdates: clause.AssignmentColumns(pageContentColumns),
		}).
		Create(page).Error
	if err != nil {
		return nil, err
	}
	return r.GetByCampaignAndCity(dbc, page.CampaignID, page.CityID)
}

func (r *generatedCityPageRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.GeneratedCityPage, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var p types.GeneratedCityPage
	if err := transaction.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&p).Error; err != nil {
		return nil, err
	}
	if p.ID == uuid.Nil {
		return nil, nil
	}
	return &p, nil
}

func (r *generatedCityPageRepo) GetByCampaignAndCity(dbc dbctx.Context, campaignID, cityID uuid.UUID) (*types.GeneratedCityPage, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if campaignID == uuid.Nil || cityID == uuid.Nil {
		return nil, nil
	}
	var p types.GeneratedCityPage
	if err := transaction.WithContext(dbc.Ctx).
		Where("campaign_id = ? AND city_id = ?", campaignID, cityID).
		Limit(1).
		Find(&p).Error; err != nil {
		return nil, err
	}
	if p.ID == uuid.Nil {
		return nil, nil
	}
	return &p, nil
}

func (r *generatedCityPageRepo) ListByCampaign(dbc dbctx.Context, campaignID uuid.UUID) ([]*types.GeneratedCityPage, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.GeneratedCityPage
	if campaignID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("campaign_id = ?", campaignID).
		Order("slug ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListTopByRevenue returns published pages ordered by stored revenue, then conversions.
func (r *generatedCityPageRepo) ListTopByRevenue(dbc dbctx.Context, campaignID uuid.UUID, limit int) ([]*types.GeneratedCityPage, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.GeneratedCityPage
	if campaignID == uuid.Nil {
		return out, nil
	}
	q := transaction.WithContext(dbc.Ctx).
		Where("campaign_id = ? AND published = ?", campaignID, true).
		Order("revenue DESC").
		Order("conversions DESC").
		Order("slug ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *generatedCityPageRepo) ListPublishedCityIDs(dbc dbctx.Context, campaignID uuid.UUID) ([]uuid.UUID, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var ids []uuid.UUID
	if campaignID == uuid.Nil {
		return ids, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.GeneratedCityPage{}).
		Where("campaign_id = ? AND state IN ?", campaignID, []string{types.PageStatePublished, types.PageStateReview}).
		Pluck("city_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *generatedCityPageRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.GeneratedCityPage{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *generatedCityPageRepo) IncrementMetrics(dbc dbctx.Context, id uuid.UUID, delta types.PageMetrics) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.GeneratedCityPage{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"views":       gorm.Expr("views + ?", delta.Views),
			"clicks":      gorm.Expr("clicks + ?", delta.Clicks),
			"conversions": gorm.Expr("conversions + ?", delta.Conversions),
			"revenue":     gorm.Expr("revenue + ?", delta.Revenue),
			"updated_at":  time.Now().UTC(),
		}).Error
}
