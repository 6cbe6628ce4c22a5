package seo

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/seobrain/internal/domain"
	"github.com/yungbote/seobrain/internal/platform/dbctx"
	"github.com/yungbote/seobrain/internal/platform/logger"
)

type ProductCampaignRepo interface {
	Create(dbc dbctx.Context, campaign *types.ProductCampaign) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ProductCampaign, error)
	ListByStatus(dbc dbctx.Context, statuses ...string) ([]*types.ProductCampaign, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type productCampaignRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductCampaignRepo(db *gorm.DB, baseLog *logger.Logger) ProductCampaignRepo {
	return &productCampaignRepo{db: db, log: baseLog.With("repo", "ProductCampaignRepo")}
}

func (r *productCampaignRepo) Create(dbc dbctx.Context, campaign *types.ProductCampaign) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if campaign == nil {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).Create(campaign).Error
}

func (r *productCampaignRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ProductCampaign, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var c types.ProductCampaign
	if err := transaction.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&c).Error; err != nil {
		return nil, err
	}
	if c.ID == uuid.Nil {
		return nil, nil
	}
	return &c, nil
}

// ListByStatus returns every campaign when no status is given.
func (r *productCampaignRepo) ListByStatus(dbc dbctx.Context, statuses ...string) ([]*types.ProductCampaign, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.ProductCampaign
	q := transaction.WithContext(dbc.Ctx).Order("created_at ASC")
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *productCampaignRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
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
		Model(&types.ProductCampaign{}).
		Where("id = ?", id).
		Updates(updates).Error
}
