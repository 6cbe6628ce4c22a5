package seo

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/seobrain/internal/domain"
	"github.com/yungbote/seobrain/internal/platform/dbctx"
	"github.com/yungbote/seobrain/internal/platform/logger"
)

type WinnerPatternRepo interface {
	Create(dbc dbctx.Context, pattern *types.WinnerPattern) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.WinnerPattern, error)
	LatestByCampaign(dbc dbctx.Context, campaignID uuid.UUID) (*types.WinnerPattern, error)
	ListByCampaign(dbc dbctx.Context, campaignID uuid.UUID) ([]*types.WinnerPattern, error)
	ListByProductType(dbc dbctx.Context, productType string, limit int) ([]*types.WinnerPattern, error)
}

type winnerPatternRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWinnerPatternRepo(db *gorm.DB, baseLog *logger.Logger) WinnerPatternRepo {
	return &winnerPatternRepo{db: db, log: baseLog.With("repo", "WinnerPatternRepo")}
}

func (r *winnerPatternRepo) Create(dbc dbctx.Context, pattern *types.WinnerPattern) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if pattern == nil {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).Create(pattern).Error
}

func (r *winnerPatternRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.WinnerPattern, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var p types.WinnerPattern
	if err := transaction.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&p).Error; err != nil {
		return nil, err
	}
	if p.ID == uuid.Nil {
		return nil, nil
	}
	return &p, nil
}

func (r *winnerPatternRepo) LatestByCampaign(dbc dbctx.Context, campaignID uuid.UUID) (*types.WinnerPattern, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if campaignID == uuid.Nil {
		return nil, nil
	}
	var p types.WinnerPattern
	if err := transaction.WithContext(dbc.Ctx).
		Where("campaign_id = ?", campaignID).
		Order("created_at DESC").
		Limit(1).
		Find(&p).Error; err != nil {
		return nil, err
	}
	if p.ID == uuid.Nil {
		return nil, nil
	}
	return &p, nil
}

func (r *winnerPatternRepo) ListByCampaign(dbc dbctx.Context, campaignID uuid.UUID) ([]*types.WinnerPattern, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.WinnerPattern
	if campaignID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("campaign_id = ?", campaignID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *winnerPatternRepo) ListByProductType(dbc dbctx.Context, productType string, limit int) ([]*types.WinnerPattern, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.WinnerPattern
	if productType == "" {
		return out, nil
	}
	q := transaction.WithContext(dbc.Ctx).Where("product_type = ?", productType).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
