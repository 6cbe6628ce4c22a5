package seo

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/seobrain/internal/domain"
	"github.com/yungbote/seobrain/internal/platform/dbctx"
	"github.com/yungbote/seobrain/internal/platform/logger"
)

type CityProfileRepo interface {
	// Create inserts one city; a slug collision returns ErrDuplicate.
	Create(dbc dbctx.Context, city *types.CityProfile) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.CityProfile, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.CityProfile, error)
	GetBySlug(dbc dbctx.Context, slug string) (*types.CityProfile, error)
	ListTopByPopulation(dbc dbctx.Context, limit int) ([]*types.CityProfile, error)
	Count(dbc dbctx.Context) (int64, error)
}

type cityProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCityProfileRepo(db *gorm.DB, baseLog *logger.Logger) CityProfileRepo {
	return &cityProfileRepo{db: db, log: baseLog.With("repo", "CityProfileRepo")}
}

func (r *cityProfileRepo) Create(dbc dbctx.Context, city *types.CityProfile) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if city == nil {
		return nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(city).Error; err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("city %q: %w", city.Slug, ErrDuplicate)
		}
		return err
	}
	return nil
}

func (r *cityProfileRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.CityProfile, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var city types.CityProfile
	if err := transaction.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&city).Error; err != nil {
		return nil, err
	}
	if city.ID == uuid.Nil {
		return nil, nil
	}
	return &city, nil
}

func (r *cityProfileRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.CityProfile, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.CityProfile
	if len(ids) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *cityProfileRepo) GetBySlug(dbc dbctx.Context, slug string) (*types.CityProfile, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if slug == "" {
		return nil, nil
	}
	var city types.CityProfile
	if err := transaction.WithContext(dbc.Ctx).Where("slug = ?", slug).Limit(1).Find(&city).Error; err != nil {
		return nil, err
	}
	if city.ID == uuid.Nil {
		return nil, nil
	}
	return &city, nil
}

func (r *cityProfileRepo) ListTopByPopulation(dbc dbctx.Context, limit int) ([]*types.CityProfile, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.CityProfile
	q := transaction.WithContext(dbc.Ctx).Order("population DESC").Order("slug ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *cityProfileRepo) Count(dbc dbctx.Context) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var n int64
	if err := transaction.WithContext(dbc.Ctx).Model(&types.CityProfile{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
