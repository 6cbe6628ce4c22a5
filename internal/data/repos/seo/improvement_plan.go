package seo

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/seobrain/internal/domain"
	"github.com/yungbote/seobrain/internal/platform/dbctx"
	"github.com/yungbote/seobrain/internal/platform/logger"
)

type ImprovementPlanRepo interface {
	Create(dbc dbctx.Context, plan *types.ImprovementPlan) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ImprovementPlan, error)
	ListByPage(dbc dbctx.Context, pageID uuid.UUID) ([]*types.ImprovementPlan, error)
	HasOpenForPage(dbc dbctx.Context, pageID uuid.UUID) (bool, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	// TransitionStatus moves the plan from one status to another and reports
	// whether this caller won the transition.
	TransitionStatus(dbc dbctx.Context, id uuid.UUID, from, to string, updates map[string]interface{}) (bool, error)
}

type improvementPlanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewImprovementPlanRepo(db *gorm.DB, baseLog *logger.Logger) ImprovementPlanRepo {
	return &improvementPlanRepo{db: db, log: baseLog.With("repo", "ImprovementPlanRepo")}
}

func (r *improvementPlanRepo) Create(dbc dbctx.Context, plan *types.ImprovementPlan) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if plan == nil {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).Create(plan).Error
}

func (r *improvementPlanRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ImprovementPlan, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var p types.ImprovementPlan
	if err := transaction.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&p).Error; err != nil {
		return nil, err
	}
	if p.ID == uuid.Nil {
		return nil, nil
	}
	return &p, nil
}

func (r *improvementPlanRepo) ListByPage(dbc dbctx.Context, pageID uuid.UUID) ([]*types.ImprovementPlan, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.ImprovementPlan
	if pageID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("page_id = ?", pageID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *improvementPlanRepo) HasOpenForPage(dbc dbctx.Context, pageID uuid.UUID) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if pageID == uuid.Nil {
		return false, nil
	}
	var n int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.ImprovementPlan{}).
		Where("page_id = ? AND status IN ?", pageID, []string{types.PlanStatusProposed, types.PlanStatusSelected}).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *improvementPlanRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
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
		Model(&types.ImprovementPlan{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *improvementPlanRepo) TransitionStatus(dbc dbctx.Context, id uuid.UUID, from, to string, updates map[string]interface{}) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return false, nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = to
	updates["updated_at"] = time.Now().UTC()
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.ImprovementPlan{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
