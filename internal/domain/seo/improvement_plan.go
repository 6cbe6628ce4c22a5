package seo

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ImprovementLevelConservative = "conservative"
	ImprovementLevelModerate     = "moderate"
	ImprovementLevelAggressive   = "aggressive"
)

const (
	PlanStatusProposed = "proposed"
	PlanStatusSelected = "selected"
	PlanStatusExecuted = "executed"
	PlanStatusFailed   = "failed"
)

const (
	PlanSourceLLM      = "llm"
	PlanSourceFallback = "fallback"
)

type ImpactRange struct {
	Min int `json:"min" validate:"gte=0,lte=100"`
	Max int `json:"max" validate:"gte=0,lte=100,gtefield=Min"`
}

// DecisionOption is one of the three tiers offered to the human reviewer.
type DecisionOption struct {
	ID              string      `json:"id" validate:"required,oneof=A B C"`
	Level           string      `json:"level" validate:"required,oneof=conservative moderate aggressive"`
	Action          string      `json:"action" validate:"required"`
	Pros            []string    `json:"pros" validate:"min=3,max=5,dive,required"`
	Cons            []string    `json:"cons" validate:"min=2,max=4,dive,required"`
	Confidence      int         `json:"confidence" validate:"gte=0,lte=100"`
	EstimatedImpact ImpactRange `json:"estimated_impact"`
}

type ImprovementPlan struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	PageID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"page_id"`
	CampaignID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"campaign_id"`
	PatternID       *uuid.UUID     `gorm:"type:uuid;index" json:"pattern_id,omitempty"`
	Options         datatypes.JSON `gorm:"column:options" json:"options"`
	Source          string         `gorm:"column:source;not null" json:"source"`
	Status          string         `gorm:"column:status;not null;index" json:"status"`
	SelectedOption  string         `gorm:"column:selected_option" json:"selected_option,omitempty"`
	ScoreAtProposal float64        `gorm:"column:score_at_proposal;not null;default:0" json:"score_at_proposal"`
	ExecutionReport datatypes.JSON `gorm:"column:execution_report" json:"execution_report,omitempty"`
	LastError       string         `gorm:"column:last_error" json:"last_error,omitempty"`
	CreatedAt       time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null" json:"updated_at"`
}

func (ImprovementPlan) TableName() string { return "improvement_plan" }

func (p *ImprovementPlan) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = PlanStatusProposed
	}
	return nil
}

func (p *ImprovementPlan) OptionList() []DecisionOption {
	var out []DecisionOption
	if len(p.Options) > 0 {
		_ = json.Unmarshal(p.Options, &out)
	}
	return out
}

// Option returns the option with the given id ("A", "B" or "C").
func (p *ImprovementPlan) Option(id string) (DecisionOption, bool) {
	for _, o := range p.OptionList() {
		if o.ID == id {
			return o, true
		}
	}
	return DecisionOption{}, false
}
