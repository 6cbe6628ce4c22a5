package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/seobrain/internal/data/repos"
	types "github.com/yungbote/seobrain/internal/domain"
	"github.com/yungbote/seobrain/internal/http/response"
	"github.com/yungbote/seobrain/internal/modules/seo/improver"
	"github.com/yungbote/seobrain/internal/platform/dbctx"
)

type PlanService interface {
	Propose(ctx context.Context, pageID uuid.UUID, patternID *uuid.UUID) (*types.ImprovementPlan, error)
	Get(ctx context.Context, planID uuid.UUID) (*types.ImprovementPlan, error)
	Select(ctx context.Context, planID uuid.UUID, optionID string) (*types.ImprovementPlan, *improver.Report, error)
}

type PageHandler struct {
	pages repos.GeneratedCityPageRepo
	plans PlanService
}

func NewPageHandler(pages repos.GeneratedCityPageRepo, plans PlanService) *PageHandler {
	return &PageHandler{pages: pages, plans: plans}
}

// GET /api/pages/:id
func (h *PageHandler) GetPage(c *gin.Context) {
	id, ok := pathUUID(c, "id", "invalid_page_id")
	if !ok {
		return
	}
	page, err := h.pages.GetByID(dbctx.Background(c.Request.Context()), id)
	if err != nil {
		respond(c, err)
		return
	}
	if page == nil {
		respond(c, improver.ErrPageNotFound)
		return
	}
	response.RespondOK(c, gin.H{"page": page})
}

type metricsRequest struct {
	Views       int64   `json:"views" binding:"gte=0"`
	Clicks      int64   `json:"clicks" binding:"gte=0"`
	Conversions int64   `json:"conversions" binding:"gte=0"`
	Revenue     float64 `json:"revenue" binding:"gte=0"`
}

// POST /api/pages/:id/metrics
func (h *PageHandler) IncrementMetrics(c *gin.Context) {
	id, ok := pathUUID(c, "id", "invalid_page_id")
	if !ok {
		return
	}
	var req metricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	dbc := dbctx.Background(c.Request.Context())
	page, err := h.pages.GetByID(dbc, id)
	if err != nil {
		respond(c, err)
		return
	}
	if page == nil {
		respond(c, improver.ErrPageNotFound)
		return
	}
	delta := types.PageMetrics{Views: req.Views, Clicks: req.Clicks, Conversions: req.Conversions, Revenue: req.Revenue}
	if err := h.pages.IncrementMetrics(dbc, id, delta); err != nil {
		respond(c, err)
		return
	}
	updated, err := h.pages.GetByID(dbc, id)
	if err != nil {
		respond(c, err)
		return
	}
	response.RespondOK(c, gin.H{"metrics": updated.Metrics()})
}

type proposeRequest struct {
	PatternID *uuid.UUID `json:"pattern_id"`
}

// POST /api/pages/:id/improvement-plans
func (h *PageHandler) ProposePlan(c *gin.Context) {
	id, ok := pathUUID(c, "id", "invalid_page_id")
	if !ok {
		return
	}
	var req proposeRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	plan, err := h.plans.Propose(c.Request.Context(), id, req.PatternID)
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"plan": plan, "options": plan.OptionList()})
}

// GET /api/improvement-plans/:id
func (h *PageHandler) GetPlan(c *gin.Context) {
	id, ok := pathUUID(c, "id", "invalid_plan_id")
	if !ok {
		return
	}
	plan, err := h.plans.Get(c.Request.Context(), id)
	if err != nil {
		respond(c, err)
		return
	}
	response.RespondOK(c, gin.H{"plan": plan, "options": plan.OptionList()})
}

type selectRequest struct {
	OptionID string `json:"option_id" binding:"required,oneof=A B C"`
}

// POST /api/improvement-plans/:id/select
func (h *PageHandler) SelectOption(c *gin.Context) {
	id, ok := pathUUID(c, "id", "invalid_plan_id")
	if !ok {
		return
	}
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	plan, report, err := h.plans.Select(c.Request.Context(), id, req.OptionID)
	if err != nil {
		if plan != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":  response.APIError{Message: err.Error(), Code: "execution_failed"},
				"plan":   plan,
				"report": report,
			})
			return
		}
		respond(c, err)
		return
	}
	response.RespondOK(c, gin.H{"plan": plan, "report": report})
}
