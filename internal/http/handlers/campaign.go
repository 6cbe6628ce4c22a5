package handlers

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/seobrain/internal/data/repos"
	types "github.com/yungbote/seobrain/internal/domain"
	"github.com/yungbote/seobrain/internal/http/response"
	"github.com/yungbote/seobrain/internal/modules/seo/campaign"
	"github.com/yungbote/seobrain/internal/modules/seo/winners"
	"github.com/yungbote/seobrain/internal/platform/dbctx"
	"github.com/yungbote/seobrain/internal/platform/logger"
)

type CampaignRunner interface {
	Run(ctx context.Context, campaignID uuid.UUID) (*campaign.RunResult, error)
	IsRunning(campaignID uuid.UUID) bool
}

type PatternAnalyzer interface {
	Analyze(ctx context.Context, campaignID uuid.UUID, topCount int) (*winners.Analysis, error)
	List(ctx context.Context, campaignID uuid.UUID) ([]*types.WinnerPattern, error)
}

type CampaignHandler struct {
	log       *logger.Logger
	campaigns repos.ProductCampaignRepo
	pages     repos.GeneratedCityPageRepo
	runner    CampaignRunner
	analyzer  PatternAnalyzer

	// runCtx outlives requests; cancelling it stops background runs.
	runCtx context.Context
	wg     sync.WaitGroup
}

func NewCampaignHandler(
	runCtx context.Context,
	log *logger.Logger,
	campaigns repos.ProductCampaignRepo,
	pages repos.GeneratedCityPageRepo,
	runner CampaignRunner,
	analyzer PatternAnalyzer,
) *CampaignHandler {
	return &CampaignHandler{
		log:       log.With("handler", "CampaignHandler"),
		campaigns: campaigns,
		pages:     pages,
		runner:    runner,
		analyzer:  analyzer,
		runCtx:    runCtx,
	}
}

// Wait blocks until background runs started by Generate return.
func (h *CampaignHandler) Wait() { h.wg.Wait() }

func (h *CampaignHandler) load(c *gin.Context) (*types.ProductCampaign, bool) {
	id, ok := pathUUID(c, "id", "invalid_campaign_id")
	if !ok {
		return nil, false
	}
	cp, err := h.campaigns.GetByID(dbctx.Background(c.Request.Context()), id)
	if err != nil {
		respond(c, err)
		return nil, false
	}
	if cp == nil {
		respond(c, campaign.ErrCampaignNotFound)
		return nil, false
	}
	return cp, true
}

// GET /api/campaigns/:id
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	cp, ok := h.load(c)
	if !ok {
		return
	}
	response.RespondOK(c, gin.H{"campaign": cp, "running": h.runner.IsRunning(cp.ID)})
}

// POST /api/campaigns/:id/generate
func (h *CampaignHandler) Generate(c *gin.Context) {
	cp, ok := h.load(c)
	if !ok {
		return
	}
	if h.runner.IsRunning(cp.ID) {
		respond(c, campaign.ErrAlreadyRunning)
		return
	}
	h.wg.Add(1)
	go func(id uuid.UUID) {
		defer h.wg.Done()
		res, err := h.runner.Run(h.runCtx, id)
		if err != nil {
			h.log.Error("background campaign run failed", "campaign_id", id, "error", err)
			return
		}
		h.log.Info("background campaign run finished", "campaign_id", id, "status", res.Status)
	}(cp.ID)
	c.JSON(http.StatusAccepted, gin.H{"campaign_id": cp.ID, "status": types.CampaignStatusGenerating})
}

type analyzeRequest struct {
	TopCount int `json:"top_count" binding:"omitempty,gte=1,lte=100"`
}

// POST /api/campaigns/:id/analyze
func (h *CampaignHandler) Analyze(c *gin.Context) {
	id, ok := pathUUID(c, "id", "invalid_campaign_id")
	if !ok {
		return
	}
	var req analyzeRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	analysis, err := h.analyzer.Analyze(c.Request.Context(), id, req.TopCount)
	if err != nil {
		respond(c, err)
		return
	}
	response.RespondOK(c, gin.H{"analysis": analysis})
}

// GET /api/campaigns/:id/patterns
func (h *CampaignHandler) ListPatterns(c *gin.Context) {
	cp, ok := h.load(c)
	if !ok {
		return
	}
	patterns, err := h.analyzer.List(c.Request.Context(), cp.ID)
	if err != nil {
		respond(c, err)
		return
	}
	response.RespondOK(c, gin.H{"patterns": patterns})
}

// GET /api/campaigns/:id/pages
func (h *CampaignHandler) ListPages(c *gin.Context) {
	cp, ok := h.load(c)
	if !ok {
		return
	}
	pages, err := h.pages.ListByCampaign(dbctx.Background(c.Request.Context()), cp.ID)
	if err != nil {
		respond(c, err)
		return
	}
	response.RespondOK(c, gin.H{"pages": pages})
}
