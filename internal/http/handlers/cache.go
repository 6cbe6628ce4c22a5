package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/seobrain/internal/cache"
	"github.com/yungbote/seobrain/internal/http/response"
)

type CacheAdmin interface {
	Invalidate(ctx context.Context, pattern string) int
	Stats() cache.Stats
}

type CacheHandler struct {
	cache CacheAdmin
}

func NewCacheHandler(c CacheAdmin) *CacheHandler {
	return &CacheHandler{cache: c}
}

type invalidateRequest struct {
	Pattern string `json:"pattern"`
}

// POST /api/cache/invalidate
func (h *CacheHandler) Invalidate(c *gin.Context) {
	var req invalidateRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	n := h.cache.Invalidate(c.Request.Context(), req.Pattern)
	response.RespondOK(c, gin.H{"deleted": n})
}

// GET /api/cache/stats
func (h *CacheHandler) Stats(c *gin.Context) {
	response.RespondOK(c, gin.H{"stats": h.cache.Stats()})
}
