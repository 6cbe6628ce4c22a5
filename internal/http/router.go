package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/seobrain/internal/http/handlers"
	httpMW "github.com/yungbote/seobrain/internal/http/middleware"
	"github.com/yungbote/seobrain/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	AdminAuth      *httpMW.AdminAuth

	HealthHandler   *httpH.HealthHandler
	CampaignHandler *httpH.CampaignHandler
	PageHandler     *httpH.PageHandler
	CacheHandler    *httpH.CacheHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	if cfg.AdminAuth != nil {
		api.Use(cfg.AdminAuth.RequireToken())
	}
	{
		// Campaigns
		if cfg.CampaignHandler != nil {
			api.GET("/campaigns/:id", cfg.CampaignHandler.GetCampaign)
			api.POST("/campaigns/:id/generate", cfg.CampaignHandler.Generate)
			api.POST("/campaigns/:id/analyze", cfg.CampaignHandler.Analyze)
			api.GET("/campaigns/:id/patterns", cfg.CampaignHandler.ListPatterns)
			api.GET("/campaigns/:id/pages", cfg.CampaignHandler.ListPages)
		}

		// Pages and improvement decisions
		if cfg.PageHandler != nil {
			api.GET("/pages/:id", cfg.PageHandler.GetPage)
			api.POST("/pages/:id/metrics", cfg.PageHandler.IncrementMetrics)
			api.POST("/pages/:id/improvement-plans", cfg.PageHandler.ProposePlan)
			api.GET("/improvement-plans/:id", cfg.PageHandler.GetPlan)
			api.POST("/improvement-plans/:id/select", cfg.PageHandler.SelectOption)
		}

		// Cache
		if cfg.CacheHandler != nil {
			api.POST("/cache/invalidate", cfg.CacheHandler.Invalidate)
			api.GET("/cache/stats", cfg.CacheHandler.Stats)
		}
	}

	return r
}
