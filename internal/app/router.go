package app

import (
	"context"

	apphttp "github.com/yungbote/seobrain/internal/http"
	httpH "github.com/yungbote/seobrain/internal/http/handlers"
	httpMW "github.com/yungbote/seobrain/internal/http/middleware"
)

type Handlers struct {
	Health   *httpH.HealthHandler
	Campaign *httpH.CampaignHandler
	Page     *httpH.PageHandler
	Cache    *httpH.CacheHandler
}

// wireHandlers binds background campaign runs to runCtx.
func (a *App) wireHandlers(runCtx context.Context) Handlers {
	checks := map[string]httpH.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := a.Clients.DB.DB().DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if rdb := a.Clients.Redis; rdb != nil {
		checks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}
	return Handlers{
		Health: httpH.NewHealthHandler(checks),
		Campaign: httpH.NewCampaignHandler(
			runCtx,
			a.Log,
			a.Repos.Campaigns,
			a.Repos.Pages,
			a.Services.Campaigns,
			a.Services.Winners,
		),
		Page:  httpH.NewPageHandler(a.Repos.Pages, a.Services.Improver),
		Cache: httpH.NewCacheHandler(a.Clients.Cache),
	}
}

func (a *App) routerConfig(h Handlers) apphttp.RouterConfig {
	serviceName := ""
	if a.Cfg.OtelEnabled {
		serviceName = a.Cfg.OtelServiceName
	}
	return apphttp.RouterConfig{
		Log:             a.Log,
		ServiceName:     serviceName,
		AllowedOrigins:  a.Cfg.AllowedOrigins,
		AdminAuth:       httpMW.NewAdminAuth(a.Log, a.Cfg.AdminToken),
		HealthHandler:   h.Health,
		CampaignHandler: h.Campaign,
		PageHandler:     h.Page,
		CacheHandler:    h.Cache,
	}
}
