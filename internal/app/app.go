package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/yungbote/seobrain/internal/data/db"
	"github.com/yungbote/seobrain/internal/data/repos"
	apphttp "github.com/yungbote/seobrain/internal/http"
	"github.com/yungbote/seobrain/internal/observability"
	"github.com/yungbote/seobrain/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Clients  Clients
	Repos    repos.Repos
	Services Services

	otelShutdown func(context.Context) error
}

func New(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	shutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.OtelEnabled,
		ServiceName: cfg.OtelServiceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
		Endpoint:    cfg.OtelEndpoint,
		Headers:     observability.ParseHeaders(cfg.OtelHeaders),
		Insecure:    cfg.OtelInsecure,
		SampleRatio: cfg.OtelSampleRatio,
	})

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}
	reposet := repos.New(clients.DB.DB(), log)

	serviceset, err := wireServices(log, cfg, clients, reposet)
	if err != nil {
		clients.Close()
		_ = shutdown(ctx)
		return nil, err
	}

	return &App{
		Log:          log,
		Cfg:          cfg,
		Clients:      clients,
		Repos:        reposet,
		Services:     serviceset,
		otelShutdown: shutdown,
	}, nil
}

func (a *App) Migrate() error {
	if err := db.AutoMigrateAll(a.Clients.DB.DB()); err != nil {
		return err
	}
	a.Log.Info("Database migrated", "driver", a.Clients.DB.Driver())
	return nil
}

// Serve runs the HTTP API and, when enabled, the optimization scheduler until
// ctx is cancelled. In-flight campaign runs are cancelled and awaited.
func (a *App) Serve(ctx context.Context) error {
	if a.Cfg.AutoMigrate {
		if err := a.Migrate(); err != nil {
			return err
		}
	}

	runCtx, cancelRuns := context.WithCancel(ctx)
	defer cancelRuns()

	if a.Cfg.OptimizerEnabled {
		if err := a.Services.Scheduler.Start(runCtx); err != nil {
			return fmt.Errorf("start optimizer: %w", err)
		}
		defer a.Services.Scheduler.Stop()
	}

	handlers := a.wireHandlers(runCtx)
	server := apphttp.NewServer(a.routerConfig(handlers))

	a.Log.Info("HTTP server listening", "addr", a.Cfg.HTTPAddr)
	err := server.Run(ctx, a.Cfg.HTTPAddr)
	cancelRuns()
	handlers.Campaign.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close()
	if a.otelShutdown != nil {
		if err := a.otelShutdown(context.Background()); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	a.Log.Sync()
}
