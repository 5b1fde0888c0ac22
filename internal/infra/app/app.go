package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/EveryMundo/azure-app-exporter/internal/infra/config"
	"github.com/EveryMundo/azure-app-exporter/internal/infra/httpclient"
	"github.com/EveryMundo/azure-app-exporter/internal/infra/logger"
	"github.com/EveryMundo/azure-app-exporter/internal/infra/scheduler"
	"github.com/EveryMundo/azure-app-exporter/internal/infra/telemetry"
	"github.com/EveryMundo/azure-app-exporter/internal/repository/graph"
	"github.com/EveryMundo/azure-app-exporter/internal/transport/http/middleware"
	"github.com/EveryMundo/azure-app-exporter/internal/transport/http/routes"
	"github.com/EveryMundo/azure-app-exporter/internal/usecase"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Application wires the exporter together: the Graph client, the token and
// cache services, the metric projection loops and the HTTP server.
type Application struct {
	cfg       *config.AppConfig
	engine    *gin.Engine
	logger    *zap.Logger
	metrics   *telemetry.Metrics
	tokens    *usecase.TokenService
	cache     *usecase.ApplicationCacheService
	projector *usecase.MetricsProjector
	sched     *scheduler.Scheduler
}

func New(_ context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	metrics, err := telemetry.New(Version)
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	if cfg.HTTPClient.InsecureSkipVerify {
		log.Warn("http_client.insecure_skip_verify is enabled, CERTIFICATES ON OUTBOUND API REQUESTS WILL NOT BE VALIDATED")
	}

	client := httpclient.New(cfg.HTTPClient)
	graphClient := graph.NewClient(client, cfg.Credentials, cfg.Applications, log)

	tokens := usecase.NewTokenService(graphClient, log)
	cache := usecase.NewApplicationCacheService(tokens, graphClient, log)
	projector := usecase.NewMetricsProjector(cache, metrics.PasswordRemaining, log)

	httpMetrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{
		Registerer: metrics.Registry(),
	})
	if err != nil {
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	engine := routes.Register(routes.Dependencies{
		Config:         cfg,
		Logger:         log,
		Applications:   cache,
		MetricsHandler: metrics.Handler(),
		HTTPMetrics:    httpMetrics,
	})

	return &Application{
		cfg:       cfg,
		engine:    engine,
		logger:    log,
		metrics:   metrics,
		tokens:    tokens,
		cache:     cache,
		projector: projector,
		sched:     scheduler.New(log),
	}, nil
}

// Run starts the background refresh loops and the HTTP server, blocking until
// the context is cancelled or the server fails.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()

	if a.cfg.Applications.Enabled {
		a.startTasks(ctx)
	} else {
		a.logger.Warn("applications polling is disabled, serving an empty cache")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting azure-app-exporter",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
		zap.Bool("tls", a.cfg.App.CertFile != ""),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		var err error
		if a.cfg.App.CertFile != "" && a.cfg.App.KeyFile != "" {
			err = srv.ListenAndServeTLS(a.cfg.App.CertFile, a.cfg.App.KeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		a.sched.Wait()
		return nil
	case err := <-serverErrCh:
		return err
	}
}

// startTasks launches the three independent refresh loops plus the pruning
// timer. Each loop logs its own failures and keeps running; a failed cycle is
// retried on the next tick.
func (a *Application) startTasks(ctx context.Context) {
	a.sched.Dynamic(ctx, "token_refresh", func(ctx context.Context) (time.Duration, error) {
		start := time.Now()
		delay, err := a.tokens.RefreshStep(ctx)
		a.metrics.ObserveTokenRefresh(statusLabel(err), time.Since(start))
		return delay, err
	})

	a.sched.Every(ctx, "applications_refresh", a.cfg.Applications.CacheRefreshInterval, func(ctx context.Context) error {
		start := time.Now()
		err := a.cache.Refresh(ctx)
		a.metrics.ObserveApplicationsRefresh(statusLabel(err), time.Since(start))
		a.logger.Debug("applications cached", zap.Int("count", a.cache.Len()))
		return err
	})

	a.sched.Every(ctx, "metrics_refresh", a.cfg.Metrics.RefreshInterval, func(context.Context) error {
		published := a.projector.Project()
		a.logger.Debug("projected credential metrics", zap.Int("series", published))
		return nil
	})

	if prune := a.cfg.Metrics.PruneInterval; prune > 0 {
		a.sched.Every(ctx, "metrics_prune", prune, func(context.Context) error {
			removed := a.metrics.PasswordRemaining.PruneStale(prune)
			if removed > 0 {
				a.logger.Info("pruned stale credential series", zap.Int("removed", removed))
			}
			return nil
		})
	} else {
		a.logger.Warn("metrics.prune_interval is 0, series for deleted credentials will accumulate for the process lifetime")
	}
}

func statusLabel(err error) string {
	if err != nil {
		return "fail"
	}
	return "success"
}
