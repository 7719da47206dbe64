package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/bataudit/dashboard/internal/app"
	"github.com/bataudit/dashboard/internal/audit"
	"github.com/bataudit/dashboard/internal/dashboard"
	dashboardhttp "github.com/bataudit/dashboard/internal/dashboard/http"
	"github.com/bataudit/dashboard/internal/health"
	"github.com/bataudit/dashboard/internal/observability"
	"github.com/bataudit/dashboard/internal/platform/cache"
	"github.com/bataudit/dashboard/internal/platform/upstream"
	"github.com/bataudit/dashboard/jobs"
	"github.com/bataudit/dashboard/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	metrics := observability.NewMetrics()

	auditAPI, err := upstream.New(cfg.APIURL, upstream.WithTransport(metrics.RoundTripper("audit", http.DefaultTransport)))
	if err != nil {
		logger.Error("init audit client", slog.Any("error", err))
		os.Exit(1)
	}
	healthAPI, err := upstream.New(cfg.APIURL, upstream.WithTransport(metrics.RoundTripper("health", http.DefaultTransport)))
	if err != nil {
		logger.Error("init health client", slog.Any("error", err))
		os.Exit(1)
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, using in-memory cache", slog.Any("error", err))
	}
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	cacheMetrics, err := cache.NewMetrics(metrics.Registerer())
	if err != nil {
		logger.Error("register cache metrics", slog.Any("error", err))
		os.Exit(1)
	}
	queryCache := cache.NewQueryCache("bataudit", redisClient, cfg.CacheTTL, cache.WithMetrics(cacheMetrics), cache.WithLoadTimeout(cfg.AppRequestTimeout))
	logger.Info("query cache ready", slog.String("backend", queryCache.Backend()))

	auditService := audit.NewService(audit.NewClient(auditAPI), queryCache)
	healthClient := health.NewClient(healthAPI)
	history := health.NewHistory(redisClient, cfg.HealthHistorySize)

	dashboardService := dashboard.NewService(auditService, healthClient, history, dashboard.Config{
		PageLimit:   cfg.AuditPageLimit,
		HistorySize: cfg.HealthHistorySize,
	})

	pdfClient := report.NewClient(cfg.GotenbergURL, metrics.RoundTripper("gotenberg", nil))
	dashboardHandler := dashboardhttp.NewHandler(logger, dashboardService, pdfClient)

	jobsHandler, closeInspector := newJobsHandler(cfg, redisClient, logger)
	defer closeInspector()

	readiness := map[string]app.Pinger{
		"audit_api": app.PingFunc(func(ctx context.Context) error {
			_, err := healthClient.Query(ctx)
			return err
		}),
		"cache": queryCache,
	}
	if pdfClient.Enabled() {
		readiness["gotenberg"] = pdfClient
	}

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		DashboardHandler: dashboardHandler,
		JobsHandler:      jobsHandler,
		Metrics:          metrics,
		Readiness:        readiness,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("api", cfg.APIURL))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

// newJobsHandler exposes queue state when a worker shares the Redis instance.
func newJobsHandler(cfg *app.Config, redisClient *redis.Client, logger *slog.Logger) (*jobs.Handler, func()) {
	if redisClient == nil {
		return jobs.NewHandler(nil, logger), func() {}
	}
	redisOpt, err := jobs.RedisOpt(cfg.RedisAddr)
	if err != nil {
		logger.Warn("jobs inspector disabled", slog.Any("error", err))
		return jobs.NewHandler(nil, logger), func() {}
	}
	inspector := asynq.NewInspector(redisOpt)
	return jobs.NewHandler(inspector, logger), func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}
}
