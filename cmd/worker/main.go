package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bataudit/dashboard/internal/app"
	"github.com/bataudit/dashboard/internal/audit"
	"github.com/bataudit/dashboard/internal/health"
	jobmetrics "github.com/bataudit/dashboard/internal/jobs"
	"github.com/bataudit/dashboard/internal/platform/cache"
	"github.com/bataudit/dashboard/internal/platform/upstream"
	"github.com/bataudit/dashboard/jobs"
)

const warmupPages = 1

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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
	if !cfg.WorkerEnabled() {
		logger.Error("worker requires REDIS_ADDR")
		os.Exit(1)
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	jobMetrics := jobmetrics.NewMetrics(registry)
	cacheMetrics, err := cache.NewMetrics(registry)
	if err != nil {
		logger.Error("register cache metrics", slog.Any("error", err))
		os.Exit(1)
	}

	api, err := upstream.New(cfg.APIURL)
	if err != nil {
		logger.Error("init api client", slog.Any("error", err))
		os.Exit(1)
	}
	queryCache := cache.NewQueryCache("bataudit", redisClient, cfg.CacheTTL, cache.WithMetrics(cacheMetrics))
	auditService := audit.NewService(audit.NewClient(api), queryCache)
	history := health.NewHistory(redisClient, cfg.HealthHistorySize)

	warmupJob := jobs.NewAuditWarmupJob(auditService, cfg.AuditPageLimit, logger, jobMetrics)
	sampleJob := jobs.NewHealthSampleJob(health.NewClient(api), history, logger, jobMetrics)

	warmupTask, err := jobs.NewAuditWarmupTask(warmupPages)
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	redisOpt, err := jobs.RedisOpt(cfg.RedisAddr)
	if err != nil {
		logger.Error("parse redis address", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: redisOpt,
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskAuditWarmup, Handler: warmupJob.Handle},
			{Type: jobs.TaskHealthSample, Handler: sampleJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "@every 1m", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(1)}},
			{Spec: "@every 30s", Task: jobs.NewHealthSampleTask(), Options: []asynq.Option{asynq.MaxRetry(0)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	metricsServer := &http.Server{
		Addr:              cfg.WorkerMetricsAddr,
		Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("starting worker metrics", slog.String("addr", cfg.WorkerMetricsAddr))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn("worker metrics server", slog.Any("error", err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
