package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/bataudit/dashboard/internal/audit"
	jobmetrics "github.com/bataudit/dashboard/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// AuditPager loads audit pages through the query cache.
type AuditPager interface {
	Page(ctx context.Context, page, limit int) (audit.PagedResult, error)
}

// Invalidator drops cached audit pages.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// AuditWarmupJob pre-populates the query cache with the leading audit pages so
// the first dashboard request is served from cache.
type AuditWarmupJob struct {
	Audit   AuditPager
	Limit   int
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewAuditWarmupJob wires dependencies for the warmup handler.
func NewAuditWarmupJob(pager AuditPager, limit int, logger *slog.Logger, metrics *jobmetrics.Metrics) *AuditWarmupJob {
	return &AuditWarmupJob{Audit: pager, Limit: limit, Logger: logger, Metrics: metrics}
}

// Handle processes audit warmup tasks.
func (j *AuditWarmupJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Audit == nil {
		return errors.New("audit warmup: handler not configured")
	}
	payload := AuditWarmupPayload{Pages: 1}
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}
	if payload.Pages <= 0 {
		payload.Pages = 1
	}
	limit := j.Limit
	if limit <= 0 {
		limit = 10
	}

	tracker := j.metrics().Track(TaskAuditWarmup)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger()
	if payload.Refresh {
		inv, ok := j.Audit.(Invalidator)
		if !ok {
			return errors.New("audit warmup: pager cannot invalidate")
		}
		if err := inv.Invalidate(ctx); err != nil {
			logger.Error("invalidate audit cache", slog.Any("error", err))
			return err
		}
	}
	start := time.Now()
	for page := 1; page <= payload.Pages; page++ {
		pageCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
		result, err := j.Audit.Page(pageCtx, page, limit)
		cancel()
		if err != nil {
			logger.Error("warm audit page", slog.Int("page", page), slog.Any("error", err))
			return err
		}
		if page >= result.TotalPages() {
			payload.Pages = page
			break
		}
	}
	logger.Info("completed audit warmup", slog.Int("pages", payload.Pages), slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *AuditWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskAuditWarmup))
	}
	return slog.Default().With(slog.String("job", TaskAuditWarmup))
}

func (j *AuditWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}
