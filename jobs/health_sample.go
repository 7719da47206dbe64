package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/bataudit/dashboard/internal/health"
	jobmetrics "github.com/bataudit/dashboard/internal/jobs"
)

// StatusUnreachable marks samples taken while the health endpoint failed.
const StatusUnreachable = health.StatusUnreachable

// HealthQuerier returns the current API health.
type HealthQuerier interface {
	Query(ctx context.Context) (health.Snapshot, error)
}

// SampleRecorder persists health samples.
type SampleRecorder interface {
	Append(ctx context.Context, s health.Sample) error
}

// HealthSampleJob records one latency sample per run.
type HealthSampleJob struct {
	Health  HealthQuerier
	History SampleRecorder
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewHealthSampleJob wires dependencies for the sampling handler.
func NewHealthSampleJob(querier HealthQuerier, history SampleRecorder, logger *slog.Logger, metrics *jobmetrics.Metrics) *HealthSampleJob {
	return &HealthSampleJob{
		Health:  querier,
		History: history,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle queries health and appends the result. A failed query still records
// an unreachable sample so gaps show up on the chart.
func (j *HealthSampleJob) Handle(ctx context.Context, _ *asynq.Task) (resultErr error) {
	if j == nil || j.Health == nil || j.History == nil {
		return errors.New("health sample: handler not configured")
	}
	tracker := j.metrics().Track(TaskHealthSample)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger()
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	snap, queryErr := j.Health.Query(queryCtx)
	cancel()

	sample := health.SampleOf(snap, j.now())
	if queryErr != nil {
		logger.Warn("query health", slog.Any("error", queryErr))
		sample.Status = StatusUnreachable
	}
	if err := j.History.Append(ctx, sample); err != nil {
		logger.Error("append health sample", slog.Any("error", err))
		return err
	}
	return queryErr
}

func (j *HealthSampleJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskHealthSample))
	}
	return slog.Default().With(slog.String("job", TaskHealthSample))
}

func (j *HealthSampleJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *HealthSampleJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
