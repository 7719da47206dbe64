package jobs

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/bataudit/dashboard/internal/platform/cache"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskAuditWarmup loads the first audit pages into the query cache.
	TaskAuditWarmup = "dashboard:audit_warmup"
	// TaskHealthSample records one health observation for the trend chart.
	TaskHealthSample = "dashboard:health_sample"
)

// AuditWarmupPayload selects how many leading pages are warmed. Refresh drops
// every cached slot before loading.
type AuditWarmupPayload struct {
	Pages   int  `json:"pages"`
	Refresh bool `json:"refresh,omitempty"`
}

// NewAuditWarmupTask constructs an audit warmup task.
func NewAuditWarmupTask(pages int) (*asynq.Task, error) {
	return newAuditWarmupTask(AuditWarmupPayload{Pages: pages})
}

// NewAuditRefreshTask constructs a warmup task that invalidates the cache
// first, so the next dashboard request sees fresh events.
func NewAuditRefreshTask(pages int) (*asynq.Task, error) {
	return newAuditWarmupTask(AuditWarmupPayload{Pages: pages, Refresh: true})
}

func newAuditWarmupTask(payload AuditWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditWarmup, data), nil
}

// NewHealthSampleTask constructs a health sampling task.
func NewHealthSampleTask() *asynq.Task {
	return asynq.NewTask(TaskHealthSample, nil)
}

// TaskByName builds the default task for a short job name as accepted by the
// operator CLI ("audit_warmup", "audit_refresh", "health_sample") or its full
// task type.
func TaskByName(name string) (*asynq.Task, error) {
	switch name {
	case "audit_warmup", TaskAuditWarmup:
		return NewAuditWarmupTask(1)
	case "audit_refresh":
		return NewAuditRefreshTask(1)
	case "health_sample", TaskHealthSample:
		return NewHealthSampleTask(), nil
	default:
		return nil, fmt.Errorf("jobs: unsupported job %s", name)
	}
}

// RedisOpt converts a REDIS_ADDR value (host:port or redis:// URL) into the
// connection options asynq expects.
func RedisOpt(addr string) (asynq.RedisClientOpt, error) {
	opts, err := cache.Options(addr)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}
	if opts == nil {
		return asynq.RedisClientOpt{}, errors.New("jobs: redis address required")
	}
	return asynq.RedisClientOpt{
		Addr:      opts.Addr,
		Username:  opts.Username,
		Password:  opts.Password,
		DB:        opts.DB,
		TLSConfig: opts.TLSConfig,
	}, nil
}
