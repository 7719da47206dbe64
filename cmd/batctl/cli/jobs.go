package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/bataudit/dashboard/jobs"
)

// JobsCLI wraps manual management helpers for dashboard jobs.
type JobsCLI struct {
	client    *jobs.Client
	inspector *asynq.Inspector
}

// NewJobsCLI initialises the helpers against the provided Redis address.
func NewJobsCLI(redisAddr string) (*JobsCLI, error) {
	if redisAddr == "" {
		return nil, errors.New("jobs cli: redis address required (--redis-addr or REDIS_ADDR)")
	}
	opts, err := jobs.RedisOpt(redisAddr)
	if err != nil {
		return nil, err
	}
	return &JobsCLI{client: jobs.NewClient(opts), inspector: asynq.NewInspector(opts)}, nil
}

// Close releases underlying resources.
func (c *JobsCLI) Close() error {
	var err error
	if c.inspector != nil {
		if closeErr := c.inspector.Close(); closeErr != nil {
			err = closeErr
		}
	}
	if c.client != nil {
		if closeErr := c.client.Close(); closeErr != nil {
			err = closeErr
		}
	}
	return err
}

// Trigger enqueues a supported job by name with its default payload.
func (c *JobsCLI) Trigger(ctx context.Context, name string) (*asynq.TaskInfo, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("jobs cli: client not configured")
	}
	task, err := jobs.TaskByName(name)
	if err != nil {
		return nil, err
	}
	return c.client.Enqueue(ctx, task, asynq.MaxRetry(1))
}

// QueueStats summarises the current queue state.
type QueueStats struct {
	Queue     string `json:"queue"`
	Pending   int    `json:"pending"`
	Active    int    `json:"active"`
	Scheduled int    `json:"scheduled"`
	Retry     int    `json:"retry"`
}

// InspectQueue reports the metrics for the default queue.
func (c *JobsCLI) InspectQueue() (QueueStats, error) {
	if c == nil || c.inspector == nil {
		return QueueStats{}, errors.New("jobs cli: inspector not configured")
	}
	info, err := c.inspector.GetQueueInfo(jobs.QueueDefault)
	if err != nil {
		return QueueStats{}, err
	}
	stats := QueueStats{Queue: jobs.QueueDefault}
	if info != nil {
		stats.Pending = info.Pending
		stats.Active = info.Active
		stats.Scheduled = info.Scheduled
		stats.Retry = info.Retry
	}
	return stats, nil
}

func newJobsCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Manage dashboard background jobs",
	}
	cmd.AddCommand(&cobra.Command{
		Use:       "trigger <audit_warmup|audit_refresh|health_sample>",
		Short:     "Enqueue a job immediately",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"audit_warmup", "audit_refresh", "health_sample"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := jobs.TaskByName(args[0]); err != nil {
				return err
			}
			jc, err := NewJobsCLI(opts.redisAddr)
			if err != nil {
				return err
			}
			defer func() { _ = jc.Close() }()
			info, err := jc.Trigger(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.output == "json" {
				return printJSON(out, map[string]string{"id": info.ID, "type": info.Type, "queue": info.Queue})
			}
			fmt.Fprintf(out, "enqueued %s (%s) on %s\n", info.Type, info.ID, info.Queue)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show queue statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			jc, err := NewJobsCLI(opts.redisAddr)
			if err != nil {
				return err
			}
			defer func() { _ = jc.Close() }()
			stats, err := jc.InspectQueue()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.output == "json" {
				return printJSON(out, stats)
			}
			return printTable(out, []string{"QUEUE", "PENDING", "ACTIVE", "SCHEDULED", "RETRY"}, [][]string{{
				stats.Queue,
				strconv.Itoa(stats.Pending),
				strconv.Itoa(stats.Active),
				strconv.Itoa(stats.Scheduled),
				strconv.Itoa(stats.Retry),
			}})
		},
	})
	return cmd
}
