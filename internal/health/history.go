package health

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const historyKey = "bataudit:health:samples"

// StatusUnreachable marks samples taken while the health endpoint failed.
const StatusUnreachable = "unreachable"

// Sample is one recorded health observation.
type Sample struct {
	At     time.Time `json:"at"`
	APIMS  int64     `json:"api_ms"`
	DBMS   int64     `json:"db_ms"`
	Status string    `json:"status"`
}

// Reachable reports whether the sample carries measured latencies.
func (s Sample) Reachable() bool {
	return s.Status != StatusUnreachable
}

// SampleOf converts a snapshot taken at t into a Sample.
func SampleOf(snap Snapshot, t time.Time) Sample {
	return Sample{At: t.UTC(), APIMS: snap.APIResponseMS, DBMS: snap.DBResponseMS, Status: snap.Status}
}

// History is a capped, newest-first list of samples stored in Redis. A nil
// client makes every operation a no-op.
type History struct {
	client *redis.Client
	size   int64
}

// NewHistory keeps at most size samples.
func NewHistory(client *redis.Client, size int) *History {
	if size <= 0 {
		size = 60
	}
	return &History{client: client, size: int64(size)}
}

// Enabled reports whether samples are persisted.
func (h *History) Enabled() bool {
	return h != nil && h.client != nil
}

// Append records a sample and trims the list to its capacity.
func (h *History) Append(ctx context.Context, s Sample) error {
	if !h.Enabled() {
		return nil
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	pipe := h.client.TxPipeline()
	pipe.LPush(ctx, historyKey, raw)
	pipe.LTrim(ctx, historyKey, 0, h.size-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("health: append sample: %w", err)
	}
	return nil
}

// Recent returns up to n samples, oldest first.
func (h *History) Recent(ctx context.Context, n int) ([]Sample, error) {
	if !h.Enabled() || n <= 0 {
		return nil, nil
	}
	values, err := h.client.LRange(ctx, historyKey, 0, int64(n)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("health: read samples: %w", err)
	}
	samples := make([]Sample, 0, len(values))
	for i := len(values) - 1; i >= 0; i-- {
		var s Sample
		if err := json.Unmarshal([]byte(values[i]), &s); err != nil {
			continue
		}
		samples = append(samples, s)
	}
	return samples, nil
}
