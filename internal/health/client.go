// Package health reads the BatAudit API health endpoint and keeps a short
// history of latency samples for trend display.
package health

import (
	"context"
	"errors"
	"fmt"

	"github.com/bataudit/dashboard/internal/platform/upstream"
)

const healthPath = "/health"

var (
	// ErrQueryFailed matches every failed health query.
	ErrQueryFailed = errors.New("health: query failed")
	// ErrDecode matches responses that could not be decoded or validated.
	ErrDecode = upstream.ErrDecode
)

// Snapshot is the health report of the audit API at one point in time.
type Snapshot struct {
	Status        string `json:"status" validate:"required"`
	DBStatus      string `json:"db_status"`
	APIResponseMS int64  `json:"api_response_ms" validate:"gte=0"`
	DBResponseMS  int64  `json:"db_response_ms" validate:"gte=0"`
	Environment   string `json:"environment"`
	Version       string `json:"version"`
	Message       string `json:"message"`
}

// Healthy reports whether the API declares itself ok.
func (s Snapshot) Healthy() bool {
	return s.Status == "ok"
}

// DBHealthy reports whether the API's database is ok.
func (s Snapshot) DBHealthy() bool {
	return s.DBStatus == "ok"
}

// Client queries the health endpoint.
type Client struct {
	api *upstream.Client
}

// NewClient wraps an upstream client pointed at the BatAudit API.
func NewClient(api *upstream.Client) *Client {
	return &Client{api: api}
}

// Query fetches a fresh snapshot.
func (c *Client) Query(ctx context.Context) (Snapshot, error) {
	if c == nil || c.api == nil {
		return Snapshot{}, fmt.Errorf("health: client not configured")
	}
	var snap Snapshot
	if err := c.api.GetJSON(ctx, healthPath, "", &snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %s: %w", ErrQueryFailed, c.api.Endpoint(healthPath, ""), err)
	}
	return snap, nil
}
