// Package dashboard assembles the monitoring view from the audit and health
// sources.
package dashboard

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/bataudit/dashboard/internal/audit"
	"github.com/bataudit/dashboard/internal/health"
	"github.com/bataudit/dashboard/internal/pagination"
)

// AuditSource serves audit pages and single events.
type AuditSource interface {
	Page(ctx context.Context, page, limit int) (audit.PagedResult, error)
	Event(ctx context.Context, id uuid.UUID) (audit.Event, error)
}

// HealthSource returns the current API health.
type HealthSource interface {
	Query(ctx context.Context) (health.Snapshot, error)
}

// HistorySource returns recorded health samples, oldest first.
type HistorySource interface {
	Recent(ctx context.Context, n int) ([]health.Sample, error)
}

// Overview is everything the dashboard page shows. Each section carries its
// own error so one failing source does not blank the page.
type Overview struct {
	Page      int
	Events    audit.PagedResult
	Controls  []pagination.Control
	AuditErr  error
	Health    health.Snapshot
	HealthErr error
	History   []health.Sample
}

// Config tunes the service.
type Config struct {
	PageLimit   int
	HistorySize int
}

// Service builds overviews.
type Service struct {
	audit   AuditSource
	health  HealthSource
	history HistorySource
	cfg     Config
}

// NewService wires the sources. history may be nil.
func NewService(auditSource AuditSource, healthSource HealthSource, history HistorySource, cfg Config) *Service {
	if cfg.PageLimit <= 0 {
		cfg.PageLimit = 10
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = 60
	}
	return &Service{audit: auditSource, health: healthSource, history: history, cfg: cfg}
}

// PageLimit returns the number of events requested per page.
func (s *Service) PageLimit() int {
	return s.cfg.PageLimit
}

// Overview loads the audit page, the health snapshot and the latency history
// concurrently.
func (s *Service) Overview(ctx context.Context, page int) Overview {
	out := Overview{Page: page}
	var g errgroup.Group
	g.Go(func() error {
		out.Events, out.AuditErr = s.Events(ctx, page)
		if out.AuditErr == nil {
			out.Controls = pagination.Compute(page, out.Events.TotalPages())
		}
		return nil
	})
	g.Go(func() error {
		if s.health == nil {
			out.HealthErr = fmt.Errorf("dashboard: health source not configured")
			return nil
		}
		out.Health, out.HealthErr = s.health.Query(ctx)
		return nil
	})
	g.Go(func() error {
		if s.history == nil {
			return nil
		}
		// trend chart is optional; a read failure only hides it
		samples, err := s.history.Recent(ctx, s.cfg.HistorySize)
		if err == nil {
			out.History = samples
		}
		return nil
	})
	_ = g.Wait()
	return out
}

// Events returns one page of events using the configured limit.
func (s *Service) Events(ctx context.Context, page int) (audit.PagedResult, error) {
	if s.audit == nil {
		return audit.PagedResult{}, fmt.Errorf("dashboard: audit source not configured")
	}
	return s.audit.Page(ctx, page, s.cfg.PageLimit)
}

// Event returns one event.
func (s *Service) Event(ctx context.Context, id uuid.UUID) (audit.Event, error) {
	if s.audit == nil {
		return audit.Event{}, fmt.Errorf("dashboard: audit source not configured")
	}
	return s.audit.Event(ctx, id)
}
