package view

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/bataudit/dashboard/internal/audit"
	"github.com/bataudit/dashboard/internal/dashboard"
	"github.com/bataudit/dashboard/internal/health"
	"github.com/bataudit/dashboard/internal/pagination"
)

func TestDashboardRendersSections(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	out := render(t, Dashboard(dashboard.Overview{
		Page: 2,
		Events: audit.PagedResult{
			Data:       []audit.Event{{ID: uuid.New(), Method: "GET", Path: "/orders", StatusCode: 200, Timestamp: now}},
			Pagination: audit.Pagination{Page: 2, Limit: 10, TotalItems: 37, TotalPage: 4},
		},
		Controls: pagination.Compute(2, 4),
		Health:   health.Snapshot{Status: "ok", DBStatus: "ok"},
	}, now))

	assert.Contains(t, out, "10 of 37 events")
	assert.Contains(t, out, "/orders")
	assert.Contains(t, out, `href="/app/export.csv?page=2"`)
	assert.Contains(t, out, `aria-current="page"`)
	assert.Contains(t, out, "Healthy")
	assert.NotContains(t, out, `role="alert"`)
}

func TestDashboardRendersAlertsForFailedSections(t *testing.T) {
	out := render(t, Dashboard(dashboard.Overview{
		Page:      1,
		AuditErr:  errors.New("down"),
		HealthErr: errors.New("down"),
	}, time.Now()))

	assert.Contains(t, out, "Audit events could not be loaded.")
	assert.Contains(t, out, "Health status is unavailable.")
	assert.NotContains(t, out, "pager")
}
