package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bataudit/dashboard/internal/audit"
	"github.com/bataudit/dashboard/internal/health"
	"github.com/bataudit/dashboard/internal/pagination"
)

type stubAudit struct {
	result   audit.PagedResult
	err      error
	gotPage  int
	gotLimit int
	event    audit.Event
}

func (s *stubAudit) Page(ctx context.Context, page, limit int) (audit.PagedResult, error) {
	s.gotPage, s.gotLimit = page, limit
	return s.result, s.err
}

func (s *stubAudit) Event(ctx context.Context, id uuid.UUID) (audit.Event, error) {
	return s.event, s.err
}

type stubHealth struct {
	snap health.Snapshot
	err  error
}

func (s stubHealth) Query(ctx context.Context) (health.Snapshot, error) {
	return s.snap, s.err
}

type stubHistory struct {
	samples []health.Sample
	err     error
	gotN    int
}

func (s *stubHistory) Recent(ctx context.Context, n int) ([]health.Sample, error) {
	s.gotN = n
	return s.samples, s.err
}

func TestOverviewCombinesSections(t *testing.T) {
	auditSrc := &stubAudit{result: audit.PagedResult{
		Data:       []audit.Event{{ID: uuid.New(), Method: "GET"}},
		Pagination: audit.Pagination{Page: 3, Limit: 10, TotalItems: 50, TotalPage: 5},
	}}
	history := &stubHistory{samples: []health.Sample{{At: time.Now(), APIMS: 2}}}
	svc := NewService(auditSrc, stubHealth{snap: health.Snapshot{Status: "ok"}}, history, Config{PageLimit: 10, HistorySize: 30})

	out := svc.Overview(context.Background(), 3)

	require.NoError(t, out.AuditErr)
	require.NoError(t, out.HealthErr)
	assert.Equal(t, 3, auditSrc.gotPage)
	assert.Equal(t, 10, auditSrc.gotLimit)
	assert.Equal(t, 30, history.gotN)
	assert.Equal(t, pagination.Compute(3, 5), out.Controls)
	assert.True(t, out.Health.Healthy())
	assert.Len(t, out.History, 1)
}

func TestOverviewIsolatesFailures(t *testing.T) {
	auditSrc := &stubAudit{err: &audit.QueryError{Op: "list", URL: "http://api/audit", Err: errors.New("refused")}}
	svc := NewService(auditSrc, stubHealth{snap: health.Snapshot{Status: "ok"}}, &stubHistory{err: errors.New("redis down")}, Config{})

	out := svc.Overview(context.Background(), 1)

	assert.ErrorIs(t, out.AuditErr, audit.ErrQueryFailed)
	assert.Nil(t, out.Controls)
	require.NoError(t, out.HealthErr)
	assert.Empty(t, out.History)
}

func TestOverviewDefaultsTotalPages(t *testing.T) {
	auditSrc := &stubAudit{result: audit.PagedResult{Data: []audit.Event{}}}
	svc := NewService(auditSrc, nil, nil, Config{})

	out := svc.Overview(context.Background(), 1)

	require.NoError(t, out.AuditErr)
	assert.Error(t, out.HealthErr)
	assert.Equal(t, pagination.Compute(1, 1), out.Controls)
	assert.Equal(t, 10, svc.PageLimit())
}

func TestEventDelegates(t *testing.T) {
	id := uuid.New()
	svc := NewService(&stubAudit{event: audit.Event{ID: id}}, nil, nil, Config{})
	event, err := svc.Event(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, event.ID)

	_, err = NewService(nil, nil, nil, Config{}).Event(context.Background(), id)
	assert.Error(t, err)
}
