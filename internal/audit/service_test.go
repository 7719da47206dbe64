package audit

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bataudit/dashboard/internal/platform/cache"
)

type stubQuerier struct {
	pages     map[int]PagedResult
	err       error
	listCalls []ListParams
	getCalls  int
	event     Event
}

func (s *stubQuerier) List(ctx context.Context, params *ListParams) (PagedResult, error) {
	s.listCalls = append(s.listCalls, *params)
	if s.err != nil {
		return PagedResult{}, s.err
	}
	return s.pages[params.Page], nil
}

func (s *stubQuerier) Get(ctx context.Context, id uuid.UUID) (Event, error) {
	s.getCalls++
	if s.err != nil {
		return Event{}, s.err
	}
	return s.event, nil
}

func pageOf(page int, identifiers ...string) PagedResult {
	events := make([]Event, 0, len(identifiers))
	for _, ident := range identifiers {
		events = append(events, Event{ID: uuid.New(), Identifier: ident, Method: "GET", Timestamp: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)})
	}
	return PagedResult{Data: events, Pagination: Pagination{Page: page, Limit: 2, TotalItems: 4, TotalPage: 2}}
}

func TestServicePageUsesIndependentSlots(t *testing.T) {
	stub := &stubQuerier{pages: map[int]PagedResult{
		1: pageOf(1, "a", "b"),
		2: pageOf(2, "c", "d"),
	}}
	svc := NewService(stub, cache.NewQueryCache("test", nil, time.Minute))
	ctx := context.Background()

	first, err := svc.Page(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "a", first.Data[0].Identifier)

	second, err := svc.Page(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, "c", second.Data[0].Identifier)

	again, err := svc.Page(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	assert.Equal(t, []ListParams{{Page: 1, Limit: 2}, {Page: 2, Limit: 2}}, stub.listCalls)

	require.NoError(t, svc.Invalidate(ctx))
	_, err = svc.Page(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, stub.listCalls, 3)
}

func TestServicePagePropagatesFailure(t *testing.T) {
	failure := &QueryError{Op: "list", URL: "http://api/audit", Err: ErrDecode}
	stub := &stubQuerier{err: failure}
	svc := NewService(stub, cache.NewQueryCache("test", nil, time.Minute))

	_, err := svc.Page(context.Background(), 1, 10)
	assert.ErrorIs(t, err, ErrQueryFailed)
	assert.ErrorIs(t, err, ErrDecode)

	_, err = svc.Page(context.Background(), 1, 10)
	require.Error(t, err)
	assert.Len(t, stub.listCalls, 2, "failures are not cached")
}

func TestServiceEventCaches(t *testing.T) {
	id := uuid.New()
	stub := &stubQuerier{event: Event{ID: id, Method: "PUT", Timestamp: time.Now().UTC()}}
	svc := NewService(stub, cache.NewQueryCache("test", nil, time.Minute))

	for i := 0; i < 2; i++ {
		event, err := svc.Event(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, event.ID)
	}
	assert.Equal(t, 1, stub.getCalls)
}

func TestServiceWithoutCache(t *testing.T) {
	stub := &stubQuerier{pages: map[int]PagedResult{1: pageOf(1, "a")}}
	svc := NewService(stub, nil)
	for i := 0; i < 2; i++ {
		_, err := svc.Page(context.Background(), 1, 2)
		require.NoError(t, err)
	}
	assert.Len(t, stub.listCalls, 2)
}

func TestWriteCSV(t *testing.T) {
	id := uuid.MustParse("6f1c2f4e-3a7b-4d3e-9a51-0c2d7e1f4b10")
	data, err := WriteCSV([]Event{{
		ID:           id,
		Identifier:   "svc, billing",
		Method:       "POST",
		Path:         "/invoices",
		StatusCode:   201,
		ServiceName:  "billing",
		Timestamp:    time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
		ResponseTime: 12,
	}})
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, id.String(), records[1][0])
	assert.Equal(t, "2025-03-10T10:00:00Z", records[1][1])
	assert.Equal(t, "svc, billing", records[1][5])
	assert.Equal(t, "12", records[1][9])
}
