package audit

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/bataudit/dashboard/internal/platform/cache"
)

// Querier is the contract the service needs from the audit service client.
type Querier interface {
	List(ctx context.Context, params *ListParams) (PagedResult, error)
	Get(ctx context.Context, id uuid.UUID) (Event, error)
}

// Service serves audit pages through the query cache.
type Service struct {
	client Querier
	cache  *cache.QueryCache
}

// NewService wires the client and cache. A nil cache disables caching.
func NewService(client Querier, queryCache *cache.QueryCache) *Service {
	return &Service{client: client, cache: queryCache}
}

// Page returns the requested page. Each (page, limit) pair occupies its own
// cache slot, so moving to another page never serves the previous page.
func (s *Service) Page(ctx context.Context, page, limit int) (PagedResult, error) {
	if s.client == nil {
		return PagedResult{}, fmt.Errorf("audit: client not configured")
	}
	params := &ListParams{Page: page, Limit: limit}
	var result PagedResult
	err := s.cache.FetchJSON(ctx, pageKey(params), &result, func(ctx context.Context) (any, error) {
		return s.client.List(ctx, params)
	})
	if err != nil {
		return PagedResult{}, err
	}
	return result, nil
}

// Event returns one event by id.
func (s *Service) Event(ctx context.Context, id uuid.UUID) (Event, error) {
	if s.client == nil {
		return Event{}, fmt.Errorf("audit: client not configured")
	}
	var event Event
	err := s.cache.FetchJSON(ctx, cache.Key("audit", "event", id.String()), &event, func(ctx context.Context) (any, error) {
		return s.client.Get(ctx, id)
	})
	if err != nil {
		return Event{}, err
	}
	return event, nil
}

// Invalidate drops every cached audit page.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

func pageKey(params *ListParams) string {
	return cache.Key("audit", "list", "page="+strconv.Itoa(params.Page), "limit="+strconv.Itoa(params.Limit))
}
