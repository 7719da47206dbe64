package audit

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/bataudit/dashboard/internal/platform/upstream"
)

const listPath = "/audit"

// ListParams selects a page of events. Both fields are always sent together.
type ListParams struct {
	Page  int
	Limit int
}

// Encode renders the query string for params. A nil receiver yields "" so the
// server applies its own default paging.
func (p *ListParams) Encode() string {
	if p == nil {
		return ""
	}
	return "page=" + strconv.Itoa(p.Page) + "&limit=" + strconv.Itoa(p.Limit)
}

// Client queries the external audit service.
type Client struct {
	api *upstream.Client
}

// NewClient wraps an upstream client pointed at the BatAudit API.
func NewClient(api *upstream.Client) *Client {
	return &Client{api: api}
}

// List fetches one page of events. It performs no retries; any failure is
// returned as a *QueryError matching ErrQueryFailed.
func (c *Client) List(ctx context.Context, params *ListParams) (PagedResult, error) {
	if c == nil || c.api == nil {
		return PagedResult{}, fmt.Errorf("audit: client not configured")
	}
	query := params.Encode()
	var result PagedResult
	if err := c.api.GetJSON(ctx, listPath, query, &result); err != nil {
		return PagedResult{}, &QueryError{Op: "list", URL: c.api.Endpoint(listPath, query), Err: err}
	}
	return result, nil
}

// Get fetches a single event by id.
func (c *Client) Get(ctx context.Context, id uuid.UUID) (Event, error) {
	if c == nil || c.api == nil {
		return Event{}, fmt.Errorf("audit: client not configured")
	}
	path := listPath + "/" + id.String()
	var event Event
	if err := c.api.GetJSON(ctx, path, "", &event); err != nil {
		if upstream.StatusCode(err) == http.StatusNotFound {
			err = fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return Event{}, &QueryError{Op: "get", URL: c.api.Endpoint(path, ""), Err: err}
	}
	return event, nil
}
