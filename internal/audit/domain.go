package audit

import (
	"time"

	"github.com/google/uuid"
)

// Event is a single audit record as reported by the audit service. Events
// are display-only and never mutated after decoding.
type Event struct {
	ID           uuid.UUID `json:"id" validate:"required"`
	Identifier   string    `json:"identifier"`
	UserEmail    string    `json:"user_email"`
	UserName     string    `json:"user_name"`
	Method       string    `json:"method" validate:"required"`
	Path         string    `json:"path"`
	StatusCode   int       `json:"status_code" validate:"gte=0,lte=599"`
	ServiceName  string    `json:"service_name"`
	Timestamp    time.Time `json:"timestamp" validate:"required"`
	ResponseTime int64     `json:"response_time,omitempty" validate:"gte=0"`
}

// Pagination is the paging metadata returned alongside a page of events.
// TotalPage comes from the server and is not reconciled with TotalItems.
type Pagination struct {
	Page       int   `json:"page" validate:"gte=0"`
	Limit      int   `json:"limit" validate:"gte=0"`
	TotalItems int64 `json:"totalItems" validate:"gte=0"`
	TotalPage  int   `json:"totalPage" validate:"gte=0"`
}

// PagedResult holds one page of events in server order.
type PagedResult struct {
	Data       []Event    `json:"data" validate:"required,dive"`
	Pagination Pagination `json:"pagination" validate:"required"`
}

// TotalPages returns the server-reported page count, treating a missing or
// zero count as a single page.
func (r PagedResult) TotalPages() int {
	if r.Pagination.TotalPage < 1 {
		return 1
	}
	return r.Pagination.TotalPage
}
