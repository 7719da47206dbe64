package audit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bataudit/dashboard/internal/platform/upstream"
)

const samplePage = `{
  "data": [
    {"id":"6f1c2f4e-3a7b-4d3e-9a51-0c2d7e1f4b10","identifier":"svc-billing","user_email":"ana@example.com","user_name":"Ana","method":"POST","path":"/invoices","status_code":201,"service_name":"billing","timestamp":"2025-03-10T10:00:00Z","response_time":42},
    {"id":"0b7d9c2a-1e34-4f56-8a90-bc12de34f567","identifier":"svc-auth","user_email":"","user_name":"","method":"GET","path":"/me","status_code":401,"service_name":"auth","timestamp":"2025-03-10T09:59:00Z"}
  ],
  "pagination": {"page":2,"limit":10,"totalItems":37,"totalPage":4}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	api, err := upstream.New(srv.URL)
	require.NoError(t, err)
	return NewClient(api)
}

func TestListSendsPageAndLimit(t *testing.T) {
	var rawQuery, path string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		path = r.URL.Path
		_, _ = w.Write([]byte(samplePage))
	})

	result, err := client.List(context.Background(), &ListParams{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, "/audit", path)
	assert.Equal(t, "page=2&limit=10", rawQuery)

	require.Len(t, result.Data, 2)
	assert.Equal(t, "svc-billing", result.Data[0].Identifier)
	assert.Equal(t, "svc-auth", result.Data[1].Identifier, "server order is preserved")
	assert.Equal(t, int64(42), result.Data[0].ResponseTime)
	assert.Equal(t, time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC), result.Data[0].Timestamp)
	assert.Equal(t, Pagination{Page: 2, Limit: 10, TotalItems: 37, TotalPage: 4}, result.Pagination)
}

func TestListWithoutParamsSendsNoQuery(t *testing.T) {
	var rawQuery = "unset"
	var requestURI string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		requestURI = r.RequestURI
		_, _ = w.Write([]byte(samplePage))
	})

	_, err := client.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "", rawQuery)
	assert.Equal(t, "/audit", requestURI)
}

func TestListEncodesZeroValuesTogether(t *testing.T) {
	assert.Equal(t, "page=0&limit=10", (&ListParams{Limit: 10}).Encode())
	assert.Equal(t, "page=3&limit=0", (&ListParams{Page: 3}).Encode())
	var nilParams *ListParams
	assert.Equal(t, "", nilParams.Encode())
}

func TestListNonSuccessIsQueryFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "database down", http.StatusInternalServerError)
	})

	_, err := client.List(context.Background(), &ListParams{Page: 1, Limit: 10})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQueryFailed)
	assert.False(t, errors.Is(err, ErrDecode))

	var qe *QueryError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, "list", qe.Op)
	assert.Contains(t, qe.URL, "/audit?page=1&limit=10")
}

func TestListRejectsFlatTotalShape(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[],"total":0}`))
	})

	_, err := client.List(context.Background(), nil)
	assert.ErrorIs(t, err, ErrQueryFailed)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestListRejectsMissingData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"pagination":{"page":1,"limit":10,"totalItems":0,"totalPage":0}}`))
	})

	_, err := client.List(context.Background(), nil)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestListRejectsEventWithoutID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"method":"GET","timestamp":"2025-03-10T10:00:00Z"}],"pagination":{"page":1,"limit":10,"totalItems":1,"totalPage":1}}`))
	})

	_, err := client.List(context.Background(), nil)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestListAcceptsEmptyPage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[],"pagination":{"page":9,"limit":10,"totalItems":37,"totalPage":4}}`))
	})

	result, err := client.List(context.Background(), &ListParams{Page: 9, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, result.Data)
	assert.Equal(t, 4, result.TotalPages())
}

func TestListTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	api, err := upstream.New(srv.URL)
	require.NoError(t, err)
	srv.Close()

	_, err = NewClient(api).List(context.Background(), nil)
	assert.ErrorIs(t, err, ErrQueryFailed)
}

func TestGetEvent(t *testing.T) {
	id := uuid.MustParse("6f1c2f4e-3a7b-4d3e-9a51-0c2d7e1f4b10")
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audit/"+id.String() {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"id":"6f1c2f4e-3a7b-4d3e-9a51-0c2d7e1f4b10","method":"DELETE","path":"/users/9","status_code":204,"service_name":"users","timestamp":"2025-03-10T10:00:00Z"}`))
	})

	event, err := client.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, event.ID)
	assert.Equal(t, "DELETE", event.Method)

	_, err = client.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, ErrQueryFailed)
}

func TestTotalPagesDefaultsToOne(t *testing.T) {
	assert.Equal(t, 1, PagedResult{}.TotalPages())
	assert.Equal(t, 7, PagedResult{Pagination: Pagination{TotalItems: 3, Limit: 10, TotalPage: 7}}.TotalPages())
}
