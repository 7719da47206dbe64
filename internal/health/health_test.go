package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bataudit/dashboard/internal/platform/upstream"
)

func newClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	api, err := upstream.New(srv.URL)
	require.NoError(t, err)
	return NewClient(api)
}

func TestQueryDecodesSnapshot(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		assert.Empty(t, r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"status":"ok","message":"BatAudit API is healthy","api_response_ms":3,"db_response_ms":1,"db_status":"ok","version":"1.2.0","environment":"staging"}`))
	})

	snap, err := client.Query(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Snapshot{
		Status:        "ok",
		DBStatus:      "ok",
		APIResponseMS: 3,
		DBResponseMS:  1,
		Environment:   "staging",
		Version:       "1.2.0",
		Message:       "BatAudit API is healthy",
	}, snap)
	assert.True(t, snap.Healthy())
	assert.True(t, snap.DBHealthy())
}

func TestQueryFailures(t *testing.T) {
	cases := map[string]struct {
		handler    http.HandlerFunc
		wantDecode bool
	}{
		"status": {
			handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusServiceUnavailable) },
		},
		"malformed": {
			handler:    func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{"status":`)) },
			wantDecode: true,
		},
		"missing status": {
			handler:    func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{"db_status":"ok"}`)) },
			wantDecode: true,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := newClient(t, tc.handler).Query(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrQueryFailed)
			assert.Equal(t, tc.wantDecode, errors.Is(err, ErrDecode))
		})
	}
}

func TestSnapshotDegraded(t *testing.T) {
	snap := Snapshot{Status: "ok", DBStatus: "error"}
	assert.True(t, snap.Healthy())
	assert.False(t, snap.DBHealthy())
}

func TestHistoryAppendAndRecent(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	h := NewHistory(client, 3)
	ctx := context.Background()
	base := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		snap := Snapshot{Status: "ok", APIResponseMS: int64(i), DBResponseMS: int64(10 + i)}
		require.NoError(t, h.Append(ctx, SampleOf(snap, base.Add(time.Duration(i)*time.Second))))
	}

	samples, err := h.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, samples, 3)
	assert.Equal(t, int64(2), samples[0].APIMS, "oldest retained sample first")
	assert.Equal(t, int64(4), samples[2].APIMS)
	assert.Equal(t, int64(14), samples[2].DBMS)

	latest, err := h.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, base.Add(4*time.Second), latest[0].At)
}

func TestHistoryDisabled(t *testing.T) {
	h := NewHistory(nil, 10)
	assert.False(t, h.Enabled())
	require.NoError(t, h.Append(context.Background(), Sample{}))
	samples, err := h.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, samples)
}

func TestSampleReachable(t *testing.T) {
	assert.True(t, SampleOf(Snapshot{Status: "ok"}, time.Now()).Reachable())
	assert.False(t, Sample{Status: StatusUnreachable}.Reachable())
}
