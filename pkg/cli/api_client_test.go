package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mittwald/healthd/pkg/health"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readinessServer(t *testing.T, readyAfter int32) (*httptest.Server, *int32) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, health.PathReadiness, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		if atomic.AddInt32(&calls, 1) < readyAfter {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"not_ready","timestamp":"2024-05-01T12:00:00Z","checks":{"redis":{"status":"fail","message":"connection refused"}}}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"ready","timestamp":"2024-05-01T12:00:00Z","checks":{"redis":{"status":"pass","message":"Connected"}}}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestReadinessDecodesUnavailableBody(t *testing.T) {
	srv, _ := readinessServer(t, 2)

	res := NewAPIClient(srv.URL).Readiness(context.Background())

	require.NoError(t, res.Err())
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	assert.Equal(t, health.StatusNotReady, res.Body.Status)
	require.Len(t, res.Body.Checks, 1)
	assert.Equal(t, health.Check{Name: "redis", Status: "fail", Message: "connection refused"}, res.Body.Checks[0])
}

func TestWaitReady(t *testing.T) {
	srv, calls := readinessServer(t, 3)

	err := NewAPIClient(srv.URL).WaitReady(context.Background(), 5*time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
}

func TestWaitReadyInterrupted(t *testing.T) {
	srv, _ := readinessServer(t, 1<<30)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := NewAPIClient(srv.URL).WaitReady(ctx, 5*time.Millisecond)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClientOverUnixSocket(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "healthd.sock")
	l, err := health.Listen("unix://" + socket)
	require.NoError(t, err)

	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"status":"alive","timestamp":"2024-05-01T12:00:00Z"}`))
	})}
	go func() { _ = srv.Serve(l) }()
	defer srv.Close()

	res := NewAPIClient("unix://" + socket).Liveness(context.Background())

	require.NoError(t, res.Err())
	assert.Equal(t, health.LivenessResponse{Status: health.StatusAlive, Timestamp: "2024-05-01T12:00:00Z"}, res.Body)
}

func TestUnreachableService(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	res := NewAPIClient(addr).Detailed(context.Background())
	assert.Error(t, res.Err())

	var out bytes.Buffer
	require.NoError(t, res.Print(&out))
	assert.NotEmpty(t, out.String())
}

func TestRawPrintsJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"alive"}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	res := NewAPIClient(srv.URL).Raw(context.Background(), health.PathLiveness)

	require.NoError(t, res.Err())
	require.NoError(t, res.Print(&out))
	assert.Contains(t, out.String(), "alive")
}

func TestTextPlainBodyBecomesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "405 method not allowed", http.StatusMethodNotAllowed)
	}))
	defer srv.Close()

	res := NewAPIClient(srv.URL).Liveness(context.Background())
	assert.EqualError(t, res.Err(), "405 method not allowed")
}
