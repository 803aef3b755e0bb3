package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mittwald/healthd/pkg/health"
	"github.com/mittwald/healthd/pkg/probe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthServer(t *testing.T) *httptest.Server {
	registry := probe.NewRegistry()
	handler := health.NewHandler(probe.NewAggregator(registry),
		health.WithServiceInfo(health.ServiceInfo{Name: "prossima-ai-backend", Version: "1.0.0"}),
	)
	srv := httptest.NewServer(handler.Router())
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) string {
	var out bytes.Buffer
	ctlCommand.SetOut(&out)
	ctlCommand.SetArgs(args)
	t.Cleanup(func() {
		ctlCommand.SetOut(nil)
		ctlCommand.SetArgs(nil)
	})

	require.NoError(t, ctlCommand.Execute())
	return out.String()
}

func TestStatus(t *testing.T) {
	srv := healthServer(t)

	out := run(t, "--api-address", srv.URL, "status")
	assert.Contains(t, out, "prossima-ai-backend")
	assert.Contains(t, out, health.StatusHealthy)
}

func TestStatusJSON(t *testing.T) {
	srv := healthServer(t)

	out := run(t, "--api-address", srv.URL, "status", "--json")
	assert.Contains(t, out, "components")
}

func TestReadyAndLive(t *testing.T) {
	srv := healthServer(t)

	assert.Contains(t, run(t, "--api-address", srv.URL, "ready"), health.StatusReady)
	assert.Contains(t, run(t, "--api-address", srv.URL, "live"), health.StatusAlive)
}

func TestWait(t *testing.T) {
	srv := healthServer(t)

	run(t, "--api-address", srv.URL, "wait", "--interval", "10ms", "--timeout", "2s")
}

func TestUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	ctlCommand.SetArgs([]string{"--api-address", srv.URL, "live"})
	defer ctlCommand.SetArgs(nil)

	assert.Error(t, ctlCommand.Execute())
}
