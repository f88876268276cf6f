package commands

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/phiguard/internal/metrics"
)

func TestRunMetricsServer(t *testing.T) {
	provider, err := metrics.NewProvider("phiguard_test")
	require.NoError(t, err)
	defer func() { _ = provider.Shutdown(context.Background()) }()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ready := func(ctx context.Context) error { return errors.New("record store down") }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- RunMetricsServer(ctx, provider, "phiguard_test", ready, slog.New(slog.DiscardHandler), listener)
	}()

	base := "http://" + listener.Addr().String()
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/health")
		if err != nil {
			return false
		}
		defer func() { _ = resp.Body.Close() }()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	resp, err := http.Get(base + "/ready")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp, err = http.Get(base + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "phiguard_test_http_requests_total")

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("metrics server did not shut down")
	}
}
