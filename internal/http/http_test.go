package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/phiguard/internal/metrics"
)

// TestMain sets Gin to test mode for all tests in this package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestMetricsServer(t *testing.T, ready ReadinessCheck) *MetricsServer {
	t.Helper()
	provider, err := metrics.NewProvider("test_app")
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	return NewMetricsServer(discardLogger(), provider, "test_app", ready)
}

func serve(handler http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func decodeStatus(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response["status"]
}

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	healthHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.Equal(t, "healthy", decodeStatus(t, w))
}

func TestReadinessHandler(t *testing.T) {
	tests := []struct {
		name       string
		check      ReadinessCheck
		wantCode   int
		wantStatus string
	}{
		{name: "no check", check: nil, wantCode: http.StatusOK, wantStatus: "ready"},
		{
			name:       "check passes",
			check:      func(ctx context.Context) error { return nil },
			wantCode:   http.StatusOK,
			wantStatus: "ready",
		},
		{
			name:       "check fails",
			check:      func(ctx context.Context) error { return errors.New("database unreachable") },
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "not_ready",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

			readinessHandler(tt.check, discardLogger())(c)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantStatus, decodeStatus(t, w))
		})
	}
}

func TestCustomLoggerMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	router := gin.New()
	router.Use(CustomLoggerMiddleware(logger))
	router.GET("/brew", func(c *gin.Context) {
		c.Status(http.StatusTeapot)
	})

	serve(router, http.MethodGet, "/brew")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "http request", entry["msg"])
	assert.Equal(t, "/brew", entry["path"])
	assert.Equal(t, float64(http.StatusTeapot), entry["status"])
}

func TestMetricsServer_Routes(t *testing.T) {
	server := newTestMetricsServer(t, func(ctx context.Context) error { return nil })
	handler := server.Handler()

	health := serve(handler, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, health.Code)
	assert.Equal(t, "healthy", decodeStatus(t, health))

	ready := serve(handler, http.MethodGet, "/ready")
	assert.Equal(t, http.StatusOK, ready.Code)
	assert.Equal(t, "ready", decodeStatus(t, ready))

	assert.Equal(t, http.StatusNotFound, serve(handler, http.MethodPost, "/health").Code)
	assert.Equal(t, http.StatusNotFound, serve(handler, http.MethodGet, "/missing").Code)

	w := serve(handler, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test_app_http_requests_total")
	assert.Contains(t, w.Body.String(), `path="/health"`)
}

func TestMetricsServer_Recovery(t *testing.T) {
	server := newTestMetricsServer(t, func(ctx context.Context) error {
		panic("readiness check exploded")
	})

	w := serve(server.Handler(), http.MethodGet, "/ready")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestMetricsServer_ServeAndShutdown(t *testing.T) {
	server := newTestMetricsServer(t, nil)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- server.Serve(listener) }()

	url := "http://" + listener.Addr().String() + "/health"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, server.Shutdown(ctx))
	assert.NoError(t, <-done)
}
