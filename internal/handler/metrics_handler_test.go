package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	err error
}

func (p stubPinger) PingContext(ctx context.Context) error {
	return p.err
}

type stubMetrics struct{}

func (stubMetrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("schedule_mutations_total 1\n"))
	})
}

func TestMetricsHandlerHealth(t *testing.T) {
	h := NewMetricsHandler(stubMetrics{}, stubPinger{})
	c, w := newGinContext(http.MethodGet, "/health", nil)

	h.Health(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestMetricsHandlerReady(t *testing.T) {
	h := NewMetricsHandler(stubMetrics{}, stubPinger{})
	c, w := newGinContext(http.MethodGet, "/ready", nil)

	h.Ready(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsHandlerNotReadyWhenDatabaseDown(t *testing.T) {
	h := NewMetricsHandler(stubMetrics{}, stubPinger{err: errors.New("connection refused")})
	c, w := newGinContext(http.MethodGet, "/ready", nil)

	h.Ready(c)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "NOT_READY", decodeEnvelope(t, w).Error.Code)
}

func TestMetricsHandlerPrometheus(t *testing.T) {
	h := NewMetricsHandler(stubMetrics{}, nil)
	c, w := newGinContext(http.MethodGet, "/metrics", nil)

	h.Prometheus(c)

	assert.Contains(t, w.Body.String(), "schedule_mutations_total")
}
