package telemetry

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_Registers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.Enrollments.WithLabelValues(ResultSuccess).Inc()
	m.Ingestions.WithLabelValues(ResultUnauthorized).Add(2)
	m.TokenRotations.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Enrollments.WithLabelValues(ResultSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Ingestions.WithLabelValues(ResultUnauthorized)))

	rec := httptest.NewRecorder()
	HandlerFor(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hostwatch_token_rotations_total 1")
}

func TestNewMetrics_Unregistered(t *testing.T) {
	m1 := NewMetrics(nil)
	m2 := NewMetrics(nil)
	m1.Logins.WithLabelValues(ResultSuccess).Inc()
	assert.Equal(t, 0.0, testutil.ToFloat64(m2.Logins.WithLabelValues(ResultSuccess)))
}

func TestSetupTracing(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := SetupTracing(ExporterStdout, &buf)
	require.NoError(t, err)

	_, span := Tracer().Start(context.Background(), "test-span")
	span.End()
	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "test-span")

	_, err = SetupTracing("zipkin", &buf)
	assert.Error(t, err)

	shutdown, err = SetupTracing(ExporterNone, nil)
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
