package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveOperation(t *testing.T) {
	m := NewMetrics()

	m.ObserveOperation("brew", "ok", 0.01)
	m.ObserveOperation("brew", "ok", 0.02)
	m.ObserveOperation("brew", "insufficient_resource", 0.01)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("brew", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("brew", "insufficient_resource")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.latency))
}

func TestMetrics_SetLevels(t *testing.T) {
	m := NewMetrics()

	m.SetLevels(976, 92)

	assert.Equal(t, 976.0, testutil.ToFloat64(m.levels.WithLabelValues("water", "ml")))
	assert.Equal(t, 92.0, testutil.ToFloat64(m.levels.WithLabelValues("coffee", "g")))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.ObserveOperation("fill_water", "ok", 0.001)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `coffee_machine_operations_total{operation="fill_water",outcome="ok"} 1`), body)
}

func TestNewMetrics_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics()
		NewMetrics()
	}, "two instances must not collide on registration")
}
