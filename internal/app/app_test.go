package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coffeemachine/internal/config"
	"coffeemachine/internal/domain"
)

func TestApplication_MetricsEndpoint(t *testing.T) {
	var logs bytes.Buffer
	c, err := NewContainer(context.Background(), config.Default(), quietOptions(&logs))
	require.NoError(t, err)
	defer c.Shutdown(context.Background())

	_, err = c.Service().Brew(context.Background(), domain.Espresso)
	require.Error(t, err)

	app := &Application{container: c}
	rec := httptest.NewRecorder()
	app.metricsServer(":0").Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(),
		`coffee_machine_operations_total{operation="brew",outcome="insufficient_resource"} 1`)
}
