package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coffeemachine/internal/coffee"
	"coffeemachine/internal/domain"
)

// useJSONStore points the CLI at a fresh state file.
func useJSONStore(t *testing.T) {
	t.Helper()
	for _, key := range []string{"COFFEE_CONFIG", "KAFKA_BROKER", "OTEL_ENDPOINT", "METRICS_ADDR", "WATER_CAPACITY_ML", "COFFEE_CAPACITY_G"} {
		t.Setenv(key, "")
	}
	t.Setenv("STORAGE_BACKEND", "json")
	t.Setenv("JSON_PATH", filepath.Join(t.TempDir(), "state.json"))
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd(&out, &errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCLI_FillAndBrew(t *testing.T) {
	useJSONStore(t)

	out, err := run(t, "fill", "water", "500")
	require.NoError(t, err)
	assert.Contains(t, out, "Filled 500 ml water.")

	_, err = run(t, "fill", "coffee", "50")
	require.NoError(t, err)

	out, err = run(t, "brew", "double_espresso")
	require.NoError(t, err)
	assert.Contains(t, out, "Enjoy your double espresso!")

	out, err = run(t, "--json", "status")
	require.NoError(t, err)
	var state domain.State
	require.NoError(t, json.Unmarshal([]byte(out), &state))
	assert.Equal(t, 452, state.WaterML)
	assert.Equal(t, 34, state.CoffeeG)
}

func TestCLI_BrewWithArgument(t *testing.T) {
	useJSONStore(t)
	_, err := run(t, "fill", "water", "200")
	require.NoError(t, err)
	_, err = run(t, "fill", "coffee", "20")
	require.NoError(t, err)

	out, err := run(t, "--json", "brew", "americano")

	require.NoError(t, err)
	var res coffee.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "Enjoy your americano!", res.Message)
	assert.Equal(t, 52, res.State.WaterML)
}

func TestCLI_DomainErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
		kind domain.Kind
	}{
		{name: "missing amount", args: []string{"fill", "water"}, want: "Please enter a water amount (ml).", kind: domain.KindInvalidInput},
		{name: "zero coffee", args: []string{"fill", "coffee", "0"}, want: "Coffee amount must be greater than 0 g.", kind: domain.KindInvalidInput},
		{name: "overflow", args: []string{"fill", "water", "2001"}, want: "would overflow the water container", kind: domain.KindCapacityViolation},
		{name: "unknown drink", args: []string{"brew", "latte"}, want: "Unknown drink type 'latte'", kind: domain.KindInvalidInput},
		{name: "empty machine", args: []string{"brew", "ristretto"}, want: "both containers are empty", kind: domain.KindInsufficientResource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useJSONStore(t)

			_, err := run(t, tt.args...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, tt.kind, domain.KindOf(err))
		})
	}
}

func TestCLI_NonNumericAmount(t *testing.T) {
	useJSONStore(t)

	_, err := run(t, "fill", "water", "lots")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a whole number of ml")
}

func TestCLI_Recipes(t *testing.T) {
	useJSONStore(t)

	out, err := run(t, "--json", "recipes")

	require.NoError(t, err)
	var catalog map[string]domain.Recipe
	require.NoError(t, json.Unmarshal([]byte(out), &catalog))
	assert.Equal(t, domain.Recipes(), catalog)

	out, err = run(t, "recipes")
	require.NoError(t, err)
	assert.Contains(t, out, "Double Espresso")
	assert.Contains(t, out, "148 ml")
}

func TestCLI_ServeNeedsBroker(t *testing.T) {
	useJSONStore(t)

	_, err := run(t, "serve")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKER")
}
