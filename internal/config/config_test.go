package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable LoadConfig reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"COFFEE_CONFIG", "STORAGE_BACKEND", "JSON_PATH", "SQLITE_PATH", "BOLT_PATH",
		"KAFKA_BROKER", "COMMAND_TOPIC", "EVENT_TOPIC", "KAFKA_GROUP_ID",
		"OTEL_ENDPOINT", "OTEL_AUTH_HEADER", "METRICS_ADDR",
		"WATER_CAPACITY_ML", "COFFEE_CAPACITY_G", "COMMAND_RATE_LIMIT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, "/data/state.json", cfg.Storage.JSONPath)
	assert.Equal(t, "/data/state.db", cfg.Storage.SQLitePath)
	assert.Equal(t, 2000, cfg.Machine.WaterCapacityML)
	assert.Equal(t, 500, cfg.Machine.CoffeeCapacityG)
	assert.Equal(t, DefaultCommandTopic, cfg.Messaging.CommandTopic)
	assert.False(t, cfg.Telemetry.OtelEnabled())
	assert.Error(t, cfg.RequireMessaging(), "no broker configured")
}

func TestLoadConfig_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_BACKEND", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/machine.db")
	t.Setenv("WATER_CAPACITY_ML", "1500")
	t.Setenv("KAFKA_BROKER", "kafka:9092")
	t.Setenv("COMMAND_RATE_LIMIT", "2.5")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend, "backend name is case-insensitive")
	assert.Equal(t, "/tmp/machine.db", cfg.Storage.SQLitePath)
	assert.Equal(t, 1500, cfg.Machine.WaterCapacityML)
	assert.Equal(t, 2.5, cfg.Messaging.CommandRateLimit)
	assert.NoError(t, cfg.RequireMessaging())

	defaults := cfg.Machine.Defaults()
	assert.Equal(t, 1500, defaults.WaterCapacityML)
	assert.Zero(t, defaults.WaterML)
}

func TestLoadConfig_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "coffee.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  backend: json
  json_path: /srv/coffee/state.json
machine:
  coffee_capacity_g: 750
telemetry:
  metrics_addr: ":9100"
`), 0o644))
	t.Setenv("COFFEE_CONFIG", path)
	t.Setenv("JSON_PATH", "/override/state.json")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, BackendJSON, cfg.Storage.Backend)
	assert.Equal(t, "/override/state.json", cfg.Storage.JSONPath, "env wins over the file")
	assert.Equal(t, 750, cfg.Machine.CoffeeCapacityG)
	assert.Equal(t, 2000, cfg.Machine.WaterCapacityML, "unset file keys keep defaults")
	assert.Equal(t, ":9100", cfg.Telemetry.MetricsAddr)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown backend", env: map[string]string{"STORAGE_BACKEND": "redis"}},
		{name: "non-numeric capacity", env: map[string]string{"WATER_CAPACITY_ML": "lots"}},
		{name: "zero capacity", env: map[string]string{"COFFEE_CAPACITY_G": "0"}},
		{name: "negative rate", env: map[string]string{"COMMAND_RATE_LIMIT": "-1"}},
		{name: "missing config file", env: map[string]string{"COFFEE_CONFIG": "/does/not/exist.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := LoadConfig()

			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestValidate_RequiresPathForBackend(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = BackendBolt
	cfg.Storage.BoltPath = ""

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "BoltPath")
}
