package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"coffeemachine/internal/domain"
)

const (
	ServiceName    = "coffee-machine"
	ServiceVersion = "0.1.0"
)

const (
	DefaultCommandTopic = "MachineCommands"
	DefaultEventTopic   = "MachineEvents"
	DefaultGroupID      = "coffee-machine-group"
	BatchTimeout        = 10 * time.Millisecond
	BatchSize           = 100
)

const (
	LogsPath      = "/otlp/v1/logs"   // Grafana Cloud OTLP path
	TracesPath    = "/otlp/v1/traces" // Grafana Cloud OTLP path
	ExportTimeout = 30 * time.Second
	MaxQueueSize  = 2048
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
)

// Config is built once at startup and handed to whatever constructs the
// service. Values come from defaults, then the optional YAML file named by
// COFFEE_CONFIG, then environment variables.
type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	Machine   MachineConfig   `yaml:"machine"`
	Messaging MessagingConfig `yaml:"messaging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// StorageConfig selects where the machine record lives.
type StorageConfig struct {
	Backend    string `yaml:"backend" validate:"required,oneof=memory json sqlite bolt"`
	JSONPath   string `yaml:"json_path" validate:"required_if=Backend json"`
	SQLitePath string `yaml:"sqlite_path" validate:"required_if=Backend sqlite"`
	BoltPath   string `yaml:"bolt_path" validate:"required_if=Backend bolt"`
}

// MachineConfig holds the capacities a new machine record is created with.
type MachineConfig struct {
	WaterCapacityML int `yaml:"water_capacity_ml" validate:"min=1"`
	CoffeeCapacityG int `yaml:"coffee_capacity_g" validate:"min=1"`
}

// Defaults returns the state a store hands out before anything was saved.
func (m MachineConfig) Defaults() domain.State {
	return domain.NewStateWithCapacity(m.WaterCapacityML, m.CoffeeCapacityG)
}

// MessagingConfig configures the Kafka command consumer and event producer.
type MessagingConfig struct {
	KafkaBroker  string `yaml:"kafka_broker"`
	CommandTopic string `yaml:"command_topic" validate:"required"`
	EventTopic   string `yaml:"event_topic" validate:"required"`
	GroupID      string `yaml:"group_id" validate:"required"`
	// CommandRateLimit caps commands handled per second; 0 disables the cap.
	CommandRateLimit float64 `yaml:"command_rate_limit" validate:"min=0"`
}

// TelemetryConfig configures OTLP export and the Prometheus endpoint. Empty
// values switch the corresponding exporter off.
type TelemetryConfig struct {
	OtelEndpoint   string `yaml:"otel_endpoint"`
	OtelAuthHeader string `yaml:"otel_auth_header"`
	MetricsAddr    string `yaml:"metrics_addr"`
}

// OtelEnabled reports whether OTLP export is configured.
func (t TelemetryConfig) OtelEnabled() bool { return t.OtelEndpoint != "" }

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:    BackendMemory,
			JSONPath:   "/data/state.json",
			SQLitePath: "/data/state.db",
			BoltPath:   "/data/state.bolt",
		},
		Machine: MachineConfig{
			WaterCapacityML: domain.DefaultWaterCapacityML,
			CoffeeCapacityG: domain.DefaultCoffeeCapacityG,
		},
		Messaging: MessagingConfig{
			CommandTopic: DefaultCommandTopic,
			EventTopic:   DefaultEventTopic,
			GroupID:      DefaultGroupID,
		},
	}
}

func LoadConfig() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("COFFEE_CONFIG"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.mergeEnv(); err != nil {
		return nil, err
	}
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() error {
	setString(&c.Storage.Backend, "STORAGE_BACKEND")
	setString(&c.Storage.JSONPath, "JSON_PATH")
	setString(&c.Storage.SQLitePath, "SQLITE_PATH")
	setString(&c.Storage.BoltPath, "BOLT_PATH")

	setString(&c.Messaging.KafkaBroker, "KAFKA_BROKER")
	setString(&c.Messaging.CommandTopic, "COMMAND_TOPIC")
	setString(&c.Messaging.EventTopic, "EVENT_TOPIC")
	setString(&c.Messaging.GroupID, "KAFKA_GROUP_ID")

	setString(&c.Telemetry.OtelEndpoint, "OTEL_ENDPOINT")
	setString(&c.Telemetry.OtelAuthHeader, "OTEL_AUTH_HEADER")
	setString(&c.Telemetry.MetricsAddr, "METRICS_ADDR")

	return errors.Join(
		setInt(&c.Machine.WaterCapacityML, "WATER_CAPACITY_ML"),
		setInt(&c.Machine.CoffeeCapacityG, "COFFEE_CAPACITY_G"),
		setFloat(&c.Messaging.CommandRateLimit, "COMMAND_RATE_LIMIT"),
	)
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// RequireMessaging reports whether the Kafka transport can be started.
func (c *Config) RequireMessaging() error {
	if c.Messaging.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER environment variable is required")
	}
	return nil
}

func setString(dst *string, key string) {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		*dst = value
	}
}

func setInt(dst *int, key string) error {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%s must be an integer: %w", key, err)
	}
	*dst = n
	return nil
}

func setFloat(dst *float64, key string) error {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("%s must be a number: %w", key, err)
	}
	*dst = f
	return nil
}
