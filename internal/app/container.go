package app

import (
	"context"
	"fmt"
	"os"

	otelkafka "github.com/Trendyol/otel-kafka-konsumer"
	kafkago "github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"coffeemachine/internal/coffee"
	"coffeemachine/internal/config"
	"coffeemachine/internal/platform/kafka"
	"coffeemachine/internal/platform/observability"
	"coffeemachine/internal/storage"
)

// Options tune what a Container sets up.
type Options struct {
	// Messaging connects the Kafka command consumer and event producer.
	Messaging bool
	// LogOutput defaults to stdout.
	LogOutput zapcore.WriteSyncer
	LogLevel  zapcore.Level
}

// Container holds expensive-to-create singleton resources and dependencies
type Container struct {
	config          *config.Config
	logger          *zap.Logger
	tracer          observability.Tracer
	metrics         *observability.Metrics
	store           storage.Store
	service         *coffee.Service
	messageConsumer kafka.Consumer
	messageProducer kafka.Producer
	otelShutdown    observability.ShutdownFunc
}

// NewContainer builds every component from cfg. On error, whatever was
// already opened is released.
func NewContainer(ctx context.Context, cfg *config.Config, opts Options) (*Container, error) {
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stdout
	}

	c := &Container{config: cfg}

	c.setupObservability(ctx, opts)

	store, err := storage.Open(cfg.Storage, cfg.Machine.Defaults())
	if err != nil {
		c.Shutdown(ctx)
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Storage.Backend, err)
	}
	c.store = store
	c.logger.Info("Machine store opened", zap.String("backend", cfg.Storage.Backend))

	c.metrics = observability.NewMetrics()
	c.service = coffee.NewService(c.store, c.logger, c.tracer, c.metrics)

	if opts.Messaging {
		if err := cfg.RequireMessaging(); err != nil {
			c.Shutdown(ctx)
			return nil, err
		}
		if err := c.setupKafka(otel.GetTracerProvider()); err != nil {
			c.Shutdown(ctx)
			return nil, err
		}
	}

	return c, nil
}

// setupObservability installs the OTel SDKs, then builds the logger on top
// of them. Export failures are logged and the container carries on without
// export.
func (c *Container) setupObservability(ctx context.Context, opts Options) {
	bootstrap := observability.NewLogger(observability.LoggerOptions{Output: opts.LogOutput, Level: opts.LogLevel})

	telemetry := c.config.Telemetry
	logShutdown, err := observability.SetupLoggingSDK(ctx, telemetry)
	if err != nil {
		bootstrap.Error("Failed to setup OpenTelemetry logging", zap.Error(err))
	}

	_, traceShutdown, err := observability.SetupTracingSDK(ctx, telemetry)
	if err != nil {
		bootstrap.Error("Failed to setup OpenTelemetry tracing", zap.Error(err))
	}
	c.otelShutdown = observability.JoinShutdown(traceShutdown, logShutdown)

	c.logger = observability.NewLogger(observability.LoggerOptions{
		Output: opts.LogOutput,
		Level:  opts.LogLevel,
		Bridge: telemetry.OtelEnabled(),
	})
	c.tracer = otel.Tracer(config.ServiceName)
}

// setupKafka builds the traced command reader and event writer.
func (c *Container) setupKafka(tp trace.TracerProvider) error {
	msg := c.config.Messaging

	baseReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: []string{msg.KafkaBroker},
		Topic:   msg.CommandTopic,
		GroupID: msg.GroupID,
	})
	reader, err := otelkafka.NewReader(baseReader)
	if err != nil {
		return fmt.Errorf("failed to create command reader: %w", err)
	}
	c.messageConsumer = reader

	baseWriter := &kafkago.Writer{
		Addr:         kafkago.TCP(msg.KafkaBroker),
		Topic:        msg.EventTopic,
		Balancer:     &kafkago.LeastBytes{},
		BatchTimeout: config.BatchTimeout,
		BatchSize:    config.BatchSize,
	}
	writer, err := otelkafka.NewWriter(baseWriter,
		otelkafka.WithTracerProvider(tp),
		otelkafka.WithPropagator(propagation.TraceContext{}),
		otelkafka.WithAttributes(
			[]attribute.KeyValue{
				semconv.MessagingDestinationNameKey.String(msg.EventTopic),
				attribute.String("messaging.kafka.client_id", config.ServiceName),
			},
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create event writer: %w", err)
	}
	c.messageProducer = writer

	c.logger.Info("Kafka transport ready",
		zap.String("broker", msg.KafkaBroker),
		zap.String("command_topic", msg.CommandTopic),
		zap.String("event_topic", msg.EventTopic),
	)
	return nil
}

// Shutdown releases everything the container opened. Safe to call on a
// partially built container.
func (c *Container) Shutdown(ctx context.Context) {
	if c.logger != nil {
		c.logger.Info("Shutting down infrastructure...")
	}

	if c.messageConsumer != nil {
		if err := c.messageConsumer.Close(); err != nil {
			c.logError("Failed to close message consumer", err)
		}
	}
	if c.messageProducer != nil {
		if err := c.messageProducer.Close(); err != nil {
			c.logError("Failed to close message producer", err)
		}
	}
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			c.logError("Failed to close machine store", err)
		}
	}
	if c.otelShutdown != nil {
		if err := c.otelShutdown(ctx); err != nil {
			c.logError("Failed to shutdown OpenTelemetry", err)
		}
	}

	if c.logger != nil {
		// Sync on stdout/stderr fails on some platforms; nothing to do about it.
		_ = c.logger.Sync()
	}
}

func (c *Container) logError(msg string, err error) {
	if c.logger != nil {
		c.logger.Error(msg, zap.Error(err))
	}
}

func (c *Container) Config() *config.Config          { return c.config }
func (c *Container) Logger() *zap.Logger             { return c.logger }
func (c *Container) Tracer() observability.Tracer    { return c.tracer }
func (c *Container) Metrics() *observability.Metrics { return c.metrics }
func (c *Container) Store() storage.Store            { return c.store }
func (c *Container) Service() *coffee.Service        { return c.service }
func (c *Container) MessageConsumer() kafka.Consumer { return c.messageConsumer }
func (c *Container) MessageProducer() kafka.Producer { return c.messageProducer }
