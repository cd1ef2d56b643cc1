package observability

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Logger is the slice of *zap.Logger the machine components log through.
type Logger interface {
	Info(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	With(fields ...zap.Field) *zap.Logger
	Sync() error
}

// Tracer starts spans. otel.Tracer and the noop tracer both satisfy it.
type Tracer interface {
	Start(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span)
}

// Recorder receives the outcome of every machine operation.
type Recorder interface {
	ObserveOperation(operation, outcome string, elapsedSeconds float64)
	SetLevels(waterML, coffeeG int)
}
