// Package kafka holds the transport seams the command bus is built on. The
// otel-kafka-konsumer reader and writer satisfy them in production; tests
// use in-memory fakes.
package kafka

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// Producer publishes machine events.
type Producer interface {
	WriteMessage(ctx context.Context, msg kafka.Message) error
	Close() error
}

// Consumer reads machine commands.
type Consumer interface {
	ReadMessage(ctx context.Context) (*kafka.Message, error)
	Close() error
}
