package coffee

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"coffeemachine/internal/platform/kafka"
	"coffeemachine/internal/platform/observability"
)

// MessageHandler processes one message from the command topic.
type MessageHandler interface {
	HandleCommand(ctx context.Context, msg kafkago.Message) error
}

// KafkaMessageHandler decodes machine commands, runs them and publishes the
// resulting event.
type KafkaMessageHandler struct {
	service  *Service
	producer kafka.Producer
	logger   observability.Logger
}

func NewMessageHandler(service *Service, producer kafka.Producer, logger observability.Logger) MessageHandler {
	return &KafkaMessageHandler{
		service:  service,
		producer: producer,
		logger:   logger,
	}
}

// HandleCommand answers every message with an event, including ones that do
// not decode. The returned error is only about publishing that event.
func (h *KafkaMessageHandler) HandleCommand(ctx context.Context, msg kafkago.Message) error {
	msgCtx := kafka.ExtractTraceContext(ctx, msg.Headers)

	h.logger.Info("📨 Command message received",
		zap.ByteString("key", msg.Key),
		zap.Int("partition", msg.Partition),
		zap.Int64("offset", msg.Offset),
	)

	var cmd Command
	if err := json.Unmarshal(msg.Value, &cmd); err != nil {
		h.logger.Error("❌ Invalid JSON in machine command",
			zap.Error(err),
			zap.ByteString("raw_value", msg.Value),
		)
		// Keep the message key so the reply can still be correlated.
		cmd = Command{ID: string(msg.Key)}
		return h.publish(msgCtx, newEvent(cmd).fail(invalidPayload(err)))
	}

	h.logger.Info("✅ Machine command decoded",
		zap.String("command_id", cmd.ID),
		zap.String("type", string(cmd.Type)),
	)

	return h.publish(msgCtx, h.service.Execute(msgCtx, cmd))
}

func (h *KafkaMessageHandler) publish(ctx context.Context, event *MachineEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("❌ Failed to serialize machine event",
			zap.Error(err),
			zap.String("event_id", event.ID),
		)
		return err
	}

	key := event.CommandID
	if key == "" {
		key = event.ID
	}
	if err := h.producer.WriteMessage(ctx, kafkago.Message{Key: []byte(key), Value: payload}); err != nil {
		h.logger.Error("❌ Failed to publish machine event",
			zap.Error(err),
			zap.String("event_id", event.ID),
			zap.String("command_id", event.CommandID),
		)
		return err
	}

	h.logger.Info("📤 Sent machine event",
		zap.String("event_id", event.ID),
		zap.String("command_id", event.CommandID),
		zap.Bool("ok", event.OK),
	)
	return nil
}
