package coffee

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"coffeemachine/internal/platform/kafka"
)

type ConsumerService interface {
	Start(ctx context.Context) error
}

type KafkaConsumerService struct {
	consumer       kafka.Consumer
	messageHandler MessageHandler
	logger         *zap.Logger
	limiter        *rate.Limiter
}

// NewConsumerService builds the command loop. perSecond caps how many
// commands are handled per second; zero or less means no cap.
func NewConsumerService(consumer kafka.Consumer, messageHandler MessageHandler, logger *zap.Logger, perSecond float64) ConsumerService {
	var limiter *rate.Limiter
	if perSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
	return &KafkaConsumerService{
		consumer:       consumer,
		messageHandler: messageHandler,
		logger:         logger,
		limiter:        limiter,
	}
}

// Start reads commands until ctx is done. Read and handler errors are logged
// and the loop moves on to the next message.
func (c *KafkaConsumerService) Start(ctx context.Context) error {
	c.logger.Info("Kafka consumer started. Waiting for commands...")

	for {
		msg, err := c.consumer.ReadMessage(ctx)
		if err != nil {
			if isDone(err) {
				c.logger.Info("Context done, exiting Kafka read loop.", zap.Error(err))
				break
			}
			c.logger.Error("❌ Error reading from Kafka", zap.Error(err))
			continue
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				c.logger.Info("Context done while throttled, exiting Kafka read loop.", zap.Error(err))
				break
			}
		}

		if err := c.messageHandler.HandleCommand(ctx, *msg); err != nil {
			continue
		}
	}

	c.logger.Info("Consumer service finished. Shutting down...")
	return nil
}

func isDone(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
