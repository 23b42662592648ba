package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/prostore/prostore-backend/pkg/logger"
	"github.com/segmentio/kafka-go"
)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type Consumer struct {
	reader messageReader
}

func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{reader: reader}
}

// Consume feeds order.paid events to handler until ctx is cancelled.
// Undecodable messages and handler failures are logged and skipped.
func (c *Consumer) Consume(ctx context.Context, handler Handler) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			logger.Error("Error reading message", err)
			continue
		}

		var event OrderPaidEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Warn("Skipping undecodable message", map[string]interface{}{
				"offset": msg.Offset,
				"error":  err.Error(),
			})
			continue
		}
		if event.Type != TypeOrderPaid {
			continue
		}

		if err := handler(ctx, event); err != nil {
			logger.Error("Error handling order event", err, map[string]interface{}{
				"order_id": event.OrderID,
				"offset":   msg.Offset,
			})
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
