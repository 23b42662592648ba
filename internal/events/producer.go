package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/prostore/prostore-backend/pkg/logger"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer messageWriter
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
	}
	return &Producer{writer: writer}
}

// PublishOrderPaid keys the message by order id so every event of one order
// lands on the same partition.
func (p *Producer) PublishOrderPaid(ctx context.Context, event OrderPaidEvent) error {
	if event.Type == "" {
		event.Type = TypeOrderPaid
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	key := strconv.FormatUint(uint64(event.OrderID), 10)
	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  event.OccurredAt,
	}); err != nil {
		logger.Error("Failed to publish order event", err, map[string]interface{}{
			"order_id": event.OrderID,
			"type":     event.Type,
		})
		return err
	}

	logger.Debug("Order event published", map[string]interface{}{
		"order_id": event.OrderID,
		"type":     event.Type,
	})
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
