// Package events carries order lifecycle events between the API and the
// notifier process over Kafka.
package events

import (
	"context"
	"time"
)

const TypeOrderPaid = "order.paid"

// OrderPaidEvent is published once per order, after its payment settled.
type OrderPaidEvent struct {
	Type       string    `json:"type"`
	OrderID    uint      `json:"order_id"`
	UserID     uint      `json:"user_id"`
	TotalPrice string    `json:"total_price"`
	PaidAt     time.Time `json:"paid_at"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Handler reacts to a settled order.
type Handler func(ctx context.Context, event OrderPaidEvent) error

type Publisher interface {
	PublishOrderPaid(ctx context.Context, event OrderPaidEvent) error
	Close() error
}

// InlinePublisher runs the handler in the caller's goroutine. It stands in
// for Kafka when no brokers are configured.
type InlinePublisher struct {
	handler Handler
}

func NewInlinePublisher(handler Handler) *InlinePublisher {
	return &InlinePublisher{handler: handler}
}

func (p *InlinePublisher) PublishOrderPaid(ctx context.Context, event OrderPaidEvent) error {
	if event.Type == "" {
		event.Type = TypeOrderPaid
	}
	if p.handler == nil {
		return nil
	}
	return p.handler(ctx, event)
}

func (p *InlinePublisher) Close() error { return nil }
